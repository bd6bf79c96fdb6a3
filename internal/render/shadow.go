package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
)

// ShadowOptions configures the drop shadow effect applied to an image.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// ShadowResult captures the output of ApplyShadow.
type ShadowResult struct {
	// Image is the composited image that includes the blurred shadow.
	Image *image.RGBA
	// Offset reports how far the original image content was translated when
	// rebasing onto the expanded canvas. It can be used by callers to adjust
	// viewport offsets so the on-screen location of the content remains
	// stable.
	Offset image.Point
}

// DefaultShadowOptions returns the drop shadow used by render -shadow.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  24,
		Offset:  image.Pt(16, 16),
		Opacity: 0.55,
	}
}

// ApplyShadow composites img with a blurred drop shadow using opts. The result
// always has a non-negative origin so it can be used directly with RGBA
// routines that expect zero-based bounds. The returned Offset indicates where
// the original image's top-left corner ended up inside the expanded canvas.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) ShadowResult {
	if img == nil {
		return ShadowResult{}
	}
	if img.Bounds().Empty() {
		return ShadowResult{Image: img}
	}
	if opts.Opacity <= 0 {
		return ShadowResult{Image: img}
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	srcBounds := img.Bounds()
	paddedBounds := srcBounds
	if radius > 0 {
		paddedBounds = paddedBounds.Inset(-radius)
	}

	shadowBounds := paddedBounds.Add(opts.Offset)
	compositeBounds := srcBounds.Union(shadowBounds)
	dstRect := compositeBounds.Sub(compositeBounds.Min)
	width := dstRect.Dx()
	height := dstRect.Dy()
	if width <= 0 || height <= 0 {
		return ShadowResult{Image: img}
	}

	shift := srcBounds.Min.Sub(compositeBounds.Min)
	shadowOrigin := shadowBounds.Min.Sub(compositeBounds.Min)

	mask := image.NewAlpha(paddedBounds.Sub(paddedBounds.Min))
	for y := srcBounds.Min.Y; y < srcBounds.Max.Y; y++ {
		for x := srcBounds.Min.X; x < srcBounds.Max.X; x++ {
			a := img.RGBAAt(x, y).A
			if a == 0 {
				continue
			}
			mask.SetAlpha(x-paddedBounds.Min.X, y-paddedBounds.Min.Y, color.Alpha{A: a})
		}
	}

	blurred := blur.Gaussian(mask, float64(radius))

	dst := image.NewRGBA(dstRect)
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
	shadowAlpha := uint8(opacity*255 + 0.5)
	if shadowAlpha > 0 {
		draw.DrawMask(dst, blurred.Bounds().Add(shadowOrigin), image.NewUniform(color.RGBA{0, 0, 0, shadowAlpha}), image.Point{}, blurred, blurred.Bounds().Min, draw.Over)
	}
	draw.Draw(dst, srcBounds.Sub(compositeBounds.Min), img, srcBounds.Min, draw.Over)

	return ShadowResult{Image: dst, Offset: shift}
}

// GlowRect paints a soft halo of col around the outline of r, similar to a
// canvas shadowBlur applied to a stroked rectangle. lineWidth is the outline
// thickness that casts the halo.
func GlowRect(dst *image.RGBA, r image.Rectangle, col color.NRGBA, lineWidth int, radius float64) {
	if dst == nil || col.A == 0 || radius <= 0 || r.Empty() {
		return
	}
	if lineWidth < 1 {
		lineWidth = 1
	}
	pad := int(radius*2 + 1)
	area := r.Inset(-pad - lineWidth)
	clip := area.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}
	mask := image.NewAlpha(area.Sub(area.Min))
	ring := r.Sub(area.Min)
	opaque := image.NewUniform(color.Alpha{A: col.A})
	for _, side := range outline(ring, lineWidth) {
		draw.Draw(mask, side, opaque, image.Point{}, draw.Src)
	}
	blurred := blur.Gaussian(mask, radius)
	src := image.NewUniform(color.NRGBA{col.R, col.G, col.B, 255})
	draw.DrawMask(dst, clip, src, image.Point{}, blurred, clip.Min.Sub(area.Min).Add(blurred.Bounds().Min), draw.Over)
}

// outline returns the four bands making up a rectangle border of width w
// centred on the edges of r.
func outline(r image.Rectangle, w int) []image.Rectangle {
	lo := w / 2
	hi := w - lo
	return []image.Rectangle{
		image.Rect(r.Min.X-lo, r.Min.Y-lo, r.Max.X+hi, r.Min.Y+hi),
		image.Rect(r.Min.X-lo, r.Max.Y-lo, r.Max.X+hi, r.Max.Y+hi),
		image.Rect(r.Min.X-lo, r.Min.Y-lo, r.Min.X+hi, r.Max.Y+hi),
		image.Rect(r.Max.X-lo, r.Min.Y-lo, r.Max.X+hi, r.Max.Y+hi),
	}
}

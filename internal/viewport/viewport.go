// Package viewport maps between image (logical) coordinates and screen
// coordinates under pan and zoom.
package viewport

import (
	"math"

	"github.com/example/picannotate/internal/geom"
)

// Viewport is the affine transform screen = logical*Scale + Origin.
// The zero value is not usable, start from Identity.
type Viewport struct {
	Scale   float64
	OriginX float64
	OriginY float64
}

// Identity returns the 1:1 viewport anchored at the screen origin.
func Identity() Viewport {
	return Viewport{Scale: 1}
}

// Valid reports whether v has a positive finite scale and finite origin.
func (v Viewport) Valid() bool {
	return v.Scale > 0 && finite(v.Scale) && finite(v.OriginX) && finite(v.OriginY)
}

// ToLogical converts a screen position into image coordinates.
func (v Viewport) ToLogical(sx, sy float64) (x, y float64) {
	return (sx - v.OriginX) / v.Scale, (sy - v.OriginY) / v.Scale
}

// ToScreenPoint converts an image position into screen coordinates.
func (v Viewport) ToScreenPoint(x, y float64) (sx, sy float64) {
	return x*v.Scale + v.OriginX, y*v.Scale + v.OriginY
}

// ToScreen scales and offsets a logical rectangle.
func (v Viewport) ToScreen(r geom.Rect) geom.Rect {
	return geom.Rect{
		X:      r.X*v.Scale + v.OriginX,
		Y:      r.Y*v.Scale + v.OriginY,
		Width:  r.Width * v.Scale,
		Height: r.Height * v.Scale,
	}
}

// Fit scales an image of imgW x imgH so it fills the canvas along the
// limiting axis and centres it along the other. It returns v unchanged and
// false when any dimension is degenerate.
func (v Viewport) Fit(imgW, imgH, canvasW, canvasH float64) (Viewport, bool) {
	if !(imgW > 0 && imgH > 0 && canvasW > 0 && canvasH > 0) {
		return v, false
	}
	imageAspect := imgH / imgW
	canvasAspect := canvasH / canvasW
	if !finite(imageAspect) || !finite(canvasAspect) {
		return v, false
	}
	var out Viewport
	if imageAspect < canvasAspect {
		out.Scale = canvasW / imgW
		out.OriginY = (canvasH - out.Scale*imgH) / 2
	} else {
		out.Scale = canvasH / imgH
		out.OriginX = (canvasW - out.Scale*imgW) / 2
	}
	if !out.Valid() {
		return v, false
	}
	return out, true
}

// ZoomAt changes the scale to newScale, clamped to [min, max], keeping the
// logical point under (sx, sy) at the same screen position.
func (v Viewport) ZoomAt(sx, sy, newScale, min, max float64) Viewport {
	if !v.Valid() || math.IsNaN(newScale) {
		return v
	}
	if newScale > max {
		newScale = max
	}
	if newScale < min {
		newScale = min
	}
	if newScale <= 0 {
		return v
	}
	return Viewport{
		Scale:   newScale,
		OriginX: sx - ((sx-v.OriginX)/v.Scale)*newScale,
		OriginY: sy - ((sy-v.OriginY)/v.Scale)*newScale,
	}
}

// Scroll applies a wheel delta: the scale moves linearly by delta*speed.
func (v Viewport) Scroll(sx, sy, delta, speed, min, max float64) Viewport {
	return v.ZoomAt(sx, sy, v.Scale+delta*speed, min, max)
}

// Pan shifts the origin by a screen delta.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.OriginX += dx
	v.OriginY += dy
	return v
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

package stage

import (
	"context"
	"errors"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/picannotate/internal/annotation"
	"github.com/example/picannotate/internal/geom"
	"github.com/example/picannotate/internal/render"
	"github.com/example/picannotate/internal/theme"
	"github.com/example/picannotate/internal/transformer"
	"github.com/example/picannotate/internal/viewport"
)

// Frame is an immutable snapshot of everything needed to draw the stage.
// It can be painted from any goroutine.
type Frame struct {
	Image       image.Image
	Viewport    viewport.Viewport
	Annotations []annotation.Annotation
	SelectedID  string
	Theme       *theme.Theme
	Input       InputState
	Width       int
	Height      int
}

// Frame snapshots the current state for painting.
func (s *Stage) Frame() Frame {
	return Frame{
		Image:       s.img,
		Viewport:    s.vp,
		Annotations: s.Annotations(),
		SelectedID:  s.ctx.SelectedID,
		Theme:       s.theme,
		Input:       s.input,
		Width:       int(s.canvasW),
		Height:      int(s.canvasH),
	}
}

// Paint draws the image layer and then the shape layer onto dst. The
// transformer is drawn directly after the selected shape. Paint returns
// ctx.Err() if it was cancelled between shapes.
func (f Frame) Paint(ctx context.Context, dst *image.RGBA) error {
	if err := f.PaintImage(ctx, dst); err != nil {
		return err
	}
	return f.PaintShapes(ctx, render.NewRGBA(dst))
}

// ErrNoImage is returned by Flatten before an image has loaded.
var ErrNoImage = errors.New("no image loaded")

// Flatten renders the image and its annotations at scale 1 into a new
// image the size of the source image.
func (f Frame) Flatten(ctx context.Context) (*image.RGBA, error) {
	if f.Image == nil {
		return nil, ErrNoImage
	}
	b := f.Image.Bounds()
	f.Viewport = viewport.Identity()
	f.Width, f.Height = b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if err := f.Paint(ctx, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// PaintImage draws the image scaled and offset by the viewport.
func (f Frame) PaintImage(ctx context.Context, dst *image.RGBA) error {
	if f.Image == nil || !f.Viewport.Valid() {
		return ctx.Err()
	}
	b := f.Image.Bounds()
	target := f.Viewport.ToScreen(geom.Rect{Width: float64(b.Dx()), Height: float64(b.Dy())}).Image()
	if target.Intersect(dst.Bounds()).Empty() {
		return ctx.Err()
	}
	var scaler xdraw.Scaler = xdraw.NearestNeighbor
	if f.Viewport.Scale < 1 {
		scaler = xdraw.ApproxBiLinear
	}
	scaler.Scale(dst, target, f.Image, b, draw.Over, nil)
	return ctx.Err()
}

// PaintShapes draws every annotation in z-order onto c.
func (f Frame) PaintShapes(ctx context.Context, c render.Canvas) error {
	style := f.Theme
	if style == nil {
		style = theme.Default()
	}
	for _, a := range f.Annotations {
		if err := ctx.Err(); err != nil {
			return err
		}
		sh := annotation.NewShape(a, nil, style)
		selected := a.ID == f.SelectedID && f.SelectedID != ""
		sh.Paint(c, f.Viewport.ToScreen, selected)
		if selected {
			transformer.New(sh, f.Viewport.Scale).Paint(c, f.Viewport.ToScreen)
		}
	}
	return nil
}

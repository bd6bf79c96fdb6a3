package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Canvas is the drawing surface shapes and handles paint onto. Coordinates
// are screen pixels.
type Canvas interface {
	Bounds() image.Rectangle
	FillRect(r image.Rectangle, col color.Color)
	StrokeRect(r image.Rectangle, col color.Color, width int)
	// Glow paints a blurred halo of col around the outline of r.
	Glow(r image.Rectangle, col color.NRGBA, width int, radius float64)
	Text(x, y int, text string, col color.Color, size float64) error
	MeasureText(text string, size float64) (width, height int, err error)
}

// RGBA is a Canvas backed by an *image.RGBA. All drawing is composited with
// draw.Over so translucent fills blend with the photo beneath.
type RGBA struct {
	Dst *image.RGBA
}

// NewRGBA wraps dst.
func NewRGBA(dst *image.RGBA) *RGBA {
	return &RGBA{Dst: dst}
}

func (c *RGBA) Bounds() image.Rectangle { return c.Dst.Bounds() }

func (c *RGBA) FillRect(r image.Rectangle, col color.Color) {
	r = r.Canon().Intersect(c.Dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.Dst, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// StrokeRect draws the border of r centred on its edges.
func (c *RGBA) StrokeRect(r image.Rectangle, col color.Color, width int) {
	if width < 1 {
		width = 1
	}
	r = r.Canon()
	for _, side := range strokeBands(r, width) {
		c.FillRect(side, col)
	}
}

func (c *RGBA) Glow(r image.Rectangle, col color.NRGBA, width int, radius float64) {
	GlowRect(c.Dst, r.Canon(), col, width, radius)
}

func (c *RGBA) Text(x, y int, text string, col color.Color, size float64) error {
	return DrawText(c.Dst, x, y, text, col, size)
}

func (c *RGBA) MeasureText(text string, size float64) (int, int, error) {
	w, h, _, err := MeasureText(text, size)
	return w, h, err
}

// strokeBands is outline without overlapping corners so translucent
// strokes do not darken where bands meet.
func strokeBands(r image.Rectangle, w int) []image.Rectangle {
	lo := w / 2
	hi := w - lo
	outer := image.Rect(r.Min.X-lo, r.Min.Y-lo, r.Max.X+hi, r.Max.Y+hi)
	inner := image.Rect(r.Min.X+hi, r.Min.Y+hi, r.Max.X-lo, r.Max.Y-lo)
	if inner.Dx() <= 0 || inner.Dy() <= 0 {
		return []image.Rectangle{outer}
	}
	return []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y),
		image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y),
		image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y),
		image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y),
	}
}

// Recorder is a Canvas that remembers every call instead of drawing.
type Recorder struct {
	Size  image.Rectangle
	Calls []Call
	// TextErr is returned from Text when set.
	TextErr error
}

// Call is one recorded drawing operation.
type Call struct {
	Op    string
	Rect  image.Rectangle
	Color color.Color
	Width int
	Text  string
}

func (r *Recorder) Bounds() image.Rectangle { return r.Size }

func (r *Recorder) FillRect(rect image.Rectangle, col color.Color) {
	r.Calls = append(r.Calls, Call{Op: "fill", Rect: rect, Color: col})
}

func (r *Recorder) StrokeRect(rect image.Rectangle, col color.Color, width int) {
	r.Calls = append(r.Calls, Call{Op: "stroke", Rect: rect, Color: col, Width: width})
}

func (r *Recorder) Glow(rect image.Rectangle, col color.NRGBA, width int, radius float64) {
	r.Calls = append(r.Calls, Call{Op: "glow", Rect: rect, Color: col, Width: width})
}

func (r *Recorder) Text(x, y int, text string, col color.Color, size float64) error {
	r.Calls = append(r.Calls, Call{Op: "text", Rect: image.Rect(x, y, x, y), Color: col, Text: text})
	return r.TextErr
}

// MeasureText uses a fixed advance of half the font size per rune so
// layouts are deterministic without loading a font.
func (r *Recorder) MeasureText(text string, size float64) (int, int, error) {
	if size <= 0 {
		size = DefaultTextSize
	}
	n := len([]rune(text))
	return int(float64(n) * size / 2), int(size), nil
}

// Ops returns the recorded operation names in order.
func (r *Recorder) Ops() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Op
	}
	return out
}

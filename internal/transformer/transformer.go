// Package transformer implements the eight resize handles shown around the
// selected shape.
package transformer

import (
	"math"

	"github.com/example/picannotate/internal/annotation"
	"github.com/example/picannotate/internal/geom"
	"github.com/example/picannotate/internal/render"
	"github.com/example/picannotate/internal/theme"
)

// Handle identifies one of the eight handles.
type Handle int

// HandleNone means no handle is under the cursor.
const HandleNone Handle = -1

const (
	TopLeft Handle = iota
	TopMid
	TopRight
	MidLeft
	MidRight
	BottomLeft
	BottomMid
	BottomRight
)

var handleNames = [...]string{"top-left", "top-mid", "top-right", "mid-left", "mid-right", "bottom-left", "bottom-mid", "bottom-right"}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return "none"
	}
	return handleNames[h]
}

// Transformer is bound to one selected shape. It keeps no geometry of its
// own: handle positions are derived from the shape every time they are
// needed.
type Transformer struct {
	shape   annotation.Shape
	scale   float64
	size    float64
	grabbed Handle
}

// New binds a transformer to shape at the given viewport scale. The handle
// size comes from the shape's style and stays constant on screen.
func New(shape annotation.Shape, scale float64) *Transformer {
	size := theme.Default().TransformerSize
	if st := shape.Style(); st != nil && st.TransformerSize > 0 {
		size = st.TransformerSize
	}
	t := &Transformer{shape: shape, size: size, grabbed: HandleNone}
	t.SetScale(scale)
	return t
}

// Shape returns the shape the handles belong to.
func (t *Transformer) Shape() annotation.Shape { return t.shape }

// Grabbed returns the handle recorded by Start.
func (t *Transformer) Grabbed() Handle { return t.grabbed }

// SetScale updates the viewport scale used to size the handle boxes.
// Non-positive or non-finite values are ignored.
func (t *Transformer) SetScale(scale float64) {
	if scale > 0 && !math.IsInf(scale, 0) {
		t.scale = scale
	} else if t.scale == 0 {
		t.scale = 1
	}
}

type center struct {
	x, y   float64
	adjust func(px, py float64) annotation.MarkAdjust
}

// centers recomputes the handle table from the shape's current geometry.
func (t *Transformer) centers() [8]center {
	m := t.shape.Annotation().Mark
	x, y, w, h := m.X, m.Y, m.Width, m.Height
	f := annotation.F
	return [8]center{
		TopLeft: {x, y, func(px, py float64) annotation.MarkAdjust {
			return annotation.MarkAdjust{X: f(px), Y: f(py), Width: f(w + x - px), Height: f(h + y - py)}
		}},
		TopMid: {x + w/2, y, func(_, py float64) annotation.MarkAdjust {
			return annotation.MarkAdjust{Y: f(py), Height: f(h + y - py)}
		}},
		TopRight: {x + w, y, func(px, py float64) annotation.MarkAdjust {
			return annotation.MarkAdjust{X: f(x), Y: f(py), Width: f(px - x), Height: f(y + h - py)}
		}},
		MidLeft: {x, y + h/2, func(px, _ float64) annotation.MarkAdjust {
			return annotation.MarkAdjust{X: f(px), Width: f(w + x - px)}
		}},
		MidRight: {x + w, y + h/2, func(px, _ float64) annotation.MarkAdjust {
			return annotation.MarkAdjust{Width: f(px - x)}
		}},
		BottomLeft: {x, y + h, func(px, py float64) annotation.MarkAdjust {
			return annotation.MarkAdjust{X: f(px), Width: f(w + x - px), Height: f(py - y)}
		}},
		BottomMid: {x + w/2, y + h, func(_, py float64) annotation.MarkAdjust {
			return annotation.MarkAdjust{Height: f(py - y)}
		}},
		BottomRight: {x + w, y + h, func(px, py float64) annotation.MarkAdjust {
			return annotation.MarkAdjust{Width: f(px - x), Height: f(py - y)}
		}},
	}
}

// side is the handle box edge length in logical units.
func (t *Transformer) side() float64 {
	return t.size / t.scale
}

// HandleAt returns the first handle whose box contains (x, y), box edges
// included, or HandleNone.
func (t *Transformer) HandleAt(x, y float64) Handle {
	half := t.side() / 2
	for i, c := range t.centers() {
		if math.Abs(x-c.x) <= half && math.Abs(y-c.y) <= half {
			return Handle(i)
		}
	}
	return HandleNone
}

// HitTest reports whether any handle is under (x, y).
func (t *Transformer) HitTest(x, y float64) bool {
	return t.HandleAt(x, y) != HandleNone
}

// Start records the handle under (x, y). It returns false when there is
// none, in which case Transform does nothing.
func (t *Transformer) Start(x, y float64) bool {
	t.grabbed = t.HandleAt(x, y)
	return t.grabbed != HandleNone
}

// Transform applies the grabbed handle's rule for the cursor at (x, y)
// against the shape's current geometry.
func (t *Transformer) Transform(x, y float64) {
	if t.grabbed < TopLeft || t.grabbed > BottomRight {
		return
	}
	t.shape.Adjust(t.centers()[t.grabbed].adjust(x, y))
}

// Boxes returns the logical rectangles of the eight handles in handle order.
func (t *Transformer) Boxes() [8]geom.Rect {
	var out [8]geom.Rect
	s := t.side()
	for i, c := range t.centers() {
		out[i] = geom.Rect{X: c.x - s/2, Y: c.y - s/2, Width: s, Height: s}
	}
	return out
}

// Paint fills every handle box.
func (t *Transformer) Paint(c render.Canvas, toScreen func(geom.Rect) geom.Rect) {
	col := theme.Default().TransformerBackground
	if st := t.shape.Style(); st != nil {
		col = st.TransformerBackground
	}
	for _, b := range t.Boxes() {
		c.FillRect(toScreen(b).Image(), col)
	}
}

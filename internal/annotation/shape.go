package annotation

import (
	"sync"

	"github.com/example/picannotate/internal/geom"
	"github.com/example/picannotate/internal/render"
	"github.com/example/picannotate/internal/theme"
)

// Shape is the runtime form of one Annotation. A shape owns its own copy of
// the annotation and reports geometry edits through the onChange callback
// it was built with.
type Shape interface {
	// DragStart records the cursor offset from the top-left corner.
	DragStart(x, y float64)
	// Drag moves the shape so the recorded offset is kept and notifies.
	Drag(x, y float64)
	// HitTest reports whether (x, y) lies strictly inside the shape.
	HitTest(x, y float64) bool
	// Paint draws the shape and returns its screen rectangle.
	Paint(c render.Canvas, toScreen func(geom.Rect) geom.Rect, selected bool) geom.Rect
	// Adjust merges a over the current geometry and notifies.
	Adjust(a MarkAdjust)
	// SetComment replaces the comment without notifying.
	SetComment(text string)
	Equal(other Annotation) bool
	Annotation() Annotation
	Style() *theme.Theme
}

// Factory builds a shape variant.
type Factory func(a Annotation, onChange func(), style *theme.Theme) Shape

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{
		TypeRect: func(a Annotation, onChange func(), style *theme.Theme) Shape {
			return NewRect(a, onChange, style)
		},
	}
)

// Register makes a shape variant available to NewShape under typ.
func Register(typ string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[typ] = f
}

// NewShape builds the variant registered for a.Mark.Type. Unknown types
// are treated as rectangles.
func NewShape(a Annotation, onChange func(), style *theme.Theme) Shape {
	factoriesMu.RLock()
	f, ok := factories[a.Mark.Type]
	if !ok {
		f = factories[TypeRect]
	}
	factoriesMu.RUnlock()
	return f(a, onChange, style)
}

// Package interaction implements the pointer state machine that creates,
// selects, moves and resizes shapes.
package interaction

import (
	"log/slog"
	"slices"

	"github.com/example/picannotate/internal/annotation"
	"github.com/example/picannotate/internal/geom"
	"github.com/example/picannotate/internal/theme"
	"github.com/example/picannotate/internal/transformer"
)

// State is the current pointer interaction.
type State int

const (
	Default State = iota
	Creating
	Dragging
	Transforming
)

func (s State) String() string {
	switch s {
	case Default:
		return "default"
	case Creating:
		return "creating"
	case Dragging:
		return "dragging"
	case Transforming:
		return "transforming"
	}
	return "unknown"
}

// Context is the data the transitions operate on. It is owned by the
// stage and passed in on every event; the machine keeps no reference to it.
// Shapes are in z-order, the last one is on top.
type Context struct {
	Shapes      []annotation.Shape
	SelectedID  string
	Transformer *transformer.Transformer
	Scale       float64
	// DefaultSize, when set, is applied to click-created shapes while
	// nothing is selected.
	DefaultSize *geom.Size
	NewID       annotation.IDGenerator
	Style       *theme.Theme

	// OnShapeChange repaints and reports the list. New shapes use it as
	// their change callback.
	OnShapeChange func()
	// Select changes the selection and drops the transformer. When nil the
	// fields are updated directly.
	Select func(id string)
}

func (c *Context) changed() {
	if c.OnShapeChange != nil {
		c.OnShapeChange()
	}
}

func (c *Context) selectID(id string) {
	if c.Select != nil {
		c.Select(id)
		return
	}
	c.SelectedID = id
	c.Transformer = nil
}

func (c *Context) top() annotation.Shape {
	if len(c.Shapes) == 0 {
		return nil
	}
	return c.Shapes[len(c.Shapes)-1]
}

func (c *Context) newID() string {
	if c.NewID == nil {
		c.NewID = annotation.ShortID(annotation.DefaultIDLength)
	}
	return c.NewID()
}

// Machine holds the current State. Transitions are plain methods taking
// the Context so the machine and the stage do not reference each other.
type Machine struct {
	State  State
	Logger *slog.Logger
}

func (m *Machine) transition(next State) {
	prev := m.State
	if prev == next {
		return
	}
	m.State = next
	if m.Logger != nil {
		m.Logger.Debug("interaction state", "from", prev.String(), "to", next.String())
	}
}

// Reset abandons any in-progress interaction.
func (m *Machine) Reset() {
	m.transition(Default)
}

// MouseDown handles a button press at logical (x, y). Only the Default
// state reacts.
func (m *Machine) MouseDown(c *Context, x, y float64) {
	if m.State != Default {
		return
	}

	if c.Transformer != nil && c.Transformer.Start(x, y) {
		m.transition(Transforming)
		return
	}

	for i := len(c.Shapes) - 1; i >= 0; i-- {
		s := c.Shapes[i]
		if !s.HitTest(x, y) {
			continue
		}
		c.selectID(s.Annotation().ID)
		c.Transformer = transformer.New(s, c.Scale)
		c.Shapes = append(slices.Delete(c.Shapes, i, i+1), s)
		s.DragStart(x, y)
		c.changed()
		m.transition(Dragging)
		return
	}

	c.Shapes = append(c.Shapes, annotation.NewShape(annotation.Annotation{
		ID:   c.newID(),
		Mark: annotation.Mark{Type: annotation.TypeRect, X: x, Y: y},
	}, c.OnShapeChange, c.Style))
	m.transition(Creating)
}

// MouseMove handles pointer motion at logical (x, y).
func (m *Machine) MouseMove(c *Context, x, y float64) {
	switch m.State {
	case Creating:
		if s := c.top(); s != nil {
			mark := s.Annotation().Mark
			s.Adjust(annotation.MarkAdjust{Width: annotation.F(x - mark.X), Height: annotation.F(y - mark.Y)})
		}
	case Dragging:
		if s := c.top(); s != nil {
			s.Drag(x, y)
		}
	case Transforming:
		if c.Transformer != nil {
			c.Transformer.Transform(x, y)
		}
	}
}

// MouseUp ends the current interaction.
func (m *Machine) MouseUp(c *Context) {
	if m.State == Creating {
		m.finishCreating(c)
	}
	m.transition(Default)
}

// MouseLeave behaves like MouseUp.
func (m *Machine) MouseLeave(c *Context) {
	m.MouseUp(c)
}

// finishCreating keeps a shape with area and selects it. A shape without
// area is snapped to DefaultSize when nothing is selected, otherwise it is
// dropped and the selection cleared.
func (m *Machine) finishCreating(c *Context) {
	s := c.top()
	if s == nil {
		return
	}
	mark := s.Annotation().Mark
	if mark.Width != 0 && mark.Height != 0 {
		c.selectID(s.Annotation().ID)
		c.changed()
		return
	}
	if c.DefaultSize != nil && c.SelectedID == "" {
		c.selectID(s.Annotation().ID)
		s.Adjust(annotation.MarkAdjust{Width: annotation.F(c.DefaultSize.Width), Height: annotation.F(c.DefaultSize.Height)})
		return
	}
	c.Shapes = c.Shapes[:len(c.Shapes)-1]
	c.selectID("")
	c.changed()
}

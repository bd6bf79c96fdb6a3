package annotation

import (
	"image"
	"log/slog"
	"math"

	"github.com/example/picannotate/internal/geom"
	"github.com/example/picannotate/internal/render"
	"github.com/example/picannotate/internal/theme"
)

// RectShape is the rectangle variant of Shape.
type RectShape struct {
	data     Annotation
	onChange func()
	style    *theme.Theme

	offX, offY float64
}

// NewRect wraps a copy of a. A nil style selects theme.Default.
func NewRect(a Annotation, onChange func(), style *theme.Theme) *RectShape {
	if style == nil {
		style = theme.Default()
	}
	if a.Mark.Type == "" {
		a.Mark.Type = TypeRect
	}
	return &RectShape{data: a, onChange: onChange, style: style}
}

func (s *RectShape) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *RectShape) DragStart(x, y float64) {
	s.offX = x - s.data.Mark.X
	s.offY = y - s.data.Mark.Y
}

func (s *RectShape) Drag(x, y float64) {
	s.data.Mark.X = x - s.offX
	s.data.Mark.Y = y - s.offY
	s.notify()
}

func (s *RectShape) HitTest(x, y float64) bool {
	return s.data.Mark.Rect().Contains(x, y)
}

// Paint strokes the border with a soft shadow. Selected shapes get a
// translucent fill, other shapes show their comment in a label at the
// top-left corner.
func (s *RectShape) Paint(c render.Canvas, toScreen func(geom.Rect) geom.Rect, selected bool) geom.Rect {
	st := s.style
	screen := toScreen(s.data.Mark.Rect())
	if !screen.Finite() {
		return screen
	}
	r := screen.Image()
	lw := int(math.Round(st.LineWidth))
	c.Glow(r, st.ShapeShadowStyle, lw, st.ShadowBlur/2)
	c.StrokeRect(r, st.ShapeStrokeStyle, lw)

	if selected {
		c.FillRect(r, st.ShapeBackground)
		return screen
	}
	if s.data.Comment == "" {
		return screen
	}
	w, _, err := c.MeasureText(s.data.Comment, st.FontSize)
	if err != nil {
		return screen
	}
	x := int(math.Round(screen.X))
	y := int(math.Round(screen.Y))
	pad := int(math.Round(st.Padding))
	label := image.Rect(x, y, x+w+2*pad, y+int(math.Round(st.FontSize))+2*pad)
	c.FillRect(label, st.FontBackground)
	if err := c.Text(x+pad, y+pad, s.data.Comment, st.FontColor, st.FontSize); err != nil {
		slog.Warn("draw comment", "id", s.data.ID, "err", err)
	}
	return screen
}

func (s *RectShape) Adjust(a MarkAdjust) {
	s.data.Mark = a.Apply(s.data.Mark)
	s.notify()
}

func (s *RectShape) SetComment(text string) {
	s.data.Comment = text
}

func (s *RectShape) Equal(other Annotation) bool {
	return s.data.Equal(other)
}

// Annotation returns a copy of the shape's data.
func (s *RectShape) Annotation() Annotation {
	return s.data
}

func (s *RectShape) Style() *theme.Theme {
	return s.style
}

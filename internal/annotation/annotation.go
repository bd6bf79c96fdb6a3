// Package annotation holds the annotation data model and the shapes that
// draw and edit it.
package annotation

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/example/picannotate/internal/geom"
)

// TypeRect is the Mark type of axis aligned rectangles.
const TypeRect = "RECT"

// Mark is the geometry of an annotation in image (logical) coordinates.
// Width and Height may be negative while a shape is being created.
type Mark struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect returns the geometry without the type tag.
func (m Mark) Rect() geom.Rect {
	return geom.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

// UnmarshalJSON reads a missing type as TypeRect.
func (m *Mark) UnmarshalJSON(b []byte) error {
	type plain Mark
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.Type == "" {
		p.Type = TypeRect
	}
	*m = Mark(p)
	return nil
}

// MarkAdjust is a partial geometry update. Nil fields keep their value.
type MarkAdjust struct {
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
}

// F returns a pointer to v for building a MarkAdjust.
func F(v float64) *float64 { return &v }

// Apply merges a over m.
func (a MarkAdjust) Apply(m Mark) Mark {
	if a.X != nil {
		m.X = *a.X
	}
	if a.Y != nil {
		m.Y = *a.Y
	}
	if a.Width != nil {
		m.Width = *a.Width
	}
	if a.Height != nil {
		m.Height = *a.Height
	}
	return m
}

// Annotation is one user region together with its comment. An empty
// Comment means there is no comment.
type Annotation struct {
	ID      string `json:"id"`
	Comment string `json:"comment,omitempty"`
	Mark    Mark   `json:"mark"`
}

// Equal compares id, comment and geometry. The type tag is ignored.
func (a Annotation) Equal(b Annotation) bool {
	return a.ID == b.ID &&
		a.Comment == b.Comment &&
		a.Mark.X == b.Mark.X &&
		a.Mark.Y == b.Mark.Y &&
		a.Mark.Width == b.Mark.Width &&
		a.Mark.Height == b.Mark.Height
}

// Decode reads a JSON array of annotations.
func Decode(r io.Reader) ([]Annotation, error) {
	var list []Annotation
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode annotations: %w", err)
	}
	if list == nil {
		list = []Annotation{}
	}
	return list, nil
}

// Encode writes list as a single line JSON array. A nil list is written
// as [] so consumers never see null.
func Encode(w io.Writer, list []Annotation) error {
	if list == nil {
		list = []Annotation{}
	}
	return json.NewEncoder(w).Encode(list)
}

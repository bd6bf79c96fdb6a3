package transformer

import (
	"image"
	"testing"

	"github.com/example/picannotate/internal/annotation"
	"github.com/example/picannotate/internal/geom"
	"github.com/example/picannotate/internal/render"
)

func newShape(x, y, w, h float64) annotation.Shape {
	return annotation.NewShape(annotation.Annotation{
		ID:   "a",
		Mark: annotation.Mark{Type: annotation.TypeRect, X: x, Y: y, Width: w, Height: h},
	}, nil, nil)
}

func TestBottomRightHandleScenario(t *testing.T) {
	s := newShape(229, 92, 161, 165)
	tr := New(s, 1)
	if !tr.Start(390, 257) {
		t.Fatal("expected bottom-right handle under cursor")
	}
	if tr.Grabbed() != BottomRight {
		t.Fatalf("grabbed %v", tr.Grabbed())
	}
	tr.Transform(450, 300)
	m := s.Annotation().Mark
	if m.X != 229 || m.Y != 92 || m.Width != 221 || m.Height != 208 {
		t.Fatalf("unexpected mark %+v", m)
	}
}

func TestTopLeftPinsBottomRight(t *testing.T) {
	for _, p := range []geom.Point{{X: 0, Y: 0}, {X: 50, Y: 60}, {X: 200, Y: 300}, {X: -40, Y: 15}} {
		s := newShape(20, 30, 100, 80)
		tr := New(s, 1)
		if !tr.Start(20, 30) {
			t.Fatal("expected top-left handle")
		}
		tr.Transform(p.X, p.Y)
		tr.Transform(p.X+1, p.Y-1)
		m := s.Annotation().Mark
		if m.X+m.Width != 120 || m.Y+m.Height != 110 {
			t.Errorf("cursor %+v moved bottom-right corner to (%v,%v)", p, m.X+m.Width, m.Y+m.Height)
		}
	}
}

func TestHandleRules(t *testing.T) {
	tests := []struct {
		handle Handle
		at     geom.Point
		to     geom.Point
		want   annotation.Mark
	}{
		{TopMid, geom.Point{X: 50, Y: 0}, geom.Point{X: 70, Y: -10}, annotation.Mark{X: 0, Y: -10, Width: 100, Height: 60}},
		{TopRight, geom.Point{X: 100, Y: 0}, geom.Point{X: 120, Y: 10}, annotation.Mark{X: 0, Y: 10, Width: 120, Height: 40}},
		{MidLeft, geom.Point{X: 0, Y: 25}, geom.Point{X: 10, Y: 99}, annotation.Mark{X: 10, Y: 0, Width: 90, Height: 50}},
		{MidRight, geom.Point{X: 100, Y: 25}, geom.Point{X: 130, Y: 99}, annotation.Mark{X: 0, Y: 0, Width: 130, Height: 50}},
		{BottomLeft, geom.Point{X: 0, Y: 50}, geom.Point{X: -10, Y: 70}, annotation.Mark{X: -10, Y: 0, Width: 110, Height: 70}},
		{BottomMid, geom.Point{X: 50, Y: 50}, geom.Point{X: 0, Y: 20}, annotation.Mark{X: 0, Y: 0, Width: 100, Height: 20}},
	}
	for _, tt := range tests {
		s := newShape(0, 0, 100, 50)
		tr := New(s, 1)
		if !tr.Start(tt.at.X, tt.at.Y) || tr.Grabbed() != tt.handle {
			t.Errorf("%v: grabbed %v", tt.handle, tr.Grabbed())
			continue
		}
		tr.Transform(tt.to.X, tt.to.Y)
		got := s.Annotation().Mark
		got.Type = ""
		if got != tt.want {
			t.Errorf("%v: mark %+v, want %+v", tt.handle, got, tt.want)
		}
	}
}

func TestTransformUsesLiveGeometry(t *testing.T) {
	s := newShape(0, 0, 100, 50)
	tr := New(s, 1)
	tr.Start(100, 25)
	tr.Transform(120, 25)
	s.Adjust(annotation.MarkAdjust{X: annotation.F(10)})
	tr.Transform(120, 25)
	if m := s.Annotation().Mark; m.Width != 110 {
		t.Fatalf("width = %v, want 110 computed from the moved shape", m.Width)
	}
}

func TestStartMissReturnsNone(t *testing.T) {
	calls := 0
	s := annotation.NewShape(annotation.Annotation{ID: "a", Mark: annotation.Mark{X: 0, Y: 0, Width: 100, Height: 50}}, func() { calls++ }, nil)
	tr := New(s, 1)
	if tr.Start(50, 25) {
		t.Fatal("centre of the shape is not a handle")
	}
	if tr.Grabbed() != HandleNone {
		t.Fatalf("grabbed %v", tr.Grabbed())
	}
	tr.Transform(10, 10)
	if calls != 0 {
		t.Fatal("Transform without a handle must not touch the shape")
	}
}

func TestHandleBoxScalesWithZoom(t *testing.T) {
	s := newShape(0, 0, 100, 50)
	tr := New(s, 2)
	// At scale 2 the box is 5 logical units wide: 2.5 away is inside, 3 is not.
	if tr.HandleAt(2.5, 2.5) != TopLeft {
		t.Error("expected top-left at the box edge")
	}
	if tr.HandleAt(3, 0) != HandleNone {
		t.Error("expected miss outside the box")
	}
	tr.SetScale(0)
	if tr.HandleAt(3, 0) != HandleNone {
		t.Error("invalid scale must be ignored")
	}

	rec := &render.Recorder{Size: image.Rect(0, 0, 400, 400)}
	toScreen := func(r geom.Rect) geom.Rect {
		return geom.Rect{X: r.X * 2, Y: r.Y * 2, Width: r.Width * 2, Height: r.Height * 2}
	}
	tr.Paint(rec, toScreen)
	if len(rec.Calls) != 8 {
		t.Fatalf("painted %d boxes", len(rec.Calls))
	}
	for _, c := range rec.Calls {
		if c.Rect.Dx() != 10 || c.Rect.Dy() != 10 {
			t.Fatalf("box %v is not 10px on screen", c.Rect)
		}
	}
}

func TestFirstMatchingHandleWins(t *testing.T) {
	s := newShape(10, 10, 0, 0)
	tr := New(s, 1)
	if got := tr.HandleAt(10, 10); got != TopLeft {
		t.Fatalf("HandleAt = %v, want top-left", got)
	}
}

func TestHandleString(t *testing.T) {
	if BottomRight.String() != "bottom-right" || HandleNone.String() != "none" {
		t.Fatal("unexpected handle names")
	}
}

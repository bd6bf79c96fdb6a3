package geom

import (
	"image"
	"testing"
)

func TestContainsIsSignInvariant(t *testing.T) {
	rects := []Rect{
		{X: 10, Y: 10, Width: 20, Height: 30},
		{X: 30, Y: 10, Width: -20, Height: 30},
		{X: 10, Y: 40, Width: 20, Height: -30},
		{X: 30, Y: 40, Width: -20, Height: -30},
	}
	points := []Point{
		{15, 15}, {29.9, 39.9}, {10, 20}, {30, 20}, {20, 10}, {20, 40},
		{5, 5}, {31, 20}, {20, 41}, {20, 25},
	}
	for _, r := range rects {
		for _, p := range points {
			if got, want := r.Contains(p.X, p.Y), r.Normalize().Contains(p.X, p.Y); got != want {
				t.Errorf("%+v.Contains(%v) = %v, normalized says %v", r, p, got, want)
			}
		}
	}
}

func TestContainsExcludesEdges(t *testing.T) {
	r := Rect{X: 229, Y: 92, Width: 161, Height: 165}
	if r.Contains(390, 257) {
		t.Fatal("bottom-right corner should be outside")
	}
	if r.Contains(229, 100) {
		t.Fatal("left edge should be outside")
	}
	if !r.Contains(300, 150) {
		t.Fatal("interior point should be inside")
	}
}

func TestZeroSizeContainsNothing(t *testing.T) {
	r := Rect{X: 5, Y: 5}
	if r.Contains(5, 5) {
		t.Fatal("zero sized rect must not contain its anchor")
	}
	if !r.Empty() {
		t.Fatal("expected empty")
	}
}

func TestNormalize(t *testing.T) {
	got := Rect{X: 50, Y: 60, Width: -20, Height: -10}.Normalize()
	want := Rect{X: 30, Y: 50, Width: 20, Height: 10}
	if got != want {
		t.Fatalf("Normalize = %+v, want %+v", got, want)
	}
}

func TestImageRoundsOutwards(t *testing.T) {
	got := Rect{X: 1.5, Y: 2.2, Width: 3, Height: -1}.Image()
	want := image.Rect(1, 1, 5, 3)
	if got != want {
		t.Fatalf("Image = %v, want %v", got, want)
	}
}

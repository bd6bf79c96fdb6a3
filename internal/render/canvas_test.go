package render

import (
	"image"
	"image/color"
	"testing"
)

func TestStrokeRectCentredOnEdges(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	c := NewRGBA(dst)
	red := color.RGBA{255, 0, 0, 255}
	c.StrokeRect(image.Rect(5, 5, 15, 15), red, 2)

	for _, p := range []image.Point{{4, 4}, {5, 10}, {14, 15}, {10, 4}} {
		if dst.RGBAAt(p.X, p.Y) != red {
			t.Errorf("expected stroke at %v", p)
		}
	}
	for _, p := range []image.Point{{3, 3}, {10, 10}, {6, 6}} {
		if dst.RGBAAt(p.X, p.Y).A != 0 {
			t.Errorf("unexpected paint at %v", p)
		}
	}
}

func TestTranslucentStrokeCornersBlendOnce(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	c := NewRGBA(dst)
	c.StrokeRect(image.Rect(5, 5, 15, 15), color.NRGBA{0, 0, 0, 128}, 2)
	corner := dst.RGBAAt(4, 4).A
	edge := dst.RGBAAt(10, 4).A
	if corner != edge {
		t.Errorf("corner alpha %d differs from edge alpha %d", corner, edge)
	}
}

func TestFillRectClipsAndNormalises(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	c := NewRGBA(dst)
	blue := color.RGBA{0, 0, 255, 255}
	c.FillRect(image.Rectangle{Min: image.Pt(8, 8), Max: image.Pt(-3, -3)}, blue)
	if dst.RGBAAt(0, 0) != blue || dst.RGBAAt(7, 7) != blue {
		t.Fatal("expected the canonical rectangle to be filled")
	}
	if dst.RGBAAt(9, 9).A != 0 {
		t.Fatal("fill leaked beyond the rectangle")
	}
}

func TestTextRendersAndMeasures(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 80, 30))
	c := NewRGBA(dst)
	w, h, err := c.MeasureText("label", 12)
	if err != nil {
		t.Fatal(err)
	}
	if w <= 0 || h <= 0 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
	if err := c.Text(2, 2, "label", color.Black, 12); err != nil {
		t.Fatal(err)
	}
	painted := false
	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] != 0 {
			painted = true
			break
		}
	}
	if !painted {
		t.Fatal("expected glyph pixels")
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{Size: image.Rect(0, 0, 100, 100)}
	r.FillRect(image.Rect(0, 0, 1, 1), color.White)
	r.StrokeRect(image.Rect(0, 0, 1, 1), color.White, 2)
	_ = r.Text(0, 0, "ab", color.Black, 10)
	got := r.Ops()
	want := []string{"fill", "stroke", "text"}
	if len(got) != len(want) {
		t.Fatalf("ops = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ops = %v, want %v", got, want)
		}
	}
	if w, h, _ := r.MeasureText("ab", 10); w != 10 || h != 10 {
		t.Fatalf("MeasureText = %d,%d", w, h)
	}
}

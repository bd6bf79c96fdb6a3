package imagesource

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func writeImage(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "in.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeImage(t, 8, 4)
	for _, ref := range []string{path, "file://" + path, "  " + path + " "} {
		img, err := Load(context.Background(), ref)
		if err != nil {
			t.Fatalf("%q: %v", ref, err)
		}
		if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
			t.Fatalf("%q: bounds %v", ref, b)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(context.Background(), " "); !errors.Is(err, ErrEmptyRef) {
		t.Fatalf("expected ErrEmptyRef, got %v", err)
	}
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := Load(context.Background(), "portal:bogus"); err == nil {
		t.Fatal("expected error for unknown portal mode")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, writeImage(t, 1, 1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadSchemes(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 3, 3))
	prevClip, prevShot := readClipboard, screenshot
	t.Cleanup(func() { readClipboard, screenshot = prevClip, prevShot })

	readClipboard = func() (image.Image, error) { return want, nil }
	var gotInteractive bool
	screenshot = func(_ context.Context, interactive bool) (image.Image, error) {
		gotInteractive = interactive
		return want, nil
	}

	if img, err := Load(context.Background(), "clipboard:"); err != nil || img != want {
		t.Fatalf("clipboard: %v %v", img, err)
	}
	if _, err := Load(context.Background(), "portal:interactive"); err != nil || !gotInteractive {
		t.Fatalf("portal interactive: %v %v", gotInteractive, err)
	}
	readClipboard = func() (image.Image, error) { return nil, errors.New("empty") }
	if _, err := Load(context.Background(), "clipboard:"); err == nil {
		t.Fatal("expected clipboard error")
	}
}

func TestLoadAsyncDelivers(t *testing.T) {
	path := writeImage(t, 2, 2)
	got := make(chan any, 1)
	LoadAsync(context.Background(), path, func(e any) { got <- e })
	select {
	case e := <-got:
		l, ok := e.(Loaded)
		if !ok || l.Ref != path || l.Err != nil || l.Image == nil {
			t.Fatalf("unexpected event %+v", e)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for load")
	}
}

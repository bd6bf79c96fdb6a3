// Package imagesource resolves image references into decoded images.
//
// A reference is a file path (optionally prefixed with file://), "clipboard:"
// for the image currently on the clipboard, or "portal:" / "portal:interactive"
// for a screenshot taken through the desktop portal.
package imagesource

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/example/picannotate/internal/clipboard"
)

const (
	schemeClipboard = "clipboard:"
	schemePortal    = "portal:"
	schemeFile      = "file://"
)

// ErrEmptyRef is returned for a blank reference.
var ErrEmptyRef = errors.New("empty image reference")

// Loaded is delivered by LoadAsync once a reference resolves.
type Loaded struct {
	Ref   string
	Image image.Image
	Err   error
}

var (
	readClipboard = clipboard.ReadImage
	screenshot    = portalScreenshot
)

// Load resolves ref synchronously.
func Load(ctx context.Context, ref string) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyRef
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch {
	case ref == schemeClipboard:
		img, err := readClipboard()
		if err != nil {
			return nil, fmt.Errorf("clipboard image: %w", err)
		}
		return img, nil
	case strings.HasPrefix(ref, schemePortal):
		mode := strings.TrimPrefix(ref, schemePortal)
		if mode != "" && mode != "interactive" {
			return nil, fmt.Errorf("unknown portal mode %q", mode)
		}
		return screenshot(ctx, mode == "interactive")
	default:
		path := strings.TrimPrefix(ref, schemeFile)
		img, err := imaging.Open(path, imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("open image %s: %w", path, err)
		}
		return img, nil
	}
}

// LoadAsync resolves ref on a new goroutine and hands the result to deliver.
// The shell passes its window's Send so the result arrives as an event.
func LoadAsync(ctx context.Context, ref string, deliver func(any)) {
	go func() {
		img, err := Load(ctx, ref)
		deliver(Loaded{Ref: ref, Image: img, Err: err})
	}()
}

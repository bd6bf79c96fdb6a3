package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultTextSize is used when a caller asks for a non-positive size.
const DefaultTextSize = 12

var (
	regularOnce sync.Once
	regularFont *opentype.Font
	regularErr  error
	textFaces   sync.Map // map[float64]font.Face
)

func faceForSize(size float64) (font.Face, error) {
	if size <= 0 || math.IsNaN(size) {
		size = DefaultTextSize
	}
	regularOnce.Do(func() {
		regularFont, regularErr = opentype.Parse(goregular.TTF)
	})
	if regularErr != nil {
		return nil, fmt.Errorf("text font not initialised: %w", regularErr)
	}
	if face, ok := textFaces.Load(size); ok {
		return face.(font.Face), nil
	}
	face, err := opentype.NewFace(regularFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	actual, _ := textFaces.LoadOrStore(size, face)
	return actual.(font.Face), nil
}

// MeasureText returns the dimensions of text rendered at the provided size.
// The returned width and height represent the bounding box, while baseline is
// the offset from the top to the text baseline.
func MeasureText(text string, size float64) (width, height, baseline int, err error) {
	face, err := faceForSize(size)
	if err != nil {
		return 0, 0, 0, err
	}
	drawer := &font.Drawer{Face: face}
	width = drawer.MeasureString(text).Ceil()
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	baseline = ascent
	height = ascent + descent
	return
}

// DrawText renders the provided text with its top-left corner at (x, y).
func DrawText(img *image.RGBA, x, y int, text string, col color.Color, size float64) error {
	face, err := faceForSize(size)
	if err != nil {
		return err
	}
	metrics := face.Metrics()
	baseline := y + metrics.Ascent.Ceil()
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	drawer.DrawString(text)
	return nil
}

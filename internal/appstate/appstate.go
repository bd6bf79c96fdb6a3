// Package appstate hosts the annotation stage in a shiny window.
package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/picannotate/internal/stage"
	"github.com/example/picannotate/internal/theme"
)

// frameDropThreshold bounds how many in-flight frames may be cancelled in a
// row before one is allowed to finish.
const frameDropThreshold = 10

const checkerSize = 8

type paintState struct {
	frame   stage.Frame
	editor  *CommentBox
	input   stage.InputState
	message string
}

type backdrop struct {
	img         *image.RGBA
	light, dark color.Color
}

// backdropCache is only touched by the paint goroutine.
var backdropCache backdrop

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// drawBackdrop fills dst with a cached checkerboard pattern.
func drawBackdrop(dst *image.RGBA, th *theme.Theme) {
	b := dst.Bounds()
	c := &backdropCache
	if c.img == nil || c.img.Bounds() != b || c.light != th.CheckerLight || c.dark != th.CheckerDark {
		c.img = image.NewRGBA(b)
		c.light, c.dark = th.CheckerLight, th.CheckerDark
		drawCheckerboard(c.img, b, checkerSize, th.CheckerLight, th.CheckerDark)
	}
	draw.Draw(dst, b, c.img, b.Min, draw.Src)
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := image.NewUniform(col)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Over)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Over)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y+thick, rect.Min.X+thick, rect.Max.Y-thick), u, image.Point{}, draw.Over)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y+thick, rect.Max.X, rect.Max.Y-thick), u, image.Point{}, draw.Over)
}

func drawMessage(dst *image.RGBA, msg string) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: face}
	w := d.MeasureString(msg).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	b := dst.Bounds()
	px := b.Min.X + (b.Dx()-w)/2
	py := b.Max.Y - descent - 12
	rect := image.Rect(px-8, py-ascent-6, px+w+8, py+descent+6)
	draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
	drawRect(dst, rect, color.Black, 1)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

// composeFrame renders st into dst. It stops early and returns ctx.Err()
// when a newer frame supersedes this one.
func composeFrame(ctx context.Context, dst *image.RGBA, st paintState) error {
	th := st.frame.Theme
	if th == nil {
		th = theme.Default()
	}
	drawBackdrop(dst, th)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := st.frame.Paint(ctx, dst); err != nil {
		return err
	}
	if st.editor != nil {
		drawEditor(dst, st.editor, st.input, th)
	}
	if st.message != "" {
		drawMessage(dst, st.message)
	}
	return ctx.Err()
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState, logger *slog.Logger) {
	width, height := st.frame.Width, st.frame.Height
	if width <= 0 || height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{width, height})
	if err != nil {
		logger.Error("new buffer", "err", err)
		return
	}
	defer b.Release()

	if composeFrame(ctx, b.RGBA(), st) != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

package appstate

import (
	"image"
	"image/draw"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/picannotate/internal/stage"
	"github.com/example/picannotate/internal/theme"
)

const (
	editorWidth       = 200
	editorHeight      = 24
	editorPlaceholder = "INPUT TAG HERE"
	deleteLabel       = "X"
)

// CommentBox is the built-in comment editor placed under the selected shape.
type CommentBox struct {
	Comment  string
	OnChange func(string)
	OnDelete func()
}

// DefaultEditor is the stage.CommentEditor used when the host supplies none.
func DefaultEditor(comment string, onChange func(string), onDelete func()) any {
	return &CommentBox{Comment: comment, OnChange: onChange, OnDelete: onDelete}
}

var _ stage.CommentEditor = DefaultEditor

// Type appends r to the comment.
func (b *CommentBox) Type(r rune) {
	b.set(b.Comment + string(r))
}

// Backspace removes the last rune of the comment.
func (b *CommentBox) Backspace() {
	if b.Comment == "" {
		return
	}
	_, n := utf8.DecodeLastRuneInString(b.Comment)
	b.set(b.Comment[:len(b.Comment)-n])
}

func (b *CommentBox) set(text string) {
	b.Comment = text
	if b.OnChange != nil {
		b.OnChange(text)
	}
}

// editorLayout returns the text field and the delete button rectangles.
func editorLayout(in stage.InputState) (field, del image.Rectangle) {
	x, y := int(in.Left), int(in.Top)
	field = image.Rect(x, y, x+editorWidth, y+editorHeight)
	del = image.Rect(field.Max.X, y, field.Max.X+editorHeight, y+editorHeight)
	return field, del
}

// Click handles a press at p. It reports whether the editor consumed it.
func (b *CommentBox) Click(in stage.InputState, p image.Point) bool {
	field, del := editorLayout(in)
	if p.In(del) {
		if b.OnDelete != nil {
			b.OnDelete()
		}
		return true
	}
	return p.In(field)
}

func drawEditor(dst *image.RGBA, b *CommentBox, in stage.InputState, th *theme.Theme) {
	field, del := editorLayout(in)
	draw.Draw(dst, field, image.NewUniform(th.InputBackground), image.Point{}, draw.Over)
	drawRect(dst, field, th.InputBorder, 1)
	draw.Draw(dst, del, image.NewUniform(th.DeleteBackground), image.Point{}, draw.Over)

	face := basicfont.Face7x13
	ascent := face.Metrics().Ascent.Ceil()
	baseline := field.Min.Y + (editorHeight+ascent)/2 - 1

	text, col := b.Comment+"|", th.InputText
	if b.Comment == "" {
		text, col = editorPlaceholder, th.InputPlaceholder
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	// keep the caret visible when the comment is wider than the field
	for len(text) > 1 && d.MeasureString(text).Ceil() > editorWidth-8 {
		_, n := utf8.DecodeRuneInString(text)
		text = text[n:]
	}
	d.Dot = fixed.P(field.Min.X+4, baseline)
	d.DrawString(text)

	d = &font.Drawer{Dst: dst, Src: image.NewUniform(th.DeleteText), Face: face}
	w := d.MeasureString(deleteLabel).Ceil()
	d.Dot = fixed.P(del.Min.X+(del.Dx()-w)/2, baseline)
	d.DrawString(deleteLabel)
}

package appstate

import (
	"context"
	"image"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/picannotate/internal/annotation"
	"github.com/example/picannotate/internal/clipboard"
	"github.com/example/picannotate/internal/notify"
	"github.com/example/picannotate/internal/stage"
)

const (
	// wheelDelta matches one notch of a browser wheel event.
	wheelDelta    = 100
	keyZoomDelta  = 200
	messageLinger = 2 * time.Second
)

// controller translates window events into stage calls. It runs on the
// event loop goroutine only.
type controller struct {
	stage    *stage.Stage
	panKeys  []key.Code
	logger   *slog.Logger
	notifier *notify.Notifier

	copyAnnotations func([]annotation.Annotation) error
	copyImage       func(image.Image) error

	actions        map[string]func()
	keyboardAction map[KeyShortcut]string

	message      string
	messageUntil time.Time
	quit         bool
}

func newController(st *stage.Stage, panKeys []key.Code, logger *slog.Logger, n *notify.Notifier) *controller {
	c := &controller{
		stage:           st,
		panKeys:         panKeys,
		logger:          logger,
		notifier:        n,
		copyAnnotations: clipboard.WriteAnnotations,
		copyImage:       clipboard.WriteImage,
		actions:         map[string]func(){},
		keyboardAction:  map[KeyShortcut]string{},
	}
	c.register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, c.copyJSON)
	c.register("copyimage", shortcutList{{Rune: 'c', Modifiers: key.ModControl | key.ModShift}}, c.copyRender)
	c.register("quit", shortcutList{{Rune: 'q', Modifiers: key.ModControl}}, func() { c.quit = true })
	c.register("deselect", shortcutList{{Code: key.CodeEscape}}, func() { c.stage.Select("") })
	c.register("delete", shortcutList{{Code: key.CodeDeleteForward}}, c.stage.DeleteSelected)
	return c
}

func (c *controller) register(name string, keys KeyboardShortcuts, fn func()) {
	c.actions[name] = fn
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			c.keyboardAction[sc] = name
		}
	}
}

func (c *controller) flash(msg string) {
	c.message = msg
	c.messageUntil = time.Now().Add(messageLinger)
	c.logger.Info(msg)
}

func (c *controller) copyJSON() {
	if err := c.copyAnnotations(c.stage.Annotations()); err != nil {
		c.logger.Error("copy annotations", "err", err)
		c.flash("copy failed")
		return
	}
	c.flash("annotations copied to clipboard")
	c.notifier.Copy("annotations")
}

func (c *controller) copyRender() {
	f := c.stage.Frame()
	f.SelectedID = ""
	img, err := f.Flatten(context.Background())
	if err != nil {
		c.logger.Error("render for clipboard", "err", err)
		c.flash("nothing to copy")
		return
	}
	if err := c.copyImage(img); err != nil {
		c.logger.Error("copy image", "err", err)
		c.flash("copy failed")
		return
	}
	c.flash("image copied to clipboard")
	c.notifier.Copy("image")
}

// editor returns the comment box of the selected shape, if any.
func (c *controller) editor() (*CommentBox, stage.InputState) {
	content, in := c.stage.Overlay()
	box, _ := content.(*CommentBox)
	return box, in
}

// handleMouse reports whether the shell itself needs a repaint. Stage
// changes request their own.
func (c *controller) handleMouse(e mouse.Event) bool {
	x, y := float64(e.X), float64(e.Y)
	if e.Button.IsWheel() {
		if e.Direction != mouse.DirStep {
			return false
		}
		switch e.Button {
		case mouse.ButtonWheelDown:
			c.stage.Wheel(x, y, wheelDelta)
		case mouse.ButtonWheelUp:
			c.stage.Wheel(x, y, -wheelDelta)
		}
		return false
	}
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		dismissed := time.Now().Before(c.messageUntil)
		c.messageUntil = time.Time{}
		if box, in := c.editor(); box != nil && box.Click(in, image.Pt(int(e.X), int(e.Y))) {
			return true
		}
		c.stage.MouseDown(x, y)
		return dismissed
	case mouse.DirRelease:
		if e.Button == mouse.ButtonLeft {
			c.stage.MouseUp()
		}
	case mouse.DirNone:
		c.stage.MouseMove(x, y)
	}
	return false
}

func (c *controller) handleLifecycle(e lifecycle.Event) {
	if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
		c.stage.MouseLeave()
		c.stage.SetPanActive(false)
	}
}

func (c *controller) isPanKey(code key.Code) bool {
	return slices.Contains(c.panKeys, code)
}

func (c *controller) lookup(e key.Event) (string, bool) {
	ks := shortcutOf(e)
	if ks.Rune <= 0 && ks.Modifiers&key.ModControl != 0 && e.Code >= key.CodeA && e.Code <= key.CodeZ {
		ks.Rune = 'a' + rune(e.Code-key.CodeA)
	}
	if ks.Rune > 0 {
		ks.Code = 0
	} else {
		ks.Rune = 0
	}
	action, ok := c.keyboardAction[ks]
	return action, ok
}

// handleKey reports whether the window should close.
func (c *controller) handleKey(e key.Event) bool {
	if c.isPanKey(e.Code) {
		switch e.Direction {
		case key.DirPress:
			c.stage.SetPanActive(true)
		case key.DirRelease:
			c.stage.SetPanActive(false)
		}
		return false
	}
	if e.Direction != key.DirPress {
		return false
	}
	if action, ok := c.lookup(e); ok {
		if fn, ok := c.actions[action]; ok {
			fn()
		}
		return c.quit
	}
	if box, _ := c.editor(); box != nil {
		switch {
		case e.Code == key.CodeDeleteBackspace:
			box.Backspace()
		case e.Rune > 0 && e.Modifiers&(key.ModControl|key.ModMeta) == 0:
			box.Type(e.Rune)
		}
		return false
	}
	w, h := c.stage.CanvasSize()
	switch e.Rune {
	case 'q', 'Q':
		c.quit = true
	case '+', '=':
		c.stage.Wheel(w/2, h/2, keyZoomDelta)
	case '-':
		c.stage.Wheel(w/2, h/2, -keyZoomDelta)
	}
	return c.quit
}

func (c *controller) paintState() paintState {
	st := paintState{frame: c.stage.Frame()}
	if box, in := c.editor(); box != nil {
		st.editor = box
		st.input = in
	}
	if time.Now().Before(c.messageUntil) {
		st.message = c.message
	}
	return st
}

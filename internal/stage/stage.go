// Package stage composes shapes, selection, the viewport and the pointer
// state machine into the surface a host application drives.
package stage

import (
	"image"
	"log/slog"
	"slices"

	"github.com/example/picannotate/internal/annotation"
	"github.com/example/picannotate/internal/geom"
	"github.com/example/picannotate/internal/interaction"
	"github.com/example/picannotate/internal/theme"
	"github.com/example/picannotate/internal/transformer"
	"github.com/example/picannotate/internal/viewport"
)

const (
	DefaultScrollSpeed     = 0.0005
	DefaultMinScale        = 0.1
	DefaultMaxScale        = 10
	DefaultMarginWithInput = 10
	DefaultCanvasWidth     = 800
	DefaultCanvasHeight    = 600
)

// CommentEditor renders the comment input for the selected shape. The
// returned value is opaque to the stage and handed back from Overlay.
type CommentEditor func(comment string, onChange func(string), onDelete func()) any

// InputState describes where the comment editor sits. Left and Top are
// screen coordinates just below the selected shape.
type InputState struct {
	Visible bool
	Left    float64
	Top     float64
	Comment string
}

// Stage owns the shape list, the selection and the viewport. It is not
// safe for concurrent use: every method must be called from the goroutine
// that handles input events. Use Frame to hand state to a painter.
type Stage struct {
	ctx     interaction.Context
	machine interaction.Machine
	vp      viewport.Viewport
	theme   *theme.Theme

	canvasW, canvasH   float64
	scrollSpeed        float64
	minScale, maxScale float64
	margin             float64

	logger     *slog.Logger
	onChange   func([]annotation.Annotation)
	onSelect   func(string)
	editor     CommentEditor
	invalidate func()

	img    image.Image
	imgRef string

	panActive    bool
	buttonDown   bool
	lastX, lastY float64

	input InputState
}

// Option modifies a Stage during creation.
type Option func(*Stage)

// WithCanvasSize sets the drawing area in screen pixels.
func WithCanvasSize(w, h float64) Option {
	return func(s *Stage) { s.canvasW, s.canvasH = w, h }
}

// WithTheme sets the style used for new and synced shapes.
func WithTheme(t *theme.Theme) Option { return func(s *Stage) { s.theme = t } }

// WithDefaultSize makes a click without drag create a shape of this size
// when nothing is selected.
func WithDefaultSize(size geom.Size) Option {
	return func(s *Stage) { s.ctx.DefaultSize = &size }
}

// WithScrollSpeed sets the scale change per wheel delta unit.
func WithScrollSpeed(speed float64) Option { return func(s *Stage) { s.scrollSpeed = speed } }

// WithScaleLimits bounds the zoom scale.
func WithScaleLimits(min, max float64) Option {
	return func(s *Stage) { s.minScale, s.maxScale = min, max }
}

// WithMarginWithInput sets the gap between a shape and its comment editor.
func WithMarginWithInput(m float64) Option { return func(s *Stage) { s.margin = m } }

// WithIDGenerator sets how ids of new shapes are produced.
func WithIDGenerator(gen annotation.IDGenerator) Option {
	return func(s *Stage) { s.ctx.NewID = gen }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(s *Stage) { s.logger = l } }

// WithOnChange registers the callback receiving the full annotation list
// after every add, move, resize, delete or comment edit.
func WithOnChange(fn func([]annotation.Annotation)) Option {
	return func(s *Stage) { s.onChange = fn }
}

// WithOnSelect registers the callback fired on every selection change,
// with "" for none.
func WithOnSelect(fn func(id string)) Option { return func(s *Stage) { s.onSelect = fn } }

// WithCommentEditor sets the comment editor renderer.
func WithCommentEditor(e CommentEditor) Option { return func(s *Stage) { s.editor = e } }

// WithInvalidate registers the callback used to request a repaint. It may
// be called many times per event and should coalesce.
func WithInvalidate(fn func()) Option { return func(s *Stage) { s.invalidate = fn } }

// New creates a Stage with the provided options.
func New(opts ...Option) *Stage {
	s := &Stage{
		vp:          viewport.Identity(),
		canvasW:     DefaultCanvasWidth,
		canvasH:     DefaultCanvasHeight,
		scrollSpeed: DefaultScrollSpeed,
		minScale:    DefaultMinScale,
		maxScale:    DefaultMaxScale,
		margin:      DefaultMarginWithInput,
	}
	for _, o := range opts {
		o(s)
	}
	if s.theme == nil {
		s.theme = theme.Default()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.ctx.NewID == nil {
		s.ctx.NewID = annotation.ShortID(annotation.DefaultIDLength)
	}
	if s.minScale <= 0 || s.maxScale < s.minScale {
		s.logger.Warn("invalid scale limits, using defaults", "min", s.minScale, "max", s.maxScale)
		s.minScale, s.maxScale = DefaultMinScale, DefaultMaxScale
	}
	s.ctx.Style = s.theme
	s.ctx.Scale = s.vp.Scale
	s.ctx.OnShapeChange = s.onShapeChange
	s.ctx.Select = s.selectID
	s.machine.Logger = s.logger
	return s
}

func (s *Stage) selectID(id string) {
	s.ctx.SelectedID = id
	s.ctx.Transformer = nil
	if s.onSelect != nil {
		s.onSelect(id)
	}
}

func (s *Stage) selected() (int, annotation.Shape) {
	if s.ctx.SelectedID == "" {
		return -1, nil
	}
	for i, sh := range s.ctx.Shapes {
		if sh.Annotation().ID == s.ctx.SelectedID {
			return i, sh
		}
	}
	return -1, nil
}

// refresh rebinds the transformer, moves the comment editor and asks for
// a repaint. It does not report to the host.
func (s *Stage) refresh() {
	s.ctx.Scale = s.vp.Scale
	_, sel := s.selected()
	if sel == nil {
		s.ctx.Transformer = nil
		s.input = InputState{}
	} else {
		if s.ctx.Transformer == nil || s.ctx.Transformer.Shape() != sel {
			s.ctx.Transformer = transformer.New(sel, s.vp.Scale)
		} else {
			s.ctx.Transformer.SetScale(s.vp.Scale)
		}
		a := sel.Annotation()
		screen := s.vp.ToScreen(a.Mark.Rect())
		s.input = InputState{
			Visible: true,
			Left:    screen.X,
			Top:     screen.Y + screen.Height + s.margin,
			Comment: a.Comment,
		}
	}
	if s.invalidate != nil {
		s.invalidate()
	}
}

// onShapeChange runs after every geometry mutation.
func (s *Stage) onShapeChange() {
	s.refresh()
	s.report()
}

func (s *Stage) report() {
	if s.onChange != nil {
		s.onChange(s.Annotations())
	}
}

// MouseDown handles a primary button press at screen (sx, sy).
func (s *Stage) MouseDown(sx, sy float64) {
	s.buttonDown = true
	s.lastX, s.lastY = sx, sy
	if s.panActive {
		return
	}
	x, y := s.vp.ToLogical(sx, sy)
	s.ctx.Scale = s.vp.Scale
	s.machine.MouseDown(&s.ctx, x, y)
}

// MouseMove handles pointer motion. While the pan key is held and the
// button is down the image is panned instead.
func (s *Stage) MouseMove(sx, sy float64) {
	dx, dy := sx-s.lastX, sy-s.lastY
	s.lastX, s.lastY = sx, sy
	if s.panActive && s.buttonDown {
		s.vp = s.vp.Pan(dx, dy)
		s.refresh()
		return
	}
	x, y := s.vp.ToLogical(sx, sy)
	s.machine.MouseMove(&s.ctx, x, y)
}

// MouseUp handles a primary button release.
func (s *Stage) MouseUp() {
	s.buttonDown = false
	s.machine.MouseUp(&s.ctx)
}

// MouseLeave handles the pointer leaving the canvas.
func (s *Stage) MouseLeave() {
	s.buttonDown = false
	s.machine.MouseLeave(&s.ctx)
}

// SetPanActive records whether the pan key is held.
func (s *Stage) SetPanActive(active bool) {
	s.panActive = active
}

// PanActive reports whether the pan key is held.
func (s *Stage) PanActive() bool { return s.panActive }

// Wheel zooms around screen (sx, sy). The scale changes linearly with
// deltaY and is clamped to the configured limits.
func (s *Stage) Wheel(sx, sy, deltaY float64) {
	s.vp = s.vp.Scroll(sx, sy, deltaY, s.scrollSpeed, s.minScale, s.maxScale)
	s.refresh()
}

// SyncAnnotations reconciles a host supplied list with the live shapes.
// A nil list means the host is not driving annotations. Any difference in
// length, ids or content rebuilds every shape, clears the selection and
// abandons the current interaction; otherwise nothing changes.
func (s *Stage) SyncAnnotations(list []annotation.Annotation) {
	if list == nil || !s.needsSync(list) {
		return
	}
	s.logger.Info("annotations replaced by host", "count", len(list), "previous", len(s.ctx.Shapes))
	s.machine.Reset()
	s.selectID("")
	shapes := make([]annotation.Shape, 0, len(list))
	for _, a := range list {
		shapes = append(shapes, annotation.NewShape(a, s.onShapeChange, s.theme))
	}
	s.ctx.Shapes = shapes
	s.onShapeChange()
}

func (s *Stage) needsSync(list []annotation.Annotation) bool {
	if len(list) != len(s.ctx.Shapes) {
		return true
	}
	for _, a := range list {
		i := slices.IndexFunc(s.ctx.Shapes, func(sh annotation.Shape) bool {
			return sh.Annotation().ID == a.ID
		})
		if i < 0 || !s.ctx.Shapes[i].Equal(a) {
			return true
		}
	}
	return false
}

// SyncSelectedID forces a host supplied selection onto the stage when it
// is set and differs from the current one.
func (s *Stage) SyncSelectedID(id string) {
	if id == "" || id == s.ctx.SelectedID {
		return
	}
	s.selectID(id)
	s.refresh()
}

// Select changes the selection from the host shell, "" for none.
func (s *Stage) Select(id string) {
	if id == s.ctx.SelectedID {
		return
	}
	s.selectID(id)
	s.refresh()
}

// SetImage starts showing a new image source. The previous image is
// dropped until ImageLoadedFor delivers the decoded result.
func (s *Stage) SetImage(ref string) {
	s.img = nil
	s.imgRef = ref
	s.refresh()
}

// ImageRef returns the source last passed to SetImage.
func (s *Stage) ImageRef() string { return s.imgRef }

// ImageLoaded delivers the image for the current source.
func (s *Stage) ImageLoaded(img image.Image) {
	s.ImageLoadedFor(s.imgRef, img)
}

// ImageLoadedFor delivers a decoded image for ref. Results for a source
// that is no longer current are ignored and false is returned.
func (s *Stage) ImageLoadedFor(ref string, img image.Image) bool {
	if ref != s.imgRef {
		s.logger.Debug("stale image load ignored", "ref", ref, "current", s.imgRef)
		return false
	}
	s.img = img
	s.fit()
	s.refresh()
	return true
}

// Image returns the loaded image or nil.
func (s *Stage) Image() image.Image { return s.img }

func (s *Stage) fit() {
	if s.img == nil {
		return
	}
	b := s.img.Bounds()
	vp, ok := s.vp.Fit(float64(b.Dx()), float64(b.Dy()), s.canvasW, s.canvasH)
	if !ok {
		s.logger.Warn("image not fitted", "width", b.Dx(), "height", b.Dy(), "canvas_width", s.canvasW, "canvas_height", s.canvasH)
		return
	}
	s.vp = vp
}

// Resize records a new canvas size and refits the loaded image.
func (s *Stage) Resize(w, h float64) {
	if w == s.canvasW && h == s.canvasH {
		return
	}
	s.canvasW, s.canvasH = w, h
	s.fit()
	s.refresh()
}

// CanvasSize returns the canvas size in screen pixels.
func (s *Stage) CanvasSize() (w, h float64) { return s.canvasW, s.canvasH }

// DeleteSelected removes the selected shape.
func (s *Stage) DeleteSelected() {
	i, _ := s.selected()
	if i < 0 {
		return
	}
	s.ctx.Shapes = slices.Delete(s.ctx.Shapes, i, i+1)
	s.selectID("")
	s.onShapeChange()
}

// SetComment edits the comment of the selected shape. The host sees the
// new list but shapes are not repainted.
func (s *Stage) SetComment(text string) {
	_, sel := s.selected()
	if sel == nil {
		return
	}
	sel.SetComment(text)
	s.input.Comment = text
	s.report()
}

// Annotations returns a copy of the annotations in z-order.
func (s *Stage) Annotations() []annotation.Annotation {
	out := make([]annotation.Annotation, len(s.ctx.Shapes))
	for i, sh := range s.ctx.Shapes {
		out[i] = sh.Annotation()
	}
	return out
}

// SelectedID returns the selected id or "".
func (s *Stage) SelectedID() string { return s.ctx.SelectedID }

// Viewport returns the current pan and zoom.
func (s *Stage) Viewport() viewport.Viewport { return s.vp }

// State returns the current interaction state.
func (s *Stage) State() interaction.State { return s.machine.State }

// Theme returns the active style.
func (s *Stage) Theme() *theme.Theme { return s.theme }

// Input returns the comment editor placement.
func (s *Stage) Input() InputState { return s.input }

// Overlay renders the comment editor for the selected shape. The content
// is nil when no shape is selected or no editor is configured.
func (s *Stage) Overlay() (any, InputState) {
	if !s.input.Visible || s.editor == nil {
		return nil, s.input
	}
	return s.editor(s.input.Comment, s.SetComment, s.DeleteSelected), s.input
}

// ToLogical converts a screen point with the current viewport.
func (s *Stage) ToLogical(sx, sy float64) (x, y float64) { return s.vp.ToLogical(sx, sy) }

package appstate

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/picannotate/internal/annotation"
	"github.com/example/picannotate/internal/imagesource"
	"github.com/example/picannotate/internal/notify"
	"github.com/example/picannotate/internal/stage"
)

// AppState holds application configuration for the UI.
type AppState struct {
	ImageRef    string
	Annotations []annotation.Annotation
	SelectedID  string
	Width       int
	Height      int
	PanKey      string

	stageOpts []stage.Option
	logger    *slog.Logger
	notifier  *notify.Notifier
	onChange  func([]annotation.Annotation)
	onSelect  func(string)

	updateCh chan struct{}

	controlMu   sync.Mutex
	sendControl func(controlEvent)

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithImageRef sets the image reference loaded when the window opens.
func WithImageRef(ref string) Option { return func(a *AppState) { a.ImageRef = ref } }

// WithAnnotations sets the initial annotation list.
func WithAnnotations(list []annotation.Annotation) Option {
	return func(a *AppState) { a.Annotations = list }
}

// WithSelectedID sets the initially selected annotation.
func WithSelectedID(id string) Option { return func(a *AppState) { a.SelectedID = id } }

// WithWindowSize sets the initial window size in pixels.
func WithWindowSize(w, h int) Option { return func(a *AppState) { a.Width, a.Height = w, h } }

// WithPanKey sets the key name that enables panning while held.
func WithPanKey(name string) Option { return func(a *AppState) { a.PanKey = name } }

// WithStageOptions forwards options to the stage.
func WithStageOptions(opts ...stage.Option) Option {
	return func(a *AppState) { a.stageOpts = append(a.stageOpts, opts...) }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(a *AppState) { a.logger = l } }

// WithNotifier sets the desktop notifier used for copies and loads.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithOnChange registers the callback receiving the annotation list after
// every edit.
func WithOnChange(fn func([]annotation.Annotation)) Option {
	return func(a *AppState) { a.onChange = fn }
}

// WithOnSelect registers the callback fired on selection changes.
func WithOnSelect(fn func(string)) Option { return func(a *AppState) { a.onSelect = fn } }

// WithOnClose registers a callback run once the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState.
func New(opts ...Option) *AppState {
	a := &AppState{
		Width:    stage.DefaultCanvasWidth,
		Height:   stage.DefaultCanvasHeight,
		PanKey:   "space",
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	return a
}

// controlEvent carries host updates from other goroutines into the event loop.
type controlEvent struct {
	Annotations []annotation.Annotation
	SelectedID  *string
	ImageRef    *string
}

// requestPaint asks the event loop for a repaint. Calls coalesce.
func (a *AppState) requestPaint() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *AppState) control(ev controlEvent) {
	a.controlMu.Lock()
	sender := a.sendControl
	a.controlMu.Unlock()
	if sender != nil {
		sender(ev)
	}
}

// SyncAnnotations replaces the host list. Safe to call from any goroutine.
func (a *AppState) SyncAnnotations(list []annotation.Annotation) {
	if list == nil {
		return
	}
	a.control(controlEvent{Annotations: list})
}

// SyncSelectedID selects id. Safe to call from any goroutine.
func (a *AppState) SyncSelectedID(id string) {
	a.control(controlEvent{SelectedID: &id})
}

// SetImage switches to another image reference. Safe to call from any goroutine.
func (a *AppState) SetImage(ref string) {
	a.control(controlEvent{ImageRef: &ref})
}

func (a *AppState) setControlSender(fn func(controlEvent)) {
	a.controlMu.Lock()
	a.sendControl = fn
	a.controlMu.Unlock()
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		a.setControlSender(nil)
		if a.onClose != nil {
			a.onClose()
		}
	})
}

func (a *AppState) newStage() *stage.Stage {
	opts := append([]stage.Option{
		stage.WithCanvasSize(float64(a.Width), float64(a.Height)),
		stage.WithLogger(a.logger),
		stage.WithCommentEditor(DefaultEditor),
		stage.WithInvalidate(a.requestPaint),
		stage.WithOnChange(a.onChange),
		stage.WithOnSelect(a.onSelect),
	}, a.stageOpts...)
	st := stage.New(opts...)
	st.SyncAnnotations(a.Annotations)
	st.SyncSelectedID(a.SelectedID)
	return st
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: a.Width, Height: a.Height, Title: "picannotate"})
	if err != nil {
		a.logger.Error("new window", "err", err)
		return
	}
	defer w.Release()
	defer a.notifyClose()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	a.setControlSender(func(ev controlEvent) { w.Send(ev) })

	panKeys, err := ParsePanKey(a.PanKey)
	if err != nil {
		a.logger.Warn("pan key", "err", err)
		panKeys, _ = ParsePanKey("space")
	}

	st := a.newStage()
	ctrl := newController(st, panKeys, a.logger, a.notifier)

	loader := &imageLoader{start: imagesource.LoadAsync, deliver: w.Send}
	defer loader.stop()
	load := func(ref string) {
		st.SetImage(ref)
		loader.load(ref)
	}
	load(a.ImageRef)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for ps := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, ps, a.logger)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	stop := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		switch e := w.NextEvent().(type) {
		case controlEvent:
			if e.ImageRef != nil {
				load(*e.ImageRef)
			}
			st.SyncAnnotations(e.Annotations)
			if e.SelectedID != nil {
				st.SyncSelectedID(*e.SelectedID)
			}
		case imagesource.Loaded:
			if e.Err != nil {
				a.logger.Error("load image", "ref", e.Ref, "err", e.Err)
				ctrl.flash("could not load " + e.Ref)
				w.Send(paint.Event{})
				continue
			}
			if st.ImageLoadedFor(e.Ref, e.Image) {
				a.notifier.Loaded(e.Ref, e.Image)
			}
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stop()
				return
			}
			ctrl.handleLifecycle(e)
		case size.Event:
			st.Resize(float64(e.WidthPx), float64(e.HeightPx))
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil {
				if dropCount < frameDropThreshold {
					paintCancel()
					dropCount++
				}
			}
			paintMu.Unlock()
			ps := ctrl.paintState()
			select {
			case paintCh <- ps:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- ps
			}
		case mouse.Event:
			if ctrl.handleMouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if ctrl.handleKey(e) {
				stop()
				return
			}
			w.Send(paint.Event{})
		case error:
			a.logger.Error("window", "err", e)
		}
	}
}

// imageLoader runs at most one image load; starting another cancels the
// one in flight.
type imageLoader struct {
	start   func(ctx context.Context, ref string, deliver func(any))
	deliver func(any)
	cancel  context.CancelFunc
}

func (l *imageLoader) load(ref string) {
	l.stop()
	if ref == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.start(ctx, ref, l.deliver)
}

func (l *imageLoader) stop() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

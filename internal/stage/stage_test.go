package stage

import (
	"context"
	"image"
	"image/color"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/example/picannotate/internal/annotation"
	"github.com/example/picannotate/internal/geom"
	"github.com/example/picannotate/internal/interaction"
	"github.com/example/picannotate/internal/render"
)

type recorder struct {
	changes     [][]annotation.Annotation
	selects     []string
	invalidates int
}

func newStage(t *testing.T, opts ...Option) (*Stage, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]Option{
		WithIDGenerator(annotation.Sequence("id")),
		WithOnChange(func(list []annotation.Annotation) { rec.changes = append(rec.changes, list) }),
		WithOnSelect(func(id string) { rec.selects = append(rec.selects, id) }),
		WithInvalidate(func() { rec.invalidates++ }),
	}, opts...)
	return New(opts...), rec
}

func rect(id string, x, y, w, h float64) annotation.Annotation {
	return annotation.Annotation{ID: id, Mark: annotation.Mark{Type: annotation.TypeRect, X: x, Y: y, Width: w, Height: h}}
}

func TestBottomRightHandleScenario(t *testing.T) {
	s, rec := newStage(t)
	s.SyncAnnotations([]annotation.Annotation{rect("a", 229, 92, 161, 165)})
	s.SyncSelectedID("a")
	s.MouseDown(390, 257)
	if s.State() != interaction.Transforming {
		t.Fatalf("state %v", s.State())
	}
	s.MouseMove(450, 300)
	s.MouseUp()
	got := s.Annotations()
	if len(got) != 1 {
		t.Fatalf("annotations %+v", got)
	}
	if m := got[0].Mark; m.X != 229 || m.Y != 92 || m.Width != 221 || m.Height != 208 {
		t.Fatalf("unexpected mark %+v", m)
	}
	last := rec.changes[len(rec.changes)-1]
	if last[0].Mark.Width != 221 {
		t.Fatalf("host not told about the resize: %+v", last)
	}
}

func TestHostListLengthChangeRebuilds(t *testing.T) {
	s, rec := newStage(t)
	s.SyncAnnotations([]annotation.Annotation{rect("a", 0, 0, 10, 10)})
	s.SyncSelectedID("a")
	if s.SelectedID() != "a" {
		t.Fatalf("selected %q", s.SelectedID())
	}
	s.SyncAnnotations([]annotation.Annotation{rect("a", 0, 0, 10, 10), rect("b", 20, 20, 10, 10)})
	if s.SelectedID() != "" {
		t.Fatalf("selection survived rebuild: %q", s.SelectedID())
	}
	if got := s.Annotations(); len(got) != 2 || got[1].ID != "b" {
		t.Fatalf("annotations %+v", got)
	}
	if rec.selects[len(rec.selects)-1] != "" {
		t.Fatalf("host not told about deselection: %v", rec.selects)
	}
	if s.Input().Visible {
		t.Fatal("comment editor should be hidden without a selection")
	}
}

func TestSyncWithEqualListKeepsInteraction(t *testing.T) {
	s, rec := newStage(t)
	list := []annotation.Annotation{rect("a", 0, 0, 100, 100)}
	s.SyncAnnotations(list)
	s.MouseDown(50, 50)
	if s.State() != interaction.Dragging {
		t.Fatalf("state %v", s.State())
	}
	changes := len(rec.changes)
	s.SyncAnnotations(list)
	if s.State() != interaction.Dragging || s.SelectedID() != "a" {
		t.Fatal("equal list must not disturb the drag")
	}
	if len(rec.changes) != changes {
		t.Fatal("equal list must not notify")
	}
	s.SyncAnnotations(nil)
	if len(s.Annotations()) != 1 {
		t.Fatal("nil list must be ignored")
	}
}

func TestSyncContentChangeDiscardsCreation(t *testing.T) {
	s, _ := newStage(t)
	s.SyncAnnotations([]annotation.Annotation{rect("a", 0, 0, 10, 10)})
	s.MouseDown(300, 300)
	if s.State() != interaction.Creating {
		t.Fatalf("state %v", s.State())
	}
	// Same length as the live list (a plus the shape being created), different ids.
	s.SyncAnnotations([]annotation.Annotation{rect("a", 0, 0, 10, 10), rect("z", 1, 1, 1, 1)})
	if s.State() != interaction.Default {
		t.Fatalf("state %v, want default after resync", s.State())
	}
	s.MouseMove(400, 400)
	s.MouseUp()
	got := s.Annotations()
	if len(got) != 2 || got[1].ID != "z" || got[1].Mark.Width != 1 {
		t.Fatalf("annotations %+v", got)
	}
}

func TestCommentEditsChangeOfContentResyncs(t *testing.T) {
	s, _ := newStage(t)
	s.SyncAnnotations([]annotation.Annotation{rect("a", 0, 0, 10, 10)})
	edited := rect("a", 0, 0, 10, 10)
	edited.Comment = "dog"
	s.SyncAnnotations([]annotation.Annotation{edited})
	if s.Annotations()[0].Comment != "dog" {
		t.Fatal("comment change from host not applied")
	}
}

func TestClickCreatesDefaultSize(t *testing.T) {
	s, rec := newStage(t, WithDefaultSize(geom.Size{Width: 120, Height: 90}))
	s.MouseDown(10, 10)
	s.MouseUp()
	got := s.Annotations()
	if len(got) != 1 || got[0].Mark.Width != 120 || got[0].Mark.Height != 90 {
		t.Fatalf("annotations %+v", got)
	}
	if s.SelectedID() != "id1" {
		t.Fatalf("selected %q", s.SelectedID())
	}
	if len(rec.changes) == 0 || len(rec.changes[len(rec.changes)-1]) != 1 {
		t.Fatal("host not told about the new shape")
	}
}

func TestClickWithoutDefaultSizeAddsNothing(t *testing.T) {
	s, rec := newStage(t)
	s.MouseDown(10, 10)
	s.MouseUp()
	if len(s.Annotations()) != 0 {
		t.Fatalf("annotations %+v", s.Annotations())
	}
	if last := rec.changes[len(rec.changes)-1]; len(last) != 0 {
		t.Fatalf("host list %+v", last)
	}
}

func TestOverlappingShapesTopmostSelected(t *testing.T) {
	s, rec := newStage(t)
	s.SyncAnnotations([]annotation.Annotation{rect("low", 0, 0, 100, 100), rect("high", 50, 50, 100, 100), rect("x", 300, 300, 5, 5)})
	s.MouseDown(75, 75)
	s.MouseUp()
	if s.SelectedID() != "high" {
		t.Fatalf("selected %q", s.SelectedID())
	}
	got := s.Annotations()
	if got[len(got)-1].ID != "high" {
		t.Fatalf("z-order %+v", got)
	}
	if rec.selects[len(rec.selects)-1] != "high" {
		t.Fatalf("selects %v", rec.selects)
	}
}

func TestMouseEventsUseViewport(t *testing.T) {
	s, _ := newStage(t, WithCanvasSize(400, 300))
	s.SetImage("img")
	s.ImageLoaded(image.NewRGBA(image.Rect(0, 0, 800, 600)))
	if vp := s.Viewport(); vp.Scale != 0.5 {
		t.Fatalf("fit scale %v", vp.Scale)
	}
	s.MouseDown(10, 20)
	s.MouseMove(60, 70)
	s.MouseUp()
	got := s.Annotations()
	if len(got) != 1 {
		t.Fatalf("annotations %+v", got)
	}
	if m := got[0].Mark; m.X != 20 || m.Y != 40 || m.Width != 100 || m.Height != 100 {
		t.Fatalf("mark %+v is not in image coordinates", m)
	}
	in := s.Input()
	if !in.Visible || in.Left != 10 || in.Top != 70+DefaultMarginWithInput {
		t.Fatalf("input %+v", in)
	}
}

func TestWheelZoomKeepsCursorPoint(t *testing.T) {
	s, _ := newStage(t)
	cursor := geom.Point{X: 123, Y: 45}
	for _, delta := range []float64{500, 500, -3000, 40000, -40000} {
		bx, by := s.ToLogical(cursor.X, cursor.Y)
		s.Wheel(cursor.X, cursor.Y, delta)
		ax, ay := s.ToLogical(cursor.X, cursor.Y)
		if !scalar.EqualWithinAbs(ax, bx, 1e-9) || !scalar.EqualWithinAbs(ay, by, 1e-9) {
			t.Fatalf("delta %v moved logical point (%v,%v) to (%v,%v)", delta, bx, by, ax, ay)
		}
		if sc := s.Viewport().Scale; sc < DefaultMinScale || sc > DefaultMaxScale {
			t.Fatalf("scale %v outside limits", sc)
		}
	}
}

func TestPanWithKeyHeld(t *testing.T) {
	s, rec := newStage(t)
	s.SetPanActive(true)
	s.MouseDown(10, 10)
	s.MouseMove(30, 5)
	s.MouseMove(35, 15)
	s.MouseUp()
	vp := s.Viewport()
	if vp.OriginX != 25 || vp.OriginY != 5 {
		t.Fatalf("viewport %+v", vp)
	}
	if len(s.Annotations()) != 0 || s.State() != interaction.Default {
		t.Fatal("panning must not reach the state machine")
	}
	if len(rec.changes) != 0 {
		t.Fatal("panning is not an annotation change")
	}
	// Without the button held, moves do not pan.
	s.MouseMove(100, 100)
	if s.Viewport() != vp {
		t.Fatal("pan without button")
	}
}

func TestDeleteSelected(t *testing.T) {
	s, rec := newStage(t)
	s.SyncAnnotations([]annotation.Annotation{rect("a", 0, 0, 10, 10), rect("b", 20, 20, 10, 10)})
	s.DeleteSelected()
	if len(s.Annotations()) != 2 {
		t.Fatal("delete without selection removed a shape")
	}
	s.SyncSelectedID("b")
	s.DeleteSelected()
	got := s.Annotations()
	if len(got) != 1 || got[0].ID != "a" || s.SelectedID() != "" {
		t.Fatalf("annotations %+v selected %q", got, s.SelectedID())
	}
	if last := rec.changes[len(rec.changes)-1]; len(last) != 1 {
		t.Fatalf("host list %+v", last)
	}
}

func TestCommentEditorOverlay(t *testing.T) {
	type editorView struct {
		comment  string
		onChange func(string)
		onDelete func()
	}
	s, rec := newStage(t, WithCommentEditor(func(c string, onChange func(string), onDelete func()) any {
		return editorView{c, onChange, onDelete}
	}))
	s.SyncAnnotations([]annotation.Annotation{rect("a", 10, 10, 10, 10)})
	if content, in := s.Overlay(); content != nil || in.Visible {
		t.Fatal("overlay shown without selection")
	}
	s.SyncSelectedID("a")
	content, in := s.Overlay()
	view, ok := content.(editorView)
	if !ok || !in.Visible || view.comment != "" {
		t.Fatalf("overlay %#v %+v", content, in)
	}
	invalidates := rec.invalidates
	view.onChange("bird")
	if s.Annotations()[0].Comment != "bird" || s.Input().Comment != "bird" {
		t.Fatal("comment not applied")
	}
	if rec.changes[len(rec.changes)-1][0].Comment != "bird" {
		t.Fatal("host not told about the comment")
	}
	if rec.invalidates != invalidates {
		t.Fatal("comment edits should not repaint shapes")
	}
	view.onDelete()
	if len(s.Annotations()) != 0 {
		t.Fatal("onDelete did not remove the shape")
	}
}

func TestSyncSelectedIDIgnoresEmpty(t *testing.T) {
	s, rec := newStage(t)
	s.SyncAnnotations([]annotation.Annotation{rect("a", 0, 0, 10, 10)})
	s.SyncSelectedID("a")
	n := len(rec.selects)
	s.SyncSelectedID("")
	s.SyncSelectedID("a")
	if s.SelectedID() != "a" || len(rec.selects) != n {
		t.Fatal("empty or unchanged ids must be ignored")
	}
}

func TestStaleImageLoadIgnored(t *testing.T) {
	s, _ := newStage(t)
	s.SetImage("first")
	s.SetImage("second")
	if s.ImageLoadedFor("first", image.NewRGBA(image.Rect(0, 0, 10, 10))) {
		t.Fatal("stale load accepted")
	}
	if s.Image() != nil {
		t.Fatal("stale image stored")
	}
	if !s.ImageLoadedFor("second", image.NewRGBA(image.Rect(0, 0, 10, 10))) {
		t.Fatal("current load rejected")
	}
}

func TestDegenerateImageKeepsViewport(t *testing.T) {
	s, _ := newStage(t)
	s.Wheel(0, 0, 1000)
	before := s.Viewport()
	s.SetImage("empty")
	s.ImageLoaded(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if s.Viewport() != before {
		t.Fatalf("viewport changed to %+v", s.Viewport())
	}
}

func TestResizeRefits(t *testing.T) {
	s, rec := newStage(t, WithCanvasSize(100, 100))
	s.SetImage("img")
	s.ImageLoaded(image.NewRGBA(image.Rect(0, 0, 200, 100)))
	if s.Viewport().Scale != 0.5 {
		t.Fatalf("scale %v", s.Viewport().Scale)
	}
	n := rec.invalidates
	s.Resize(400, 100)
	if vp := s.Viewport(); vp.Scale != 1 || vp.OriginX != 100 {
		t.Fatalf("viewport after resize %+v", vp)
	}
	if rec.invalidates == n {
		t.Fatal("resize should repaint")
	}
}

func TestFramePaint(t *testing.T) {
	s, _ := newStage(t, WithCanvasSize(40, 40))
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	s.SetImage("white")
	s.ImageLoaded(img)
	s.SyncAnnotations([]annotation.Annotation{rect("a", 5, 5, 20, 20), rect("b", 30, 30, 5, 5)})
	s.SyncSelectedID("a")

	f := s.Frame()
	rec := &render.Recorder{Size: image.Rect(0, 0, 40, 40)}
	if err := f.PaintShapes(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	fills := 0
	for _, c := range rec.Calls {
		if c.Op == "fill" {
			fills++
		}
	}
	// selected fill plus eight handles
	if fills != 9 {
		t.Fatalf("fills = %d, ops %v", fills, rec.Ops())
	}

	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	if err := f.Paint(context.Background(), dst); err != nil {
		t.Fatal(err)
	}
	if got := dst.RGBAAt(38, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("image layer missing, got %+v", got)
	}
	if got := dst.RGBAAt(5, 5); got == (color.RGBA{255, 255, 255, 255}) {
		t.Fatal("shape layer missing at the top-left corner")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := f.Paint(ctx, image.NewRGBA(image.Rect(0, 0, 40, 40))); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestFlattenUsesImageScale(t *testing.T) {
	s, _ := newStage(t, WithCanvasSize(50, 50))
	if _, err := s.Frame().Flatten(context.Background()); err != ErrNoImage {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
	s.SetImage("big")
	s.ImageLoaded(image.NewRGBA(image.Rect(0, 0, 200, 100)))
	s.SyncAnnotations([]annotation.Annotation{rect("a", 150, 60, 20, 20)})

	out, err := s.Frame().Flatten(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("bounds %v", b)
	}
	// stroke at logical (150, 60) lands at the same pixel regardless of the fitted zoom
	if got := out.RGBAAt(150, 70); got.A == 0 {
		t.Fatal("expected stroke at the shape's left edge")
	}
}

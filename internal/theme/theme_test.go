package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#5c7cfa", color.NRGBA{0x5c, 0x7c, 0xfa, 255}},
		{"#FFF", color.NRGBA{255, 255, 255, 255}},
		{"#11223380", color.NRGBA{0x11, 0x22, 0x33, 0x80}},
		{"hsla(210, 16%, 93%, 0.2)", color.NRGBA{234, 237, 240, 51}},
		{"hsla(210, 9%, 31%, 0.35)", color.NRGBA{72, 79, 86, 89}},
		{"hsl(0, 100%, 50%)", color.NRGBA{255, 0, 0, 255}},
		{"rgba(255, 255, 0, 0.5)", color.NRGBA{255, 255, 0, 128}},
		{"rgb(1, 2, 3)", color.NRGBA{1, 2, 3, 255}},
		{"Orange", color.NRGBA{255, 165, 0, 255}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, in := range []string{"", "#12345", "hsl(1,2)", "rgb(a, b, c)", "notacolor"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) expected error", in)
		}
	}
}

func TestParse(t *testing.T) {
	input := `
# comment
Name: custom
LineWidth: 4
TransformerBackground: #ff0000
UnknownKey: #000000
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if th.Name != "custom" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.LineWidth != 4 {
		t.Errorf("LineWidth = %v", th.LineWidth)
	}
	if th.TransformerBackground != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("TransformerBackground = %v", th.TransformerBackground)
	}
	// Unset keys keep their defaults.
	if th.FontSize != Default().FontSize {
		t.Errorf("FontSize = %v", th.FontSize)
	}
}

func TestParseRejectsNegativeNumbers(t *testing.T) {
	if _, err := Parse(strings.NewReader("Padding: -1")); err == nil {
		t.Fatal("expected error for negative padding")
	}
}

func TestEmbeddedDefaultMatchesBuiltin(t *testing.T) {
	th, err := NewLoader().Load("default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *th != *Default() {
		t.Errorf("embedded default theme differs from Default():\n%+v\n%+v", *th, *Default())
	}
}

func TestBuiltin(t *testing.T) {
	names := Builtin()
	want := []string{"contrast", "dark", "default"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("Builtin() = %v, want %v", names, want)
	}
	l := &Loader{}
	for _, n := range names {
		if _, err := l.Load(n); err != nil {
			t.Errorf("Load(%q): %v", n, err)
		}
	}
}

func TestLoaderLookupOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: mine\nFontSize: 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir}
	th, err := l.Load("mine")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if th.FontSize != 20 {
		t.Errorf("FontSize = %v", th.FontSize)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Error("expected error for missing theme")
	}
}

func TestResolvePrefersInline(t *testing.T) {
	inline := Default()
	inline.Name = "dark"
	inline.LineWidth = 9
	th, err := (&Loader{}).Resolve(map[string]*Theme{"dark": inline}, "", "dark")
	if err != nil {
		t.Fatal(err)
	}
	if th.LineWidth != 9 {
		t.Errorf("LineWidth = %v, want inline value", th.LineWidth)
	}
	th.LineWidth = 1
	if inline.LineWidth != 9 {
		t.Error("Resolve returned the inline theme without cloning it")
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	var sb strings.Builder
	src := Default()
	src.ShapeBackground = color.NRGBA{1, 2, 3, 4}
	for _, kv := range Fields(src) {
		sb.WriteString(kv[0] + ": " + kv[1] + "\n")
	}
	got, err := Parse(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatal(err)
	}
	if *got != *src {
		t.Errorf("round trip mismatch:\n%+v\n%+v", *got, *src)
	}
}

package notify

import (
	"image"
	"testing"

	"github.com/example/picannotate/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func recorder(n *Notifier) *[]sent {
	var out []sent
	n.send = func(title, body string, opts platform.Options) error {
		out = append(out, sent{title, body, opts})
		return nil
	}
	return &out
}

func TestDisabledEventsAreSilent(t *testing.T) {
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Copy("x")
	n.Export("x.png")
	n.Loaded("x.png", nil)
	if len(*got) != 0 {
		t.Fatalf("expected no notifications, got %v", *got)
	}
}

func TestCopyDefaultsDetail(t *testing.T) {
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Enable(EventCopy, true)
	n.Copy(" ")
	if len(*got) != 1 || (*got)[0].body != "Copied annotations to clipboard" || (*got)[0].title != "picannotate" {
		t.Fatalf("unexpected notifications %v", *got)
	}
}

func TestLoadedAttachesPreview(t *testing.T) {
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Enable(EventLoad, true)
	n.Loaded("shot.png", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if len(*got) != 1 || (*got)[0].opts.IconPath == "" {
		t.Fatalf("expected preview icon, got %v", *got)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("PICANNOTATE_NOTIFY_TITLE", "Marks")
	t.Setenv("PICANNOTATE_NOTIFY_EXPORT_TEXT", "Wrote it")
	prefs := LoadPreferences()
	if prefs.Title != "Marks" {
		t.Fatalf("title = %q", prefs.Title)
	}
	n := New(prefs)
	if b := n.body(EventExport, "/tmp/a.png"); b != "Wrote it" {
		t.Fatalf("body = %q", b)
	}
	if b := n.body(EventCopy, "render"); b != "Copied render to clipboard" {
		t.Fatalf("body = %q", b)
	}
}

// Package config reads and writes the picannotate rc file.
package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/example/picannotate/internal/geom"
	"github.com/example/picannotate/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Copy   bool
	Export bool
	Load   bool
}

// Config holds the application configuration.
type Config struct {
	Theme           string
	ScrollSpeed     float64
	MinScale        float64
	MaxScale        float64
	PanKey          string
	MarginWithInput float64
	// DefaultSize is applied to zero-size creations. Nil discards them.
	DefaultSize *geom.Size
	IDStyle     string
	Notify      Notify
	Themes      map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:           "", // Default to empty to allow fallback to Env/Default
		ScrollSpeed:     0.0005,
		MinScale:        0.1,
		MaxScale:        10,
		PanKey:          "space",
		MarginWithInput: 10,
		IDStyle:         "short",
		Themes:          make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	fmt.Fprintf(&sb, "scroll_speed = %s\n", formatFloat(c.ScrollSpeed))
	fmt.Fprintf(&sb, "min_scale = %s\n", formatFloat(c.MinScale))
	fmt.Fprintf(&sb, "max_scale = %s\n", formatFloat(c.MaxScale))
	fmt.Fprintf(&sb, "pan_key = %s\n", c.PanKey)
	fmt.Fprintf(&sb, "margin_with_input = %s\n", formatFloat(c.MarginWithInput))
	fmt.Fprintf(&sb, "default_size = %s\n", FormatSize(c.DefaultSize))
	fmt.Fprintf(&sb, "id_style = %s\n", c.IDStyle)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "load = %v\n", c.Notify.Load)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		for _, kv := range theme.Fields(c.Themes[name]) {
			fmt.Fprintf(&sb, "%s = %s\n", kv[0], kv[1])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ParseSize reads a "WxH" size. An empty value or "none" yields nil.
func ParseSize(s string) (*geom.Size, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return nil, nil
	}
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return nil, fmt.Errorf("size %q must look like 120x90", s)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return nil, fmt.Errorf("size width: %w", err)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return nil, fmt.Errorf("size height: %w", err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("size %q must be positive", s)
	}
	return &geom.Size{Width: width, Height: height}, nil
}

// FormatSize is the inverse of ParseSize.
func FormatSize(s *geom.Size) string {
	if s == nil {
		return "none"
	}
	return formatFloat(s.Width) + "x" + formatFloat(s.Height)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

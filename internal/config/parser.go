package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/picannotate/internal/annotation"
	"github.com/example/picannotate/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		switch {
		case currentTheme != nil:
			if err := theme.SetField(currentTheme, key, value); err != nil {
				return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
			}
		case currentSection == "notify":
			if err := setNotifyField(&cfg.Notify, key, value); err != nil {
				return nil, fmt.Errorf("error in section [notify]: %w", err)
			}
		case currentSection == "":
			if err := setRootField(cfg, key, value); err != nil {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if cfg.MinScale > cfg.MaxScale {
		return nil, fmt.Errorf("min_scale %v exceeds max_scale %v", cfg.MinScale, cfg.MaxScale)
	}
	return cfg, nil
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "scroll_speed":
		return setPositive(&cfg.ScrollSpeed, key, value)
	case "min_scale":
		return setPositive(&cfg.MinScale, key, value)
	case "max_scale":
		return setPositive(&cfg.MaxScale, key, value)
	case "pan_key":
		if value == "" {
			return fmt.Errorf("pan_key must not be empty")
		}
		cfg.PanKey = strings.ToLower(value)
	case "margin_with_input":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		cfg.MarginWithInput = f
	case "default_size":
		size, err := ParseSize(value)
		if err != nil {
			return err
		}
		cfg.DefaultSize = size
	case "id_style":
		style := strings.ToLower(value)
		if _, ok := annotation.ParseIDStyle(style); !ok {
			return fmt.Errorf("unknown id_style %q", value)
		}
		cfg.IDStyle = style
	}
	return nil
}

func setPositive(dst *float64, key, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	if f <= 0 {
		return fmt.Errorf("%s must be positive", key)
	}
	*dst = f
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "copy":
		n.Copy = b
	case "export":
		n.Export = b
	case "load":
		n.Load = b
	}
	return nil
}

package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

var (
	colorType = reflect.TypeOf(color.NRGBA{})
	floatType = reflect.TypeOf(float64(0))
)

// Parse reads a theme definition from an io.Reader.
// The format is one "Key: value" pair per line. Colors accept #RRGGBB,
// #RRGGBBAA, hsl(), hsla(), rgb(), rgba() and CSS color names.
func Parse(r io.Reader) (*Theme, error) {
	t := Default() // Start with defaults
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if err := SetField(t, strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])); err != nil {
			return nil, err
		}
	}

	return t, scanner.Err()
}

// SetField assigns value to the theme field named key. The lookup is case
// insensitive and unknown keys are ignored for forward compatibility.
func SetField(t *Theme, key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}

	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	var field reflect.Value
	for i := 0; i < typ.NumField(); i++ {
		if strings.EqualFold(typ.Field(i).Name, key) {
			field = val.Field(i)
			break
		}
	}
	if !field.IsValid() {
		return nil
	}

	switch field.Type() {
	case colorType:
		col, err := ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		field.Set(reflect.ValueOf(col))
	case floatType:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		if f < 0 {
			return fmt.Errorf("invalid number for key %s: must not be negative", key)
		}
		field.SetFloat(f)
	}
	return nil
}

// ParseColor parses a CSS style color specification.
func ParseColor(s string) (color.NRGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	switch {
	case spec == "":
		return color.NRGBA{}, fmt.Errorf("color cannot be empty")
	case strings.HasPrefix(spec, "#"):
		return parseHex(spec)
	case strings.HasPrefix(spec, "hsl"):
		return parseFunc(spec, func(v []float64) color.NRGBA {
			r, g, b := colorful.Hsl(v[0], v[1], v[2]).Clamped().RGB255()
			return color.NRGBA{r, g, b, 255}
		})
	case strings.HasPrefix(spec, "rgb"):
		return parseFunc(spec, func(v []float64) color.NRGBA {
			return color.NRGBA{clamp8(v[0]), clamp8(v[1]), clamp8(v[2]), 255}
		})
	}
	if c, ok := colornames.Map[spec]; ok {
		return color.NRGBAModel.Convert(c).(color.NRGBA), nil
	}
	return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
}

func parseHex(spec string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(spec, "#")
	switch len(hex) {
	case 3, 6:
		c, err := colorful.Hex("#" + hex)
		if err != nil {
			return color.NRGBA{}, err
		}
		r, g, b := c.RGB255()
		return color.NRGBA{r, g, b, 255}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		return color.NRGBA{
			R: uint8(val >> 24),
			G: uint8((val >> 16) & 0xFF),
			B: uint8((val >> 8) & 0xFF),
			A: uint8(val & 0xFF),
		}, nil
	}
	return color.NRGBA{}, fmt.Errorf("invalid hex length")
}

// parseFunc handles "name(a, b, c[, alpha])". Percentages are turned into
// fractions so hsl saturation and lightness land in [0, 1].
func parseFunc(spec string, build func([]float64) color.NRGBA) (color.NRGBA, error) {
	open := strings.IndexByte(spec, '(')
	if open < 0 || !strings.HasSuffix(spec, ")") {
		return color.NRGBA{}, fmt.Errorf("malformed color %q", spec)
	}
	args := strings.Split(spec[open+1:len(spec)-1], ",")
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, fmt.Errorf("malformed color %q", spec)
	}
	vals := make([]float64, len(args))
	for i, a := range args {
		a = strings.TrimSpace(a)
		pct := strings.HasSuffix(a, "%")
		f, err := strconv.ParseFloat(strings.TrimSuffix(a, "%"), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("malformed color %q: %w", spec, err)
		}
		if pct {
			f /= 100
		}
		vals[i] = f
	}
	c := build(vals)
	if len(vals) == 4 {
		c.A = uint8(clamp01(vals[3])*255 + 0.5)
	}
	return c, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func clamp8(f float64) uint8 {
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f + 0.5)
}

// ToHex formats c as #RRGGBB, or #RRGGBBAA when it is not opaque.
func ToHex(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// Fields returns the theme as ordered "Key", "value" pairs suitable for
// writing back with Parse.
func Fields(t *Theme) [][2]string {
	out := [][2]string{{"Name", t.Name}}
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := val.Field(i)
		switch f.Type() {
		case colorType:
			out = append(out, [2]string{typ.Field(i).Name, ToHex(f.Interface().(color.NRGBA))})
		case floatType:
			out = append(out, [2]string{typ.Field(i).Name, strconv.FormatFloat(f.Float(), 'g', -1, 64)})
		}
	}
	return out
}

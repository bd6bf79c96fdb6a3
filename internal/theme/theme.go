package theme

import (
	"image/color"
)

// Theme defines how annotations, their handles and the comment editor are drawn.
type Theme struct {
	Name string

	// Shapes
	Padding          float64
	LineWidth        float64
	ShadowBlur       float64
	FontSize         float64
	FontColor        color.NRGBA
	FontBackground   color.NRGBA
	ShapeBackground  color.NRGBA // fill of the selected shape
	ShapeStrokeStyle color.NRGBA
	ShapeShadowStyle color.NRGBA

	// Transformer handles
	TransformerBackground color.NRGBA
	TransformerSize       float64 // screen pixels, independent of zoom

	// Comment editor
	InputBackground  color.NRGBA
	InputText        color.NRGBA
	InputPlaceholder color.NRGBA
	InputBorder      color.NRGBA
	DeleteBackground color.NRGBA
	DeleteText       color.NRGBA

	// Canvas
	CheckerLight color.NRGBA
	CheckerDark  color.NRGBA
}

// Default returns the built in light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                  "default",
		Padding:               5,
		LineWidth:             2,
		ShadowBlur:            10,
		FontSize:              12,
		FontColor:             color.NRGBA{0x21, 0x25, 0x29, 255},
		FontBackground:        color.NRGBA{0xf8, 0xf9, 0xfa, 255},
		ShapeBackground:       color.NRGBA{234, 237, 240, 51}, // hsla(210, 16%, 93%, 0.2)
		ShapeStrokeStyle:      color.NRGBA{0xf8, 0xf9, 0xfa, 255},
		ShapeShadowStyle:      color.NRGBA{72, 79, 86, 89}, // hsla(210, 9%, 31%, 0.35)
		TransformerBackground: color.NRGBA{0x5c, 0x7c, 0xfa, 255},
		TransformerSize:       10,
		InputBackground:       color.NRGBA{255, 255, 255, 255},
		InputText:             color.NRGBA{0x21, 0x25, 0x29, 255},
		InputPlaceholder:      color.NRGBA{0xad, 0xb5, 0xbd, 255},
		InputBorder:           color.NRGBA{0xce, 0xd4, 0xda, 255},
		DeleteBackground:      color.NRGBA{0xfa, 0x52, 0x52, 255},
		DeleteText:            color.NRGBA{255, 255, 255, 255},
		CheckerLight:          color.NRGBA{220, 220, 220, 255},
		CheckerDark:           color.NRGBA{192, 192, 192, 255},
	}
}

// Clone returns a copy of t that can be modified independently.
func (t *Theme) Clone() *Theme {
	if t == nil {
		return Default()
	}
	c := *t
	return &c
}

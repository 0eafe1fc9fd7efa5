package model

import (
	"fmt"
	"image/color"
	"strconv"
	"unicode/utf16"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Saturation and lightness shared by every piece color; only the hue varies.
const (
	pieceSaturation = 0.65
	pieceLightness  = 0.60
)

// Color is the display color of a piece, stored as an HSL hue in degrees.
type Color struct {
	Hue int `json:"hue"`
}

// ColorFor derives a stable color from a template signature. The same
// name and size always produce the same hue.
func ColorFor(name string, w, h int) Color {
	key := name + "-" + strconv.Itoa(w) + "-" + strconv.Itoa(h)

	// 32-bit rolling hash over UTF-16 code units: hash = c + (hash<<5) - hash
	var hash int64
	for _, c := range utf16.Encode([]rune(key)) {
		shifted := int64(int32(uint32(hash) << 5))
		hash = int64(c) + (shifted - hash)
	}
	if hash < 0 {
		hash = -hash
	}
	return Color{Hue: int(hash % 360)}
}

// String returns the color in CSS hsl() notation.
func (c Color) String() string {
	return fmt.Sprintf("hsl(%d 65%% 60%%)", c.Hue)
}

// RGB converts the color to 8-bit RGB components.
func (c Color) RGB() (r, g, b uint8) {
	return colorful.Hsl(float64(c.Hue), pieceSaturation, pieceLightness).Clamped().RGB255()
}

// NRGBA returns the color with the given alpha for canvas rendering.
func (c Color) NRGBA(alpha uint8) color.NRGBA {
	r, g, b := c.RGB()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

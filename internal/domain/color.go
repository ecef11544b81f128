package domain

import (
	"fmt"
	"math"
)

// RGB is a render color with channels normalized to [0.0, 1.0]
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// NewRGB255 normalizes 8-bit channels
func NewRGB255(r, g, b uint8) RGB {
	return RGB{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}

// Valid reports whether every channel is a finite value in [0, 1]
func (c RGB) Valid() bool {
	return inUnit(c.R) && inUnit(c.G) && inUnit(c.B)
}

// RGB255 returns the channels scaled back to 8 bits, rounded
func (c RGB) RGB255() (r, g, b uint8) {
	return to8(c.R), to8(c.G), to8(c.B)
}

// Hex returns the color as "#rrggbb"
func (c RGB) Hex() string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func inUnit(f float64) bool {
	return !math.IsNaN(f) && f >= 0 && f <= 1
}

func to8(f float64) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f*255.0 + 0.5)
}

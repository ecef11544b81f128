package colorize

import "strings"

// Format identifies the textual encoding of a color value
type Format int

const (
	FormatUnknown Format = iota
	FormatTriplet        // "r,g,b"
	FormatHex            // "#rrggbb"
)

func (f Format) String() string {
	switch f {
	case FormatTriplet:
		return "triplet"
	case FormatHex:
		return "hex"
	default:
		return "unknown"
	}
}

// DetectFormat classifies a raw value. A comma wins over '#'.
func DetectFormat(raw string) Format {
	switch {
	case strings.Contains(raw, ","):
		return FormatTriplet
	case strings.Contains(raw, "#"):
		return FormatHex
	default:
		return FormatUnknown
	}
}

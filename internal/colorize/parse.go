package colorize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"nodecolor/internal/domain"
)

// hexColorRegexp gates the hex decoder to the exact #RRGGBB shape
var hexColorRegexp = regexp.MustCompile(`^#[A-Fa-f0-9]{6}$`)

// ParseColor parses a raw color value into normalized channels. Errors are
// *MalformedColorError with Raw and Reason set.
func ParseColor(raw string) (domain.RGB, error) {
	switch DetectFormat(raw) {
	case FormatTriplet:
		return parseTriplet(raw)
	case FormatHex:
		return parseHex(raw)
	default:
		return domain.RGB{}, malformed(raw, ReasonUnrecognizedFormat,
			fmt.Errorf("expected \"r,g,b\" or \"#rrggbb\""))
	}
}

func parseTriplet(raw string) (domain.RGB, error) {
	fields := strings.Split(raw, ",")
	if len(fields) != 3 {
		return domain.RGB{}, malformed(raw, ReasonFieldCount,
			fmt.Errorf("expected 3 fields, got %d", len(fields)))
	}

	var vals [3]float64
	unit := true
	for i, f := range fields {
		s := strings.TrimSpace(f)
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.RGB{}, malformed(raw, ReasonNotNumeric,
				fmt.Errorf("field %d %q is not a number", i+1, s))
		}
		if v < 0 || v > 255 {
			return domain.RGB{}, malformed(raw, ReasonOutOfRange,
				fmt.Errorf("field %d value %v outside [0,255]", i+1, v))
		}
		if !strings.Contains(s, ".") || v > 1 {
			unit = false
		}
		vals[i] = v
	}

	if unit {
		return domain.RGB{R: vals[0], G: vals[1], B: vals[2]}, nil
	}
	return domain.RGB{
		R: vals[0] / 255.0,
		G: vals[1] / 255.0,
		B: vals[2] / 255.0,
	}, nil
}

func parseHex(raw string) (domain.RGB, error) {
	s := strings.TrimSpace(raw)
	if !hexColorRegexp.MatchString(s) {
		return domain.RGB{}, malformed(raw, ReasonInvalidHex,
			fmt.Errorf("must be # followed by 6 hex digits"))
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return domain.RGB{}, malformed(raw, ReasonInvalidHex, err)
	}
	r, g, b := c.RGB255()
	return domain.NewRGB255(r, g, b), nil
}

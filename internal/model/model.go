package model

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Variant identifies one of the railing product lines.
type Variant string

const (
	VariantFlatBar   Variant = "flatbar-pipe"               // Paired pipe posts, flat-bar rails, round pickets
	VariantRectFrame Variant = "post-double-rail-rectframe" // Square posts, three tube rails, box-frame modules
)

func (v Variant) String() string {
	switch v {
	case VariantFlatBar:
		return "Flat bar / pipe"
	case VariantRectFrame:
		return "Post + rect frame"
	default:
		return string(v)
	}
}

// Variants lists every supported product line in menu order.
var Variants = []Variant{VariantFlatBar, VariantRectFrame}

// ParseVariant returns the variant with the given model code, or false if unknown.
func ParseVariant(code string) (Variant, bool) {
	for _, v := range Variants {
		if string(v) == code {
			return v, true
		}
	}
	return "", false
}

// Default colors used when a field holds no valid color.
var (
	DefaultColor = color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
	BaseColor    = color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff} // base plate, stem, head
	AnchorColor  = color.NRGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
	PicketColor  = color.NRGBA{R: 0xbb, G: 0xbb, B: 0xbb, A: 0xff}
)

// ParseHexColor parses "#rrggbb" or "rrggbb" into an opaque color.
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// HexColor formats c as "#rrggbb".
func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

package fixture

import (
	"github.com/lucasb-eyer/go-colorful"
)

// White is the packed RGB color a color-capable light shows when nothing sets its color.
const White Value = 0xFFFFFF

// PackRGB packs 8-bit components into a single 0xRRGGBB color value.
func PackRGB(r, g, b uint8) Value {
	return Value(int(r)<<16 | int(g)<<8 | int(b))
}

// UnpackRGB splits a packed 0xRRGGBB color value into its 8-bit components.
func UnpackRGB(v Value) (r, g, b uint8) {
	packed := int(v)
	return uint8(packed >> 16 & 0xFF), uint8(packed >> 8 & 0xFF), uint8(packed & 0xFF)
}

// ColorFromHex parses a color such as "#ff8000" into a packed color value.
func ColorFromHex(hex string) (Value, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Unset, err
	}
	return PackRGB(c.RGB255()), nil
}

// ColorHex formats a packed color value as "#rrggbb".
func ColorHex(v Value) string {
	return ToColorful(v).Hex()
}

// ToColorful converts a packed color value into a colorful.Color.
func ToColorful(v Value) colorful.Color {
	r, g, b := UnpackRGB(v)
	return colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
}

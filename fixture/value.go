package fixture

import (
	"fmt"
)

// Attribute names one of the four controllable properties of a light.
type Attribute string

const (
	AttributeBrightness Attribute = "brightness"
	AttributeColor      Attribute = "color"
	AttributePan        Attribute = "pan"
	AttributeTilt       Attribute = "tilt"
)

// Attributes lists every attribute in display order.
var Attributes = []Attribute{AttributeBrightness, AttributeColor, AttributePan, AttributeTilt}

// ParseAttribute converts a name into an Attribute.
func ParseAttribute(name string) (Attribute, error) {
	for _, attr := range Attributes {
		if string(attr) == name {
			return attr, nil
		}
	}
	return "", fmt.Errorf("unknown light attribute: %s", name)
}

// LightValue bundles the attributes of a single channel at one layer. Values are treated as
// immutable: every operation in this package returns a new LightValue instead of modifying
// its arguments.
//
// The zero LightValue has every attribute at level 0. Use NewLightValue for an all-unset value.
type LightValue struct {
	Brightness Value `json:"brightness"`
	Color      Value `json:"color"`
	Pan        Value `json:"pan"`
	Tilt       Value `json:"tilt"`
}

// NewLightValue returns a LightValue with every attribute Unset.
func NewLightValue() *LightValue {
	return &LightValue{
		Brightness: Unset,
		Color:      Unset,
		Pan:        Unset,
		Tilt:       Unset,
	}
}

// Copy returns a new LightValue holding the same attributes.
func (lv *LightValue) Copy() *LightValue {
	if lv == nil {
		return NewLightValue()
	}
	out := *lv
	return &out
}

// Get returns the named attribute.
func (lv *LightValue) Get(attr Attribute) Value {
	switch attr {
	case AttributeBrightness:
		return lv.Brightness
	case AttributeColor:
		return lv.Color
	case AttributePan:
		return lv.Pan
	case AttributeTilt:
		return lv.Tilt
	}
	return Unset
}

// With returns a copy of lv with attr replaced by value.
func (lv *LightValue) With(attr Attribute, value Value) *LightValue {
	out := lv.Copy()
	switch attr {
	case AttributeBrightness:
		out.Brightness = value
	case AttributeColor:
		out.Color = value
	case AttributePan:
		out.Pan = value
	case AttributeTilt:
		out.Tilt = value
	}
	return out
}

// OnlyAttribute returns a LightValue carrying value for attr and MultipleValues for every
// other attribute.
func OnlyAttribute(attr Attribute, value Value) *LightValue {
	masked := &LightValue{
		Brightness: MultipleValues,
		Color:      MultipleValues,
		Pan:        MultipleValues,
		Tilt:       MultipleValues,
	}
	return masked.With(attr, value)
}

// IsUnset returns true when no attribute carries a value.
func (lv *LightValue) IsUnset() bool {
	return lv.Brightness == Unset && lv.Color == Unset && lv.Pan == Unset && lv.Tilt == Unset
}

// Equal compares two values attribute by attribute.
func (lv *LightValue) Equal(other *LightValue) bool {
	if lv == nil || other == nil {
		return lv == other
	}
	return *lv == *other
}

func (lv *LightValue) String() string {
	return fmt.Sprintf("{brightness=%s color=%s pan=%s tilt=%s}",
		formatValue(lv.Brightness), formatColor(lv.Color), formatValue(lv.Pan), formatValue(lv.Tilt))
}

func formatValue(v Value) string {
	switch v {
	case Unset:
		return "unset"
	case MultipleValues:
		return "multiple"
	}
	return fmt.Sprintf("%g", float64(v))
}

func formatColor(v Value) string {
	if !v.IsSet() {
		return formatValue(v)
	}
	return ColorHex(v)
}

// Combine layers top over bottom. Each attribute of top that is not Unset replaces the
// attribute of bottom outright.
func Combine(bottom, top *LightValue) *LightValue {
	return &LightValue{
		Brightness: pick(bottom.Brightness, top.Brightness),
		Color:      pick(bottom.Color, top.Color),
		Pan:        pick(bottom.Pan, top.Pan),
		Tilt:       pick(bottom.Tilt, top.Tilt),
	}
}

func pick(bottom, top Value) Value {
	if top == Unset {
		return bottom
	}
	return top
}

// Interpolate returns the value a fraction t of the way from start to finish. For t <= 0 the
// start pointer itself is returned, and for t >= 1 the finish pointer. Colors are blended per
// 8-bit RGB component. Where only one side is set, that side is used unchanged.
//
// Neither argument may contain MultipleValues.
func Interpolate(start, finish *LightValue, t float64) *LightValue {
	if t >= 1 {
		return finish
	} else if t <= 0 {
		return start
	}

	return &LightValue{
		Brightness: lerp(start.Brightness, finish.Brightness, t),
		Color:      lerpColor(start.Color, finish.Color, t),
		Pan:        lerp(start.Pan, finish.Pan, t),
		Tilt:       lerp(start.Tilt, finish.Tilt, t),
	}
}

func lerp(a, b Value, t float64) Value {
	if a == Unset {
		return b
	} else if b == Unset {
		return a
	}
	return a + (b-a)*Value(t)
}

func lerpColor(a, b Value, t float64) Value {
	if a == Unset {
		return b
	} else if b == Unset {
		return a
	}

	ar, ag, ab := UnpackRGB(a)
	br, bg, bb := UnpackRGB(b)
	return PackRGB(lerpByte(ar, br, t), lerpByte(ag, bg, t), lerpByte(ab, bb, t))
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// Aggregate folds the values of several channels into one. An attribute on which every set
// value agrees keeps that value, disagreement yields MultipleValues, and an attribute nobody
// sets stays Unset.
func Aggregate(values ...*LightValue) *LightValue {
	group := NewLightValue()
	for _, value := range values {
		if value == nil {
			continue
		}
		group.Brightness = merge(group.Brightness, value.Brightness)
		group.Color = merge(group.Color, value.Color)
		group.Pan = merge(group.Pan, value.Pan)
		group.Tilt = merge(group.Tilt, value.Tilt)
	}
	return group
}

func merge(group, value Value) Value {
	switch {
	case value == Unset:
		return group
	case group == Unset:
		return value
	case group != value:
		return MultipleValues
	}
	return group
}

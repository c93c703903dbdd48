package fixture

// Properties is the static metadata of a patched light. It decides which attributes a channel
// can take: a light without color never receives a color override, and only moving lights
// take pan and tilt.
type Properties struct {
	// Channel is the control channel the light is patched to.
	Channel Channel

	// Name is a human readable label, e.g. "left_wash".
	Name string

	// Type is the instrument type, e.g. "Colorforce II 72".
	Type string

	HasColor  bool
	HasMoving bool
	HasStrobe bool

	// Intensity is the relative output of the light, used by renderers.
	Intensity float64

	// Angle is the beam field angle in radians.
	Angle float64
}

// Supports reports whether the light can be given a value for attr. An unknown light (nil)
// only takes brightness.
func (p *Properties) Supports(attr Attribute) bool {
	if p == nil {
		return attr == AttributeBrightness
	}
	switch attr {
	case AttributeColor:
		return p.HasColor
	case AttributePan, AttributeTilt:
		return p.HasMoving
	}
	return true
}

// Defaults fills the Unset attributes of value that the light supports with their resting
// levels: dark, white and centred. Attributes the light cannot take stay Unset. p may be nil,
// in which case only brightness is defaulted.
func (p *Properties) Defaults(value *LightValue) *LightValue {
	out := value.Copy()
	if out.Brightness == Unset {
		out.Brightness = 0
	}
	if p == nil {
		return out
	}
	if p.HasColor && out.Color == Unset {
		out.Color = White
	}
	if p.HasMoving && out.Pan == Unset {
		out.Pan = 0
	}
	if p.HasMoving && out.Tilt == Unset {
		out.Tilt = 0
	}
	return out
}

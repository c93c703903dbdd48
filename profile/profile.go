package profile

import "strings"

const (
	ChannelTypeIntensity = "channel:type:intensity"
	ChannelTypeStrobe    = "channel:type:strobe"

	ChannelTypeRed   = "channel:type:red"
	ChannelTypeGreen = "channel:type:green"
	ChannelTypeBlue  = "channel:type:blue"
	ChannelTypeWhite = "channel:type:white"
	ChannelTypeAmber = "channel:type:amber"
	ChannelTypeUV    = "channel:type:uv"
	ChannelTypeColor = "channel:type:color" // Generic color wheel channel (Shehds spots)

	ChannelTypePan       = "channel:type:pan"
	ChannelTypePanSpeed  = "channel:type:panspeed"
	ChannelTypeTilt      = "channel:type:tilt"
	ChannelTypeTiltSpeed = "channel:type:tiltspeed"

	ChannelTypeGobo = "channel:type:gobo"

	ChannelTypeMotorPosition = "channel:type:motor:position"
	ChannelTypeMotorSpeed    = "channel:type:motor:speed"

	ChannelTypeFunctionSelect = "channel:type:function:select"
	ChannelTypeFunctionSpeed  = "channel:type:function:speed"

	ChannelTypeReset   = "channel:type:reset"
	ChannelTypeUnknown = "channel:type:unknown"
)

// Profile holds info for a fixture profile including the channel mapping. Channel offsets are
// 1-based, relative to the fixture's DMX start address.
type Profile struct {
	Name string

	// The fixture channels
	Channels map[string]int

	// PanRange and TiltRange are the mechanical travel in degrees of a moving head.
	PanRange  float64
	TiltRange float64
}

// Offset returns the 1-based channel offset for channelType, or 0 when the profile lacks it.
func (p Profile) Offset(channelType string) int {
	return p.Channels[channelType]
}

// HasColor returns true if the fixture can mix or select a color.
func (p Profile) HasColor() bool {
	for channelType := range p.Channels {
		for _, colorType := range []string{ChannelTypeRed, ChannelTypeGreen, ChannelTypeBlue, ChannelTypeColor} {
			// multi-cell fixtures number their cells, e.g. "channel:type:red1"
			if strings.HasPrefix(channelType, colorType) {
				return true
			}
		}
	}
	return false
}

// HasMoving returns true if the fixture can pan or tilt.
func (p Profile) HasMoving() bool {
	return p.Offset(ChannelTypePan) > 0 || p.Offset(ChannelTypeTilt) > 0
}

// HasStrobe returns true if the fixture has a shutter/strobe channel.
func (p Profile) HasStrobe() bool {
	return p.Offset(ChannelTypeStrobe) > 0
}

// Footprint returns the number of DMX channels the profile occupies.
func (p Profile) Footprint() int {
	footprint := 0
	for _, offset := range p.Channels {
		if offset > footprint {
			footprint = offset
		}
	}
	return footprint
}

package config

import (
	"strconv"

	"github.com/robmorgan/halo-cues/profile"
)

// sequential maps channel types to consecutive offsets starting at 1.
func sequential(channelTypes ...string) map[string]int {
	out := make(map[string]int, len(channelTypes))
	for i, channelType := range channelTypes {
		out[channelType] = i + 1
	}
	return out
}

// numberedCells repeats cell once per light, suffixing each channel type with the light number.
func numberedCells(lights int, cell ...string) []string {
	out := make([]string, 0, lights*len(cell))
	for light := 1; light <= lights; light++ {
		for _, channelType := range cell {
			out = append(out, channelType+strconv.Itoa(light))
		}
	}
	return out
}

func initializeFixtureProfiles() map[string]profile.Profile {
	rgbw := []string{profile.ChannelTypeRed, profile.ChannelTypeGreen, profile.ChannelTypeBlue, profile.ChannelTypeWhite}
	beamHead := []string{
		profile.ChannelTypeTilt,
		profile.ChannelTypeTiltSpeed,
		profile.ChannelTypeFunctionSelect,
		profile.ChannelTypeFunctionSpeed,
		profile.ChannelTypeIntensity,
	}

	return map[string]profile.Profile{
		"shehds-par": {
			Name: "Shehds LED Flat PAR 12x3W RGBW",
			Channels: sequential(
				profile.ChannelTypeIntensity,
				profile.ChannelTypeRed,
				profile.ChannelTypeGreen,
				profile.ChannelTypeBlue,
				profile.ChannelTypeWhite,
				profile.ChannelTypeStrobe,
				profile.ChannelTypeFunctionSelect,
				profile.ChannelTypeUnknown,
			),
		},
		// 10 channel mode, the last channel is unused
		"shehds-led-spot-60w": {
			Name:      "Shehds LED Spot 60W",
			PanRange:  540,
			TiltRange: 270,
			Channels: sequential(
				profile.ChannelTypePan,
				profile.ChannelTypeTilt,
				profile.ChannelTypeColor,
				profile.ChannelTypeGobo,
				profile.ChannelTypeStrobe,
				profile.ChannelTypeIntensity,
				profile.ChannelTypeMotorSpeed,
				profile.ChannelTypeFunctionSelect,
				profile.ChannelTypeReset,
			),
		},
		// 10 channel mode
		"shehds-led-wash-7x18w-rgbwa-uv": {
			Name:      "Shehds LED Wash 7x18W RGBWA+UV",
			PanRange:  540,
			TiltRange: 270,
			Channels: sequential(
				profile.ChannelTypePan,
				profile.ChannelTypeTilt,
				profile.ChannelTypeIntensity,
				profile.ChannelTypeRed,
				profile.ChannelTypeGreen,
				profile.ChannelTypeBlue,
				profile.ChannelTypeWhite,
				profile.ChannelTypeAmber,
				profile.ChannelTypeUV,
				profile.ChannelTypeUnknown, // TODO - check the manual, probably XY speed
			),
		},
		// 9 channel mode: one color for all eight cells
		"shehds-led-bar-beam-8x12w": {
			Name:      "Shehds LED Bar Beam 8x12W RGBW",
			TiltRange: 180,
			Channels:  sequential(append(append([]string{}, beamHead...), rgbw...)...),
		},
		// 38 channel mode: strobe plus RGBW per cell
		"shehds-led-bar-beam-8x12w-38ch": {
			Name:      "Shehds LED Bar Beam 8x12W RGBW",
			TiltRange: 180,
			Channels: sequential(append(
				append(append([]string{}, beamHead...), profile.ChannelTypeStrobe),
				numberedCells(8, rgbw...)...,
			)...),
		},
	}
}

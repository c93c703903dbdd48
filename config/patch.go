package config

import "github.com/robmorgan/halo-cues/fixture"

// PatchedFixture stores config info for a dmx fixture
type PatchedFixture struct {
	// Channel is the control channel the operator uses to address the fixture.
	Channel fixture.Channel

	Name     string
	Type     string
	Address  int
	Universe int
	Profile  string

	// Intensity and Angle are passed through to renderers.
	Intensity float64
	Angle     float64
}

func PatchFixtures() []PatchedFixture {
	s := make([]PatchedFixture, 0)

	s = append(s, patchFrontMiddlePars()...)
	s = append(s, patchFrontTopPars()...)
	s = append(s, patchUplightPars()...)
	s = append(s, patchBeamBars()...)
	s = append(s, patchSpotLights()...)
	s = append(s, patchWashLights()...)

	return s
}

func patchFrontMiddlePars() []PatchedFixture {
	return []PatchedFixture{
		// left middle par
		{
			Channel:   1,
			Name:      "left_middle_par",
			Address:   115,
			Universe:  1,
			Profile:   "shehds-par",
			Intensity: 0.3,
		},
		// right middle par
		{
			Channel:   2,
			Name:      "right_middle_par",
			Address:   139,
			Universe:  1,
			Profile:   "shehds-par",
			Intensity: 0.3,
		},
	}
}

func patchFrontTopPars() []PatchedFixture {
	return []PatchedFixture{
		// left top par
		{
			Channel:   3,
			Name:      "left_top_par",
			Address:   67,
			Universe:  1,
			Profile:   "shehds-par",
			Intensity: 0.3,
		},
		// right top par
		{
			Channel:   4,
			Name:      "right_top_par",
			Address:   76,
			Universe:  1,
			Profile:   "shehds-par",
			Intensity: 0.3,
		},
	}
}

func patchUplightPars() []PatchedFixture {
	return []PatchedFixture{
		// left uplight par (A.123 -> 122)
		{
			Channel:   5,
			Name:      "left_uplight_par",
			Address:   122,
			Universe:  1,
			Profile:   "shehds-par",
			Intensity: 0.3,
		},
		// right uplight par (A.131 -> 130)
		{
			Channel:   6,
			Name:      "right_uplight_par",
			Address:   130,
			Universe:  1,
			Profile:   "shehds-par",
			Intensity: 0.3,
		},
	}
}

func patchBeamBars() []PatchedFixture {
	return []PatchedFixture{
		{
			Channel:   7,
			Name:      "left_beam_bar",
			Address:   163,
			Universe:  1,
			Profile:   "shehds-led-bar-beam-8x12w",
			Intensity: 0.3,
		},
		{
			Channel:   8,
			Name:      "right_beam_bar",
			Address:   57,
			Universe:  1,
			Profile:   "shehds-led-bar-beam-8x12w",
			Intensity: 0.3,
		},
	}
}

func patchSpotLights() []PatchedFixture {
	return []PatchedFixture{
		{
			Channel:   9,
			Name:      "left_spot",
			Address:   20,
			Universe:  1,
			Profile:   "shehds-led-spot-60w",
			Intensity: 0.3,
		},
		{
			Channel:   10,
			Name:      "right_spot",
			Address:   31,
			Universe:  1,
			Profile:   "shehds-led-spot-60w",
			Intensity: 0.3,
		},
	}
}

func patchWashLights() []PatchedFixture {
	return []PatchedFixture{
		{
			Channel:   11,
			Name:      "left_wash",
			Address:   200,
			Universe:  1,
			Profile:   "shehds-led-wash-7x18w-rgbwa-uv",
			Intensity: 0.3,
		},
		{
			Channel:   12,
			Name:      "right_wash",
			Address:   211,
			Universe:  1,
			Profile:   "shehds-led-wash-7x18w-rgbwa-uv",
			Intensity: 0.3,
		},
	}
}

// defaultGroups are the stock groups of the house rig.
func defaultGroups() []GroupConfig {
	return []GroupConfig{
		{Name: "S4", Channels: channelRange(1, 12)},
		{Name: "Left Booms", Channels: channelRange(81, 86)},
		{Name: "Right Booms", Channels: channelRange(91, 96)},
		{Name: "D40 Top", Channels: channelRange(33, 42)},
		{Name: "Esprite", Channels: channelRange(21, 26)},
		{Name: "CF", Channels: channelRange(101, 106)},
	}
}

func channelRange(first, last int) []fixture.Channel {
	out := make([]fixture.Channel, 0, last-first+1)
	for c := first; c <= last; c++ {
		out = append(out, fixture.Channel(c))
	}
	return out
}

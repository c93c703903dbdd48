package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/robmorgan/halo-cues/fixture"
	"github.com/robmorgan/halo-cues/profile"
)

const (
	defaultLogLevel   = "info"
	defaultFadeCurve  = "linear"
	defaultOLAAddress = "localhost:9010"
	defaultDMXTick    = 40 * time.Millisecond
)

// HaloConfig represents options that configure the global behavior of the program
type HaloConfig struct {
	LogLevel string

	// RenderQuality decides how often a running fade is sampled.
	RenderQuality RenderQuality

	// FadeCurve names the easing curve applied to cue fades.
	FadeCurve string

	// OLAAddress is the host:port of the OLA daemon used for DMX output.
	OLAAddress string

	// DMXTick is the interval between DMX frames sent to OLA.
	DMXTick time.Duration

	// The fixture profiles
	FixtureProfiles map[string]profile.Profile

	// PatchedFixtures stores all of the patched fixtures
	PatchedFixtures []PatchedFixture

	// Groups are the light groups available for selection
	Groups []GroupConfig
}

// GroupConfig describes a named group of channels.
type GroupConfig struct {
	Name     string
	Channels []fixture.Channel
}

// NewHaloConfig creates a new HaloConfig object with reasonable defaults for real usage
func NewHaloConfig() HaloConfig {
	return HaloConfig{
		LogLevel:        defaultLogLevel,
		RenderQuality:   RenderQualityMedium,
		FadeCurve:       defaultFadeCurve,
		OLAAddress:      defaultOLAAddress,
		DMXTick:         defaultDMXTick,
		FixtureProfiles: initializeFixtureProfiles(),
		PatchedFixtures: PatchFixtures(),
		Groups:          defaultGroups(),
	}
}

// configValidate checks the field bounds of a decoded config file.
var configValidate = validator.New()

type rawFixture struct {
	Channel   int     `toml:"channel" validate:"gte=1"`
	Name      string  `toml:"name" validate:"required"`
	Type      string  `toml:"type"`
	Address   int     `toml:"address" validate:"gte=1,lte=512"`
	Universe  int     `toml:"universe" validate:"gte=0"`
	Profile   string  `toml:"profile" validate:"required"`
	Intensity float64 `toml:"intensity" validate:"gte=0,lte=1"`
	Angle     float64 `toml:"angle"`
}

type rawGroup struct {
	Name     string `toml:"name" validate:"required"`
	Channels []int  `toml:"channels" validate:"dive,gte=1"`
}

type rawConfig struct {
	LogLevel      string       `toml:"log_level"`
	RenderQuality string       `toml:"render_quality"`
	FadeCurve     string       `toml:"fade_curve"`
	OLAAddress    string       `toml:"ola_address"`
	DMXTick       string       `toml:"dmx_tick"`
	Fixtures      []rawFixture `toml:"fixture" validate:"dive"`
	Groups        []rawGroup   `toml:"group" validate:"dive"`
}

// Load reads a TOML config file, falling back to the defaults when the file is missing. Any
// key left out of the file keeps its default; a [[fixture]] or [[group]] list in the file
// replaces the default patch or groups.
func Load(path string) (HaloConfig, error) {
	cfg := NewHaloConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return HaloConfig{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return HaloConfig{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse decodes a TOML document into a HaloConfig, applying defaults for missing keys.
func Parse(r io.Reader) (HaloConfig, error) {
	cfg := NewHaloConfig()

	bytes, err := io.ReadAll(r)
	if err != nil {
		return HaloConfig{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return HaloConfig{}, fmt.Errorf("parse config: %w", err)
	}
	if err := configValidate.Struct(raw); err != nil {
		return HaloConfig{}, fmt.Errorf("invalid config: %w", err)
	}

	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = level
	}
	if quality := strings.TrimSpace(raw.RenderQuality); quality != "" {
		cfg.RenderQuality, err = ParseRenderQuality(quality)
		if err != nil {
			return HaloConfig{}, err
		}
	}
	if curve := strings.TrimSpace(raw.FadeCurve); curve != "" {
		cfg.FadeCurve = curve
	}
	if addr := strings.TrimSpace(raw.OLAAddress); addr != "" {
		cfg.OLAAddress = addr
	}
	if tick := strings.TrimSpace(raw.DMXTick); tick != "" {
		cfg.DMXTick, err = time.ParseDuration(tick)
		if err != nil {
			return HaloConfig{}, fmt.Errorf("parse dmx_tick: %w", err)
		}
	}

	if len(raw.Fixtures) > 0 {
		cfg.PatchedFixtures = make([]PatchedFixture, 0, len(raw.Fixtures))
		for _, f := range raw.Fixtures {
			universe := f.Universe
			if universe == 0 {
				universe = 1
			}
			cfg.PatchedFixtures = append(cfg.PatchedFixtures, PatchedFixture{
				Channel:   fixture.Channel(f.Channel),
				Name:      f.Name,
				Type:      f.Type,
				Address:   f.Address,
				Universe:  universe,
				Profile:   f.Profile,
				Intensity: f.Intensity,
				Angle:     f.Angle,
			})
		}
	}

	if len(raw.Groups) > 0 {
		cfg.Groups = make([]GroupConfig, 0, len(raw.Groups))
		for _, g := range raw.Groups {
			channels := make([]fixture.Channel, 0, len(g.Channels))
			for _, c := range g.Channels {
				channels = append(channels, fixture.Channel(c))
			}
			cfg.Groups = append(cfg.Groups, GroupConfig{Name: g.Name, Channels: channels})
		}
	}

	if err := cfg.Validate(); err != nil {
		return HaloConfig{}, err
	}
	return cfg, nil
}

// Validate checks that every patched fixture references a known profile and a unique channel.
func (c HaloConfig) Validate() error {
	seen := make(map[fixture.Channel]string, len(c.PatchedFixtures))
	for _, f := range c.PatchedFixtures {
		if f.Channel <= 0 {
			return fmt.Errorf("fixture %q has no channel", f.Name)
		}
		if other, ok := seen[f.Channel]; ok {
			return fmt.Errorf("fixtures %q and %q share channel %d", other, f.Name, f.Channel)
		}
		seen[f.Channel] = f.Name
		if _, ok := c.FixtureProfiles[f.Profile]; !ok {
			return fmt.Errorf("fixture %q uses unknown profile %q", f.Name, f.Profile)
		}
	}
	return nil
}

// LoadLights derives the per-channel light metadata from the patch and its profiles.
func (c HaloConfig) LoadLights() ([]fixture.Properties, error) {
	lights := make([]fixture.Properties, 0, len(c.PatchedFixtures))
	for _, f := range c.PatchedFixtures {
		p, ok := c.FixtureProfiles[f.Profile]
		if !ok {
			return nil, fmt.Errorf("fixture %q uses unknown profile %q", f.Name, f.Profile)
		}
		lights = append(lights, fixture.Properties{
			Channel:   f.Channel,
			Name:      f.Name,
			Type:      f.Type,
			HasColor:  p.HasColor(),
			HasMoving: p.HasMoving(),
			HasStrobe: p.HasStrobe(),
			Intensity: f.Intensity,
			Angle:     f.Angle,
		})
	}
	return lights, nil
}

// Fixture returns the patched fixture on channel.
func (c HaloConfig) Fixture(channel fixture.Channel) (PatchedFixture, bool) {
	for _, f := range c.PatchedFixtures {
		if f.Channel == channel {
			return f, true
		}
	}
	return PatchedFixture{}, false
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

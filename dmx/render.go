package dmx

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/sirupsen/logrus"

	"github.com/robmorgan/halo-cues/action"
	"github.com/robmorgan/halo-cues/config"
	"github.com/robmorgan/halo-cues/engine/scale"
	"github.com/robmorgan/halo-cues/fixture"
	"github.com/robmorgan/halo-cues/logger"
	"github.com/robmorgan/halo-cues/patch"
	"github.com/robmorgan/halo-cues/profile"
)

var toIntensity = scale.ToByte(0, 100)

// layout locates a patched light in DMX space.
type layout struct {
	universe int
	address  int
	profile  profile.Profile
}

// offset returns the absolute DMX address of a profile channel, or 0 if the profile lacks it.
func (l layout) offset(channelType string) int {
	o := l.profile.Offset(channelType)
	if o == 0 {
		return 0
	}
	return l.address + o - 1
}

// Renderer writes the resolved light values of the patch into a State.
type Renderer struct {
	patch   patch.Manager
	state   *State
	layouts map[fixture.Channel]layout
	logger  *logrus.Logger

	// fadeSeq identifies the newest fade being drawn. Older fades stop drawing.
	fadeSeq atomic.Uint64

	unsubscribe []func()
	stop        chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// NewRenderer maps every fixture patched in cfg. Lights without a patched fixture are not drawn.
func NewRenderer(pm patch.Manager, cfg config.HaloConfig, state *State) (*Renderer, error) {
	layouts := make(map[fixture.Channel]layout, len(cfg.PatchedFixtures))
	for _, f := range cfg.PatchedFixtures {
		p, ok := cfg.FixtureProfiles[f.Profile]
		if !ok {
			return nil, errors.WithStackTrace(fmt.Errorf("fixture %q uses unknown profile %q", f.Name, f.Profile))
		}
		universe := f.Universe
		if universe == 0 {
			universe = 1
		}
		layouts[f.Channel] = layout{universe: universe, address: f.Address, profile: p}
	}

	return &Renderer{
		patch:   pm,
		state:   state,
		layouts: layouts,
		logger:  logger.GetProjectLogger(),
		stop:    make(chan struct{}),
	}, nil
}

// Attach subscribes the renderer to engine events and draws the current look.
func (r *Renderer) Attach(e *action.Engine) error {
	r.unsubscribe = append(r.unsubscribe,
		e.SubscribeRender(func() {
			if err := r.RenderAll(); err != nil {
				r.logger.WithError(err).Error("Failed to render lights")
			}
		}),
		e.Subscribe(r.handleAction),
	)
	return r.RenderAll()
}

// Detach unsubscribes from the engine and waits for fade drawing to stop. The renderer cannot
// be attached again.
func (r *Renderer) Detach() {
	for _, unsubscribe := range r.unsubscribe {
		unsubscribe()
	}
	r.unsubscribe = nil
	r.stopOnce.Do(func() { close(r.stop) })
	r.wg.Wait()
}

func (r *Renderer) handleAction(a action.Action) {
	switch a := a.(type) {
	case *action.LightValueSet:
		// a value set without rerender still changes the output of the selection
		if a.Rerender() {
			return
		}
		if err := r.RenderChannels(r.patch.GetSelectedLights()); err != nil {
			r.logger.WithError(err).Error("Failed to render selection")
		}

	case *action.CueAdd, *action.CueDelete, *action.CueUpdate:
		// edits to the cue list move the executor without a render signal
		if err := r.RenderAll(); err != nil {
			r.logger.WithError(err).Error("Failed to render after cue edit")
		}

	case *action.CueSelect:
		progress := a.Progress()
		if progress == nil {
			return
		}
		seq := r.fadeSeq.Add(1)
		r.wg.Add(1)
		go r.drawFade(seq, a.CueID, progress)
	}
}

// drawFade writes a frame for every progress value and redraws everything once the fade ends.
func (r *Renderer) drawFade(seq uint64, cueID string, progress <-chan float64) {
	defer r.wg.Done()
	log := r.logger.WithFields(logrus.Fields{"cue_id": cueID})

	for {
		select {
		case <-r.stop:
			return
		case t, ok := <-progress:
			if r.fadeSeq.Load() != seq {
				if !ok {
					return
				}
				continue
			}
			if !ok {
				if err := r.RenderAll(); err != nil {
					log.WithError(err).Error("Failed to render after fade")
				}
				return
			}
			if err := r.RenderFadeFrame(t); err != nil {
				log.WithError(err).Error("Failed to render fade frame")
			}
		}
	}
}

// RenderAll writes the resolved value of every light.
func (r *Renderer) RenderAll() error {
	return r.RenderChannels(r.patch.GetAllLights())
}

// RenderChannels writes the resolved value of each channel.
func (r *Renderer) RenderChannels(channels []fixture.Channel) error {
	var ops []Operation
	for _, channel := range channels {
		ops = append(ops, r.operations(channel, r.patch.GetLightValue(channel, false, patch.ModeBoth))...)
	}
	return r.state.Set(ops...)
}

// RenderFadeFrame writes the programmed channels a fraction t of the way into the fade.
func (r *Renderer) RenderFadeFrame(t float64) error {
	var ops []Operation
	for _, channel := range r.patch.GetProgrammedChannels() {
		ops = append(ops, r.operations(channel, r.patch.GetFadeValue(channel, t))...)
	}
	return r.state.Set(ops...)
}

func (r *Renderer) operations(channel fixture.Channel, value *fixture.LightValue) []Operation {
	l, ok := r.layouts[channel]
	if !ok {
		return nil
	}

	var ops []Operation
	write := func(address int, v byte) {
		if address > 0 {
			ops = append(ops, Operation{Universe: l.universe, Address: address, Value: v})
		}
	}

	if value.Brightness.IsSet() {
		write(l.offset(profile.ChannelTypeIntensity), toIntensity(float64(value.Brightness)))
	}

	if value.Color.IsSet() {
		red, green, blue := fixture.UnpackRGB(value.Color)
		for channelType, o := range l.profile.Channels {
			address := l.address + o - 1
			switch {
			case strings.HasPrefix(channelType, profile.ChannelTypeRed):
				write(address, red)
			case strings.HasPrefix(channelType, profile.ChannelTypeGreen):
				write(address, green)
			case strings.HasPrefix(channelType, profile.ChannelTypeBlue):
				write(address, blue)
			}
		}
	}

	if value.Pan.IsSet() && l.profile.PanRange > 0 {
		half := l.profile.PanRange / 2
		write(l.offset(profile.ChannelTypePan), scale.ToByte(-half, half)(float64(value.Pan)))
	}
	if value.Tilt.IsSet() && l.profile.TiltRange > 0 {
		half := l.profile.TiltRange / 2
		write(l.offset(profile.ChannelTypeTilt), scale.ToByte(-half, half)(float64(value.Tilt)))
	}
	return ops
}

package playback

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/robmorgan/halo-cues/action"
	"github.com/robmorgan/halo-cues/cuelist"
	"github.com/robmorgan/halo-cues/effect"
	"github.com/robmorgan/halo-cues/logger"
)

const defaultPollInterval = 25 * time.Millisecond

// Performer runs actions, e.g. an *action.Engine.
type Performer interface {
	PerformAction(a action.Action) error
}

// Player follows a Transport and selects whichever cue the track position has reached,
// fading into cues that have a fade time.
type Player struct {
	engine    Performer
	cues      *cuelist.CueList
	transport Transport

	clock    clock.WithTicker
	interval time.Duration
	curve    effect.Curve
	logger   *logrus.Logger

	// current is the cue the player last selected, "" for none.
	current string
	started bool
	lock    sync.Mutex
}

// Option configures a Player.
type Option func(*Player)

// WithClock sets the clock driving the poll loop.
func WithClock(cl clock.WithTicker) Option {
	return func(p *Player) { p.clock = cl }
}

// WithPollInterval sets how often the transport is polled.
func WithPollInterval(interval time.Duration) Option {
	return func(p *Player) { p.interval = interval }
}

// WithCurve sets the easing curve applied to cue fades.
func WithCurve(curve effect.Curve) Option {
	return func(p *Player) { p.curve = curve }
}

// NewPlayer creates a player for cues driven by transport.
func NewPlayer(engine Performer, cues *cuelist.CueList, transport Transport, opts ...Option) *Player {
	p := &Player{
		engine:    engine,
		cues:      cues,
		transport: transport,
		clock:     clock.RealClock{},
		interval:  defaultPollInterval,
		logger:    logger.GetProjectLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls the transport until ctx is cancelled.
func (p *Player) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	p.logger.WithFields(logrus.Fields{"interval": p.interval}).Info("Player started")

	t := p.clock.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Player shutdown")
			return
		case <-t.C():
			if !p.transport.Playing() {
				continue
			}
			if err := p.Step(); err != nil {
				p.logger.WithError(err).Error("Failed to follow transport")
			}
		}
	}
}

// Reset makes the next Step select the cue at the transport position even if the player
// selected it before, e.g. after the cue list was reloaded.
func (p *Player) Reset() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.started = false
}

// Step selects the cue at the current transport position if it differs from the one the
// player selected last.
func (p *Player) Step() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	cue := p.cues.CueAt(p.transport.Position())

	id := ""
	if cue != nil {
		id = cue.ID
	}
	if p.started && id == p.current {
		return nil
	}

	var sel *action.CueSelect
	if cue != nil && cue.Fade > 0 {
		start, duration := cue.Time, cue.Fade
		sel = action.NewCueSelect(id, true, func() float64 {
			return effect.Progress(p.transport.Position(), start, duration, p.curve)
		})
	} else {
		sel = action.NewCueSelect(id, false, nil)
	}

	p.logger.WithFields(logrus.Fields{"cue_id": id, "fade": sel.Fading()}).Debug("Transport reached cue")
	if err := p.engine.PerformAction(sel); err != nil {
		return err
	}
	p.current = id
	p.started = true
	return nil
}

package action

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// Fade samples the progress of a cross-fade on a ticker. Each fade belongs to one generation
// of the engine; once a newer fade starts, an older one drops its remaining ticks.
type Fade struct {
	generation uint64
	current    func() uint64
	getT       func() float64
	ticker     clock.Ticker
	onTick     func()
	onFinish   func(*Fade)
	logger     *logrus.Entry

	progress chan float64
	done     chan struct{}

	lock     sync.Mutex
	finished bool
	lastT    float64
	once     sync.Once
}

type fadeConfig struct {
	clock      clock.WithTicker
	period     time.Duration
	generation uint64

	// current returns the engine's latest generation.
	current  func() uint64
	getT     func() float64
	onTick   func()
	onFinish func(*Fade)
	logger   *logrus.Entry
}

func newFade(cfg fadeConfig) *Fade {
	return &Fade{
		generation: cfg.generation,
		current:    cfg.current,
		getT:       cfg.getT,
		ticker:     cfg.clock.NewTicker(cfg.period),
		onTick:     cfg.onTick,
		onFinish:   cfg.onFinish,
		logger:     cfg.logger.WithField("fade_generation", cfg.generation),
		progress:   make(chan float64, 1),
		done:       make(chan struct{}),
		lastT:      -1,
	}
}

// Generation returns the engine generation the fade was started in.
func (f *Fade) Generation() uint64 {
	return f.generation
}

// Done is closed once the fade has finished.
func (f *Fade) Done() <-chan struct{} {
	return f.done
}

func (f *Fade) run() {
	f.logger.Debug("Fade started")
	for {
		select {
		case <-f.done:
			return
		case <-f.ticker.C():
			f.sample()
		}
	}
}

func (f *Fade) sample() {
	if f.current() != f.generation {
		f.logger.Debug("Dropping tick of superseded fade")
		f.finish()
		return
	}

	t := f.getT()

	f.lock.Lock()
	if f.finished {
		f.lock.Unlock()
		return
	}
	if t != f.lastT {
		f.publish(t)
		if f.onTick != nil {
			f.onTick()
		}
	}
	f.lastT = t
	f.lock.Unlock()

	if t >= 1 || t < 0 {
		f.finish()
	}
}

// publish hands t to the reader, replacing any value it has not picked up yet.
func (f *Fade) publish(t float64) {
	for {
		select {
		case f.progress <- t:
			return
		default:
			select {
			case <-f.progress:
			default:
			}
		}
	}
}

// finish stops the ticker and closes the progress channel. It is safe to call more than once.
func (f *Fade) finish() {
	f.once.Do(func() {
		f.lock.Lock()
		f.finished = true
		f.ticker.Stop()
		close(f.progress)
		close(f.done)
		f.lock.Unlock()

		f.logger.WithField("t", f.lastT).Debug("Fade finished")
		if f.onFinish != nil {
			f.onFinish(f)
		}
	})
}

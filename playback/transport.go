package playback

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// Transport reports the position of the audio track the show is timed against.
type Transport interface {
	// Position returns the current position in seconds.
	Position() float64
	Playing() bool
}

// ClockTransport is a Transport that advances with a clock while playing.
type ClockTransport struct {
	clock clock.PassiveClock

	playing   bool
	offset    float64
	startedAt time.Time

	lock sync.Mutex
}

// NewClockTransport creates a paused transport at position 0.
func NewClockTransport(cl clock.PassiveClock) *ClockTransport {
	return &ClockTransport{clock: cl}
}

// Play starts the transport from its current position.
func (t *ClockTransport) Play() {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.playing {
		return
	}
	t.playing = true
	t.startedAt = t.clock.Now()
}

// Pause stops the transport, keeping its position.
func (t *ClockTransport) Pause() {
	t.lock.Lock()
	defer t.lock.Unlock()
	if !t.playing {
		return
	}
	t.offset = t.position()
	t.playing = false
}

// Seek moves the transport to position seconds.
func (t *ClockTransport) Seek(position float64) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.offset = position
	t.startedAt = t.clock.Now()
}

// Position returns the current position in seconds.
func (t *ClockTransport) Position() float64 {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.position()
}

// Playing reports whether the transport is running.
func (t *ClockTransport) Playing() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.playing
}

func (t *ClockTransport) position() float64 {
	if !t.playing {
		return t.offset
	}
	return t.offset + t.clock.Since(t.startedAt).Seconds()
}

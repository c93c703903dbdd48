package action

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testclock "k8s.io/utils/clock/testing"

	"github.com/robmorgan/halo-cues/config"
	"github.com/robmorgan/halo-cues/fixture"
)

// progressSource is a getT func whose value is set by the test.
type progressSource struct {
	lock sync.Mutex
	t    float64
}

func (p *progressSource) set(t float64) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.t = t
}

func (p *progressSource) get() float64 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.t
}

func receive(t *testing.T, ch <-chan float64) (float64, bool) {
	t.Helper()
	select {
	case v, ok := <-ch:
		return v, ok
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for fade progress")
	}
	return 0, false
}

type countingObserver struct {
	lock  sync.Mutex
	ticks int
}

func (o *countingObserver) ActionPerformed(string) {}
func (o *countingObserver) ActionUndone(string)    {}
func (o *countingObserver) CueCountChanged(int)    {}
func (o *countingObserver) FadeTicked() {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.ticks++
}

func TestFadeSamplesUntilComplete(t *testing.T) {
	t.Parallel()

	clk := testclock.NewFakeClock(time.Now())
	observer := &countingObserver{}
	s := newSession(t, WithClock(clk), WithRenderQuality(config.RenderQualityHigh), WithObserver(observer))
	s.perform(t, NewCueAdd(0, "A", 0), NewCueAdd(10, "B", 2))
	b := s.cues.Cues()[1]

	renders := 0
	s.engine.SubscribeRender(func() { renders++ })

	source := &progressSource{}
	sel := NewCueSelect(b.ID, true, source.get)
	assert.False(t, sel.Rerender())
	s.perform(t, sel)
	assert.Equal(t, 0, renders)
	assert.Equal(t, b.ID, s.cues.GetSelectedCueID())

	progress := sel.Progress()
	require.NotNil(t, progress)

	for _, want := range []float64{0.25, 0.5} {
		source.set(want)
		clk.Step(50 * time.Millisecond)
		got, ok := receive(t, progress)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	source.set(1)
	clk.Step(50 * time.Millisecond)
	got, ok := receive(t, progress)
	require.True(t, ok)
	assert.Equal(t, 1.0, got)

	_, ok = receive(t, progress)
	assert.False(t, ok)
	assert.Eventually(t, func() bool { return !sel.Fading() }, 5*time.Second, 10*time.Millisecond)
	assert.Nil(t, sel.Progress())

	observer.lock.Lock()
	assert.Equal(t, 3, observer.ticks)
	observer.lock.Unlock()

	// a redo of a finished fade is a hard cut
	require.NoError(t, s.engine.Undo())
	require.NoError(t, s.engine.Redo())
	assert.Nil(t, sel.Progress())
	assert.Equal(t, 2, renders)
}

func TestFadeFinishesWhenTIsNegative(t *testing.T) {
	t.Parallel()

	clk := testclock.NewFakeClock(time.Now())
	s := newSession(t, WithClock(clk))
	s.perform(t, NewCueAdd(0, "A", 0))

	sel := NewCueSelect("", true, func() float64 { return -0.5 })
	s.perform(t, sel)
	progress := sel.Progress()
	require.NotNil(t, progress)

	clk.Step(100 * time.Millisecond)
	got, ok := receive(t, progress)
	require.True(t, ok)
	assert.Equal(t, -0.5, got)

	_, ok = receive(t, progress)
	assert.False(t, ok)
}

func TestLaterCueSelectSupersedesFade(t *testing.T) {
	t.Parallel()

	clk := testclock.NewFakeClock(time.Now())
	s := newSession(t, WithClock(clk))
	s.perform(t, NewCueAdd(0, "A", 0), NewCueAdd(5, "B", 1))
	a := s.cues.Cues()[0]

	source := &progressSource{}
	first := NewCueSelect("", true, source.get)
	s.perform(t, first)
	progress := first.Progress()
	require.NotNil(t, progress)

	s.perform(t, NewCueSelect(a.ID, false, nil))

	_, ok := receive(t, progress)
	assert.False(t, ok)
	assert.Eventually(t, func() bool { return !first.Fading() }, 5*time.Second, 10*time.Millisecond)
}

func TestUndoFinalizesFade(t *testing.T) {
	t.Parallel()

	clk := testclock.NewFakeClock(time.Now())
	s := newSession(t, WithClock(clk))
	add := NewCueAdd(0, "A", 0)
	s.perform(t, add)

	source := &progressSource{}
	sel := NewCueSelect("", true, source.get)
	s.perform(t, sel)
	progress := sel.Progress()
	require.NotNil(t, progress)

	require.NoError(t, s.engine.Undo())
	_, ok := receive(t, progress)
	assert.False(t, ok)
	assert.Equal(t, add.Cue().ID, s.cues.GetSelectedCueID())
	assert.True(t, sel.Rerender())
}

func TestFadeWithoutProgressIsHardCut(t *testing.T) {
	t.Parallel()

	sel := NewCueSelect("", true, nil)
	assert.False(t, sel.Fading())
	assert.True(t, sel.Rerender())
}

func TestFadeFrame(t *testing.T) {
	t.Parallel()

	clk := testclock.NewFakeClock(time.Now())
	s := newSession(t, WithClock(clk))
	s.perform(t,
		NewCueAdd(0, "dark", 0),
		NewCueAdd(5, "bright", 2),
		NewLightSelect([]fixture.Channel{1}, false, false),
		NewLightValueSet(fixture.AttributeBrightness, 100, true),
	)
	dark, bright := s.cues.Cues()[0], s.cues.Cues()[1]
	s.perform(t, NewCueSelect(dark.ID, false, nil))

	source := &progressSource{}
	s.perform(t, NewCueSelect(bright.ID, true, source.get))

	frame := s.patch.GetFadeValue(1, 0.5)
	assert.Equal(t, fixture.Value(50), frame.Brightness)
}

package action

import (
	"testing"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robmorgan/halo-cues/cuelist"
	"github.com/robmorgan/halo-cues/fixture"
	"github.com/robmorgan/halo-cues/patch"
)

type session struct {
	patch  *patch.StateManager
	cues   *cuelist.CueList
	engine *Engine
}

func newSession(t *testing.T, opts ...Option) *session {
	t.Helper()
	pm := patch.NewStateManager()
	require.NoError(t, pm.SetLights([]fixture.Properties{
		{Channel: 1, Name: "dimmer"},
		{Channel: 2, Name: "par", HasColor: true},
		{Channel: 3, Name: "spot", HasColor: true, HasMoving: true},
	}))
	cues := cuelist.NewCueList(pm)
	e := NewEngine(pm, cues, opts...)
	t.Cleanup(e.Close)
	return &session{patch: pm, cues: cues, engine: e}
}

func (s *session) perform(t *testing.T, actions ...Action) {
	t.Helper()
	for _, a := range actions {
		require.NoError(t, s.engine.PerformAction(a))
	}
}

// observable captures everything a listener can see about the session.
type observable struct {
	Titles   []string
	Times    []float64
	Selected string
	Lights   []fixture.Channel
	Values   map[fixture.Channel]fixture.LightValue
}

func (s *session) observe() observable {
	out := observable{
		Selected: s.cues.GetSelectedCueID(),
		Lights:   s.patch.GetSelectedLights(),
		Values:   map[fixture.Channel]fixture.LightValue{},
	}
	for _, cue := range s.cues.Cues() {
		out.Titles = append(out.Titles, cue.Title)
		out.Times = append(out.Times, cue.Time)
	}
	for _, channel := range s.patch.GetAllLights() {
		out.Values[channel] = *s.patch.GetLightValue(channel, true, patch.ModeBoth)
	}
	return out
}

func TestUndoRedoRoundTrip(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	initial := s.observe()

	actions := []Action{
		NewCueAdd(10, "A", 0),
		NewLightSelect([]fixture.Channel{1, 2}, false, false),
		NewLightValueSet(fixture.AttributeBrightness, 80, true),
		NewLightValueSet(fixture.AttributeColor, 0xFF0000, true),
		NewCueAdd(5, "B", 0),
		NewLightSelect([]fixture.Channel{3}, false, true),
		NewLightValueSet(fixture.AttributePan, 45, true),
	}
	s.perform(t, actions...)
	s.perform(t, NewCueUpdate(s.cues.Cues()[0].ID, WithTime(20)))
	s.perform(t, NewCueSelect(s.cues.Cues()[0].ID, false, nil))
	s.perform(t, NewCueDelete(s.cues.Cues()[1].ID))
	performed := len(actions) + 3
	final := s.observe()

	for i := 0; i < performed; i++ {
		require.NoError(t, s.engine.Undo())
	}
	assert.False(t, s.engine.CanUndo())
	assert.Equal(t, initial, s.observe())

	for i := 0; i < performed; i++ {
		require.NoError(t, s.engine.Redo())
	}
	assert.False(t, s.engine.CanRedo())
	assert.Equal(t, final, s.observe())
}

func TestPerformDoesNotClearRedo(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	s.perform(t, NewCueAdd(1, "A", 0))
	require.NoError(t, s.engine.Undo())
	assert.True(t, s.engine.CanRedo())

	s.perform(t, NewCueAdd(2, "B", 0))
	assert.True(t, s.engine.CanRedo())
	assert.True(t, s.engine.CanUndo())
}

func TestEmptyUndoRedoAreNoops(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	require.NoError(t, s.engine.Undo())
	require.NoError(t, s.engine.Redo())
	assert.False(t, s.engine.CanUndo())
	assert.False(t, s.engine.CanRedo())
}

func TestLoadPurgesHistory(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	s.perform(t, NewCueAdd(1, "A", 0), NewCueAdd(2, "B", 0))
	require.NoError(t, s.engine.Undo())

	s.perform(t, NewCueLoad([]*cuelist.Cue{cuelist.NewCue(3, "loaded", 0)}))
	assert.False(t, s.engine.CanUndo())
	assert.False(t, s.engine.CanRedo())
	assert.Equal(t, "", s.cues.GetSelectedCueID())
	assert.Equal(t, 1, s.cues.Len())

	s.perform(t, NewCueAdd(4, "C", 0))
	s.perform(t, NewAudioLoad(cuelist.AudioRef{Name: "track"}))
	assert.False(t, s.engine.CanUndo())
	assert.Equal(t, "track", s.cues.Audio().Name)
}

func TestUndoIrreversibleAction(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	load := NewCueLoad(nil)
	s.engine.undoHistory = append(s.engine.undoHistory, load)

	err := s.engine.Undo()
	require.Error(t, err)
	assert.True(t, errors.IsError(err, ErrIrreversible))
	assert.True(t, s.engine.CanUndo())
	assert.False(t, s.engine.CanRedo())
}

func TestUndoBeforeDo(t *testing.T) {
	t.Parallel()

	testCases := []Action{
		NewLightValueSet(fixture.AttributeBrightness, 10, true),
		NewLightSelect([]fixture.Channel{1}, false, false),
		NewCueSelect("", false, nil),
		NewCueAdd(1, "A", 0),
		NewCueDelete("x"),
		NewCueUpdate("x", WithTitle("y")),
	}

	for _, a := range testCases {
		s := newSession(t)
		s.engine.undoHistory = append(s.engine.undoHistory, a)

		err := s.engine.Undo()
		require.Error(t, err, a.Name())
		assert.True(t, errors.IsError(err, ErrUndoBeforeDo), a.Name())
		assert.True(t, s.engine.CanUndo(), a.Name())
	}
}

func TestCueUpdateUnknownCue(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	var events []Action
	s.engine.Subscribe(func(a Action) { events = append(events, a) })

	err := s.engine.PerformAction(NewCueUpdate("missing", WithTime(3)))
	require.Error(t, err)
	assert.True(t, errors.IsError(err, ErrCueNotFound))
	assert.False(t, s.engine.CanUndo())
	assert.Empty(t, events)
}

func TestCueUpdateKeepsUnsetFields(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	add := NewCueAdd(1, "A", 2)
	s.perform(t, add)
	s.perform(t, NewCueUpdate(add.Cue().ID, WithTitle("renamed")))

	cue := add.Cue()
	assert.Equal(t, "renamed", cue.Title)
	assert.Equal(t, 1.0, cue.Time)
	assert.Equal(t, 2.0, cue.Fade)

	require.NoError(t, s.engine.Undo())
	assert.Equal(t, "A", cue.Title)
}

func TestCueAddRedoReusesCue(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	first := NewCueAdd(1, "A", 0)
	second := NewCueAdd(2, "B", 0)
	s.perform(t, first, second)
	id := second.Cue().ID

	require.NoError(t, s.engine.Undo())
	assert.Nil(t, s.cues.GetCue(id))
	assert.Equal(t, first.Cue().ID, s.cues.GetSelectedCueID())

	require.NoError(t, s.engine.Redo())
	assert.Same(t, second.Cue(), s.cues.GetCue(id))
	assert.Equal(t, id, s.cues.GetSelectedCueID())
}

func TestCueDeleteUndoRestoresCue(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	add := NewCueAdd(1, "A", 0)
	s.perform(t, add, NewLightSelect([]fixture.Channel{1}, false, false))
	s.perform(t, NewLightValueSet(fixture.AttributeBrightness, 60, true))

	del := NewCueDelete(add.Cue().ID)
	s.perform(t, del)
	assert.Equal(t, 0, s.cues.Len())
	assert.Empty(t, s.patch.GetProgrammedChannels())

	require.NoError(t, s.engine.Undo())
	assert.Same(t, add.Cue(), s.cues.GetCue(add.Cue().ID))
	assert.Equal(t, add.Cue().ID, s.cues.GetSelectedCueID())
	assert.Equal(t, fixture.Value(60), s.patch.GetLightValue(1, true, patch.ModeBoth).Brightness)

	unknown := NewCueDelete("missing")
	s.perform(t, unknown)
	assert.Nil(t, unknown.OldCue())
	require.NoError(t, s.engine.Undo())
}

func TestLightValueSetUndoRestoresExactValues(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	s.perform(t,
		NewCueAdd(0, "A", 0),
		NewLightSelect([]fixture.Channel{1}, false, false),
		NewLightValueSet(fixture.AttributeBrightness, 20, true),
		NewLightSelect([]fixture.Channel{3}, false, true),
		NewLightValueSet(fixture.AttributeBrightness, 40, true),
		NewLightSelect([]fixture.Channel{1, 2, 3}, false, false),
	)

	set := NewLightValueSet(fixture.AttributeBrightness, 90, true)
	s.perform(t, set)
	assert.Equal(t, fixture.MultipleValues, set.OldValue().Brightness)
	for _, channel := range []fixture.Channel{1, 2, 3} {
		assert.Equal(t, fixture.Value(90), s.patch.GetLightValue(channel, true, patch.ModeProgrammer).Brightness)
	}

	require.NoError(t, s.engine.Undo())
	assert.Equal(t, fixture.Value(20), s.patch.GetLightValue(1, true, patch.ModeProgrammer).Brightness)
	assert.Equal(t, fixture.Value(40), s.patch.GetLightValue(3, true, patch.ModeProgrammer).Brightness)
	assert.Equal(t, []fixture.Channel{1, 3}, s.patch.GetProgrammedChannels())
}

func TestLightValueSetOnlyWritesItsAttribute(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	s.perform(t,
		NewCueAdd(0, "A", 0),
		NewLightSelect([]fixture.Channel{2}, false, false),
		NewLightValueSet(fixture.AttributeBrightness, 50, true),
		NewLightSelect([]fixture.Channel{2, 3}, false, true),
	)

	set := NewLightValueSet(fixture.AttributeColor, 0xFF0000, true)
	s.perform(t, set)
	assert.Equal(t, fixture.Value(50), set.OldValue().Brightness)
	assert.Equal(t, fixture.MultipleValues, set.NewValue().Brightness)

	par := s.patch.GetLightValue(2, true, patch.ModeProgrammer)
	assert.Equal(t, fixture.Value(50), par.Brightness)
	assert.Equal(t, fixture.Value(0xFF0000), par.Color)

	spot := s.patch.GetLightValue(3, true, patch.ModeProgrammer)
	assert.Equal(t, fixture.Unset, spot.Brightness)
	assert.Equal(t, fixture.Value(0xFF0000), spot.Color)
	assert.Equal(t, fixture.Unset, spot.Pan)

	require.NoError(t, s.engine.Undo())
	assert.Equal(t, []fixture.Channel{2}, s.patch.GetProgrammedChannels())
	assert.Equal(t, fixture.Unset, s.patch.GetLightValue(2, true, patch.ModeProgrammer).Color)
}

func TestLightSelectVariants(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	s.perform(t, NewLightSelect([]fixture.Channel{1, 2, 3}, false, false))
	s.perform(t, NewLightSelect([]fixture.Channel{2}, true, false))
	assert.Equal(t, []fixture.Channel{1, 3}, s.patch.GetSelectedLights())

	s.perform(t, NewLightSelect([]fixture.Channel{2}, false, true))
	assert.Equal(t, []fixture.Channel{2}, s.patch.GetSelectedLights())

	require.NoError(t, s.engine.Undo())
	assert.Equal(t, []fixture.Channel{1, 3}, s.patch.GetSelectedLights())
	require.NoError(t, s.engine.Redo())
	assert.Equal(t, []fixture.Channel{2}, s.patch.GetSelectedLights())
}

func TestEventsAndRenderSignal(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	var names []string
	renders := 0
	unsubscribe := s.engine.Subscribe(func(a Action) { names = append(names, a.Name()) })
	s.engine.SubscribeRender(func() { renders++ })

	s.perform(t, NewCueAdd(1, "A", 0))
	s.perform(t, NewLightValueSet(fixture.AttributeBrightness, 10, true))
	s.perform(t, NewLightValueSet(fixture.AttributeBrightness, 20, false))
	require.NoError(t, s.engine.Undo())

	assert.Equal(t, []string{"cue_add", "light_value_set", "light_value_set", "light_value_set"}, names)
	assert.Equal(t, 1, renders)

	unsubscribe()
	s.perform(t, NewCueAdd(2, "B", 0))
	assert.Len(t, names, 4)
}

func TestAddUpdateDeleteScenario(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	a := NewCueAdd(10, "A", 0)
	b := NewCueAdd(5, "B", 0)
	s.perform(t, a, b)
	assert.Equal(t, []string{"B", "A"}, s.observe().Titles)
	assert.Equal(t, b.Cue().ID, s.cues.GetSelectedCueID())

	s.perform(t, NewCueUpdate(a.Cue().ID, WithTime(2), WithTitle("A"), WithFade(0)))
	assert.Equal(t, []string{"A", "B"}, s.observe().Titles)
	assert.Equal(t, b.Cue().ID, s.cues.GetSelectedCueID())

	s.perform(t, NewCueDelete(b.Cue().ID))
	assert.Equal(t, []string{"A"}, s.observe().Titles)
	assert.Equal(t, "", s.cues.GetSelectedCueID())
}

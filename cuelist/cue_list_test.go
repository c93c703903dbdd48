package cuelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robmorgan/halo-cues/fixture"
	"github.com/robmorgan/halo-cues/patch"
)

func newTestCueList(t *testing.T) (*CueList, *patch.StateManager) {
	t.Helper()
	pm := patch.NewStateManager()
	require.NoError(t, pm.SetLights([]fixture.Properties{
		{Channel: 1, Name: "dimmer"},
		{Channel: 2, Name: "par", HasColor: true},
	}))
	return NewCueList(pm), pm
}

func brightness(v fixture.Value) *fixture.LightValue {
	return fixture.NewLightValue().With(fixture.AttributeBrightness, v)
}

func titles(cl *CueList) []string {
	out := make([]string, 0, cl.Len())
	for _, cue := range cl.Cues() {
		out = append(out, cue.Title)
	}
	return out
}

func TestAddCueKeepsTimeOrder(t *testing.T) {
	t.Parallel()

	cl, _ := newTestCueList(t)
	a := cl.AddCue(10, "A", 0)
	b := cl.AddCue(5, "B", 0)
	c := cl.AddCue(10, "C", 1)

	assert.Equal(t, []string{"B", "A", "C"}, titles(cl))
	assert.Equal(t, c.ID, cl.GetSelectedCueID())
	assert.Same(t, c, cl.GetSelectedCue())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddCueBeforeSelectedAdjustsIndex(t *testing.T) {
	t.Parallel()

	cl, pm := newTestCueList(t)
	cl.AddCue(1, "first", 0)
	pm.SelectLight(1)
	pm.SetValue(brightness(40))

	later := cl.AddCue(10, "later", 0)
	cl.InsertCue(NewCue(5, "middle", 0))

	assert.Equal(t, []string{"first", "middle", "later"}, titles(cl))
	assert.Same(t, later, cl.GetSelectedCue())
	assert.Equal(t, fixture.Value(40), pm.GetLightValue(1, true, patch.ModeExecutor).Brightness)
}

func TestSelectCueLoadsLayers(t *testing.T) {
	t.Parallel()

	cl, pm := newTestCueList(t)
	pm.SelectLight(1)

	first := cl.AddCue(0, "first", 0)
	pm.SetValue(brightness(100))
	second := cl.AddCue(5, "second", 0)
	pm.SetValue(brightness(20))

	assert.Equal(t, fixture.Value(100), first.LightValues.Get(1).Brightness)
	assert.Equal(t, fixture.Value(20), second.LightValues.Get(1).Brightness)

	cl.SelectCue(second.ID)
	assert.Equal(t, fixture.Value(100), pm.GetLightValue(1, true, patch.ModeExecutor).Brightness)
	assert.Equal(t, fixture.Value(20), pm.GetLightValue(1, true, patch.ModeBoth).Brightness)

	cl.SelectCue(first.ID)
	assert.Equal(t, fixture.Unset, pm.GetLightValue(1, true, patch.ModeExecutor).Brightness)
	assert.Equal(t, fixture.Value(100), pm.GetLightValue(1, true, patch.ModeBoth).Brightness)

	cl.SelectCue("")
	assert.Nil(t, cl.GetSelectedCue())
	assert.Empty(t, pm.GetProgrammedChannels())

	cl.SelectCue("unknown")
	assert.Equal(t, "", cl.GetSelectedCueID())
}

func TestAddUpdateDeleteScenario(t *testing.T) {
	t.Parallel()

	cl, _ := newTestCueList(t)
	a := cl.AddCue(10, "A", 0)
	b := cl.AddCue(20, "B", 0)
	c := cl.AddCue(30, "C", 0)
	assert.Equal(t, []string{"A", "B", "C"}, titles(cl))

	updated := cl.UpdateCue(a.ID, 25, "A", 0)
	require.Same(t, a, updated)
	assert.Equal(t, []string{"B", "A", "C"}, titles(cl))
	assert.Same(t, c, cl.GetSelectedCue())

	assert.Same(t, b, cl.DeleteCue(b.ID))
	assert.Equal(t, []string{"A", "C"}, titles(cl))
	assert.Same(t, c, cl.GetSelectedCue())

	assert.Nil(t, cl.DeleteCue(b.ID))
	assert.Nil(t, cl.UpdateCue(b.ID, 1, "B", 0))
}

func TestUpdateCueTieKeepsRelativeOrder(t *testing.T) {
	t.Parallel()

	cl, _ := newTestCueList(t)
	a := cl.AddCue(10, "A", 0)
	cl.AddCue(10, "B", 0)
	cl.AddCue(20, "C", 0)

	cl.UpdateCue(a.ID, 10, "A2", 2)
	assert.Equal(t, []string{"A2", "B", "C"}, titles(cl))
	assert.Equal(t, 2.0, a.Fade)
}

func TestDeleteSelectedCueResetsLayers(t *testing.T) {
	t.Parallel()

	cl, pm := newTestCueList(t)
	pm.SelectLight(1)
	cl.AddCue(0, "first", 0)
	pm.SetValue(brightness(100))
	second := cl.AddCue(5, "second", 0)
	pm.SetValue(brightness(20))

	cl.DeleteCue(second.ID)
	assert.Nil(t, cl.GetSelectedCue())
	assert.Empty(t, pm.GetProgrammedChannels())
	assert.Equal(t, fixture.Unset, pm.GetLightValue(1, true, patch.ModeExecutor).Brightness)
	assert.Equal(t, fixture.Value(20), second.LightValues.Get(1).Brightness)
}

func TestGetNextCueAndCueAt(t *testing.T) {
	t.Parallel()

	cl, _ := newTestCueList(t)
	a := cl.AddCue(0, "A", 0)
	b := cl.AddCue(5, "B", 0)

	assert.Same(t, b, cl.GetNextCue(a))
	assert.Nil(t, cl.GetNextCue(b))
	assert.Nil(t, cl.GetNextCue(NewCue(1, "stray", 0)))

	assert.Nil(t, cl.CueAt(-1))
	assert.Same(t, a, cl.CueAt(0))
	assert.Same(t, a, cl.CueAt(4.99))
	assert.Same(t, b, cl.CueAt(5))
	assert.Same(t, b, cl.CueAt(100))
}

func TestLoadReplacesCues(t *testing.T) {
	t.Parallel()

	cl, pm := newTestCueList(t)
	cl.AddCue(1, "old", 0)

	late := &Cue{ID: "late", Time: 9, Title: "late"}
	early := NewCue(2, "early", 0)
	cl.Load([]*Cue{late, early})

	assert.Equal(t, []string{"early", "late"}, titles(cl))
	assert.Nil(t, cl.GetSelectedCue())
	assert.NotNil(t, late.LightValues)
	assert.Empty(t, pm.GetProgrammedChannels())

	cues := cl.Cues()
	cues[0] = nil
	assert.NotNil(t, cl.Cues()[0])
}

func TestAudio(t *testing.T) {
	t.Parallel()

	cl, _ := newTestCueList(t)
	cl.SetAudio(AudioRef{Name: "song", Path: "/tmp/song.mp3"})
	assert.Equal(t, "song", cl.Audio().Name)
}

package cuelist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robmorgan/halo-cues/fixture"
)

func TestReadShow(t *testing.T) {
	t.Parallel()

	show, err := ReadShow(strings.NewReader(`{
		"id": "show-1",
		"name": "Opening",
		"audio": {"name": "track", "path": "track.mp3"},
		"cues": [
			{"id": "c1", "time": 1.5, "fade": 2, "title": "Intro",
			 "lightValues": {"channels": [3], "values": [{"brightness": 100, "color": -99999, "pan": -99999, "tilt": -99999}]}},
			{"id": "c2", "time": 4, "fade": 0, "title": "Blackout"}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Opening", show.Name)
	assert.Equal(t, "track.mp3", show.Audio.Path)
	require.Len(t, show.Cues, 2)
	assert.Equal(t, fixture.Value(100), show.Cues[0].LightValues.Get(3).Brightness)
	assert.Equal(t, fixture.Unset, show.Cues[0].LightValues.Get(3).Color)
	assert.Equal(t, 0, show.Cues[1].LightValues.Len())

	_, err = ReadShow(strings.NewReader(`{"cues": [`))
	require.Error(t, err)
}

func TestWriteShowSnapshot(t *testing.T) {
	t.Parallel()

	cl, pm := newTestCueList(t)
	cl.SetAudio(AudioRef{Name: "track"})
	pm.SelectLight(2)
	cl.AddCue(3, "Red", 1)
	pm.SetValue(fixture.NewLightValue().With(fixture.AttributeColor, 0xFF0000))

	var buf bytes.Buffer
	require.NoError(t, WriteShow(&buf, cl.Snapshot("id", "Snapshot")))
	assert.Contains(t, buf.String(), `"lightValues"`)
	assert.Contains(t, buf.String(), `"modifyDate"`)

	show, err := ReadShow(&buf)
	require.NoError(t, err)
	require.Len(t, show.Cues, 1)
	assert.Equal(t, "Red", show.Cues[0].Title)
	assert.Equal(t, fixture.Value(0xFF0000), show.Cues[0].LightValues.Get(2).Color)
}

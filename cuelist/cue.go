package cuelist

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/robmorgan/halo-cues/fixture"
)

// Cue is a lighting snapshot tied to a point in the show's audio track.
type Cue struct {
	// ID is an opaque identifier, stable for the lifetime of the cue.
	ID string `json:"id"`

	// Time is the position in the audio track, in seconds, at which the cue starts.
	Time float64 `json:"time"`

	// Fade is the length of the cross-fade into this cue, in seconds. Zero means a hard cut.
	Fade float64 `json:"fade"`

	Title string `json:"title"`

	// LightValues holds the channels this cue changes. While the cue is selected this store is
	// the live programmer, so edits made outside the action engine are not undoable.
	LightValues *fixture.LightValueStore `json:"lightValues"`
}

// NewCue creates a cue with a fresh id and no light values.
func NewCue(time float64, title string, fade float64) *Cue {
	return &Cue{
		ID:          uuid.NewString(),
		Time:        time,
		Fade:        fade,
		Title:       title,
		LightValues: fixture.NewLightValueStore(),
	}
}

func (c *Cue) String() string {
	return fmt.Sprintf("%s (%.2fs, fade %.2fs)", c.Title, c.Time, c.Fade)
}

// UnmarshalJSON decodes a cue, giving it an empty store when lightValues is missing.
func (c *Cue) UnmarshalJSON(data []byte) error {
	type plain Cue
	var in plain
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.LightValues == nil {
		in.LightValues = fixture.NewLightValueStore()
	}
	*c = Cue(in)
	return nil
}

// AudioRef points at the audio track a show is timed against.
type AudioRef struct {
	Name string `json:"name"`
	Path string `json:"path"`

	// Duration is the track length in seconds, zero when unknown.
	Duration float64 `json:"duration,omitempty"`
}

// Show is the persisted unit: an audio track plus the cues timed against it.
type Show struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Audio      AudioRef  `json:"audio"`
	ModifyDate time.Time `json:"modifyDate"`
	Cues       []*Cue    `json:"cues"`
}

// NewShow creates an empty show with a fresh id.
func NewShow(name string, audio AudioRef) *Show {
	return &Show{
		ID:         uuid.NewString(),
		Name:       name,
		Audio:      audio,
		ModifyDate: time.Now(),
		Cues:       make([]*Cue, 0),
	}
}

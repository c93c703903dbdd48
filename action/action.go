package action

import (
	"sync"

	"github.com/robmorgan/halo-cues/cuelist"
	"github.com/robmorgan/halo-cues/fixture"
	"github.com/robmorgan/halo-cues/patch"
)

// Action is a reversible change to the patch or the cue list. The set of actions is closed:
// LightValueSet, LightSelect, CueSelect, CueAdd, CueDelete, CueUpdate, CueLoad and AudioLoad.
// Every action records the state it replaces the first time it is applied, so that the engine
// can revert it and later re-apply it.
type Action interface {
	// Name identifies the kind of action in logs and metrics.
	Name() string

	// Rerender reports whether listeners should redraw the whole rig after this action.
	Rerender() bool

	// PurgeHistory reports whether applying this action clears the undo and redo stacks.
	PurgeHistory() bool

	action()
}

// LightValueSet sets one attribute on every selected light.
type LightValueSet struct {
	Attribute fixture.Attribute
	Value     fixture.Value

	rerender bool

	done     bool
	oldValue *fixture.LightValue
	newValue *fixture.LightValue
	snapshot patch.Snapshot
}

// NewLightValueSet creates an action setting attr to value on the selection.
func NewLightValueSet(attr fixture.Attribute, value fixture.Value, rerender bool) *LightValueSet {
	return &LightValueSet{Attribute: attr, Value: value, rerender: rerender}
}

func (a *LightValueSet) Name() string       { return "light_value_set" }
func (a *LightValueSet) Rerender() bool     { return a.rerender }
func (a *LightValueSet) PurgeHistory() bool { return false }
func (a *LightValueSet) action()            {}

// OldValue is the aggregated programmer value of the selection before the first apply.
func (a *LightValueSet) OldValue() *fixture.LightValue { return a.oldValue }

// NewValue is the value written to the selection.
func (a *LightValueSet) NewValue() *fixture.LightValue { return a.newValue }

// LightSelect changes the light selection.
type LightSelect struct {
	Channels       []fixture.Channel
	Deselect       bool
	DeselectOthers bool

	done     bool
	oldGroup []fixture.Channel
	newGroup []fixture.Channel
}

// NewLightSelect creates an action that selects channels, or deselects them when deselect is
// set. With deselectOthers the previous selection is cleared first.
func NewLightSelect(channels []fixture.Channel, deselect, deselectOthers bool) *LightSelect {
	return &LightSelect{Channels: channels, Deselect: deselect, DeselectOthers: deselectOthers}
}

func (a *LightSelect) Name() string       { return "light_select" }
func (a *LightSelect) Rerender() bool     { return false }
func (a *LightSelect) PurgeHistory() bool { return false }
func (a *LightSelect) action()            {}

// CueSelect selects a cue, optionally cross-fading into it.
type CueSelect struct {
	CueID string

	getT func() float64

	done     bool
	oldCueID string

	lock        sync.Mutex
	fadePending bool // set until the fade has been started once
	active      *Fade
}

// NewCueSelect creates an action selecting id ("" selects no cue). When fade is set the
// engine samples getT after selection and publishes its progress on Progress until t
// reaches 1 or drops below 0. A fade without getT is a hard cut.
func NewCueSelect(id string, fade bool, getT func() float64) *CueSelect {
	return &CueSelect{
		CueID:       id,
		getT:        getT,
		fadePending: fade && getT != nil,
	}
}

func (a *CueSelect) Name() string       { return "cue_select" }
func (a *CueSelect) PurgeHistory() bool { return false }
func (a *CueSelect) action()            {}

// Rerender is false while the action is fading, since the fade drives rendering itself.
func (a *CueSelect) Rerender() bool {
	return !a.Fading()
}

// Fading reports whether a fade is requested or running.
func (a *CueSelect) Fading() bool {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.fadePending || a.active != nil
}

// Progress returns the progress channel of the running fade, or nil when not fading. The
// channel is closed when the fade finishes.
func (a *CueSelect) Progress() <-chan float64 {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.active == nil {
		return nil
	}
	return a.active.progress
}

// OldCueID is the cue that was selected before the first apply.
func (a *CueSelect) OldCueID() string { return a.oldCueID }

func (a *CueSelect) takePendingFade() bool {
	a.lock.Lock()
	defer a.lock.Unlock()
	pending := a.fadePending
	a.fadePending = false
	return pending
}

func (a *CueSelect) setActive(f *Fade) {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.active = f
}

func (a *CueSelect) clearActive(f *Fade) {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.active == f {
		a.active = nil
	}
}

// CueAdd creates a cue and selects it.
type CueAdd struct {
	Time  float64
	Title string
	Fade  float64

	done          bool
	cue           *cuelist.Cue
	previousCueID string
}

// NewCueAdd creates an action adding a cue at time seconds.
func NewCueAdd(time float64, title string, fade float64) *CueAdd {
	return &CueAdd{Time: time, Title: title, Fade: fade}
}

func (a *CueAdd) Name() string       { return "cue_add" }
func (a *CueAdd) Rerender() bool     { return false }
func (a *CueAdd) PurgeHistory() bool { return false }
func (a *CueAdd) action()            {}

// Cue returns the cue created by the first apply.
func (a *CueAdd) Cue() *cuelist.Cue { return a.cue }

// CueDelete removes a cue.
type CueDelete struct {
	CueID string

	done        bool
	oldCue      *cuelist.Cue
	wasSelected bool
}

// NewCueDelete creates an action deleting the cue with id.
func NewCueDelete(id string) *CueDelete {
	return &CueDelete{CueID: id}
}

func (a *CueDelete) Name() string       { return "cue_delete" }
func (a *CueDelete) Rerender() bool     { return false }
func (a *CueDelete) PurgeHistory() bool { return false }
func (a *CueDelete) action()            {}

// OldCue returns the deleted cue, or nil when the id was unknown.
func (a *CueDelete) OldCue() *cuelist.Cue { return a.oldCue }

// CueUpdate changes the time, title or fade of a cue. Fields left out keep their value.
type CueUpdate struct {
	CueID string

	time  *float64
	title *string
	fade  *float64

	done     bool
	oldTime  float64
	oldTitle string
	oldFade  float64
}

// CueUpdateOption picks a field for a CueUpdate to change.
type CueUpdateOption func(*CueUpdate)

// WithTime moves the cue to time seconds.
func WithTime(time float64) CueUpdateOption {
	return func(a *CueUpdate) { a.time = &time }
}

// WithTitle renames the cue.
func WithTitle(title string) CueUpdateOption {
	return func(a *CueUpdate) { a.title = &title }
}

// WithFade changes the fade length in seconds.
func WithFade(fade float64) CueUpdateOption {
	return func(a *CueUpdate) { a.fade = &fade }
}

// NewCueUpdate creates an action updating the cue with id.
func NewCueUpdate(id string, opts ...CueUpdateOption) *CueUpdate {
	a := &CueUpdate{CueID: id}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *CueUpdate) Name() string       { return "cue_update" }
func (a *CueUpdate) Rerender() bool     { return false }
func (a *CueUpdate) PurgeHistory() bool { return false }
func (a *CueUpdate) action()            {}

// CueLoad replaces the whole cue list. It clears the history.
type CueLoad struct {
	Cues []*cuelist.Cue
}

// NewCueLoad creates an action loading cues.
func NewCueLoad(cues []*cuelist.Cue) *CueLoad {
	return &CueLoad{Cues: cues}
}

func (a *CueLoad) Name() string       { return "cue_load" }
func (a *CueLoad) Rerender() bool     { return true }
func (a *CueLoad) PurgeHistory() bool { return true }
func (a *CueLoad) action()            {}

// AudioLoad switches the audio track. It clears the history.
type AudioLoad struct {
	Audio cuelist.AudioRef
}

// NewAudioLoad creates an action loading audio.
func NewAudioLoad(audio cuelist.AudioRef) *AudioLoad {
	return &AudioLoad{Audio: audio}
}

func (a *AudioLoad) Name() string       { return "audio_load" }
func (a *AudioLoad) Rerender() bool     { return false }
func (a *AudioLoad) PurgeHistory() bool { return true }
func (a *AudioLoad) action()            {}

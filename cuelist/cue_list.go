package cuelist

import (
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/robmorgan/halo-cues/fixture"
	"github.com/robmorgan/halo-cues/logger"
	"github.com/robmorgan/halo-cues/patch"
)

// CueList stores the cues of a show in time order and tracks which one is selected. Selecting
// a cue loads the patch: every earlier cue becomes the executor layer and the cue's own light
// values become the programmer.
type CueList struct {
	patch patch.Manager

	cues []*Cue

	// selectedID is empty when no cue is selected, in which case selectedIndex is -1.
	selectedID    string
	selectedIndex int

	audio AudioRef

	lock sync.RWMutex
}

// NewCueList creates an empty cue list driving pm.
func NewCueList(pm patch.Manager) *CueList {
	return &CueList{
		patch:         pm,
		cues:          make([]*Cue, 0),
		selectedIndex: -1,
	}
}

// SelectCue commits the programmer into the selected cue and then selects id. An empty or
// unknown id selects nothing and leaves the patch with empty layers.
func (cl *CueList) SelectCue(id string) {
	cl.lock.Lock()
	defer cl.lock.Unlock()
	cl.selectCue(id)
}

func (cl *CueList) selectCue(id string) {
	cl.commitProgrammer()
	if id == cl.selectedID {
		return
	}

	cl.selectedIndex = cl.indexOf(id)
	if cl.selectedIndex == -1 {
		cl.selectedID = ""
		cl.resetLayers()
		logger.GetProjectLogger().WithFields(logrus.Fields{"cue_id": id}).Debug("Cleared cue selection")
		return
	}

	cl.selectedID = id
	cl.refreshExecutor()
	cl.patch.UpdateProgrammer(cl.cues[cl.selectedIndex].LightValues)
	logger.GetProjectLogger().WithFields(logrus.Fields{"cue_id": id, "index": cl.selectedIndex}).Debug("Selected cue")
}

func (cl *CueList) commitProgrammer() {
	if cl.selectedIndex != -1 {
		cl.cues[cl.selectedIndex].LightValues = cl.patch.GetProgrammerValues()
	}
}

func (cl *CueList) refreshExecutor() {
	stores := make([]*fixture.LightValueStore, 0, cl.selectedIndex)
	for _, cue := range cl.cues[:cl.selectedIndex] {
		stores = append(stores, cue.LightValues)
	}
	cl.patch.UpdateExecutor(stores...)
}

func (cl *CueList) resetLayers() {
	cl.patch.UpdateExecutor()
	cl.patch.UpdateProgrammer(fixture.NewLightValueStore())
}

// AddCue creates a cue, inserts it in time order and selects it.
func (cl *CueList) AddCue(time float64, title string, fade float64) *Cue {
	cue := NewCue(time, title, fade)

	cl.lock.Lock()
	defer cl.lock.Unlock()
	cl.insert(cue)
	cl.selectCue(cue.ID)
	return cue
}

// InsertCue puts an existing cue back into the list in time order without changing the
// selection.
func (cl *CueList) InsertCue(cue *Cue) {
	cl.lock.Lock()
	defer cl.lock.Unlock()
	cl.insert(cue)
}

// insert places cue before the first cue with a later time, so cues sharing a time keep
// insertion order.
func (cl *CueList) insert(cue *Cue) {
	if cue.LightValues == nil {
		cue.LightValues = fixture.NewLightValueStore()
	}

	i := slices.IndexFunc(cl.cues, func(c *Cue) bool {
		return c.Time > cue.Time
	})
	if i == -1 {
		cl.cues = append(cl.cues, cue)
		return
	}

	cl.cues = slices.Insert(cl.cues, i, cue)
	if i <= cl.selectedIndex {
		cl.selectedIndex++
		cl.refreshExecutor()
	}
}

// UpdateCue changes the time, title and fade of a cue and re-sorts the list. Cues with equal
// times keep their previous relative order. It returns nil when id is unknown.
func (cl *CueList) UpdateCue(id string, time float64, title string, fade float64) *Cue {
	cl.lock.Lock()
	defer cl.lock.Unlock()

	i := cl.indexOf(id)
	if i == -1 {
		return nil
	}
	cue := cl.cues[i]
	cue.Time = time
	cue.Title = title
	cue.Fade = fade

	slices.SortStableFunc(cl.cues, func(a, b *Cue) bool {
		return a.Time < b.Time
	})

	if cl.selectedID != "" {
		cl.selectedIndex = cl.indexOf(cl.selectedID)
		cl.refreshExecutor()
	}
	return cue
}

// DeleteCue removes a cue and returns it, or nil when id is unknown. Deleting the selected cue
// clears the selection and the patch layers.
func (cl *CueList) DeleteCue(id string) *Cue {
	cl.lock.Lock()
	defer cl.lock.Unlock()

	i := cl.indexOf(id)
	if i == -1 {
		return nil
	}
	cue := cl.cues[i]
	cl.cues = slices.Delete(cl.cues, i, i+1)

	switch {
	case i < cl.selectedIndex:
		cl.selectedIndex--
		cl.refreshExecutor()
	case i == cl.selectedIndex:
		cl.selectedID = ""
		cl.selectedIndex = -1
		cl.resetLayers()
	}
	return cue
}

// Load replaces every cue and clears the selection.
func (cl *CueList) Load(cues []*Cue) {
	sorted := slices.Clone(cues)
	for _, cue := range sorted {
		if cue.LightValues == nil {
			cue.LightValues = fixture.NewLightValueStore()
		}
	}
	slices.SortStableFunc(sorted, func(a, b *Cue) bool {
		return a.Time < b.Time
	})

	cl.lock.Lock()
	defer cl.lock.Unlock()
	cl.cues = sorted
	cl.selectedID = ""
	cl.selectedIndex = -1
	cl.resetLayers()

	logger.GetProjectLogger().WithFields(logrus.Fields{"cues": len(sorted)}).Info("Loaded cue list")
}

// GetCue looks up a cue by id, returning nil when it is unknown.
func (cl *CueList) GetCue(id string) *Cue {
	cl.lock.RLock()
	defer cl.lock.RUnlock()
	if i := cl.indexOf(id); i != -1 {
		return cl.cues[i]
	}
	return nil
}

// GetSelectedCue returns the selected cue or nil.
func (cl *CueList) GetSelectedCue() *Cue {
	cl.lock.RLock()
	defer cl.lock.RUnlock()
	if cl.selectedIndex == -1 {
		return nil
	}
	return cl.cues[cl.selectedIndex]
}

// GetSelectedCueID returns the id of the selected cue, or "" when none is selected.
func (cl *CueList) GetSelectedCueID() string {
	cl.lock.RLock()
	defer cl.lock.RUnlock()
	return cl.selectedID
}

// GetNextCue returns the cue after cue, or nil when cue is last or not in the list.
func (cl *CueList) GetNextCue(cue *Cue) *Cue {
	cl.lock.RLock()
	defer cl.lock.RUnlock()
	i := cl.indexOf(cue.ID)
	if i == -1 || i == len(cl.cues)-1 {
		return nil
	}
	return cl.cues[i+1]
}

// CueAt returns the last cue starting at or before position, or nil when position precedes
// every cue.
func (cl *CueList) CueAt(position float64) *Cue {
	cl.lock.RLock()
	defer cl.lock.RUnlock()

	var found *Cue
	for _, cue := range cl.cues {
		if cue.Time > position {
			break
		}
		found = cue
	}
	return found
}

// Cues returns the cues in time order. The slice is a copy; the cues are shared.
func (cl *CueList) Cues() []*Cue {
	cl.lock.RLock()
	defer cl.lock.RUnlock()
	return slices.Clone(cl.cues)
}

// Len returns the number of cues.
func (cl *CueList) Len() int {
	cl.lock.RLock()
	defer cl.lock.RUnlock()
	return len(cl.cues)
}

// SetAudio records the audio track the cues are timed against.
func (cl *CueList) SetAudio(audio AudioRef) {
	cl.lock.Lock()
	defer cl.lock.Unlock()
	cl.audio = audio
}

// Audio returns the current audio track.
func (cl *CueList) Audio() AudioRef {
	cl.lock.RLock()
	defer cl.lock.RUnlock()
	return cl.audio
}

func (cl *CueList) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(cl.cues, func(c *Cue) bool {
		return c.ID == id
	})
}

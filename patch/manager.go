package patch

import (
	"fmt"
	"sync"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robmorgan/halo-cues/fixture"
	"github.com/robmorgan/halo-cues/logger"
)

// Mode picks which layer GetLightValue resolves.
type Mode int

const (
	// ModeBoth layers the programmer over the executor.
	ModeBoth Mode = iota
	ModeProgrammer
	ModeExecutor
)

func (m Mode) String() string {
	switch m {
	case ModeProgrammer:
		return "programmer"
	case ModeExecutor:
		return "executor"
	}
	return "both"
}

// LightLoader supplies the fixture metadata of the patch.
type LightLoader interface {
	LoadLights() ([]fixture.Properties, error)
}

// Manager is the patch manager interface.
type Manager interface {
	LoadLights(loader LightLoader) error
	SetLights(lights []fixture.Properties) error
	GetAllLights() []fixture.Channel
	GetLightProperties(channel fixture.Channel) (fixture.Properties, bool)

	SetValue(value *fixture.LightValue)
	GetLightValue(channel fixture.Channel, returnUnset bool, mode Mode) *fixture.LightValue
	GetLightValues(channels []fixture.Channel, returnUnset bool, mode Mode) *fixture.LightValue
	GetSelectedValue() *fixture.LightValue
	GetFadeValue(channel fixture.Channel, t float64) *fixture.LightValue

	SelectLight(channel fixture.Channel)
	SelectLights(channels ...fixture.Channel)
	DeselectLight(channel fixture.Channel)
	DeselectLights(channels ...fixture.Channel)
	ClearSelection()
	SetSelectedLights(channels []fixture.Channel)
	GetSelectedLights() []fixture.Channel

	AddGroup(name string, channels []fixture.Channel) fixture.Group
	DeleteGroup(id string) bool
	GetGroup(id string) (fixture.Group, bool)
	GetGroups() []fixture.Group
	SelectGroup(id string) bool
	DeselectGroup(id string) bool
	GroupIsSelected(id string) bool

	UpdateExecutor(stores ...*fixture.LightValueStore)
	UpdateProgrammer(store *fixture.LightValueStore)
	GetProgrammerValues() *fixture.LightValueStore
	GetProgrammedChannels() []fixture.Channel
	SnapshotProgrammer(channels []fixture.Channel) Snapshot
	RestoreProgrammer(snapshot Snapshot)
}

// Snapshot records the programmer entries of a set of channels. A nil entry means the
// channel had no programmer value.
type Snapshot map[fixture.Channel]*fixture.LightValue

// StateManager holds the programmer and executor layers, the fixture metadata, the groups and
// the light selection.
type StateManager struct {
	lights     map[fixture.Channel]fixture.Properties
	programmer *fixture.LightValueStore
	executor   *fixture.LightValueStore
	selected   []fixture.Channel
	groups     []fixture.Group
	stateLock  sync.RWMutex
}

// NewStateManager creates an empty patch with no lights.
func NewStateManager() *StateManager {
	return &StateManager{
		lights:     make(map[fixture.Channel]fixture.Properties),
		programmer: fixture.NewLightValueStore(),
		executor:   fixture.NewLightValueStore(),
	}
}

// NewManager creates a patch populated from loader.
func NewManager(loader LightLoader) (*StateManager, error) {
	m := NewStateManager()
	if err := m.LoadLights(loader); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadLights replaces the fixture metadata with the lights the loader returns.
func (m *StateManager) LoadLights(loader LightLoader) error {
	lights, err := loader.LoadLights()
	if err != nil {
		return errors.WithStackTrace(err)
	}
	return m.SetLights(lights)
}

// SetLights replaces the fixture metadata. Two lights on the same channel are rejected and
// leave the previous metadata in place.
func (m *StateManager) SetLights(lights []fixture.Properties) error {
	next := make(map[fixture.Channel]fixture.Properties, len(lights))
	for _, light := range lights {
		if existing, ok := next[light.Channel]; ok {
			return errors.WithStackTrace(fmt.Errorf("duplicate lights found! channel=%d names=%s,%s", light.Channel, existing.Name, light.Name))
		}
		next[light.Channel] = light
	}

	m.stateLock.Lock()
	m.lights = next
	m.stateLock.Unlock()

	logger.GetProjectLogger().WithFields(logrus.Fields{"lights": len(next)}).Debug("Loaded patch")
	return nil
}

// GetAllLights returns every patched channel in ascending order.
func (m *StateManager) GetAllLights() []fixture.Channel {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	channels := maps.Keys(m.lights)
	slices.Sort(channels)
	return channels
}

// GetLightProperties looks up the metadata of a patched channel.
func (m *StateManager) GetLightProperties(channel fixture.Channel) (fixture.Properties, bool) {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	light, ok := m.lights[channel]
	return light, ok
}

func (m *StateManager) properties(channel fixture.Channel) *fixture.Properties {
	light, ok := m.lights[channel]
	if !ok {
		return nil
	}
	return &light
}

// SetValue writes value into the programmer for every selected light. MultipleValues fields
// keep the existing programmer value, Unset fields clear it, and attributes the light cannot
// take are ignored. A light left with nothing set drops out of the programmer.
func (m *StateManager) SetValue(value *fixture.LightValue) {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	for _, channel := range m.selected {
		props := m.properties(channel)
		next := m.programmer.Get(channel).Copy()
		for _, attr := range fixture.Attributes {
			v := value.Get(attr)
			if v == fixture.MultipleValues || !props.Supports(attr) {
				continue
			}
			next = next.With(attr, v)
		}

		if next.IsUnset() {
			m.programmer.Delete(channel)
		} else {
			m.programmer.Set(channel, next)
		}
	}
}

// GetLightValue resolves the value of channel at the given layer. Unless returnUnset is set,
// attributes nobody programmed fall back to the light's resting levels.
func (m *StateManager) GetLightValue(channel fixture.Channel, returnUnset bool, mode Mode) *fixture.LightValue {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	return m.lightValue(channel, returnUnset, mode)
}

func (m *StateManager) lightValue(channel fixture.Channel, returnUnset bool, mode Mode) *fixture.LightValue {
	programmer := m.programmer.Get(channel)
	if programmer == nil {
		programmer = fixture.NewLightValue()
	}
	executor := m.executor.Get(channel)
	if executor == nil {
		executor = fixture.NewLightValue()
	}

	var value *fixture.LightValue
	switch mode {
	case ModeProgrammer:
		value = programmer
	case ModeExecutor:
		value = executor
	default:
		value = fixture.Combine(executor, programmer)
	}

	if returnUnset {
		return value.Copy()
	}
	return m.properties(channel).Defaults(value)
}

// GetLightValues aggregates the values of several channels. Attributes the channels disagree
// on come back as MultipleValues.
func (m *StateManager) GetLightValues(channels []fixture.Channel, returnUnset bool, mode Mode) *fixture.LightValue {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()

	values := make([]*fixture.LightValue, 0, len(channels))
	for _, channel := range channels {
		values = append(values, m.lightValue(channel, returnUnset, mode))
	}
	return fixture.Aggregate(values...)
}

// GetSelectedValue returns the aggregated programmer value of the selection.
func (m *StateManager) GetSelectedValue() *fixture.LightValue {
	return m.GetLightValues(m.GetSelectedLights(), true, ModeProgrammer)
}

// GetFadeValue returns the frame a fraction t of the way from the executor look to the
// combined look of channel.
func (m *StateManager) GetFadeValue(channel fixture.Channel, t float64) *fixture.LightValue {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	return fixture.Interpolate(
		m.lightValue(channel, false, ModeExecutor),
		m.lightValue(channel, false, ModeBoth),
		t,
	)
}

// UpdateExecutor rebuilds the executor layer from stores, later stores winning.
func (m *StateManager) UpdateExecutor(stores ...*fixture.LightValueStore) {
	executor := fixture.FoldStores(stores...)

	m.stateLock.Lock()
	m.executor = executor
	m.stateLock.Unlock()
}

// UpdateProgrammer makes store the programmer layer. The store is shared, not copied, so
// edits made through SetValue land in the cue that owns it.
func (m *StateManager) UpdateProgrammer(store *fixture.LightValueStore) {
	if store == nil {
		store = fixture.NewLightValueStore()
	}

	m.stateLock.Lock()
	m.programmer = store
	m.stateLock.Unlock()
}

// GetProgrammerValues returns the live programmer store.
func (m *StateManager) GetProgrammerValues() *fixture.LightValueStore {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	return m.programmer
}

// GetProgrammedChannels returns the channels with a programmer value, in ascending order.
func (m *StateManager) GetProgrammedChannels() []fixture.Channel {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	return m.programmer.UsedChannels()
}

// SnapshotProgrammer captures the programmer entries of channels.
func (m *StateManager) SnapshotProgrammer(channels []fixture.Channel) Snapshot {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()

	snapshot := make(Snapshot, len(channels))
	for _, channel := range channels {
		snapshot[channel] = m.programmer.Get(channel)
	}
	return snapshot
}

// RestoreProgrammer writes a snapshot back into the programmer.
func (m *StateManager) RestoreProgrammer(snapshot Snapshot) {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	for channel, value := range snapshot {
		if value == nil {
			m.programmer.Delete(channel)
		} else {
			m.programmer.Set(channel, value)
		}
	}
}

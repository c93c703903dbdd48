package fixture

import (
	"encoding/json"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// LightValueStore is a sparse mapping from channel to light value. A channel missing from the
// store has no override at this layer.
type LightValueStore struct {
	values map[Channel]*LightValue
}

// NewLightValueStore creates an empty store.
func NewLightValueStore() *LightValueStore {
	return &LightValueStore{values: make(map[Channel]*LightValue)}
}

// NewLightValueStoreFrom builds a store from parallel channel and value slices.
func NewLightValueStoreFrom(channels []Channel, values []*LightValue) (*LightValueStore, error) {
	if len(channels) != len(values) {
		return nil, fmt.Errorf("light value store has %d channels but %d values", len(channels), len(values))
	}
	s := NewLightValueStore()
	for i, channel := range channels {
		s.values[channel] = values[i]
	}
	return s, nil
}

// Get returns the value for channel, or nil when the channel is absent.
func (s *LightValueStore) Get(channel Channel) *LightValue {
	return s.values[channel]
}

// Has reports whether channel has an entry.
func (s *LightValueStore) Has(channel Channel) bool {
	_, ok := s.values[channel]
	return ok
}

// Set stores value for channel.
func (s *LightValueStore) Set(channel Channel, value *LightValue) {
	s.values[channel] = value
}

// Delete removes channel and reports whether it was present.
func (s *LightValueStore) Delete(channel Channel) bool {
	_, ok := s.values[channel]
	delete(s.values, channel)
	return ok
}

// Len returns the number of channels in the store.
func (s *LightValueStore) Len() int {
	return len(s.values)
}

// UsedChannels returns the channels present in the store in ascending order.
func (s *LightValueStore) UsedChannels() []Channel {
	channels := maps.Keys(s.values)
	slices.Sort(channels)
	return channels
}

// Clone returns a shallow copy. Light values are immutable so they are shared.
func (s *LightValueStore) Clone() *LightValueStore {
	return &LightValueStore{values: maps.Clone(s.values)}
}

// Equal compares two stores channel by channel.
func (s *LightValueStore) Equal(other *LightValueStore) bool {
	return maps.EqualFunc(s.values, other.values, func(a, b *LightValue) bool {
		return a.Equal(b)
	})
}

// CombineStores layers newStore over oldStore. Channels present in both are combined with
// oldStore as the bottom layer; every other channel passes through unchanged.
func CombineStores(oldStore, newStore *LightValueStore) *LightValueStore {
	result := NewLightValueStore()
	for channel, value := range oldStore.values {
		if newValue, ok := newStore.values[channel]; ok {
			result.values[channel] = Combine(value, newValue)
		} else {
			result.values[channel] = value
		}
	}
	for channel, value := range newStore.values {
		if _, ok := oldStore.values[channel]; !ok {
			result.values[channel] = value
		}
	}
	return result
}

// FoldStores combines stores left to right, so later stores win. An empty list yields an
// empty store.
func FoldStores(stores ...*LightValueStore) *LightValueStore {
	if len(stores) == 0 {
		return NewLightValueStore()
	}
	result := stores[0].Clone()
	for _, next := range stores[1:] {
		result = CombineStores(result, next)
	}
	return result
}

type serializedStore struct {
	Channels []Channel     `json:"channels"`
	Values   []*LightValue `json:"values"`
}

// MarshalJSON encodes the store as parallel channel and value arrays.
func (s *LightValueStore) MarshalJSON() ([]byte, error) {
	out := serializedStore{Channels: s.UsedChannels()}
	out.Values = make([]*LightValue, 0, len(out.Channels))
	for _, channel := range out.Channels {
		out.Values = append(out.Values, s.values[channel])
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the parallel array form written by MarshalJSON.
func (s *LightValueStore) UnmarshalJSON(data []byte) error {
	var in serializedStore
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	decoded, err := NewLightValueStoreFrom(in.Channels, in.Values)
	if err != nil {
		return err
	}
	s.values = decoded.values
	return nil
}

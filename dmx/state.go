package dmx

import (
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// UniverseSize is the number of addresses in a DMX512 universe.
const UniverseSize = 512

// State holds the DMX512 values for each universe
type State struct {
	universes map[int][]byte
	lock      sync.Mutex
}

// Operation writes Value to a 1-based Address of Universe.
type Operation struct {
	Universe, Address int
	Value             byte
}

// NewState returns an empty State. Universes are created on first write.
func NewState() *State {
	return &State{universes: map[int][]byte{}}
}

// Get returns the value at address, or 0 for an address that was never written.
func (s *State) Get(universe, address int) byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	values, ok := s.universes[universe]
	if !ok || address < 1 || address > UniverseSize {
		return 0
	}
	return values[address-1]
}

// Set applies ops in order. Nothing is written when any operation is out of range.
func (s *State) Set(ops ...Operation) error {
	for _, op := range ops {
		if op.Address < 1 || op.Address > UniverseSize {
			return fmt.Errorf("dmx address (%d) not in range, op=%v", op.Address, op)
		}
		if op.Universe < 1 {
			return fmt.Errorf("dmx universe (%d) not in range, op=%v", op.Universe, op)
		}
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	for _, op := range ops {
		s.initializeUniverse(op.Universe)
		s.universes[op.Universe][op.Address-1] = op.Value
	}
	return nil
}

func (s *State) initializeUniverse(universe int) {
	if s.universes[universe] == nil {
		s.universes[universe] = make([]byte, UniverseSize)
	}
}

// Universes returns a copy of every written universe, keyed by universe number.
func (s *State) Universes() map[int][]byte {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make(map[int][]byte, len(s.universes))
	for universe, values := range s.universes {
		out[universe] = append([]byte(nil), values...)
	}
	return out
}

// String dumps every universe in hex, for debugging.
func (s *State) String() string {
	universes := s.Universes()
	keys := maps.Keys(universes)
	slices.Sort(keys)

	var b strings.Builder
	for _, universe := range keys {
		fmt.Fprintf(&b, "universe %d\n%s", universe, hex.Dump(universes[universe]))
	}
	return b.String()
}

package fixture

import (
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Group is a named, fixed list of channels that can be selected as a unit.
type Group struct {
	ID       string
	Name     string
	Channels []Channel
}

// NewGroup creates a group with a fresh id. Duplicate channels are dropped.
func NewGroup(name string, channels []Channel) Group {
	return Group{
		ID:       uuid.NewString(),
		Name:     name,
		Channels: Dedupe(channels),
	}
}

// HasChannel returns true if channel belongs to the group.
func (g Group) HasChannel(channel Channel) bool {
	return slices.Contains(g.Channels, channel)
}

// Count returns the number of channels in the group.
func (g Group) Count() int {
	return len(g.Channels)
}

// Dedupe returns channels with repeats removed, keeping first occurrences in order.
func Dedupe(channels []Channel) []Channel {
	out := make([]Channel, 0, len(channels))
	for _, channel := range channels {
		if !slices.Contains(out, channel) {
			out = append(out, channel)
		}
	}
	return out
}

package fixture

import "strconv"

// Channel identifies one controllable light in the patch.
type Channel int

func (c Channel) String() string {
	return strconv.Itoa(int(c))
}

// Value holds a single light attribute. Halo stores every attribute as a float64 so that
// fades can produce fractional levels; the two sentinels below are never valid levels.
type Value float64

const (
	// Unset marks an attribute that is not specified at this layer.
	Unset Value = -99999

	// MultipleValues is produced when a group of channels disagree on an attribute.
	MultipleValues Value = -99998
)

// IsSet reports whether v is a real level rather than one of the sentinels.
func (v Value) IsSet() bool {
	return v != Unset && v != MultipleValues
}

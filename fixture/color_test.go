package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorHexRoundTrip(t *testing.T) {
	t.Parallel()

	v, err := ColorFromHex("#FF8000")
	require.NoError(t, err)
	assert.Equal(t, Value(0xFF8000), v)
	assert.Equal(t, "#ff8000", ColorHex(v))

	_, err = ColorFromHex("orange")
	require.Error(t, err)
}

func TestPackUnpack(t *testing.T) {
	t.Parallel()

	r, g, b := UnpackRGB(White)
	assert.Equal(t, [3]uint8{255, 255, 255}, [3]uint8{r, g, b})
	assert.Equal(t, Value(0x010203), PackRGB(1, 2, 3))
}

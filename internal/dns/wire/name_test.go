package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandName_PlainLabels(t *testing.T) {
	encoded, err := encodeName("www.example.com")
	require.NoError(t, err)

	name, next, err := expandName(encoded, 0)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com.", name)
	assert.Equal(t, len(encoded), next)
}

func TestExpandName_Root(t *testing.T) {
	name, next, err := expandName([]byte{0x00}, 0)
	require.NoError(t, err)
	assert.Equal(t, ".", name)
	assert.Equal(t, 1, next)
}

func TestExpandName_CompressionPointer(t *testing.T) {
	base, err := encodeName("example.com")
	require.NoError(t, err)
	msg := append(base, 0xC0, 0x00)

	name, _, err := expandName(msg, len(base))
	require.NoError(t, err)
	assert.Equal(t, "example.com.", name)
}

func TestExpandName_RejectsForwardPointer(t *testing.T) {
	msg := []byte{0xC0, 0x02, 0x00}
	_, _, err := expandName(msg, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNameCompression))
}

func TestExpandName_RejectsTruncated(t *testing.T) {
	_, _, err := expandName([]byte{5, 'a', 'b'}, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTruncated))
}

package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader_RejectsShortMessage(t *testing.T) {
	_, err := parseHeader([]byte{0, 1, 2})
	require.Error(t, err)
}

func TestSkipQuestions_MultipleQuestions(t *testing.T) {
	a, err := encodeName("a.example.com")
	require.NoError(t, err)
	b, err := encodeName("b.example.com")
	require.NoError(t, err)

	msg := append([]byte{}, a...)
	msg = append(msg, 0x00, 0x01, 0x00, 0x01) // TYPE A, CLASS IN
	msg = append(msg, b...)
	msg = append(msg, 0x00, 0x1c, 0x00, 0x01) // TYPE AAAA, CLASS IN

	name, qtype, next, err := skipQuestions(msg, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, "b.example.com.", name)
	assert.Equal(t, uint16(28), uint16(qtype))
	assert.Equal(t, len(msg), next)
}

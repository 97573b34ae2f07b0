package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRounds(t *testing.T) {
	for in, want := range map[string]uint8{"0": 0, "3": 3, " 42\n": 42, "255": 255} {
		got, err := ParseRounds(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
}

func TestParseRoundsRejects(t *testing.T) {
	_, err := ParseRounds("256")
	assert.ErrorIs(t, err, ErrTooManyRounds)

	for _, in := range []string{"", "abc", "-1", "3.5"} {
		_, err := ParseRounds(in)
		assert.Error(t, err, in)
	}
}

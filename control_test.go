package steim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewControlSequence(t *testing.T) {
	t.Run("accepts a zero word", func(t *testing.T) {
		cs, err := NewControlSequence(0)
		assert.NoError(t, err)
		assert.Equal(t, ControlSequence(0), cs)
	})

	t.Run("rejects a nonzero cell 0", func(t *testing.T) {
		_, err := NewControlSequence(uint32(1) << 30)
		assert.ErrorIs(t, err, ErrInvalidControlCode)
	})
}

func TestControlSequenceSetGet(t *testing.T) {
	var cs ControlSequence
	for i := 1; i <= 15; i++ {
		assert.NoError(t, cs.Set(i, uint8(i%4)))
	}
	for i := 1; i <= 15; i++ {
		v, err := cs.Get(i)
		assert.NoError(t, err)
		assert.Equal(t, uint8(i%4), v)
	}
}

func TestControlSequenceSetRejectsCellZero(t *testing.T) {
	var cs ControlSequence
	err := cs.Set(0, 1)
	assert.ErrorIs(t, err, ErrInvalidControlCode)
	assert.NoError(t, cs.Set(0, 0))
}

func TestControlSequenceSetOutOfRange(t *testing.T) {
	var cs ControlSequence
	assert.ErrorIs(t, cs.Set(16, 1), ErrInvalidControlCode)
	assert.ErrorIs(t, cs.Set(-1, 1), ErrInvalidControlCode)
	assert.ErrorIs(t, cs.Set(1, 4), ErrInvalidControlCode)
}

func TestControlSequenceGetOutOfRange(t *testing.T) {
	var cs ControlSequence
	_, err := cs.Get(16)
	assert.True(t, errors.Is(err, ErrInvalidControlCode))
}

func TestControlSequenceIterRoundTrip(t *testing.T) {
	var cs ControlSequence
	want := [16]uint8{0, 1, 2, 3, 1, 2, 3, 1, 2, 3, 1, 2, 3, 1, 2, 3}
	for i, v := range want {
		if i == 0 {
			continue
		}
		assert.NoError(t, cs.Set(i, v))
	}
	assert.Equal(t, want, cs.Iter())
}

func TestControlSequenceString(t *testing.T) {
	var cs ControlSequence
	assert.NoError(t, cs.Set(1, 3))
	assert.NoError(t, cs.Set(2, 1))
	s := cs.String()
	assert.Contains(t, s, "11")
	assert.Contains(t, s, "01")
}

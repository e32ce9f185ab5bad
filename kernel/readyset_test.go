package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadySetMarkReadyUnready(t *testing.T) {
	var r readySet
	assert.True(t, r.empty())

	r.markReady(3)
	assert.True(t, r.isReady(3))
	assert.False(t, r.empty())

	r.markUnready(3)
	assert.False(t, r.isReady(3))
	assert.True(t, r.empty())
}

func TestReadySetHighestPicksNumericallyHighest(t *testing.T) {
	var r readySet
	r.markReady(1)
	r.markReady(5)
	r.markReady(2)
	assert.Equal(t, Priority(5), r.highest())

	r.markUnready(5)
	assert.Equal(t, Priority(2), r.highest())
}

func TestReadySetHighestEmptyIsZero(t *testing.T) {
	var r readySet
	assert.Equal(t, Priority(0), r.highest())
}

func TestReadySetIndependentBits(t *testing.T) {
	var r readySet
	r.markReady(0)
	r.markReady(63)
	assert.True(t, r.isReady(0))
	assert.True(t, r.isReady(63))
	r.markUnready(63)
	assert.True(t, r.isReady(0))
	assert.False(t, r.isReady(63))
}

package testutils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDSequence(t *testing.T) {
	seq := NewIDSequence()

	first := seq.Next()
	second := seq.Next()

	assert.Equal(t, "00000001-0000-4000-8000-000000000001", first)
	assert.Equal(t, "00000002-0000-4000-8000-000000000002", second)

	_, err := uuid.Parse(first)
	require.NoError(t, err, "deterministic ids must stay valid UUIDs")
}

func TestClock(t *testing.T) {
	clock := NewClock()

	first := clock.Now()
	second := clock.Now()

	assert.Equal(t, BaseTime, first)
	assert.True(t, second.After(first))
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock(t *testing.T) {
	frozen := time.Date(2024, 5, 6, 18, 54, 15, 0, time.UTC)
	clock := &Clock{Now: func() time.Time { return frozen }}

	t.Run("Stamp()>previous", func(t *testing.T) {
		first := clock.Stamp()
		second := clock.Stamp()
		assert.True(t, first.Equal(frozen))
		assert.True(t, second.After(first))
	})

	t.Run("clock going backwards", func(t *testing.T) {
		last := clock.Stamp()
		clock.Now = func() time.Time { return frozen.Add(-time.Hour) }
		assert.True(t, clock.Stamp().After(last))
	})

	t.Run("Stamp() is UTC", func(t *testing.T) {
		local := &Clock{Now: func() time.Time { return time.Date(2024, 5, 6, 18, 0, 0, 0, time.FixedZone("CET", 3600)) }}
		assert.Equal(t, time.UTC, local.Stamp().Location())
	})
}

func TestNewId(t *testing.T) {
	first, err := NewId()
	assert.NoError(t, err)
	second, err := NewId()
	assert.NoError(t, err)
	assert.Len(t, first, 36)
	assert.Less(t, first, second)
}

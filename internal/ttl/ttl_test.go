package ttl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMapGetExpiry(t *testing.T) {
	now := time.Now()
	m := NewMap[string, int](time.Minute)
	m.now = func() time.Time { return now }

	m.Set("a", 1)

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = m.Get("a")
	assert.False(t, ok)
}

func TestMapSetRestartsTTL(t *testing.T) {
	now := time.Now()
	m := NewMap[string, int](time.Minute)
	m.now = func() time.Time { return now }

	m.Set("a", 1)
	now = now.Add(45 * time.Second)
	m.Set("a", 2)
	now = now.Add(45 * time.Second)

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestMapCleanupStopsAtFirstLive(t *testing.T) {
	now := time.Now()
	m := NewMap[string, int](time.Minute)
	m.now = func() time.Time { return now }

	m.Set("old", 1)
	now = now.Add(30 * time.Second)
	m.Set("fresh", 2)
	now = now.Add(45 * time.Second)

	// "old" is past its TTL, "fresh" is not
	m.Cleanup()

	_, ok := m.Get("old")
	assert.False(t, ok)
	v, ok := m.Get("fresh")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, m.Len())
}

func TestMapDelete(t *testing.T) {
	m := NewMap[string, int](time.Minute)
	m.Set("a", 1)

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	_, ok := m.Get("a")
	assert.False(t, ok)
}

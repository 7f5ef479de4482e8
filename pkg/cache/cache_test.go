package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGet(t *testing.T) {
	s := New[string](time.Minute, 10)
	s.Put("a", "payload")

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "payload", got)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStore_ExpiryBoundary(t *testing.T) {
	const ttl = time.Hour
	base := time.Now()
	s := New[int](ttl, 10)
	s.now = func() time.Time { return base }
	s.Put("k", 42)

	s.now = func() time.Time { return base.Add(ttl - time.Millisecond) }
	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, got)

	s.now = func() time.Time { return base.Add(ttl + time.Millisecond) }
	_, ok = s.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len(), "expired entry must be evicted on read")
}

func TestStore_SizeBoundEvictsOldestInserted(t *testing.T) {
	const maxSize = 5
	s := New[int](time.Hour, maxSize)

	for i := 0; i < maxSize; i++ {
		s.Put(fmt.Sprintf("k%d", i), i)
	}
	// Reads must not renew eviction priority.
	for i := 0; i < 20; i++ {
		_, ok := s.Get("k0")
		require.True(t, ok)
	}

	s.Put("overflow", 99)

	assert.Equal(t, maxSize, s.Len())
	_, ok := s.Get("k0")
	assert.False(t, ok, "earliest-inserted key evicted regardless of reads")
	_, ok = s.Get("overflow")
	assert.True(t, ok)
}

func TestStore_OverwriteMovesToBack(t *testing.T) {
	s := New[int](time.Hour, 2)
	s.Put("a", 1)
	s.Put("b", 2)
	s.Put("a", 3) // re-insert: "b" is now the oldest
	s.Put("c", 4)

	_, ok := s.Get("b")
	assert.False(t, ok)
	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, got)
}

func TestStore_RemoveAndClear(t *testing.T) {
	s := New[int](time.Hour, 10)
	s.Put("a", 1)
	s.Put("b", 2)

	s.Remove("a")
	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, s.Keys())

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchwiseai/pulse-go/resource"
)

type countingStore struct {
	*MemoryStore
	gets int
}

func (c *countingStore) Get(ctx context.Context, name string) ([]byte, error) {
	c.gets++
	return c.MemoryStore.Get(ctx, name)
}

func TestCachingStore(t *testing.T) {
	testStore(t, NewCachingStore(NewMemoryStore(), 1<<20, nil))
}

func TestCachingStore_Hits(t *testing.T) {
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	s := NewCachingStore(inner, 1024, nil)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a", []byte("aaaa")))
	for range 3 {
		got, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "aaaa", string(got))
	}
	assert.Equal(t, 1, inner.gets)
	hits, misses := s.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)

	require.NoError(t, s.Put(ctx, "a", []byte("bb")))
	got, err := s.Get(ctx, "./a")
	require.NoError(t, err)
	assert.Equal(t, "bb", string(got), "writes invalidate")
	assert.Equal(t, 2, inner.gets)
}

func TestCachingStore_Eviction(t *testing.T) {
	s := NewCachingStore(NewMemoryStore(), 10, nil)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.Put(ctx, name, make([]byte, 4)))
		_, err := s.Get(ctx, name)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(8), s.Size())

	require.NoError(t, s.Put(ctx, "big", make([]byte, 11)))
	_, err := s.Get(ctx, "big")
	require.NoError(t, err)
	assert.Equal(t, int64(8), s.Size(), "blobs over capacity are not cached")

	require.NoError(t, s.Delete(ctx, "c"))
	assert.Equal(t, int64(4), s.Size())
}

func TestCachingStore_MemoryLimit(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 6})
	s := NewCachingStore(NewMemoryStore(), 100, rc)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a", make([]byte, 4)))
	require.NoError(t, s.Put(ctx, "b", make([]byte, 4)))
	_, err := s.Get(ctx, "a")
	require.NoError(t, err)
	_, err = s.Get(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, int64(4), s.Size())
	assert.Equal(t, int64(4), rc.MemoryUsage())

	s.Purge()
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

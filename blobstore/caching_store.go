package blobstore

import (
	"container/list"
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/researchwiseai/pulse-go/resource"
)

// CachingStore keeps recently read blobs in an LRU bounded by total bytes.
// Writes and deletes go straight to the inner store and drop the cached copy.
type CachingStore struct {
	inner Store
	rc    *resource.Controller

	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[string]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	name  string
	value []byte
}

// NewCachingStore wraps inner with a cache of capacity bytes. If rc is not
// nil, cached bytes count against its memory limit and blobs that do not fit
// are served uncached.
func NewCachingStore(inner Store, capacity int64, rc *resource.Controller) *CachingStore {
	return &CachingStore{
		inner:     inner,
		rc:        rc,
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
	}
}

// Get serves the blob from cache when present.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if data, ok := s.lookup(name); ok {
		return slices.Clone(data), nil
	}
	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	s.set(name, slices.Clone(data))
	return data, nil
}

// Put writes through to the inner store.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes the blob from both cache and inner store.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List is not cached.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hits and misses.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

// Size returns the cached bytes.
func (s *CachingStore) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Purge empties the cache and returns its memory to the controller.
func (s *CachingStore) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for e := s.evictList.Back(); e != nil; e = s.evictList.Back() {
		s.removeElement(e)
	}
}

func cacheKey(name string) string {
	if clean, err := CleanName(name); err == nil {
		return clean
	}
	return name
}

func (s *CachingStore) lookup(name string) ([]byte, bool) {
	name = cacheKey(name)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.items[name]; ok {
		s.hits.Add(1)
		s.evictList.MoveToFront(e)
		return e.Value.(*cacheEntry).value, true
	}
	s.misses.Add(1)
	return nil, false
}

func (s *CachingStore) set(name string, b []byte) {
	name = cacheKey(name)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.items[name]; ok {
		s.removeElement(e)
	}

	n := int64(len(b))
	if n > s.capacity {
		return
	}
	// Evict locally first so the released memory is available to the
	// controller below.
	for s.size+n > s.capacity {
		e := s.evictList.Back()
		if e == nil {
			break
		}
		s.removeElement(e)
	}
	if !s.rc.TryAcquireMemory(n) {
		return
	}

	s.items[name] = s.evictList.PushFront(&cacheEntry{name: name, value: b})
	s.size += n
}

func (s *CachingStore) invalidate(name string) {
	name = cacheKey(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.items[name]; ok {
		s.removeElement(e)
	}
}

func (s *CachingStore) removeElement(e *list.Element) {
	s.evictList.Remove(e)
	ent := e.Value.(*cacheEntry)
	delete(s.items, ent.name)
	n := int64(len(ent.value))
	s.size -= n
	s.rc.ReleaseMemory(n)
}

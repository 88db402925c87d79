package cache

import (
	"container/list"
	"sync"
)

type entry[TValue any] struct {
	Value *TValue
	Error error

	Loading      *sync.WaitGroup
	ListPosition *list.Element
}

// LookupCache is a key value cache bounded by entry count.
// It is meant for lookups that are immutable once created, such as the
// ownership edges problem -> challenge -> class.
//
// Getter is called once per absent key, concurrent Get calls for the same
// key wait for the single in-flight load. Getter errors are not cached, so
// a lookup that failed can be retried by a later Get.
// The least recently used entry is evicted when the capacity is exceeded.
type LookupCache[TKey comparable, TValue any] struct {
	mutex   sync.Mutex
	entries map[TKey]*entry[TValue]

	getter   func(TKey) (*TValue, error)
	capacity int

	recentRank *list.List
}

// NewLookupCache creates a new cache for the given capacity and getter.
func NewLookupCache[TKey comparable, TValue any](
	capacity int,
	getter func(TKey) (*TValue, error),
) *LookupCache[TKey, TValue] {
	return &LookupCache[TKey, TValue]{
		entries:    make(map[TKey]*entry[TValue]),
		getter:     getter,
		capacity:   capacity,
		recentRank: list.New(),
	}
}

// Get returns the value for key, loading it if absent.
//
// If another goroutine is already loading the same key, Get waits for that
// load instead of starting a second one.
func (c *LookupCache[TKey, TValue]) Get(key TKey) (*TValue, error) {
	c.mutex.Lock()

	e, ok := c.entries[key]
	if ok {
		if e.Loading == nil {
			c.entryUsed(key, e)
			c.mutex.Unlock()
			return e.Value, e.Error
		}
		loading := e.Loading
		c.mutex.Unlock()
		loading.Wait()

		c.mutex.Lock()
		defer c.mutex.Unlock()
		e, ok = c.entries[key]
		if !ok {
			// Load failed and the entry was dropped, redo the lookup directly.
			c.mutex.Unlock()
			value, err := c.getter(key)
			c.mutex.Lock()
			return value, err
		}
		c.entryUsed(key, e)
		return e.Value, e.Error
	}

	e = &entry[TValue]{Loading: &sync.WaitGroup{}}
	e.Loading.Add(1)
	c.entries[key] = e
	c.mutex.Unlock()

	value, err := c.getter(key)

	c.mutex.Lock()
	defer c.mutex.Unlock()
	e.Value = value
	e.Error = err
	e.Loading.Done()
	e.Loading = nil
	if err != nil {
		delete(c.entries, key)
		return value, err
	}
	c.entryUsed(key, e)
	c.evictIfNeeded()
	return value, err
}

// Invalidate drops the entry for key if present.
func (c *LookupCache[TKey, TValue]) Invalidate(key TKey) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	e, ok := c.entries[key]
	if !ok || e.Loading != nil {
		return
	}
	c.removeEntry(key, e)
}

// Len returns the number of loaded entries.
func (c *LookupCache[TKey, TValue]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.recentRank.Len()
}

// mutex must be locked
func (c *LookupCache[TKey, TValue]) entryUsed(key TKey, e *entry[TValue]) {
	if e.ListPosition != nil {
		c.recentRank.MoveToBack(e.ListPosition)
	} else {
		e.ListPosition = c.recentRank.PushBack(key)
	}
}

// mutex must be locked
func (c *LookupCache[TKey, TValue]) evictIfNeeded() {
	for c.recentRank.Len() > c.capacity {
		elem := c.recentRank.Front()
		if elem == nil {
			return
		}
		key := elem.Value.(TKey)
		c.removeEntry(key, c.entries[key])
	}
}

// mutex must be locked, entry must be loaded
func (c *LookupCache[TKey, TValue]) removeEntry(key TKey, e *entry[TValue]) {
	delete(c.entries, key)
	if e.ListPosition != nil {
		c.recentRank.Remove(e.ListPosition)
	}
}

package gameapi

import (
	"container/list"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/game/maze"
)

const defaultCacheSize = 32

// navEntry is a ready navigator on its variant. Navigators keep per move
// state, so moves on one entry are serialized by mu.
type navEntry struct {
	mu      sync.Mutex
	nav     game.Navigator
	variant *maze.Variant

	key  string
	elem *list.Element
}

// navigatorCache keeps at most capacity navigators, evicting the least
// recently used. Concurrent misses on one key share a single build, which
// runs without holding the cache lock.
type navigatorCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*navEntry
	lru      *list.List
	flight   singleflight.Group
}

func newNavigatorCache(capacity int) *navigatorCache {
	if capacity <= 0 {
		capacity = defaultCacheSize
	}
	return &navigatorCache{
		capacity: capacity,
		entries:  make(map[string]*navEntry),
		lru:      list.New(),
	}
}

func (c *navigatorCache) get(key string) (*navEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok {
		c.lru.MoveToFront(e.elem)
	}
	return e, ok
}

func (c *navigatorCache) getOrBuild(key string, build func() (*navEntry, error)) (*navEntry, error) {
	if e, ok := c.get(key); ok {
		return e, nil
	}

	result, err, _ := c.flight.Do(key, func() (any, error) {
		e, err := build()
		if err != nil {
			return nil, err
		}
		return c.add(key, e), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*navEntry), nil
}

func (c *navigatorCache) add(key string, e *navEntry) *navEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		return existing
	}
	for c.lru.Len() >= c.capacity {
		oldest := c.lru.Back()
		delete(c.entries, oldest.Value.(string))
		c.lru.Remove(oldest)
	}

	e.key = key
	e.elem = c.lru.PushFront(key)
	c.entries[key] = e
	return e
}

func (c *navigatorCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

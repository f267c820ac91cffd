package imagecache

import (
	"container/list"
	"sync"
)

// SizeBoundedEvictor is an opt-in LRU layered on top of a Cache via OnMsg
// observation: the core cache itself stays unbounded for the life of the
// process (no default eviction), matching the original's explicit silence
// on memory bounds. Attaching an evictor is how a long-running consumer
// opts into a capacity limit, the same way the teacher corpus's
// container/list-based Cache (pkg/image/cache.go) bounds rendered-image
// memory.
//
// The evictor never mutates cache state itself; it only calls Cache.Forget,
// which the actor accepts or ignores depending on the URL's current state.
type SizeBoundedEvictor struct {
	cache    *Cache
	capacity int

	mu      sync.Mutex
	order   *list.List
	entries map[string]*list.Element
}

// NewSizeBoundedEvictor attaches an evictor to cache that keeps at most
// capacity Decoded entries resident, evicting least-recently-settled first.
// capacity must be at least 1.
func NewSizeBoundedEvictor(cache *Cache, capacity int) *SizeBoundedEvictor {
	if capacity < 1 {
		capacity = 1
	}
	ev := &SizeBoundedEvictor{
		cache:    cache,
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
	cache.OnMsg(ev.observe)
	return ev
}

// observe is the OnMsg callback: it only reacts to storeImageMsg, touching
// the URL's recency and evicting the oldest entry once capacity is
// exceeded. It must never block: Forget is a fire-and-forget send into the
// same actor that is about to process the next inbox message, so calling
// it synchronously here keeps the LRU bookkeeping and the cache's own view
// of state from drifting apart under concurrent Prefetch/Decode traffic.
func (ev *SizeBoundedEvictor) observe(msg message) {
	m, ok := msg.(storeImageMsg)
	if !ok || m.image == nil {
		return
	}

	ev.mu.Lock()
	defer ev.mu.Unlock()

	if el, exists := ev.entries[m.url]; exists {
		ev.order.MoveToFront(el)
		return
	}

	ev.entries[m.url] = ev.order.PushFront(m.url)

	for ev.order.Len() > ev.capacity {
		oldest := ev.order.Back()
		if oldest == nil {
			break
		}
		url := oldest.Value.(string)
		ev.order.Remove(oldest)
		delete(ev.entries, url)
		ev.cache.Forget(url)
	}
}

// Len reports how many URLs the evictor is currently tracking.
func (ev *SizeBoundedEvictor) Len() int {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	return ev.order.Len()
}

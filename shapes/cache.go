package shapes

import (
	"container/list"
	"sync"

	"github.com/pthm-cable/penframe/geom"
)

// DefaultCacheCapacity is the default LRU size for a Cache, matching the
// source's lru_cache(maxsize=128).
const DefaultCacheCapacity = 128

type cacheEntry struct {
	key Key
	buf *geom.Buffer
}

// inflight tracks a single in-progress factory call so concurrent callers
// requesting the same key block on one computation rather than duplicating
// it (single-writer-per-key).
type inflight struct {
	done chan struct{}
	buf  *geom.Buffer
	err  error
}

// Cache is a bounded LRU over a Registry's factory outputs, keyed by
// (name, canonicalized params). Eviction drops the cache's own reference;
// it never invalidates buffers a downstream consumer still holds, since
// GeometryBuffers are plain immutable values collected by the Go runtime
// once nothing references them.
type Cache struct {
	reg      *Registry
	capacity int

	mu       sync.Mutex
	order    *list.List
	items    map[Key]*list.Element
	inflight map[Key]*inflight
}

// NewCache builds a cache over reg with the given LRU capacity. capacity<=0
// uses DefaultCacheCapacity.
func NewCache(reg *Registry, capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		reg:      reg,
		capacity: capacity,
		order:    list.New(),
		items:    make(map[Key]*list.Element),
		inflight: make(map[Key]*inflight),
	}
}

// Produce returns the buffer for (name, params), computing it via the
// registry on a cache miss. Concurrent misses for the same key share the
// single underlying factory invocation.
func (c *Cache) Produce(name string, params Params) (*geom.Buffer, error) {
	key := NewKey(name, params)

	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		buf := el.Value.(*cacheEntry).buf
		c.mu.Unlock()
		return buf, nil
	}
	if call, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-call.done
		return call.buf, call.err
	}

	call := &inflight{done: make(chan struct{})}
	c.inflight[key] = call
	c.mu.Unlock()

	factory, err := c.reg.Get(name)
	var buf *geom.Buffer
	if err == nil {
		buf, err = factory(params)
	}
	call.buf, call.err = buf, err
	close(call.done)

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil {
		c.insertLocked(key, buf)
	}
	c.mu.Unlock()

	return buf, err
}

func (c *Cache) insertLocked(key Key, buf *geom.Buffer) {
	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).buf = buf
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&cacheEntry{key: key, buf: buf})
	c.items[key] = el
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

// Len reports the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear evicts every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[Key]*list.Element)
}

package cache

import (
	"container/list"
	"fmt"
	"strings"
	"sync"
	"time"

	"gridline/app/query"
)

// Cache is a size-bounded LRU over query results. Entries share their
// row pointers with the loaded tables, so the accounted size is the
// slice and bookkeeping overhead, not the cell data.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List // front is most recently used
	maxSize int64
	size    int64
	logger  Logger

	hits   int64
	misses int64
}

type lruItem struct {
	key   string
	entry *Entry
}

// New creates a cache bounded to maxSize bytes. Non-positive sizes fall
// back to DefaultMaxSize.
func New(maxSize int64) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Cache{
		entries: make(map[string]*list.Element),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

// SetLogger attaches a logger for hit, store and eviction traces.
func (c *Cache) SetLogger(logger Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// Get retrieves a cached result and marks it recently used.
func (c *Cache) Get(key string) (*query.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		c.log("debug", fmt.Sprintf("[CACHE_MISS] key=%s", key))
		return nil, false
	}

	c.hits++
	item := el.Value.(*lruItem)
	item.entry.AccessTime = time.Now().Unix()
	c.lru.MoveToFront(el)
	c.log("debug", fmt.Sprintf("[CACHE_HIT] key=%s rows=%d size=%d",
		key, len(item.entry.Result.Rows), item.entry.Size))
	return item.entry.Result, true
}

// Store adds or replaces a result. Entries larger than the whole cache
// are rejected; otherwise oldest entries are evicted until it fits.
func (c *Cache) Store(key string, res *query.Result) {
	if res == nil {
		return
	}
	size := estimateSize(res)

	c.mu.Lock()
	defer c.mu.Unlock()

	if size > c.maxSize {
		c.log("warning", fmt.Sprintf("[CACHE_REJECT] key=%s size=%d limit=%d", key, size, c.maxSize))
		return
	}

	if el, ok := c.entries[key]; ok {
		c.removeElement(el)
	}
	c.evictFor(size)

	entry := &Entry{
		Result:     res,
		Size:       size,
		AccessTime: time.Now().Unix(),
		CreateTime: time.Now(),
	}
	c.entries[key] = c.lru.PushFront(&lruItem{key: key, entry: entry})
	c.size += size
	c.log("debug", fmt.Sprintf("[CACHE_STORE] key=%s rows=%d size=%d total=%d/%d",
		key, len(res.Rows), size, c.size, c.maxSize))
}

// Remove drops a single entry if present.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.removeElement(el)
	}
}

// InvalidateTab removes every entry for one fingerprint and returns how
// many were dropped. Called when a tab closes or its file changed on
// disk.
func (c *Cache) InvalidateTab(fingerprint string) int {
	prefix := TabPrefix(fingerprint)

	c.mu.Lock()
	defer c.mu.Unlock()

	var stale []*list.Element
	for key, el := range c.entries {
		if strings.HasPrefix(key, prefix) {
			stale = append(stale, el)
		}
	}
	for _, el := range stale {
		c.removeElement(el)
	}
	if len(stale) > 0 {
		c.log("debug", fmt.Sprintf("[CACHE_INVALIDATE] fingerprint=%s entries=%d", fingerprint, len(stale)))
	}
	return len(stale)
}

// Clear removes everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.lru = list.New()
	c.size = 0
}

// UpdateMaxSize changes the size limit, evicting oldest entries if the
// cache no longer fits.
func (c *Cache) UpdateMaxSize(maxSize int64) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.maxSize = maxSize
	evicted := 0
	for c.size > c.maxSize && c.lru.Len() > 0 {
		c.removeElement(c.lru.Back())
		evicted++
	}
	if evicted > 0 {
		c.log("info", fmt.Sprintf("[CACHE_RESIZE] limit=%d evicted=%d", maxSize, evicted))
	}
}

// Size returns the accounted size in bytes.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// EntryCount returns the number of cached results.
func (c *Cache) EntryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetStats snapshots hit and size counters.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Entries: len(c.entries),
		Size:    c.size,
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
	if c.maxSize > 0 {
		stats.UsagePercent = float64(c.size) / float64(c.maxSize) * 100
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

// evictFor removes oldest entries until needed bytes fit. Callers hold
// the lock and have already rejected entries larger than the cache.
func (c *Cache) evictFor(needed int64) {
	for c.size+needed > c.maxSize && c.lru.Len() > 0 {
		el := c.lru.Back()
		item := el.Value.(*lruItem)
		c.log("debug", fmt.Sprintf("[CACHE_EVICT] key=%s size=%d", item.key, item.entry.Size))
		c.removeElement(el)
	}
}

func (c *Cache) removeElement(el *list.Element) {
	item := el.Value.(*lruItem)
	c.lru.Remove(el)
	delete(c.entries, item.key)
	c.size -= item.entry.Size
}

func (c *Cache) log(level, message string) {
	if c.logger != nil {
		c.logger.Log(level, message)
	}
}

// estimateSize prices an entry: row and display slices plus column
// strings plus fixed bookkeeping. Cell data is owned by the table and
// not counted.
func estimateSize(res *query.Result) int64 {
	size := int64(len(res.Rows))*8 + 24
	size += int64(len(res.DisplayColumns))*8 + 24
	for _, col := range res.Columns {
		size += int64(len(col)) + 16
	}
	size += 200
	return size
}

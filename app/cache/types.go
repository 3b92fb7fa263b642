package cache

import (
	"time"

	"gridline/app/query"
)

// Logger matches the application logger so the cache can trace hits and
// evictions without importing the app package.
type Logger interface {
	Log(level, message string)
}

// DefaultMaxSize is the default cache size limit (100MB).
const DefaultMaxSize = 100 * 1024 * 1024

// Entry is one cached query result. Rows are shared with the loaded
// table, so an entry owns pointer overhead only; callers must treat the
// result as read-only.
type Entry struct {
	Result     *query.Result
	Size       int64
	AccessTime int64
	CreateTime time.Time
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Entries      int
	Size         int64
	MaxSize      int64
	UsagePercent float64
	Hits         int64
	Misses       int64
	HitRate      float64
}

// Package cache implements the Cache Manager (§4.G): a content-
// addressed, two-tiered cache (file-level and repo-level) with TTL
// expiry and size-based eviction. Entry storage and key generation are
// grounded on blueman82-conductor's internal/executor/qc_cache.go; the
// atomic write uses its internal/filelock.AtomicWrite pattern.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/atomic"

	"github.com/nuthan-ms/depgraph/internal/errs"
	"github.com/nuthan-ms/depgraph/internal/logging"
)

const (
	DefaultMaxAge      = 24 * time.Hour
	DefaultMaxSizeBytes = 100 << 20
)

// entry is the on-disk representation of a cache file, matching §4.G's
// storage layout exactly: { timestamp_ms, key, data }.
type entry struct {
	TimestampMs int64           `json:"timestamp_ms"`
	Key         string          `json:"key"`
	Data        json.RawMessage `json:"data"`
}

// Cache is a directory of content-addressed entries. Safe for
// concurrent Get/Set from multiple goroutines within one process; no
// lock file is maintained across processes — per §5 the content-
// addressed, rename-into-place design tolerates concurrent creators,
// including two processes racing a cleanup/eviction sweep.
type Cache struct {
	dir        string
	maxAge     time.Duration
	maxSize    int64
	logger     logging.Logger

	hits    atomic.Int64
	misses  atomic.Int64
	writes  atomic.Int64
	errors  atomic.Int64

	disabled atomic.Bool
}

// New builds a Cache rooted at dir (created on first write if absent).
func New(dir string, maxAge time.Duration, maxSize int64, logger logging.Logger) *Cache {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSizeBytes
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Cache{dir: dir, maxAge: maxAge, maxSize: maxSize, logger: logger}
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get returns the stored data for key iff the file exists and has not
// expired; otherwise it deletes an expired entry (if any) and reports
// a miss.
func (c *Cache) Get(key string) (json.RawMessage, bool) {
	if c.disabled.Load() {
		return nil, false
	}
	p := c.path(key)
	info, err := os.Stat(p)
	if err != nil {
		c.misses.Inc()
		return nil, false
	}
	if time.Since(info.ModTime()) > c.maxAge {
		os.Remove(p)
		c.misses.Inc()
		return nil, false
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		c.misses.Inc()
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		os.Remove(p)
		c.misses.Inc()
		return nil, false
	}
	c.hits.Inc()
	return e.Data, true
}

// Set atomically stores data under key. Cache write failures disable
// further writes for the lifetime of this Cache instance (§7: "cache
// errors disable further cache writes for the run but do not fail
// analysis") but never return an error to the caller.
func (c *Cache) Set(key string, data json.RawMessage) {
	if c.disabled.Load() {
		return
	}
	e := entry{TimestampMs: time.Now().UnixMilli(), Key: key, Data: data}
	raw, err := json.Marshal(e)
	if err != nil {
		c.recordError("marshal", key, err)
		return
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.recordError("mkdir", key, err)
		return
	}
	if err := atomicWrite(c.path(key), raw); err != nil {
		c.recordError("write", key, err)
		return
	}
	c.writes.Inc()
}

func (c *Cache) recordError(op, key string, err error) {
	c.errors.Inc()
	c.disabled.Store(true)
	c.logger.Error("cache write failed, disabling further writes", errs.New(errs.Cache, op, key, err))
}

// Clear removes every entry in the cache directory.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errs.New(errs.Cache, "clear", c.dir, err)
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			c.recordError("clear", e.Name(), err)
		}
	}
	return nil
}

// CleanupExpired deletes every entry older than maxAge. Run once at
// startup.
func (c *Cache) CleanupExpired() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > c.maxAge {
			os.Remove(filepath.Join(c.dir, e.Name()))
		}
	}
}

// EnforceSizeLimit deletes entries by ascending mtime until the
// aggregate directory size is under maxSize. Run once at startup,
// after CleanupExpired.
func (c *Cache) EnforceSizeLimit() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}
	type fileInfo struct {
		path    string
		size    int64
		modTime time.Time
	}
	var files []fileInfo
	var total int64
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{path: filepath.Join(c.dir, e.Name()), size: info.Size(), modTime: info.ModTime()})
		total += info.Size()
	}
	if total <= c.maxSize {
		return
	}
	sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })
	for _, f := range files {
		if total <= c.maxSize {
			break
		}
		if err := os.Remove(f.path); err == nil {
			total -= f.size
		}
	}
}

// Stats reports the running counters and hit rate.
type Stats struct {
	Hits    int64
	Misses  int64
	Writes  int64
	Errors  int64
	HitRate float64
}

func (c *Cache) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	var rate float64
	if hits+misses > 0 {
		rate = float64(hits) / float64(hits+misses)
	}
	return Stats{Hits: hits, Misses: misses, Writes: c.writes.Load(), Errors: c.errors.Load(), HitRate: rate}
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	tmp = nil
	return nil
}

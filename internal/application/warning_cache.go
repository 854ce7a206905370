package application

import (
	"sync"
	"time"
)

// warningCacheTTL bounds how long advisory conflict warnings are served
// without recomputing them.
const warningCacheTTL = 30 * time.Second

type warningEntry struct {
	warnings  []ConflictWarning
	expiresAt time.Time
}

// warningCache memoizes advisory conflict warnings per event. Activities at a
// shared venue can conflict across events, so any activity mutation clears
// the whole cache rather than a single key.
type warningCache struct {
	mu      sync.Mutex
	entries map[string]warningEntry
	ttl     time.Duration
	now     func() time.Time
}

func newWarningCache(ttl time.Duration, now func() time.Time) *warningCache {
	if ttl <= 0 {
		ttl = warningCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &warningCache{
		entries: make(map[string]warningEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (c *warningCache) get(eventID string) ([]ConflictWarning, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[eventID]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, eventID)
		return nil, false
	}
	return entry.warnings, true
}

func (c *warningCache) store(eventID string, warnings []ConflictWarning) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[eventID] = warningEntry{
		warnings:  warnings,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *warningCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]warningEntry)
}

package memory

import (
	"sync"
	"time"
)

type workingEntry struct {
	value     any
	expiresAt time.Time
}

// WorkingMemory is the per-process scratch space agents share within a run.
// Entries expire after the TTL; expired entries are dropped lazily on access.
type WorkingMemory struct {
	mu      sync.RWMutex
	entries map[string]workingEntry
	ttl     time.Duration
}

func NewWorkingMemory(ttl time.Duration) *WorkingMemory {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &WorkingMemory{
		entries: make(map[string]workingEntry),
		ttl:     ttl,
	}
}

func (wm *WorkingMemory) Put(key string, value any) {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wm.entries[key] = workingEntry{
		value:     value,
		expiresAt: time.Now().Add(wm.ttl),
	}
}

func (wm *WorkingMemory) Get(key string) (any, bool) {
	wm.mu.RLock()
	entry, ok := wm.entries[key]
	wm.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		wm.mu.Lock()
		delete(wm.entries, key)
		wm.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (wm *WorkingMemory) Delete(key string) {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	delete(wm.entries, key)
}

// Sweep drops all expired entries and returns how many were removed.
func (wm *WorkingMemory) Sweep() int {
	now := time.Now()
	wm.mu.Lock()
	defer wm.mu.Unlock()

	removed := 0
	for key, entry := range wm.entries {
		if now.After(entry.expiresAt) {
			delete(wm.entries, key)
			removed++
		}
	}
	return removed
}

func (wm *WorkingMemory) Len() int {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return len(wm.entries)
}

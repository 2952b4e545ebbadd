package audit

import (
	"context"
	"sync"
	"time"
)

// MemoryLog keeps audit entries in process. Used when no database is configured.
type MemoryLog struct {
	mu      sync.Mutex
	entries []Entry
}

// Log records an entry.
func (m *MemoryLog) Log(ctx context.Context, entry Entry) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, stamp(entry, time.Now()))
	return nil
}

// Entries returns a copy of the recorded entries.
func (m *MemoryLog) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

package store

import (
	"context"
	"sync"
)

// MemorySink holds the snapshot in memory only. It backs ephemeral runs
// (SNAPSHOT_BACKEND=memory) and lets tests assert exactly when and what
// the store persisted without touching a filesystem.
type MemorySink struct {
	mu      sync.Mutex
	data    []byte
	backup  []byte
	saves   int
	backups int
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Seed pre-loads snapshot bytes, as if a previous process had saved them.
func (m *MemorySink) Seed(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
}

func (m *MemorySink) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemorySink) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

func (m *MemorySink) Backup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backup = m.data
	m.data = nil
	m.backups++
	return nil
}

func (m *MemorySink) Close() error {
	return nil
}

// Saves reports how many times Save has been called.
func (m *MemorySink) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Backups reports how many times Backup has been called.
func (m *MemorySink) Backups() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backups
}

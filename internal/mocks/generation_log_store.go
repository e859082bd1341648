package mocks

import (
	"context"
	"sync"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/domain"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/store"
)

// MockGenerationLogStore implements store.GenerationLogStore for testing
type MockGenerationLogStore struct {
	// CreateFn allows test cases to mock the Create behavior
	CreateFn func(ctx context.Context, entry *domain.GenerationLog) error

	// Err is returned by Create when CreateFn is nil
	Err error

	mu      sync.Mutex
	entries []*domain.GenerationLog
}

// Ensure MockGenerationLogStore implements store.GenerationLogStore interface
var _ store.GenerationLogStore = (*MockGenerationLogStore)(nil)

// Create implements the store.GenerationLogStore interface
func (m *MockGenerationLogStore) Create(ctx context.Context, entry *domain.GenerationLog) error {
	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, entry)
	}

	return m.Err
}

// Entries returns a snapshot of every entry passed to Create.
func (m *MockGenerationLogStore) Entries() []*domain.GenerationLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.GenerationLog, len(m.entries))
	copy(out, m.entries)
	return out
}

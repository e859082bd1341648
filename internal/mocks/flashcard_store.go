package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/domain"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/store"
)

// MockFlashcardStore implements store.FlashcardStore for testing
type MockFlashcardStore struct {
	CreateMultipleFn func(ctx context.Context, cards []*domain.Flashcard) error
	GetByIDFn        func(ctx context.Context, userID, id uuid.UUID) (*domain.Flashcard, error)
	ListFn           func(ctx context.Context, userID uuid.UUID, limit, offset int) (*store.FlashcardPage, error)
	UpdateFn         func(ctx context.Context, card *domain.Flashcard) error
	DeleteFn         func(ctx context.Context, userID, id uuid.UUID) error

	mu      sync.Mutex
	created []*domain.Flashcard
}

// Ensure MockFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*MockFlashcardStore)(nil)

// CreateMultiple implements store.FlashcardStore
func (m *MockFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	m.mu.Lock()
	m.created = append(m.created, cards...)
	m.mu.Unlock()

	if m.CreateMultipleFn != nil {
		return m.CreateMultipleFn(ctx, cards)
	}
	return nil
}

// GetByID implements store.FlashcardStore
func (m *MockFlashcardStore) GetByID(
	ctx context.Context,
	userID, id uuid.UUID,
) (*domain.Flashcard, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	return nil, store.ErrFlashcardNotFound
}

// List implements store.FlashcardStore
func (m *MockFlashcardStore) List(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) (*store.FlashcardPage, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, limit, offset)
	}
	return &store.FlashcardPage{Flashcards: []*domain.Flashcard{}}, nil
}

// Update implements store.FlashcardStore
func (m *MockFlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, card)
	}
	return nil
}

// Delete implements store.FlashcardStore
func (m *MockFlashcardStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return nil
}

// WithTx implements store.FlashcardStore; the mock ignores transactions.
func (m *MockFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return m
}

// Created returns a snapshot of every card passed to CreateMultiple.
func (m *MockFlashcardStore) Created() []*domain.Flashcard {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Flashcard, len(m.created))
	copy(out, m.created)
	return out
}

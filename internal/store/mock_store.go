// ABOUTME: Mock ConversationStore implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MockStore is an in-memory ConversationStore implementation for testing.
type MockStore struct {
	mu   sync.RWMutex
	refs map[string]*ConversationReference // keyed by conversation ID

	// UpsertCalls records every conversation ID passed to Upsert,
	// letting tests assert on persistence behavior.
	UpsertCalls []string
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		refs: make(map[string]*ConversationReference),
	}
}

// Get retrieves a reference by conversation ID.
func (m *MockStore) Get(ctx context.Context, conversationID string) (*ConversationReference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ref, ok := m.refs[conversationID]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy
	result := *ref
	return &result, nil
}

// FindByUserID retrieves the personal conversation reference for a user,
// preferring the most recently updated record.
func (m *MockStore) FindByUserID(ctx context.Context, userID string) (*ConversationReference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if userID == "" {
		return nil, ErrNotFound
	}

	var best *ConversationReference
	for _, ref := range m.refs {
		if ref.UserID != userID || ref.ConversationType != ConversationTypePersonal {
			continue
		}
		if best == nil || ref.UpdatedAt.After(best.UpdatedAt) {
			best = ref
		}
	}

	if best == nil {
		return nil, ErrNotFound
	}

	result := *best
	return &result, nil
}

// List enumerates all stored references, most recently updated first.
func (m *MockStore) List(ctx context.Context) ([]*ConversationReference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	refs := make([]*ConversationReference, 0, len(m.refs))
	for _, ref := range m.refs {
		result := *ref
		refs = append(refs, &result)
	}

	sort.Slice(refs, func(i, j int) bool {
		if !refs[i].UpdatedAt.Equal(refs[j].UpdatedAt) {
			return refs[i].UpdatedAt.After(refs[j].UpdatedAt)
		}
		return refs[i].ConversationID < refs[j].ConversationID
	})

	return refs, nil
}

// Upsert inserts or replaces the record keyed by ref.ConversationID.
func (m *MockStore) Upsert(ctx context.Context, ref *ConversationReference) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ref.ConversationID == "" {
		return fmt.Errorf("conversation reference missing conversation ID")
	}

	now := time.Now().UTC()

	// Make a copy to avoid external modification
	r := *ref
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}

	// Preserve the original creation time on replacement
	if existing, ok := m.refs[r.ConversationID]; ok {
		r.CreatedAt = existing.CreatedAt
	}

	m.refs[r.ConversationID] = &r
	m.UpsertCalls = append(m.UpsertCalls, r.ConversationID)

	return nil
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}

// ABOUTME: Tests for the in-memory mock conversation store
// ABOUTME: Verifies the mock matches the SQLite store's observable behavior

package store

import (
	"context"
	"testing"
	"time"
)

func TestMockStore_UpsertAndGet(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	ref := &ConversationReference{
		ConversationID:   "19:chat-1@thread.v2",
		ChannelID:        "msteams",
		ServiceURL:       "https://smba.trafficmanager.net/teams/",
		ConversationType: ConversationTypePersonal,
		UserID:           "user-aad-1",
	}
	if err := m.Upsert(ctx, ref); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := m.Get(ctx, "19:chat-1@thread.v2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UserID != "user-aad-1" {
		t.Errorf("UserID = %q, want %q", got.UserID, "user-aad-1")
	}

	// Mutating the returned copy must not affect the stored record
	got.UserID = "mutated"
	again, err := m.Get(ctx, "19:chat-1@thread.v2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again.UserID != "user-aad-1" {
		t.Error("stored record was mutated through a returned copy")
	}
}

func TestMockStore_GetNotFound(t *testing.T) {
	m := NewMockStore()

	_, err := m.Get(context.Background(), "19:missing@thread.v2")
	if err != ErrNotFound {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestMockStore_FindByUserIDPrefersNewest(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	old := time.Now().UTC().Add(-time.Hour)
	fresh := time.Now().UTC()

	for _, ref := range []*ConversationReference{
		{
			ConversationID:   "19:stale@thread.v2",
			ChannelID:        "msteams",
			ConversationType: ConversationTypePersonal,
			UserID:           "user-aad-1",
			UpdatedAt:        old,
		},
		{
			ConversationID:   "19:fresh@thread.v2",
			ChannelID:        "msteams",
			ConversationType: ConversationTypePersonal,
			UserID:           "user-aad-1",
			UpdatedAt:        fresh,
		},
	} {
		if err := m.Upsert(ctx, ref); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	got, err := m.FindByUserID(ctx, "user-aad-1")
	if err != nil {
		t.Fatalf("FindByUserID failed: %v", err)
	}
	if got.ConversationID != "19:fresh@thread.v2" {
		t.Errorf("ConversationID = %q, want the most recently updated record", got.ConversationID)
	}
}

func TestMockStore_UpsertIdempotent(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	ref := &ConversationReference{
		ConversationID:   "19:chat-1@thread.v2",
		ChannelID:        "msteams",
		ConversationType: ConversationTypePersonal,
		UserID:           "user-aad-1",
	}
	if err := m.Upsert(ctx, ref); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}
	if err := m.Upsert(ctx, ref); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	refs, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(refs) != 1 {
		t.Errorf("List returned %d records, want exactly 1", len(refs))
	}
	if len(m.UpsertCalls) != 2 {
		t.Errorf("UpsertCalls = %d, want 2", len(m.UpsertCalls))
	}
}

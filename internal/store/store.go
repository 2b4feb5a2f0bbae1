// ABOUTME: ConversationStore interface and data types for teams-bridge persistence
// ABOUTME: Defines the ConversationReference record and the store contract

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested conversation reference does not exist.
// Absence is a normal outcome for lookups, not a failure.
var ErrNotFound = errors.New("not found")

// Conversation type constants
const (
	ConversationTypePersonal = "personal" // one-on-one chat between the bot and a single user
	ConversationTypeGroup    = "group"    // group or team conversation
)

// ConversationReference is the durable record describing how to reach a
// specific conversation on a messaging channel.
type ConversationReference struct {
	// ConversationID is the platform-assigned conversation identifier,
	// unique per conversation. Primary key of the store.
	ConversationID string

	// ChannelID tags the messaging channel that owns this record
	// (e.g. "msteams"), distinguishing records when the store is shared.
	ChannelID string

	// ServiceURL is the base endpoint the adapter must use to post further
	// activities into this conversation.
	ServiceURL string

	// ConversationType is "personal" or "group".
	ConversationType string

	// UserID is the originating user's identifier for personal
	// conversations, enabling reverse lookup. Empty for group records.
	UserID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConversationStore defines the interface for conversation reference persistence
type ConversationStore interface {
	// Get retrieves a reference by conversation ID.
	// Returns ErrNotFound if no record exists.
	Get(ctx context.Context, conversationID string) (*ConversationReference, error)

	// FindByUserID retrieves the personal conversation reference for a user.
	// When multiple records exist for the same user, the most recently
	// updated one wins; reconciling duplicates is the store's concern.
	// Returns ErrNotFound if no record exists.
	FindByUserID(ctx context.Context, userID string) (*ConversationReference, error)

	// List enumerates all stored references, most recently updated first.
	// Used for diagnostics, not on the send path.
	List(ctx context.Context) ([]*ConversationReference, error)

	// Upsert inserts or replaces the record keyed by ref.ConversationID.
	// Calling it twice with equivalent content leaves the store unchanged.
	Upsert(ctx context.Context, ref *ConversationReference) error

	// Close releases any resources held by the store
	Close() error
}

// Package store provides persistent storage of conversation references
// using SQLite.
//
// # Data Model
//
// A ConversationReference records everything needed to reach a conversation
// again later: the platform conversation ID, the channel tag, the connector
// service URL, the conversation type, and the originating user for personal
// chats.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Upserts are conflict-resolved on the conversation ID, so re-persisting an
// existing reference is idempotent.
//
// # Error Handling
//
//   - ErrNotFound: the requested reference does not exist (a normal lookup
//     outcome, never conflated with a storage failure)
//
// All methods accept context.Context for cancellation support.
//
// # Testing
//
// Use NewMockStore() for unit tests and NewSQLiteStore(":memory:") for
// integration tests with real SQLite.
package store

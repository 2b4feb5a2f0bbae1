// ABOUTME: SendTarget parsing and normalization
// ABOUTME: Classifies raw descriptors as user-directed or direct-conversation targets

package sendctx

import (
	"fmt"
	"strings"
)

// TargetKind discriminates the two target shapes.
type TargetKind int

const (
	// TargetUser addresses a person; resolution finds or bootstraps their
	// personal conversation.
	TargetUser TargetKind = iota

	// TargetConversation addresses an existing conversation directly.
	TargetConversation
)

// SendTarget is the normalized target descriptor. Exactly one of UserID or
// ConversationID is set, according to Kind.
type SendTarget struct {
	Kind           TargetKind
	UserID         string
	ConversationID string
}

// ParseTarget classifies a raw target descriptor.
//
// Accepted forms:
//
//	user:<aad-object-id>      a person, resolved to their personal chat
//	conversation:<id>         an existing conversation by id
//	19:...@thread.v2          a bare Teams conversation id
func ParseTarget(raw string) (SendTarget, error) {
	trimmed := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(trimmed, "user:"):
		userID := strings.TrimPrefix(trimmed, "user:")
		if userID == "" {
			return SendTarget{}, &Error{
				Kind: KindInvalidTarget,
				Op:   "classifying send target",
				Err:  fmt.Errorf("empty user id in %q", raw),
			}
		}
		return SendTarget{Kind: TargetUser, UserID: userID}, nil

	case strings.HasPrefix(trimmed, "conversation:"):
		convID := strings.TrimPrefix(trimmed, "conversation:")
		if convID == "" {
			return SendTarget{}, &Error{
				Kind: KindInvalidTarget,
				Op:   "classifying send target",
				Err:  fmt.Errorf("empty conversation id in %q", raw),
			}
		}
		return SendTarget{Kind: TargetConversation, ConversationID: convID}, nil

	case strings.Contains(trimmed, "@thread"):
		// Bare Teams conversation ids look like "19:...@thread.v2"
		return SendTarget{Kind: TargetConversation, ConversationID: trimmed}, nil
	}

	return SendTarget{}, &Error{
		Kind: KindInvalidTarget,
		Op:   "classifying send target",
		Err:  fmt.Errorf("unrecognized target %q", raw),
	}
}

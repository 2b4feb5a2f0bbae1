// ABOUTME: Send-context resolution for the Teams channel
// ABOUTME: Finds or bootstraps the conversation an outbound message should go to

package sendctx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/2389/teams-bridge/internal/adapter"
	"github.com/2389/teams-bridge/internal/config"
	"github.com/2389/teams-bridge/internal/graph"
	"github.com/2389/teams-bridge/internal/store"
)

// ChannelID is the fixed tag identifying the Teams channel in shared stores.
const ChannelID = "msteams"

// opBootstrap names the critical operation for error wrapping. The wrapped
// message is what an operator sees when token acquisition or chat creation
// fails, so it names the operation and keeps the cause.
const opBootstrap = "tried creating a new personal chat via Graph"

// ConversationStore is what the resolver needs from storage.
type ConversationStore interface {
	Get(ctx context.Context, conversationID string) (*store.ConversationReference, error)
	FindByUserID(ctx context.Context, userID string) (*store.ConversationReference, error)
	Upsert(ctx context.Context, ref *store.ConversationReference) error
}

// TokenResolver acquires a directory access token scoped for chat creation.
type TokenResolver interface {
	ResolveToken(ctx context.Context) (string, error)
}

// ChatCreator creates a one-on-one chat via the directory service.
type ChatCreator interface {
	CreateOneOnOneChat(ctx context.Context, token, targetUserID string) (string, error)
}

// ChannelAdapter is the handle callers use to deliver into a resolved
// conversation. Opaque to the resolver beyond being attached to the result.
type ChannelAdapter interface {
	ContinueConversation(ctx context.Context, ref *store.ConversationReference, text string) error
	ProcessActivity(ctx context.Context, act *adapter.Activity, handler adapter.InboundHandler) error
}

// AdapterLoader produces the channel adapter for a resolved context.
type AdapterLoader func(cfg config.MSTeamsConfig, logger *slog.Logger) (ChannelAdapter, error)

// TokenResolverFactory builds a token resolver for resolved credentials.
type TokenResolverFactory func(creds graph.Credentials) TokenResolver

// SendContext is the resolved, ready-to-use bundle for delivering into a
// conversation. Constructed fresh on every call and never cached here; the
// store is the cache.
type SendContext struct {
	ConversationID   string
	ConversationType string
	ServiceURL       string
	Adapter          ChannelAdapter
}

// Collaborators are the injectable dependencies of a Resolver. Nil fields
// fall back to the production Graph and adapter implementations.
type Collaborators struct {
	Store         ConversationStore
	TokenResolver TokenResolverFactory
	ChatCreator   ChatCreator
	AdapterLoader AdapterLoader
}

// Resolver answers "what conversation should this send go to, and is it
// already known or must it be bootstrapped". It holds no mutable state
// between calls beyond what the store provides.
type Resolver struct {
	store    ConversationStore
	tokens   TokenResolverFactory
	chats    ChatCreator
	adapters AdapterLoader
	logger   *slog.Logger
}

// New creates a Resolver. The store is required; other collaborators default
// to the production Graph client, AAD token source, and Teams adapter.
func New(c Collaborators, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "sendctx")

	tokens := c.TokenResolver
	if tokens == nil {
		tokens = func(creds graph.Credentials) TokenResolver {
			return graph.NewTokenSource(creds)
		}
	}

	chats := c.ChatCreator
	if chats == nil {
		chats = graph.NewClient(nil, "", logger)
	}

	adapters := c.AdapterLoader
	if adapters == nil {
		adapters = func(cfg config.MSTeamsConfig, logger *slog.Logger) (ChannelAdapter, error) {
			return adapter.Load(cfg, logger)
		}
	}

	return &Resolver{
		store:    c.Store,
		tokens:   tokens,
		chats:    chats,
		adapters: adapters,
		logger:   logger,
	}
}

// Resolve returns the send context for the given raw target.
//
// State machine per call:
//
//	Normalize -> LookupStore -> Found -> Assemble
//	                         -> NotFound -> Credentials -> Token -> CreateChat -> Persist -> Assemble
//
// Any edge can fail with a tagged *Error; store failures propagate unwrapped.
func (r *Resolver) Resolve(ctx context.Context, cfg *config.Config, to string) (*SendContext, error) {
	ch := cfg.Channels.MSTeams
	if !ch.Enabled {
		return nil, &Error{
			Kind: KindConfiguration,
			Op:   "msteams channel is disabled in configuration",
		}
	}

	target, err := ParseTarget(to)
	if err != nil {
		return nil, err
	}

	ref, err := r.lookup(ctx, target)
	if err != nil {
		return nil, err
	}

	if ref == nil {
		if target.Kind == TargetConversation {
			// Direct-conversation targets are never bootstrapped: the
			// caller claimed the conversation already exists.
			return nil, &Error{
				Kind: KindInvalidTarget,
				Op:   "resolving send target",
				Err:  fmt.Errorf("no stored reference for conversation %q", target.ConversationID),
			}
		}

		ref, err = r.bootstrap(ctx, ch, target.UserID)
		if err != nil {
			return nil, err
		}
	} else {
		r.logger.Debug("reusing stored conversation reference",
			"conversation_id", ref.ConversationID,
			"conversation_type", ref.ConversationType,
		)
	}

	return r.assemble(ch, ref)
}

// lookup queries the store for an existing reference. A pure read: absence
// comes back as (nil, nil), never as an error; real store failures propagate
// unwrapped.
func (r *Resolver) lookup(ctx context.Context, target SendTarget) (*store.ConversationReference, error) {
	var ref *store.ConversationReference
	var err error

	switch target.Kind {
	case TargetUser:
		ref, err = r.store.FindByUserID(ctx, target.UserID)
	case TargetConversation:
		ref, err = r.store.Get(ctx, target.ConversationID)
	default:
		return nil, &Error{
			Kind: KindInternal,
			Op:   fmt.Sprintf("unhandled target kind %d", target.Kind),
		}
	}

	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// bootstrap creates a new personal conversation through the directory
// service and persists the resulting reference. Nothing is written to the
// store unless a conversation id was actually obtained.
func (r *Resolver) bootstrap(ctx context.Context, ch config.MSTeamsConfig, userID string) (*store.ConversationReference, error) {
	creds, err := resolveCredentials(ch)
	if err != nil {
		return nil, err
	}

	r.logger.Info("bootstrapping personal conversation", "user_id", userID)

	// Token acquisition and chat creation failures are wrapped into a
	// single actionable error. No retry here: retrying without diagnosing
	// the cause would mask a permissions misconfiguration.
	token, err := r.tokens(creds).ResolveToken(ctx)
	if err != nil {
		return nil, &Error{Kind: KindBootstrap, Op: opBootstrap, Err: err}
	}

	conversationID, err := r.chats.CreateOneOnOneChat(ctx, token, userID)
	if err != nil {
		return nil, &Error{Kind: KindBootstrap, Op: opBootstrap, Err: err}
	}

	now := time.Now().UTC()
	ref := &store.ConversationReference{
		ConversationID:   conversationID,
		ChannelID:        ChannelID,
		ServiceURL:       ch.ServiceURL,
		ConversationType: store.ConversationTypePersonal,
		UserID:           userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := r.store.Upsert(ctx, ref); err != nil {
		return nil, err
	}

	r.logger.Info("persisted new conversation reference",
		"conversation_id", conversationID,
		"user_id", userID,
	)

	return ref, nil
}

// assemble builds the SendContext from a reference. Performs no I/O beyond
// constructing the adapter handle; a reference without a conversation id is
// an invariant violation.
func (r *Resolver) assemble(ch config.MSTeamsConfig, ref *store.ConversationReference) (*SendContext, error) {
	if ref.ConversationID == "" {
		return nil, &Error{
			Kind: KindInternal,
			Op:   "conversation reference missing conversation id",
		}
	}

	handle, err := r.adapters(ch, r.logger)
	if err != nil {
		return nil, &Error{
			Kind: KindConfiguration,
			Op:   "loading msteams adapter",
			Err:  err,
		}
	}

	return &SendContext{
		ConversationID:   ref.ConversationID,
		ConversationType: ref.ConversationType,
		ServiceURL:       ref.ServiceURL,
		Adapter:          handle,
	}, nil
}

// resolveCredentials supplies the tenant/app identity needed to call the
// directory service.
func resolveCredentials(ch config.MSTeamsConfig) (graph.Credentials, error) {
	if ch.AppID == "" || ch.AppPassword == "" || ch.TenantID == "" {
		return graph.Credentials{}, &Error{
			Kind: KindCredential,
			Op:   "msteams credentials incomplete: app_id, app_password, and tenant_id are required",
		}
	}
	return graph.Credentials{
		AppID:       ch.AppID,
		AppPassword: ch.AppPassword,
		TenantID:    ch.TenantID,
	}, nil
}

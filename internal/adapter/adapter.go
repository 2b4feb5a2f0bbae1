// ABOUTME: Teams channel adapter built on the Bot Framework connector API
// ABOUTME: Continues existing conversations and processes inbound activities with dedupe

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389/teams-bridge/internal/config"
	"github.com/2389/teams-bridge/internal/dedupe"
	"github.com/2389/teams-bridge/internal/graph"
	"github.com/2389/teams-bridge/internal/store"
)

// Teams redelivers webhook activities when the bot does not respond in time;
// five minutes comfortably covers the redelivery window.
const (
	dedupeTTL     = 5 * time.Minute
	dedupeMaxSize = 10000
)

// TokenSource supplies access tokens for connector API calls.
type TokenSource interface {
	ResolveToken(ctx context.Context) (string, error)
}

// Activity is the wire shape exchanged with the connector API. Only the
// fields this bridge reads and writes are modeled.
type Activity struct {
	Type         string           `json:"type"`
	ID           string           `json:"id,omitempty"`
	ChannelID    string           `json:"channelId,omitempty"`
	ServiceURL   string           `json:"serviceUrl,omitempty"`
	Text         string           `json:"text,omitempty"`
	From         *ChannelAccount  `json:"from,omitempty"`
	Conversation *ConversationRef `json:"conversation,omitempty"`
}

// ChannelAccount identifies a bot or user on the channel.
type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ConversationRef identifies the conversation an activity belongs to.
type ConversationRef struct {
	ID string `json:"id"`
}

// InboundHandler consumes deduplicated inbound activities.
type InboundHandler func(ctx context.Context, act *Activity) error

// Adapter continues existing Teams conversations and processes inbound
// activities. Safe for concurrent use.
type Adapter struct {
	appID      string
	tokens     TokenSource
	httpClient *http.Client
	dedupe     *dedupe.Cache
	logger     *slog.Logger
}

// New creates an adapter with explicit collaborators. Most callers should use
// Load instead; New exists for tests and custom wiring.
func New(appID string, tokens TokenSource, httpClient *http.Client, logger *slog.Logger) *Adapter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		appID:      appID,
		tokens:     tokens,
		httpClient: httpClient,
		dedupe:     dedupe.New(dedupeTTL, dedupeMaxSize),
		logger:     logger.With("component", "adapter"),
	}
}

// Load constructs the Teams adapter from channel configuration, wiring an
// app-only connector token source for outbound calls.
func Load(cfg config.MSTeamsConfig, logger *slog.Logger) (*Adapter, error) {
	if cfg.AppID == "" || cfg.AppPassword == "" {
		return nil, fmt.Errorf("msteams app credentials are required to load the adapter")
	}

	tokens := newConnectorTokenSource(graph.Credentials{
		AppID:       cfg.AppID,
		AppPassword: cfg.AppPassword,
		TenantID:    cfg.TenantID,
	})

	return New(cfg.AppID, tokens, nil, logger), nil
}

// ContinueConversation posts a message activity into the conversation
// described by ref, using the service URL recorded on the reference.
func (a *Adapter) ContinueConversation(ctx context.Context, ref *store.ConversationReference, text string) error {
	if ref == nil || ref.ConversationID == "" {
		return fmt.Errorf("conversation reference missing conversation id")
	}
	if ref.ServiceURL == "" {
		return fmt.Errorf("conversation reference missing service url")
	}

	token, err := a.tokens.ResolveToken(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connector token: %w", err)
	}

	act := Activity{
		Type: "message",
		ID:   uuid.New().String(),
		Text: text,
		From: &ChannelAccount{ID: "28:" + a.appID},
		Conversation: &ConversationRef{
			ID: ref.ConversationID,
		},
	}

	body, err := json.Marshal(act)
	if err != nil {
		return fmt.Errorf("encoding activity: %w", err)
	}

	endpoint := strings.TrimSuffix(ref.ServiceURL, "/") +
		"/v3/conversations/" + url.PathEscape(ref.ConversationID) + "/activities"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building activity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting activity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("connector rejected activity: %s: %s", resp.Status, string(detail))
	}

	a.logger.Debug("posted activity",
		"conversation_id", ref.ConversationID,
		"activity_id", act.ID,
	)

	return nil
}

// ProcessActivity handles an inbound activity. Redelivered activities are
// silently ignored; an activity is only marked as seen after the handler
// succeeds, so a failed delivery can be retried.
func (a *Adapter) ProcessActivity(ctx context.Context, act *Activity, handler InboundHandler) error {
	if act == nil || act.ID == "" {
		return fmt.Errorf("inbound activity missing id")
	}

	key := dedupe.ActivityKey(act.ChannelID, act.ID)
	if a.dedupe.Check(key) {
		a.logger.Debug("duplicate inbound activity ignored",
			"channel_id", act.ChannelID,
			"activity_id", act.ID,
		)
		return nil
	}

	if err := handler(ctx, act); err != nil {
		return err
	}

	a.dedupe.Mark(key)
	return nil
}

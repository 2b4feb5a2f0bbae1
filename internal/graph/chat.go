// ABOUTME: Microsoft Graph client for creating one-on-one chats
// ABOUTME: POSTs /v1.0/chats and returns the platform-assigned conversation id

package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the public Microsoft Graph endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// Client calls Microsoft Graph to create conversations.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Graph client. A nil httpClient uses a default with a
// 30s timeout; an empty baseURL uses the public Graph endpoint.
func NewClient(httpClient *http.Client, baseURL string, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger.With("component", "graph"),
	}
}

// chatMember is the Graph aadUserConversationMember wire shape.
type chatMember struct {
	ODataType string   `json:"@odata.type"`
	Roles     []string `json:"roles"`
	UserBind  string   `json:"user@odata.bind"`
}

type createChatRequest struct {
	ChatType string       `json:"chatType"`
	Members  []chatMember `json:"members"`
}

type createChatResponse struct {
	ID string `json:"id"`
}

// CreateOneOnOneChat creates a one-on-one chat with the target user,
// presenting the given Graph access token. Returns the platform conversation
// id on success. The target user must be an AAD object id.
func (c *Client) CreateOneOnOneChat(ctx context.Context, token, targetUserID string) (string, error) {
	if targetUserID == "" {
		return "", fmt.Errorf("target user id is empty")
	}

	reqBody := createChatRequest{
		ChatType: "oneOnOne",
		Members: []chatMember{
			{
				ODataType: "#microsoft.graph.aadUserConversationMember",
				Roles:     []string{"owner"},
				UserBind:  fmt.Sprintf("https://graph.microsoft.com/v1.0/users('%s')", targetUserID),
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chats", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Graph: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Include the response body so an operator can tell a permission
		// failure from a transient outage.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("Graph chat creation failed: %s: %s", resp.Status, string(detail))
	}

	var chat createChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if chat.ID == "" {
		return "", fmt.Errorf("Graph chat response missing conversation id")
	}

	c.logger.Debug("created one-on-one chat",
		"user_id", targetUserID,
		"conversation_id", chat.ID,
	)

	return chat.ID, nil
}

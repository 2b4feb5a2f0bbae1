// ABOUTME: Tests for the Teams channel adapter
// ABOUTME: Covers outbound activity posting, inbound dedupe, and claim checks

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/teams-bridge/internal/store"
)

// stubTokens implements TokenSource for testing
type stubTokens struct {
	token string
	err   error
}

func (s *stubTokens) ResolveToken(ctx context.Context) (string, error) {
	return s.token, s.err
}

func TestContinueConversation(t *testing.T) {
	var gotPath, gotAuth string
	var gotActivity Activity

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotActivity))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"activity-1"}`))
	}))
	defer srv.Close()

	a := New("app-1", &stubTokens{token: "connector-token"}, srv.Client(), nil)

	ref := &store.ConversationReference{
		ConversationID:   "19:chat-1@thread.v2",
		ChannelID:        "msteams",
		ServiceURL:       srv.URL + "/",
		ConversationType: store.ConversationTypePersonal,
	}

	err := a.ContinueConversation(context.Background(), ref, "hello")
	require.NoError(t, err)

	assert.Equal(t, "/v3/conversations/19:chat-1@thread.v2/activities", gotPath)
	assert.Equal(t, "Bearer connector-token", gotAuth)
	assert.Equal(t, "message", gotActivity.Type)
	assert.Equal(t, "hello", gotActivity.Text)
	require.NotNil(t, gotActivity.Conversation)
	assert.Equal(t, "19:chat-1@thread.v2", gotActivity.Conversation.ID)
	require.NotNil(t, gotActivity.From)
	assert.Equal(t, "28:app-1", gotActivity.From.ID)
}

func TestContinueConversation_TokenFailure(t *testing.T) {
	a := New("app-1", &stubTokens{err: errors.New("forbidden")}, nil, nil)

	err := a.ContinueConversation(context.Background(), &store.ConversationReference{
		ConversationID: "19:chat-1@thread.v2",
		ServiceURL:     "http://unused.invalid/",
	}, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connector token")
}

func TestContinueConversation_ConnectorRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"BotNotInConversationRoster"}}`))
	}))
	defer srv.Close()

	a := New("app-1", &stubTokens{token: "connector-token"}, srv.Client(), nil)

	err := a.ContinueConversation(context.Background(), &store.ConversationReference{
		ConversationID: "19:chat-1@thread.v2",
		ServiceURL:     srv.URL,
	}, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "BotNotInConversationRoster")
}

func TestContinueConversation_MissingReferenceFields(t *testing.T) {
	a := New("app-1", &stubTokens{token: "t"}, nil, nil)

	err := a.ContinueConversation(context.Background(), &store.ConversationReference{}, "hello")
	require.Error(t, err)

	err = a.ContinueConversation(context.Background(), nil, "hello")
	require.Error(t, err)
}

func TestProcessActivity_DeduplicatesRedelivery(t *testing.T) {
	a := New("app-1", &stubTokens{token: "t"}, nil, nil)

	calls := 0
	handler := func(ctx context.Context, act *Activity) error {
		calls++
		return nil
	}

	act := &Activity{Type: "message", ID: "act-1", ChannelID: "msteams", Text: "hi"}

	require.NoError(t, a.ProcessActivity(context.Background(), act, handler))
	require.NoError(t, a.ProcessActivity(context.Background(), act, handler))

	assert.Equal(t, 1, calls, "redelivered activity should be processed once")
}

func TestProcessActivity_FailedHandlerAllowsRetry(t *testing.T) {
	a := New("app-1", &stubTokens{token: "t"}, nil, nil)

	calls := 0
	handler := func(ctx context.Context, act *Activity) error {
		calls++
		if calls == 1 {
			return fmt.Errorf("transient failure")
		}
		return nil
	}

	act := &Activity{Type: "message", ID: "act-1", ChannelID: "msteams"}

	require.Error(t, a.ProcessActivity(context.Background(), act, handler))
	require.NoError(t, a.ProcessActivity(context.Background(), act, handler))

	assert.Equal(t, 2, calls, "failed activity should not be marked as seen")
}

func TestProcessActivity_MissingID(t *testing.T) {
	a := New("app-1", &stubTokens{token: "t"}, nil, nil)

	err := a.ProcessActivity(context.Background(), &Activity{Type: "message"}, func(ctx context.Context, act *Activity) error {
		return nil
	})
	require.Error(t, err)
}

func signedTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestVerifyActivityClaims(t *testing.T) {
	raw := signedTestToken(t, jwt.MapClaims{
		"iss": "https://api.botframework.com",
		"aud": "app-1",
	})

	err := VerifyActivityClaims("Bearer "+raw, "app-1")
	require.NoError(t, err)
}

func TestVerifyActivityClaims_WrongAudience(t *testing.T) {
	raw := signedTestToken(t, jwt.MapClaims{
		"iss": "https://api.botframework.com",
		"aud": "some-other-app",
	})

	err := VerifyActivityClaims("Bearer "+raw, "app-1")
	require.ErrorIs(t, err, ErrInvalidAuthClaims)
}

func TestVerifyActivityClaims_WrongIssuer(t *testing.T) {
	raw := signedTestToken(t, jwt.MapClaims{
		"iss": "https://evil.example.com",
		"aud": "app-1",
	})

	err := VerifyActivityClaims("Bearer "+raw, "app-1")
	require.ErrorIs(t, err, ErrInvalidAuthClaims)
}

func TestVerifyActivityClaims_MissingHeader(t *testing.T) {
	err := VerifyActivityClaims("", "app-1")
	require.ErrorIs(t, err, ErrMissingAuthHeader)
}

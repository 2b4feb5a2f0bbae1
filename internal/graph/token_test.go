// ABOUTME: Tests for app-only Graph token acquisition
// ABOUTME: Uses an httptest token endpoint standing in for Azure AD

package graph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/tenant-1/oauth2/v2.0/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "https://graph.microsoft.com/.default", r.PostForm.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"graph-token","token_type":"Bearer","expires_in":3599}`))
	}))
	defer srv.Close()

	ts := NewTokenSourceWithAuthority(Credentials{
		AppID:       "app-1",
		AppPassword: "secret",
		TenantID:    "tenant-1",
	}, srv.URL)

	token, err := ts.ResolveToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "graph-token", token)
}

func TestResolveToken_Forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer srv.Close()

	ts := NewTokenSourceWithAuthority(Credentials{
		AppID:       "app-1",
		AppPassword: "wrong",
		TenantID:    "tenant-1",
	}, srv.URL)

	_, err := ts.ResolveToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquiring Graph token")
}

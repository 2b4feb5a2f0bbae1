// ABOUTME: App-only Graph token acquisition via the Azure AD v2 client-credentials flow
// ABOUTME: Wraps golang.org/x/oauth2/clientcredentials with Teams channel credentials

package graph

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/clientcredentials"
)

// DefaultAuthority is the Azure AD endpoint used to mint app-only tokens.
const DefaultAuthority = "https://login.microsoftonline.com"

// graphScope requests all application permissions granted to the app registration.
const graphScope = "https://graph.microsoft.com/.default"

// Credentials is the tenant/app identity required to call Graph.
type Credentials struct {
	AppID       string
	AppPassword string
	TenantID    string
}

// TokenSource acquires Graph access tokens for the configured app identity.
// Tokens are cached and refreshed by the underlying oauth2 token source.
type TokenSource struct {
	cfg clientcredentials.Config
}

// NewTokenSource creates a token source against the public Azure AD authority.
func NewTokenSource(creds Credentials) *TokenSource {
	return NewTokenSourceWithAuthority(creds, DefaultAuthority)
}

// NewTokenSourceWithAuthority creates a token source against a specific
// authority base URL. Used by tests and sovereign-cloud deployments.
func NewTokenSourceWithAuthority(creds Credentials, authority string) *TokenSource {
	return &TokenSource{
		cfg: clientcredentials.Config{
			ClientID:     creds.AppID,
			ClientSecret: creds.AppPassword,
			TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", authority, creds.TenantID),
			Scopes:       []string{graphScope},
		},
	}
}

// ResolveToken acquires an access token scoped for Graph application calls.
// Transport and auth failures (service unavailable, forbidden) are returned
// as-is; no retry is attempted here.
func (ts *TokenSource) ResolveToken(ctx context.Context) (string, error) {
	tok, err := ts.cfg.TokenSource(ctx).Token()
	if err != nil {
		return "", fmt.Errorf("acquiring Graph token: %w", err)
	}
	return tok.AccessToken, nil
}

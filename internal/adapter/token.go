// ABOUTME: Connector-scoped token acquisition for outbound Bot Framework calls
// ABOUTME: Uses the multi-tenant botframework.com authority with the connector .default scope

package adapter

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/2389/teams-bridge/internal/graph"
)

// Connector tokens are always minted against the botframework.com pseudo
// tenant, regardless of the bot's home tenant.
const (
	connectorTokenURL = "https://login.microsoftonline.com/botframework.com/oauth2/v2.0/token"
	connectorScope    = "https://api.botframework.com/.default"
)

// connectorTokenSource implements TokenSource for connector API calls.
type connectorTokenSource struct {
	cfg clientcredentials.Config
}

func newConnectorTokenSource(creds graph.Credentials) *connectorTokenSource {
	return &connectorTokenSource{
		cfg: clientcredentials.Config{
			ClientID:     creds.AppID,
			ClientSecret: creds.AppPassword,
			TokenURL:     connectorTokenURL,
			Scopes:       []string{connectorScope},
		},
	}
}

// ResolveToken acquires an access token for posting activities.
func (ts *connectorTokenSource) ResolveToken(ctx context.Context) (string, error) {
	tok, err := ts.cfg.TokenSource(ctx).Token()
	if err != nil {
		return "", fmt.Errorf("acquiring connector token: %w", err)
	}
	return tok.AccessToken, nil
}

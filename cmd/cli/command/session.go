package command

import (
	"context"
	"fmt"
	"time"

	"bookhub/cmd/cli/authentication"
	"bookhub/cmd/cli/command/client"
)

// GetAuthenticatedClient returns a client carrying the stored access token, refreshing it
// first when it has expired.
func GetAuthenticatedClient(ctx context.Context) (*client.HTTPClient, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, err
	}

	c := client.NewHTTPClient(apiURL)
	if creds.Expired(time.Now()) {
		refreshed, err := c.Refresh(ctx, creds.RefreshToken)
		if err != nil {
			if client.IsUnauthorized(err) {
				_ = authentication.DeleteTokens()
				return nil, fmt.Errorf("session expired: %w", authentication.ErrNotLoggedIn)
			}
			return nil, fmt.Errorf("refresh session: %w", err)
		}
		creds.Renew(refreshed.AccessToken, time.Now())
		if err := authentication.StoreTokens(creds); err != nil {
			return nil, fmt.Errorf("store session: %w", err)
		}
	}

	c.SetToken(creds.AccessToken)
	return c, nil
}

// GetOptionalClient authenticates when a session exists and falls back to anonymous access.
func GetOptionalClient(ctx context.Context) *client.HTTPClient {
	c, err := GetAuthenticatedClient(ctx)
	if err != nil {
		return client.NewHTTPClient(apiURL)
	}
	return c
}

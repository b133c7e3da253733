package authentication

// keystring.go keeps the CLI session tokens in the OS keyring.

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "bookhub-cli"
	tokenKey    = "auth_tokens"
)

// ErrNotLoggedIn is returned when the keyring holds no session.
var ErrNotLoggedIn = errors.New("not logged in, run `bookhub auth login` first")

type StoredCredentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
	ExpiresAt    int64  `json:"expires_at"` // unix seconds
	Lifetime     int64  `json:"lifetime"`   // access token lifetime in seconds
}

// Renew records a new access token issued at now.
func (c *StoredCredentials) Renew(accessToken string, now time.Time) {
	c.AccessToken = accessToken
	c.ExpiresAt = 0
	if c.Lifetime > 0 {
		c.ExpiresAt = now.Unix() + c.Lifetime
	}
}

// Expired reports whether the access token is past its expiry at now, with a small margin.
func (c *StoredCredentials) Expired(now time.Time) bool {
	return c.ExpiresAt > 0 && now.Add(10*time.Second).Unix() >= c.ExpiresAt
}

func StoreTokens(creds *StoredCredentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, tokenKey, string(data))
}

func GetTokens() (*StoredCredentials, error) {
	value, err := keyring.Get(serviceName, tokenKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}

	var creds StoredCredentials
	if err := json.Unmarshal([]byte(value), &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// DeleteTokens forgets the session. A missing session is not an error.
func DeleteTokens() error {
	err := keyring.Delete(serviceName, tokenKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Package credentials caches the short-lived bearer token used to call the
// provider backend.
package credentials

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"abilityctl/internal/config"
	"abilityctl/pkg/logging"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// FetchFunc obtains a fresh token.
type FetchFunc func(ctx context.Context) (*oauth2.Token, error)

// Cache holds one token together with its expiry timestamp. A token is
// reused until now+leeway reaches the expiry; tokens without an expiry are
// kept until Invalidate.
type Cache struct {
	mu     sync.Mutex
	fetch  FetchFunc
	leeway time.Duration
	now    func() time.Time

	token  string
	expiry time.Time
}

// NewCache wraps a fetch function.
func NewCache(fetch FetchFunc, leeway time.Duration) *Cache {
	return &Cache{fetch: fetch, leeway: leeway, now: time.Now}
}

// FromConfig builds a cache backed by the OAuth2 client credentials grant.
// It returns nil when no token URL is configured.
func FromConfig(cfg config.CredentialsConfig) (*Cache, error) {
	if cfg.TokenURL == "" {
		return nil, nil
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("credentials: clientID is required with tokenURL")
	}
	secret := ""
	if cfg.ClientSecretEnv != "" {
		secret = os.Getenv(cfg.ClientSecretEnv)
		if secret == "" {
			return nil, fmt.Errorf("credentials: environment variable %s is empty", cfg.ClientSecretEnv)
		}
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: secret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	return NewCache(cc.Token, cfg.ExpiryLeeway), nil
}

// Token returns a valid access token, fetching a new one when the cached
// token is missing or about to expire.
func (c *Cache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && (c.expiry.IsZero() || c.now().Add(c.leeway).Before(c.expiry)) {
		return c.token, nil
	}

	tok, err := c.fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch provider credentials: %w", err)
	}
	if tok == nil || tok.AccessToken == "" {
		return "", fmt.Errorf("failed to fetch provider credentials: empty access token")
	}
	c.token = tok.AccessToken
	c.expiry = tok.Expiry
	logging.Debug("Credentials", "Fetched provider token, expires %s", c.expiry.Format(time.RFC3339))
	return c.token, nil
}

// Expiry returns the expiry of the cached token.
func (c *Cache) Expiry() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiry
}

// Invalidate drops the cached token, for example after a 401.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiry = time.Time{}
}

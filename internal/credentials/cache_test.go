package credentials

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"abilityctl/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestCacheReusesUntilLeeway(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	c := NewCache(func(context.Context) (*oauth2.Token, error) {
		calls++
		return &oauth2.Token{AccessToken: "tok-" + string(rune('0'+calls)), Expiry: now.Add(5 * time.Minute)}, nil
	}, 30*time.Second)
	c.now = func() time.Time { return now }

	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	now = now.Add(4 * time.Minute)
	tok, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, 1, calls)

	// within the leeway of the expiry
	now = now.Add(40 * time.Second)
	tok, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)
	assert.Equal(t, 2, calls)

	c.Invalidate()
	assert.True(t, c.Expiry().IsZero())
	_, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestCacheFetchErrors(t *testing.T) {
	boom := errors.New("boom")
	c := NewCache(func(context.Context) (*oauth2.Token, error) { return nil, boom }, 0)
	_, err := c.Token(context.Background())
	assert.ErrorIs(t, err, boom)

	empty := NewCache(func(context.Context) (*oauth2.Token, error) { return &oauth2.Token{}, nil }, 0)
	_, err = empty.Token(context.Background())
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	c, err := FromConfig(config.CredentialsConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = FromConfig(config.CredentialsConfig{TokenURL: "http://x/token"})
	assert.Error(t, err)

	t.Setenv("ABILITYCTL_TEST_SECRET", "")
	_, err = FromConfig(config.CredentialsConfig{TokenURL: "http://x/token", ClientID: "id", ClientSecretEnv: "ABILITYCTL_TEST_SECRET"})
	assert.Error(t, err)
}

func TestFromConfigClientCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"server-token","token_type":"bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	t.Setenv("ABILITYCTL_TEST_SECRET", "s3cret")
	c, err := FromConfig(config.CredentialsConfig{
		TokenURL:        srv.URL,
		ClientID:        "abilityctl",
		ClientSecretEnv: "ABILITYCTL_TEST_SECRET",
	})
	require.NoError(t, err)

	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "server-token", tok)
	assert.False(t, c.Expiry().IsZero())
}

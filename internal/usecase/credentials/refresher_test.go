package credentials

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTokenServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" || r.PostForm.Get("client_id") != "id" {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"app-token","expires_in":3600,"token_type":"bearer"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRefreshStoresTokenAndNotifies(t *testing.T) {
	var calls atomic.Int32
	srv := newTokenServer(t, &calls)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRefresher(TwitchConfig{ClientID: "id", ClientSecret: "secret", TokenURL: srv.URL})
	r.now = func() time.Time { return now }

	var got Token
	r.RegisterHook(func(_ context.Context, token Token) { got = token })

	token, err := r.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "app-token", token.AccessToken)
	require.Equal(t, now.Add(time.Hour), token.ExpiresAt)
	require.Equal(t, token, got)
	require.Equal(t, token, r.Token())
}

func TestRefreshIfNeededSkipsFreshToken(t *testing.T) {
	var calls atomic.Int32
	srv := newTokenServer(t, &calls)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRefresher(TwitchConfig{ClientID: "id", ClientSecret: "secret", TokenURL: srv.URL})
	r.now = func() time.Time { return now }

	require.NoError(t, r.RefreshIfNeeded(context.Background()))
	require.NoError(t, r.RefreshIfNeeded(context.Background()))
	require.Equal(t, int32(1), calls.Load())

	now = now.Add(55 * time.Minute)
	require.NoError(t, r.RefreshIfNeeded(context.Background()))
	require.Equal(t, int32(2), calls.Load())
}

func TestRefreshWithoutConfig(t *testing.T) {
	_, err := NewRefresher(TwitchConfig{}).Refresh(context.Background())
	require.Error(t, err)
}

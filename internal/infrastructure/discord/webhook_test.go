package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureServer(t *testing.T, status int) (*httptest.Server, chan map[string]any) {
	t.Helper()
	got := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		got <- body
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestPostMessage(t *testing.T) {
	srv, got := captureServer(t, http.StatusNoContent)

	err := NewWebhookClient().PostMessage(context.Background(), srv.URL, "<@&1> \nhttps://x\nlive!")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"content": "<@&1> \nhttps://x\nlive!"}, <-got)
}

func TestPostEmbed(t *testing.T) {
	srv, got := captureServer(t, http.StatusOK)

	err := NewWebhookClient().PostEmbed(context.Background(), srv.URL, EmbedMessage{
		Content: "hey",
		Title:   "Live",
		Body:    "now",
		Author:  "bot",
	})
	require.NoError(t, err)

	body := <-got
	require.Equal(t, "bot", body["username"])
	embeds := body["embeds"].([]any)
	require.Len(t, embeds, 1)
	embed := embeds[0].(map[string]any)
	require.Equal(t, "Live", embed["title"])
	require.Equal(t, float64(embedColor), embed["color"])
}

func TestPostMessageErrorStatus(t *testing.T) {
	srv, _ := captureServer(t, http.StatusBadRequest)
	require.ErrorContains(t, NewWebhookClient().PostMessage(context.Background(), srv.URL, "x"), "status 400")
	require.Error(t, NewWebhookClient().PostMessage(context.Background(), "", "x"))
}

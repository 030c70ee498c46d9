package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"chatBot/internal/app/events"
	"chatBot/internal/domain"
	"chatBot/internal/infrastructure/telemetry"
	"chatBot/internal/usecase/commands"
)

type fakeLister struct {
	list []commands.CommandDTO
	err  error
}

func (f fakeLister) List(context.Context) ([]commands.CommandDTO, error) {
	return f.list, f.err
}

type fakeNotifications struct {
	limit int
	list  []*domain.Notification
}

func (f *fakeNotifications) SaveNotification(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	return n, nil
}

func (f *fakeNotifications) ListNotifications(_ context.Context, limit int) ([]*domain.Notification, error) {
	f.limit = limit
	return f.list, nil
}

type fakeTTS struct{}

func (fakeTTS) Status() events.TTSStatusDTO {
	return events.NewTTSStatusDTO(events.TTSIdle, 0, "", "")
}

func TestCommandsEndpoint(t *testing.T) {
	srv := NewServer(Config{Commands: fakeLister{list: []commands.CommandDTO{
		{Name: "time", Source: commands.CommandSourceBuiltin},
	}}})
	ts := httptest.NewServer(srv.Handler(context.Background()))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/commands")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var got []commands.CommandDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	require.Equal(t, "time", got[0].Name)
}

func TestCommandsEndpointError(t *testing.T) {
	srv := NewServer(Config{Commands: fakeLister{err: errors.New("disk")}})
	ts := httptest.NewServer(srv.Handler(context.Background()))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/commands")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/commands", nil)
	require.NoError(t, err)
	post, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	post.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

func TestNotificationsAndStatusEndpoints(t *testing.T) {
	repo := &fakeNotifications{list: []*domain.Notification{
		{ID: 3, Type: domain.NotificationRaid, Platform: domain.PlatformTwitch, Username: "friend"},
	}}
	srv := NewServer(Config{Notifications: repo, TTS: fakeTTS{}})
	ts := httptest.NewServer(srv.Handler(context.Background()))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/notifications?limit=5")
	require.NoError(t, err)
	var list []events.NotificationDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	require.Equal(t, 5, repo.limit)
	require.Len(t, list, 1)
	require.Equal(t, "raid", list[0].Type)

	resp, err = http.Get(ts.URL + "/api/tts/status")
	require.NoError(t, err)
	var status events.TTSStatusDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	resp.Body.Close()
	require.Equal(t, events.TTSIdle, status.State)

	// sin lister configurado la ruta no existe
	resp, err = http.Get(ts.URL + "/api/commands")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	telemetry.Init()
	telemetry.ObserveCommand("general")

	srv := NewServer(Config{})
	ts := httptest.NewServer(srv.Handler(context.Background()))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func dialChat(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http")+"/ws/chat", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, srv *Server, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return srv.clientCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestBusEventsReachClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus()
	srv := NewServer(Config{Bus: bus})
	srv.forward(ctx)
	ts := httptest.NewServer(srv.Handler(ctx))
	defer ts.Close()

	conn := dialChat(t, ts.URL)
	waitClients(t, srv, 1)

	bus.Publish(events.TopicChatMessage, events.NewChatMessageDTO(domain.Message{
		Platform: domain.PlatformYouTube,
		Username: "viewer",
		Text:     "hola",
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got struct {
		Type string               `json:"type"`
		Data events.ChatMessageDTO `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&got))
	require.Equal(t, events.TopicChatMessage, got.Type)
	require.Equal(t, "viewer", got.Data.Username)
	require.Equal(t, "youtube", got.Data.Platform)
}

func TestIncomingTextReachesHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer(Config{})
	received := make(chan domain.Message, 1)
	srv.SetHandler(func(_ context.Context, msg domain.Message) error {
		received <- msg
		return nil
	})
	ts := httptest.NewServer(srv.Handler(ctx))
	defer ts.Close()

	conn := dialChat(t, ts.URL)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"text":"!time","platform":"youtube"}`)))

	select {
	case msg := <-received:
		require.Equal(t, "!time", msg.Text)
		require.Equal(t, domain.PlatformYouTube, msg.Platform)
		require.Equal(t, "overlay", msg.Username)
		require.True(t, msg.IsBroadcaster)
	case <-time.After(2 * time.Second):
		t.Fatal("el handler no recibió el mensaje")
	}
}

func TestDispatchIncomingPlainText(t *testing.T) {
	srv := NewServer(Config{})
	var got domain.Message
	srv.SetHandler(func(_ context.Context, msg domain.Message) error {
		got = msg
		return nil
	})

	require.NoError(t, srv.dispatchIncoming(context.Background(), []byte("  !quote ")))
	require.Equal(t, "!quote", got.Text)
	require.Equal(t, domain.PlatformTwitch, got.Platform)

	require.Error(t, srv.dispatchIncoming(context.Background(), []byte("   ")))
}

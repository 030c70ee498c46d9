package streamerbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"chatBot/internal/domain"
)

const twitchChatFrame = `{
	"timeStamp": "2024-05-01T10:00:00Z",
	"event": {"source": "Twitch", "type": "ChatMessage"},
	"data": {"message": {
		"msgId": "m-1", "userId": "7", "username": "bob", "displayName": "Bob",
		"channel": "rython", "message": "!quote",
		"badges": [{"name": "moderator"}, {"name": "subscriber"}]
	}}
}`

func TestDecodeTwitchChat(t *testing.T) {
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(twitchChatFrame), &env))

	ev, err := decodeEvent(env.Event.Source, env.Event.Type, env.Data)
	require.NoError(t, err)
	require.NotNil(t, ev.message)
	require.Equal(t, domain.Message{
		Platform:  domain.PlatformTwitch,
		ChannelID: "rython",
		UserID:    "7",
		Username:  "Bob",
		Text:      "!quote",
		MessageID: "m-1",
		IsMod:     true,
	}, *ev.message)
}

func TestDecodeYouTubeChat(t *testing.T) {
	data := `{"message":"hello","user":{"id":"yt1","name":"Owner","isOwner":true,"isModerator":false}}`
	ev, err := decodeEvent("YouTube", "Message", json.RawMessage(data))
	require.NoError(t, err)
	require.Equal(t, domain.PlatformYouTube, ev.message.Platform)
	require.Equal(t, "Owner", ev.message.Username)
	require.True(t, ev.message.Flags().Broadcaster)
	require.Empty(t, ev.message.MessageID)
}

func TestDecodeUserEvents(t *testing.T) {
	ev, err := decodeEvent("Twitch", "RewardRedemption", json.RawMessage(`{"user_name":"bob","reward":{"title":"Hydrate","cost":100}}`))
	require.NoError(t, err)
	require.Equal(t, domain.NotificationReward, ev.notification.Type)
	require.Equal(t, "bob", ev.notification.Username)
	require.Equal(t, "Hydrate", ev.notification.Message)

	ev, err = decodeEvent("Twitch", "Raid", json.RawMessage(`{"from_broadcaster_user_name":"friend","viewers":"25"}`))
	require.NoError(t, err)
	require.Equal(t, domain.NotificationRaid, ev.notification.Type)
	require.Equal(t, float64(25), ev.notification.Amount)

	ev, err = decodeEvent("Twitch", "Cheer", json.RawMessage(`{}`))
	require.NoError(t, err)
	require.Nil(t, ev.notification)

	_, err = decodeEvent("Kick", "ChatMessage", json.RawMessage(`{}`))
	require.Error(t, err)
}

func TestActionFor(t *testing.T) {
	a := NewAdapter(Config{ActionTwitch: "tw", ActionTwitchReply: "tw-reply", ActionYouTube: "yt"})

	id, args, err := a.actionFor(domain.Reply{Platform: domain.PlatformTwitch, Text: "hi", MessageID: "m-1"})
	require.NoError(t, err)
	require.Equal(t, "tw-reply", id)
	require.Equal(t, map[string]string{"response": "hi", "msgId": "m-1"}, args)

	id, args, err = a.actionFor(domain.Reply{Platform: domain.PlatformTwitch, Text: "hi"})
	require.NoError(t, err)
	require.Equal(t, "tw", id)
	require.Equal(t, map[string]string{"response": "hi"}, args)

	id, _, err = a.actionFor(domain.Reply{Platform: domain.PlatformYouTube, Text: "hi", MessageID: "ignored"})
	require.NoError(t, err)
	require.Equal(t, "yt", id)

	_, _, err = NewAdapter(Config{}).actionFor(domain.Reply{Platform: domain.PlatformTwitch})
	require.Error(t, err)
}

func TestSessionSubscribesDispatchesAndReplies(t *testing.T) {
	upgrader := websocket.Upgrader{}
	frames := make(chan map[string]any, 4)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var subscribe map[string]any
		if err := conn.ReadJSON(&subscribe); err != nil {
			return
		}
		frames <- subscribe
		if err := conn.WriteMessage(websocket.TextMessage, []byte(twitchChatFrame)); err != nil {
			return
		}
		for {
			var frame map[string]any
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			frames <- frame
		}
	}))
	defer srv.Close()

	a := NewAdapter(Config{
		URL:               "ws" + strings.TrimPrefix(srv.URL, "http"),
		ActionTwitch:      "tw",
		ActionTwitchReply: "tw-reply",
	})
	received := make(chan domain.Message, 1)
	a.SetHandler(func(ctx context.Context, msg domain.Message) error {
		received <- msg
		return a.SendReply(ctx, domain.Reply{Platform: msg.Platform, Text: "pong", MessageID: msg.MessageID})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = a.Start(ctx) }()

	subscribe := next(t, frames)
	require.Equal(t, "Subscribe", subscribe["request"])
	events := subscribe["events"].(map[string]any)
	require.Contains(t, events, "Twitch")
	require.Contains(t, events, "YouTube")

	select {
	case msg := <-received:
		require.Equal(t, "Bob", msg.Username)
	case <-time.After(2 * time.Second):
		t.Fatal("chat message not dispatched")
	}

	action := next(t, frames)
	require.Equal(t, "DoAction", action["request"])
	require.Equal(t, map[string]any{"id": "tw-reply"}, action["action"])
	require.Equal(t, map[string]any{"response": "pong", "msgId": "m-1"}, action["args"])
	require.NotEmpty(t, action["id"])
}

func next(t *testing.T, frames chan map[string]any) map[string]any {
	t.Helper()
	select {
	case f := <-frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for frame")
		return nil
	}
}

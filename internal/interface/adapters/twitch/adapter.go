// Package twitchadapter conecta el bot directo al chat IRC de Twitch, como
// alternativa a Streamer.bot.
package twitchadapter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/adeithe/go-twitch/irc"

	"chatBot/internal/domain"
)

type Config struct {
	Username   string
	OAuthToken string
	Channels   []string
}

type MessageHandler func(ctx context.Context, msg domain.Message) error

type NotificationHandler func(ctx context.Context, n *domain.Notification) error

type Adapter struct {
	cfg Config

	mu            sync.RWMutex
	handler       MessageHandler
	notifications NotificationHandler
	conn          *irc.Conn
}

func NewAdapter(cfg Config) *Adapter {
	return &Adapter{cfg: cfg}
}

func (a *Adapter) SetHandler(h MessageHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = h
}

func (a *Adapter) SetNotificationHandler(h NotificationHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notifications = h
}

// Start conecta, se une a los canales y bloquea hasta que ctx se cancele.
// Cada mensaje se procesa en su propia goroutine.
func (a *Adapter) Start(ctx context.Context) error {
	if len(a.cfg.Channels) == 0 {
		return errors.New("twitch: no hay canales configurados")
	}
	if a.cfg.Username == "" || a.cfg.OAuthToken == "" {
		return errors.New("twitch: username u oauth token vacíos")
	}

	conn := &irc.Conn{}
	if err := conn.SetLogin(a.cfg.Username, a.cfg.OAuthToken); err != nil {
		return fmt.Errorf("twitch: SetLogin: %w", err)
	}

	conn.OnMessage(func(cm irc.ChatMessage) {
		a.mu.RLock()
		handler := a.handler
		a.mu.RUnlock()
		if handler == nil {
			return
		}

		msg := mapChatMessageToDomain(cm)
		go func() {
			if err := handler(ctx, msg); err != nil {
				log.Printf("twitch: error en handler: %v", err)
			}
		}()
	})

	conn.OnChannelUserNotice(func(notice irc.UserNotice) {
		a.mu.RLock()
		handler := a.notifications
		a.mu.RUnlock()
		if handler == nil {
			return
		}

		n := mapUserNotice(notice.Type, notice.Sender.DisplayName, notice.Message, notice.IRCMessage.Tags)
		go func() {
			if err := handler(ctx, n); err != nil {
				log.Printf("twitch: error en notificación: %v", err)
			}
		}()
	})

	if err := conn.Connect(); err != nil {
		return fmt.Errorf("twitch: Connect: %w", err)
	}
	if err := conn.Join(a.cfg.Channels...); err != nil {
		conn.Close()
		return fmt.Errorf("twitch: Join: %w", err)
	}

	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()

	log.Printf("twitch: conectado como %s a canales %v", a.cfg.Username, a.cfg.Channels)

	<-ctx.Done()

	a.mu.Lock()
	if a.conn != nil {
		a.conn.Close()
		a.conn = nil
	}
	a.mu.Unlock()

	return ctx.Err()
}

// SendReply escribe en el canal. IRC no permite respuestas en hilo con Say,
// así que MessageID se ignora.
func (a *Adapter) SendReply(ctx context.Context, reply domain.Reply) error {
	if reply.Platform != domain.PlatformTwitch {
		return fmt.Errorf("twitch adapter no soporta plataforma %s", reply.Platform)
	}

	a.mu.RLock()
	conn := a.conn
	a.mu.RUnlock()

	if conn == nil || !conn.IsConnected() {
		return errors.New("twitch: conexión no inicializada o cerrada")
	}

	log.Printf("twitch -> Say(%s): %s", reply.ChannelID, reply.Text)
	return conn.Say(reply.ChannelID, reply.Text)
}

func mapChatMessageToDomain(cm irc.ChatMessage) domain.Message {
	sender := cm.Sender

	return domain.Message{
		Platform:      domain.PlatformTwitch,
		ChannelID:     cm.Channel,
		UserID:        strconv.FormatInt(sender.ID, 10),
		Username:      sender.DisplayName,
		Text:          cm.Text,
		MessageID:     cm.ID,
		IsBroadcaster: sender.IsBroadcaster,
		IsMod:         sender.IsModerator,
		IsVip:         sender.IsVIP,
	}
}

// mapUserNotice traduce un USERNOTICE (msg-id) a una notificación.
func mapUserNotice(noticeType, user, message string, tags map[string]string) *domain.Notification {
	n := &domain.Notification{
		Type:     domain.NotificationGeneric,
		Platform: domain.PlatformTwitch,
		Username: user,
		Message:  message,
		Metadata: map[string]string{"msg_id": noticeType},
	}

	switch strings.ToLower(noticeType) {
	case "sub", "resub", "subgift", "submysterygift", "giftpaidupgrade":
		n.Type = domain.NotificationSubscription
		n.Amount = tagFloat(tags, "msg-param-cumulative-months")
		if plan := tags["msg-param-sub-plan"]; plan != "" {
			n.Metadata["plan"] = plan
		}
		if recipient := tags["msg-param-recipient-display-name"]; recipient != "" {
			n.Metadata["recipient"] = recipient
		}
	case "raid":
		n.Type = domain.NotificationRaid
		n.Amount = tagFloat(tags, "msg-param-viewerCount")
		if name := tags["msg-param-displayName"]; name != "" {
			n.Username = name
		}
	}
	return n
}

func tagFloat(tags map[string]string, key string) float64 {
	v, err := strconv.ParseFloat(tags[key], 64)
	if err != nil {
		return 0
	}
	return v
}

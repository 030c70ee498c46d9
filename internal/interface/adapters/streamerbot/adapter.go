// Package streamerbot recibe el chat de Twitch y YouTube a través del servidor
// WebSocket de Streamer.bot y responde ejecutando sus acciones.
package streamerbot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chatBot/internal/domain"
)

type Config struct {
	URL string
	// Acciones de Streamer.bot que escriben en el chat. Reciben el texto en el
	// argumento "response" y, para Twitch en hilo, el id del mensaje en "msgId".
	ActionTwitch      string
	ActionTwitchReply string
	ActionYouTube     string

	ReconnectDelay time.Duration
}

type MessageHandler func(ctx context.Context, msg domain.Message) error

type NotificationHandler func(ctx context.Context, n *domain.Notification) error

type Adapter struct {
	cfg    Config
	dialer *websocket.Dialer

	mu            sync.RWMutex
	handler       MessageHandler
	notifications NotificationHandler
	conn          *websocket.Conn

	writeMu sync.Mutex
}

func NewAdapter(cfg Config) *Adapter {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	return &Adapter{cfg: cfg, dialer: websocket.DefaultDialer}
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

// Start mantiene la conexión abierta, reconectando con una espera fija, hasta
// que ctx se cancele.
func (a *Adapter) Start(ctx context.Context) error {
	if a.cfg.URL == "" {
		return errors.New("streamerbot: url vacía")
	}
	for {
		err := a.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("streamerbot: conexión perdida: %v (reintento en %s)", err, a.cfg.ReconnectDelay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(a.cfg.ReconnectDelay):
		}
	}
}

func (a *Adapter) session(ctx context.Context) error {
	conn, _, err := a.dialer.DialContext(ctx, a.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()

	done := make(chan struct{})
	defer func() {
		close(done)
		a.mu.Lock()
		a.conn = nil
		a.mu.Unlock()
		conn.Close()
	}()
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if err := a.subscribe(); err != nil {
		return err
	}
	log.Printf("streamerbot: conectado a %s", a.cfg.URL)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		a.dispatch(ctx, data)
	}
}

func (a *Adapter) subscribe() error {
	return a.writeJSON(context.Background(), map[string]any{
		"request": "Subscribe",
		"id":      uuid.NewString(),
		"events":  subscriptions,
	})
}

// dispatch decodifica un frame y lo entrega en su propia goroutine.
func (a *Adapter) dispatch(ctx context.Context, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("streamerbot: frame inválido: %v", err)
		return
	}
	if env.Event == nil {
		if env.Status != "" && env.Status != "ok" {
			log.Printf("streamerbot: request %s: %s %s", env.ID, env.Status, env.Error)
		}
		return
	}

	ev, err := decodeEvent(env.Event.Source, env.Event.Type, env.Data)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	a.mu.RLock()
	handler, notifications := a.handler, a.notifications
	a.mu.RUnlock()

	switch {
	case ev.message != nil && handler != nil:
		msg := *ev.message
		go func() {
			if err := handler(ctx, msg); err != nil {
				log.Printf("streamerbot: error en handler: %v", err)
			}
		}()
	case ev.notification != nil && notifications != nil:
		n := ev.notification
		go func() {
			if err := notifications(ctx, n); err != nil {
				log.Printf("streamerbot: error en notificación: %v", err)
			}
		}()
	}
}

// SendReply ejecuta la acción que corresponde a la plataforma. En Twitch, si la
// respuesta trae MessageID se usa la acción de respuesta en hilo.
func (a *Adapter) SendReply(ctx context.Context, reply domain.Reply) error {
	actionID, args, err := a.actionFor(reply)
	if err != nil {
		return err
	}
	return a.writeJSON(ctx, map[string]any{
		"request": "DoAction",
		"id":      uuid.NewString(),
		"action":  map[string]string{"id": actionID},
		"args":    args,
	})
}

func (a *Adapter) actionFor(reply domain.Reply) (string, map[string]string, error) {
	args := map[string]string{"response": reply.Text}
	var actionID string
	switch {
	case reply.Platform == domain.PlatformYouTube:
		actionID = a.cfg.ActionYouTube
	case reply.Platform == domain.PlatformTwitch && reply.MessageID != "":
		actionID = a.cfg.ActionTwitchReply
		args["msgId"] = reply.MessageID
	case reply.Platform == domain.PlatformTwitch:
		actionID = a.cfg.ActionTwitch
	default:
		return "", nil, fmt.Errorf("streamerbot: plataforma %s no soportada", reply.Platform)
	}
	if actionID == "" {
		return "", nil, fmt.Errorf("streamerbot: sin acción configurada para %s", reply.Platform)
	}
	return actionID, args, nil
}

func (a *Adapter) writeJSON(ctx context.Context, v any) error {
	a.mu.RLock()
	conn := a.conn
	a.mu.RUnlock()
	if conn == nil {
		return errors.New("streamerbot: sin conexión")
	}

	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(10 * time.Second)
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("streamerbot: write deadline: %w", err)
	}
	return conn.WriteJSON(v)
}

package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chatBot/internal/app/events"
	"chatBot/internal/domain"
)

// Tópicos del bus que se retransmiten a los clientes del overlay.
var forwardedTopics = []string{
	events.TopicChatMessage,
	events.TopicChatReply,
	events.TopicNotification,
	events.TopicTTSStatus,
	events.TopicTTSSpoken,
}

// Server expone /ws/chat para el overlay, la API de consulta y /metrics.
type Server struct {
	addr     string
	bus      *events.Bus
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	handler MessageHandler

	api *apiHandlers
}

type MessageHandler func(ctx context.Context, msg domain.Message) error

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// envelope es lo que recibe el overlay: {"type": "<tópico>", "data": {...}}.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func NewServer(cfg Config) *Server {
	return &Server{
		addr: cfg.addr(),
		bus:  cfg.Bus,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*wsClient]struct{}),
		api:     newAPIHandlers(cfg),
	}
}

func (s *Server) SetHandler(h MessageHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// Handler arma las rutas HTTP. Las conexiones WS viven mientras ctx no se cancele.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/chat", func(w http.ResponseWriter, r *http.Request) {
		s.handleWS(ctx, w, r)
	})
	s.api.register(mux)
	return mux
}

// Start levanta el HTTP server, empieza a retransmitir el bus y se bloquea
// hasta que el contexto se cancela.
func (s *Server) Start(ctx context.Context) error {
	s.forward(ctx)

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("ws: shutdown error: %v", err)
		}
		s.closeClients()
	}()

	log.Printf("ws: escuchando en %s", s.addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// forward se suscribe a cada tópico y reenvía los eventos a todos los clientes.
func (s *Server) forward(ctx context.Context) {
	if s.bus == nil {
		return
	}
	for _, topic := range forwardedTopics {
		ch, unsubscribe := s.bus.Subscribe(topic)
		go func(topic string) {
			defer unsubscribe()
			for {
				select {
				case <-ctx.Done():
					return
				case payload, ok := <-ch:
					if !ok {
						return
					}
					s.Broadcast(envelope{Type: topic, Data: payload})
				}
			}
		}(topic)
	}
}

func (s *Server) handleWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade error: %v", err)
		return
	}

	client := &wsClient{conn: conn}

	s.mu.Lock()
	s.clients[client] = struct{}{}
	clientCount := len(s.clients)
	s.mu.Unlock()

	log.Printf("ws: nueva conexión desde %s (%d clientes activos)", r.RemoteAddr, clientCount)

	go s.handleClient(ctx, client)
}

func (s *Server) handleClient(ctx context.Context, client *wsClient) {
	defer s.removeClient(client)

	for {
		if ctx.Err() != nil {
			return
		}

		msgType, data, err := client.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws: read error: %v", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		go func() {
			if err := s.dispatchIncoming(ctx, data); err != nil {
				log.Printf("ws: incoming dispatch error: %v", err)
			}
		}()
	}
}

type incomingPayload struct {
	Text      string `json:"text"`
	Platform  string `json:"platform"`
	ChannelID string `json:"channel_id"`
	Username  string `json:"username"`
}

// dispatchIncoming trata lo que escribe el overlay como un mensaje del broadcaster,
// útil para probar comandos sin pasar por la plataforma.
func (s *Server) dispatchIncoming(ctx context.Context, data []byte) error {
	s.mu.RLock()
	handler := s.handler
	s.mu.RUnlock()
	if handler == nil {
		return nil
	}

	payload := incomingPayload{}
	if err := json.Unmarshal(data, &payload); err != nil {
		payload.Text = string(data)
	}
	payload.Text = strings.TrimSpace(payload.Text)
	if payload.Text == "" {
		return fmt.Errorf("ws: empty incoming text")
	}

	platform, ok := domain.ParsePlatform(payload.Platform)
	if !ok {
		platform = domain.PlatformTwitch
	}
	username := strings.TrimSpace(payload.Username)
	if username == "" {
		username = "overlay"
	}

	return handler(ctx, domain.Message{
		Platform:      platform,
		ChannelID:     strings.TrimSpace(payload.ChannelID),
		UserID:        "overlay",
		Username:      username,
		Text:          payload.Text,
		IsBroadcaster: true,
	})
}

// Broadcast envía v como JSON a cada cliente; los que fallan se desconectan.
func (s *Server) Broadcast(v any) {
	s.mu.RLock()
	clients := make([]*wsClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(v); err != nil {
			log.Printf("ws: removing client due to write error: %v", err)
			s.removeClient(c)
		}
	}
}

func (s *Server) removeClient(c *wsClient) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	clientCount := len(s.clients)
	s.mu.Unlock()

	if ok {
		c.conn.Close()
		log.Printf("ws: conexión cerrada (%d clientes activos)", clientCount)
	}
}

func (s *Server) closeClients() {
	s.mu.RLock()
	clients := make([]*wsClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()
	for _, c := range clients {
		s.removeClient(c)
	}
}

func (s *Server) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

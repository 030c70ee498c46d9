package app

import (
	"context"
	"errors"
	"log"
	"sync"

	"chatBot/internal/domain"
	"chatBot/internal/interface/adapters/streamerbot"
	twitchadapter "chatBot/internal/interface/adapters/twitch"
	"chatBot/internal/interface/outs"
)

type MessageHandler func(ctx context.Context, msg domain.Message) error

type NotificationHandler func(ctx context.Context, n *domain.Notification) error

type ManagerConfig struct {
	Context  context.Context
	MultiOut *outs.MultiSender
}

// source es una fuente de eventos de chat que también sabe responder.
type source interface {
	domain.OutgoingMessagePort
	Start(ctx context.Context) error
}

type PlatformManager struct {
	ctx      context.Context
	multiOut *outs.MultiSender

	handlerMu     sync.RWMutex
	handler       MessageHandler
	notifications NotificationHandler

	mu      sync.Mutex
	running *sourceRuntime
}

type sourceRuntime struct {
	name      string
	cancel    context.CancelFunc
	done      chan struct{}
	platforms []domain.Platform
}

func NewPlatformManager(cfg ManagerConfig) *PlatformManager {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	multiOut := cfg.MultiOut
	if multiOut == nil {
		multiOut = outs.NewMultiSender()
	}
	return &PlatformManager{
		ctx:      ctx,
		multiOut: multiOut,
	}
}

// SetHandler debe llamarse antes de habilitar una fuente.
func (m *PlatformManager) SetHandler(handler MessageHandler) {
	m.handlerMu.Lock()
	defer m.handlerMu.Unlock()
	m.handler = handler
}

func (m *PlatformManager) SetNotificationHandler(handler NotificationHandler) {
	m.handlerMu.Lock()
	defer m.handlerMu.Unlock()
	m.notifications = handler
}

// EnableStreamerBot usa Streamer.bot como fuente de Twitch y YouTube.
func (m *PlatformManager) EnableStreamerBot(cfg streamerbot.Config) {
	adapter := streamerbot.NewAdapter(cfg)
	adapter.SetHandler(func(ctx context.Context, msg domain.Message) error {
		return m.handleMessage(ctx, msg)
	})
	adapter.SetNotificationHandler(func(ctx context.Context, n *domain.Notification) error {
		return m.handleNotification(ctx, n)
	})
	m.enable("streamerbot", adapter, domain.PlatformTwitch, domain.PlatformYouTube)
}

// EnableIRC conecta directo al IRC de Twitch. YouTube queda sin fuente.
func (m *PlatformManager) EnableIRC(cfg twitchadapter.Config) {
	adapter := twitchadapter.NewAdapter(cfg)
	adapter.SetHandler(func(ctx context.Context, msg domain.Message) error {
		return m.handleMessage(ctx, msg)
	})
	adapter.SetNotificationHandler(func(ctx context.Context, n *domain.Notification) error {
		return m.handleNotification(ctx, n)
	})
	m.enable("irc", adapter, domain.PlatformTwitch)
}

// enable reemplaza la fuente activa, si la hay, por src.
func (m *PlatformManager) enable(name string, src source, platforms ...domain.Platform) {
	m.disable()

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, platform := range platforms {
		m.multiOut.Register(platform, src)
	}

	ctx, cancel := context.WithCancel(m.ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := src.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("platform manager: %s terminó con error: %v", name, err)
		}
	}()

	m.running = &sourceRuntime{
		name:      name,
		cancel:    cancel,
		done:      done,
		platforms: platforms,
	}
	log.Printf("platform manager: %s habilitado.", name)
}

func (m *PlatformManager) disable() {
	m.mu.Lock()
	running := m.running
	m.running = nil
	m.mu.Unlock()

	if running == nil {
		return
	}
	for _, platform := range running.platforms {
		m.multiOut.Unregister(platform)
	}
	running.cancel()
	<-running.done
	log.Printf("platform manager: %s deshabilitado.", running.name)
}

// Active devuelve el nombre de la fuente en uso o "" si no hay ninguna.
func (m *PlatformManager) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running == nil {
		return ""
	}
	return m.running.name
}

func (m *PlatformManager) Shutdown() {
	m.disable()
}

func (m *PlatformManager) handleMessage(ctx context.Context, msg domain.Message) error {
	m.handlerMu.RLock()
	handler := m.handler
	m.handlerMu.RUnlock()
	if handler == nil {
		return nil
	}
	return handler(ctx, msg)
}

func (m *PlatformManager) handleNotification(ctx context.Context, n *domain.Notification) error {
	m.handlerMu.RLock()
	handler := m.notifications
	m.handlerMu.RUnlock()
	if handler == nil {
		return nil
	}
	return handler(ctx, n)
}

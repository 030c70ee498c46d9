package outs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"chatBot/internal/app/events"
	"chatBot/internal/domain"
	"chatBot/internal/infrastructure/telemetry"
)

// MultiSender enruta las respuestas al sender correcto según la plataforma.
type MultiSender struct {
	mu      sync.RWMutex
	senders map[domain.Platform]domain.OutgoingMessagePort
}

func NewMultiSender() *MultiSender {
	return &MultiSender{
		senders: make(map[domain.Platform]domain.OutgoingMessagePort),
	}
}

// Register asocia una plataforma con un sender concreto (Streamer.bot, IRC).
func (m *MultiSender) Register(platform domain.Platform, sender domain.OutgoingMessagePort) {
	if m == nil || sender == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.senders[platform] = sender
}

func (m *MultiSender) Unregister(platform domain.Platform) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.senders, platform)
}

// SendReply busca el sender para la plataforma de la respuesta y delega el envío.
func (m *MultiSender) SendReply(ctx context.Context, reply domain.Reply) error {
	if m == nil {
		return fmt.Errorf("no hay multi sender configurado")
	}
	m.mu.RLock()
	sender, ok := m.senders[reply.Platform]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no hay sender registrado para la plataforma %s", reply.Platform)
	}
	return sender.SendReply(ctx, reply)
}

// AsyncSender envía cada respuesta en su propia goroutine. Los errores se
// registran y se cuentan; nunca llegan a quien respondió.
type AsyncSender struct {
	next    domain.OutgoingMessagePort
	bus     *events.Bus
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsyncSender(next domain.OutgoingMessagePort, bus *events.Bus) *AsyncSender {
	return &AsyncSender{next: next, bus: bus, timeout: 15 * time.Second}
}

func (a *AsyncSender) SendReply(_ context.Context, reply domain.Reply) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		err := a.next.SendReply(ctx, reply)
		if err != nil {
			log.Printf("outs: %s %s: %v", reply.Platform, reply.ChannelID, err)
			telemetry.ObserveReplyFailure(string(reply.Platform))
		}
		if a.bus != nil {
			a.bus.Publish(events.TopicChatReply, events.NewReplyDTO(reply, err))
		}
	}()
	return nil
}

// Wait espera a que terminen los envíos en curso.
func (a *AsyncSender) Wait() {
	a.wg.Wait()
}

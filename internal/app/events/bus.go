package events

import (
	"log"
	"sync"
)

const (
	TopicChatMessage  = "chat:message"
	TopicChatReply    = "chat:reply"
	TopicNotification = "notifications:event"
	TopicTTSStatus    = "tts:status"
	TopicTTSSpoken    = "tts:spoken"

	defaultBufferSize = 128
)

// Bus reparte eventos del bot a los clientes del overlay. Publish nunca bloquea:
// si el buffer de un suscriptor está lleno el evento se descarta para ese suscriptor.
type Bus struct {
	mu        sync.RWMutex
	subs      map[string]map[int]chan any
	nextSubID int
	closed    bool

	dropMu     sync.Mutex
	dropCounts map[string]uint64
}

func NewBus() *Bus {
	return &Bus{
		subs:       make(map[string]map[int]chan any),
		dropCounts: make(map[string]uint64),
	}
}

func (b *Bus) Publish(topic string, payload any) {
	if b == nil || topic == "" {
		return
	}
	// los envíos no bloquean, así que se hacen bajo el RLock para que ningún
	// unsubscribe cierre el canal en el medio
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs[topic] {
		select {
		case ch <- payload:
		default:
			b.recordDrop(topic)
		}
	}
}

func (b *Bus) Subscribe(topic string) (<-chan any, func()) {
	ch := make(chan any, defaultBufferSize)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if b.subs == nil {
		b.subs = make(map[string]map[int]chan any)
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan any)
	}
	id := b.nextSubID
	b.nextSubID++
	b.subs[topic][id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs, ok := b.subs[topic]
			if !ok {
				return
			}
			if _, live := subs[id]; !live {
				return
			}
			delete(subs, id)
			if len(subs) == 0 {
				delete(b.subs, topic)
			}
			close(ch)
		})
	}

	return ch, unsubscribe
}

// Close cierra todas las suscripciones; los Publish posteriores se ignoran.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.subs {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(b.subs, topic)
	}
}

// Drops devuelve cuántos eventos se descartaron en un tópico.
func (b *Bus) Drops(topic string) uint64 {
	b.dropMu.Lock()
	defer b.dropMu.Unlock()
	return b.dropCounts[topic]
}

func (b *Bus) recordDrop(topic string) {
	b.dropMu.Lock()
	defer b.dropMu.Unlock()
	if b.dropCounts == nil {
		b.dropCounts = make(map[string]uint64)
	}
	b.dropCounts[topic]++
	if b.dropCounts[topic]%100 == 1 {
		log.Printf("events: dropping messages for %s (total drops: %d)", topic, b.dropCounts[topic])
	}
}

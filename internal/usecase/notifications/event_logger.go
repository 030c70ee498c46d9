package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"chatBot/internal/app/events"
	"chatBot/internal/domain"
	"chatBot/internal/infrastructure/telemetry"
)

// EventLogger recibe los eventos que no son chat (canjes, follows, subs, raids):
// los deja en el log como JSON, los guarda si hay repositorio, los publica al
// overlay y lee en voz alta los canjes de recompensas.
type EventLogger struct {
	repo   domain.NotificationRepository
	speech domain.SpeechPort
	bus    *events.Bus
	now    func() time.Time
}

func NewEventLogger(repo domain.NotificationRepository, speech domain.SpeechPort, bus *events.Bus) *EventLogger {
	return &EventLogger{
		repo:   repo,
		speech: speech,
		bus:    bus,
		now:    time.Now,
	}
}

// RewardSpeech es el texto que se lee para un canje.
func RewardSpeech(n *domain.Notification) string {
	return fmt.Sprintf("%s redeemed %s", n.Username, n.Message)
}

func (l *EventLogger) Handle(ctx context.Context, n *domain.Notification) error {
	if l == nil || n == nil {
		return nil
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = l.now().UTC()
	}
	telemetry.ObserveEvent(string(n.Platform), string(n.Type))
	l.logPayload(n)

	if l.repo != nil {
		if _, err := l.repo.SaveNotification(ctx, n); err != nil {
			log.Printf("notifications: save %s: %v", n.Type, err)
		}
	}

	if l.bus != nil {
		l.bus.Publish(events.TopicNotification, events.NewNotificationDTO(n))
	}

	if n.Type == domain.NotificationReward && l.speech != nil {
		if err := l.speech.Speak(ctx, RewardSpeech(n), n.Username, n.Platform); err != nil {
			return fmt.Errorf("notifications: speak reward: %w", err)
		}
	}
	return nil
}

func (l *EventLogger) logPayload(n *domain.Notification) {
	payload := map[string]any{
		"timestamp":  n.CreatedAt.Format(time.RFC3339Nano),
		"event_type": n.Type,
		"user":       n.Username,
		"amount":     n.Amount,
		"message":    n.Message,
		"metadata":   n.Metadata,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[%s-events] %v", n.Platform, payload)
		return
	}
	log.Printf("[%s-events] %s", n.Platform, data)
}

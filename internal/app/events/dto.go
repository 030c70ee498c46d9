package events

import (
	"time"

	"chatBot/internal/domain"
)

// ChatMessageDTO describe el payload que se envía al overlay a través del bus.
type ChatMessageDTO struct {
	Platform      string `json:"platform"`
	ChannelID     string `json:"channel_id"`
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	Text          string `json:"text"`
	MessageID     string `json:"message_id,omitempty"`
	IsBroadcaster bool   `json:"is_broadcaster"`
	IsMod         bool   `json:"is_mod"`
	IsVip         bool   `json:"is_vip"`
	Timestamp     string `json:"timestamp"`
}

func NewChatMessageDTO(msg domain.Message) ChatMessageDTO {
	return ChatMessageDTO{
		Platform:      string(msg.Platform),
		ChannelID:     msg.ChannelID,
		UserID:        msg.UserID,
		Username:      msg.Username,
		Text:          msg.Text,
		MessageID:     msg.MessageID,
		IsBroadcaster: msg.IsBroadcaster,
		IsMod:         msg.IsMod,
		IsVip:         msg.IsVip,
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// ReplyDTO es una respuesta del bot ya enviada (o intentada).
type ReplyDTO struct {
	Platform  string `json:"platform"`
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
	InReplyTo string `json:"in_reply_to,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

func NewReplyDTO(reply domain.Reply, err error) ReplyDTO {
	dto := ReplyDTO{
		Platform:  string(reply.Platform),
		ChannelID: reply.ChannelID,
		Text:      reply.Text,
		InReplyTo: reply.MessageID,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err != nil {
		dto.Error = err.Error()
	}
	return dto
}

type NotificationDTO struct {
	ID        int64             `json:"id,omitempty"`
	Type      string            `json:"type"`
	Platform  string            `json:"platform"`
	Username  string            `json:"username"`
	Amount    float64           `json:"amount,omitempty"`
	Message   string            `json:"message,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt string            `json:"created_at"`
}

func NewNotificationDTO(n *domain.Notification) NotificationDTO {
	if n == nil {
		return NotificationDTO{}
	}
	created := n.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return NotificationDTO{
		ID:        n.ID,
		Type:      string(n.Type),
		Platform:  string(n.Platform),
		Username:  n.Username,
		Amount:    n.Amount,
		Message:   n.Message,
		Metadata:  n.Metadata,
		CreatedAt: created.UTC().Format(time.RFC3339Nano),
	}
}

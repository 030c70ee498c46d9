package streamerbot

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"chatBot/internal/domain"
)

// Eventos a los que se suscribe el bot, por fuente.
var subscriptions = map[string][]string{
	"Twitch":  {"ChatMessage", "RewardRedemption", "Follow", "Sub", "ReSub", "GiftSub", "Raid"},
	"YouTube": {"Message"},
}

type envelope struct {
	// respuestas a requests
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`

	Event *struct {
		Source string `json:"source"`
		Type   string `json:"type"`
	} `json:"event,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type twitchChatData struct {
	Message struct {
		MsgID       string `json:"msgId"`
		UserID      string `json:"userId"`
		Username    string `json:"username"`
		DisplayName string `json:"displayName"`
		Channel     string `json:"channel"`
		Message     string `json:"message"`
		Badges      []struct {
			Name string `json:"name"`
		} `json:"badges"`
	} `json:"message"`
}

type youtubeChatData struct {
	Message string `json:"message"`
	EventID string `json:"eventId"`
	User    struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		IsOwner     bool   `json:"isOwner"`
		IsModerator bool   `json:"isModerator"`
	} `json:"user"`
	BroadcastID string `json:"broadcastId"`
}

// userEventData cubre los payloads de canjes, follows, subs y raids; cada
// evento usa sólo algunos campos.
type userEventData struct {
	UserName        string `json:"user_name"`
	UserNameCamel   string `json:"userName"`
	DisplayName     string `json:"displayName"`
	FromBroadcaster string `json:"from_broadcaster_user_name"`
	User            struct {
		Name string `json:"name"`
	} `json:"user"`
	Reward struct {
		Title string `json:"title"`
		Cost  int    `json:"cost"`
	} `json:"reward"`
	UserInput        string          `json:"user_input"`
	Viewers          json.RawMessage `json:"viewers"`
	Tier             string          `json:"sub_tier"`
	CumulativeMonths int             `json:"cumulativeMonths"`
	Recipient        struct {
		Name string `json:"name"`
	} `json:"recipient"`
}

func (d userEventData) name() string {
	for _, candidate := range []string{d.UserName, d.UserNameCamel, d.DisplayName, d.User.Name, d.FromBroadcaster} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// decoded es el resultado de mapear un evento: un mensaje de chat o una notificación.
type decoded struct {
	message      *domain.Message
	notification *domain.Notification
}

func decodeEvent(source, eventType string, data json.RawMessage) (decoded, error) {
	platform, ok := domain.ParsePlatform(source)
	if !ok {
		return decoded{}, fmt.Errorf("streamerbot: fuente desconocida %q", source)
	}

	switch {
	case platform == domain.PlatformTwitch && eventType == "ChatMessage":
		var payload twitchChatData
		if err := json.Unmarshal(data, &payload); err != nil {
			return decoded{}, fmt.Errorf("streamerbot: decode %s.%s: %w", source, eventType, err)
		}
		msg := mapTwitchChat(payload)
		return decoded{message: &msg}, nil

	case platform == domain.PlatformYouTube && eventType == "Message":
		var payload youtubeChatData
		if err := json.Unmarshal(data, &payload); err != nil {
			return decoded{}, fmt.Errorf("streamerbot: decode %s.%s: %w", source, eventType, err)
		}
		msg := mapYouTubeChat(payload)
		return decoded{message: &msg}, nil
	}

	var payload userEventData
	if err := json.Unmarshal(data, &payload); err != nil {
		return decoded{}, fmt.Errorf("streamerbot: decode %s.%s: %w", source, eventType, err)
	}
	n := mapUserEvent(platform, eventType, payload)
	if n == nil {
		return decoded{}, nil
	}
	return decoded{notification: n}, nil
}

func mapTwitchChat(p twitchChatData) domain.Message {
	msg := domain.Message{
		Platform:  domain.PlatformTwitch,
		ChannelID: p.Message.Channel,
		UserID:    p.Message.UserID,
		Username:  p.Message.DisplayName,
		Text:      p.Message.Message,
		MessageID: p.Message.MsgID,
	}
	if msg.Username == "" {
		msg.Username = p.Message.Username
	}
	for _, badge := range p.Message.Badges {
		switch badge.Name {
		case "broadcaster":
			msg.IsBroadcaster = true
		case "moderator":
			msg.IsMod = true
		case "vip":
			msg.IsVip = true
		}
	}
	return msg
}

// mapYouTubeChat no rellena MessageID: YouTube no admite respuestas en hilo.
func mapYouTubeChat(p youtubeChatData) domain.Message {
	return domain.Message{
		Platform:      domain.PlatformYouTube,
		ChannelID:     p.BroadcastID,
		UserID:        p.User.ID,
		Username:      p.User.Name,
		Text:          p.Message,
		IsBroadcaster: p.User.IsOwner,
		IsMod:         p.User.IsModerator,
	}
}

func mapUserEvent(platform domain.Platform, eventType string, p userEventData) *domain.Notification {
	n := &domain.Notification{
		Platform: platform,
		Username: p.name(),
		Metadata: map[string]string{"event": eventType},
	}
	switch eventType {
	case "RewardRedemption":
		n.Type = domain.NotificationReward
		n.Message = p.Reward.Title
		n.Amount = float64(p.Reward.Cost)
		if p.UserInput != "" {
			n.Metadata["input"] = p.UserInput
		}
	case "Follow":
		n.Type = domain.NotificationFollow
	case "Sub", "ReSub", "GiftSub":
		n.Type = domain.NotificationSubscription
		n.Amount = float64(p.CumulativeMonths)
		if p.Tier != "" {
			n.Metadata["tier"] = p.Tier
		}
		if p.Recipient.Name != "" {
			n.Metadata["recipient"] = p.Recipient.Name
		}
	case "Raid":
		n.Type = domain.NotificationRaid
		n.Amount = rawNumber(p.Viewers)
	default:
		return nil
	}
	return n
}

// rawNumber acepta números tanto como 12 o como "12".
func rawNumber(raw json.RawMessage) float64 {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

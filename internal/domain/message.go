package domain

import "strings"

type Platform string

const (
	PlatformTwitch  Platform = "twitch"
	PlatformYouTube Platform = "youtube"
)

// ParsePlatform normaliza el "source" que mandan los adapters ("Twitch", "YouTube", ...).
func ParsePlatform(source string) (Platform, bool) {
	switch Platform(strings.ToLower(strings.TrimSpace(source))) {
	case PlatformTwitch:
		return PlatformTwitch, true
	case PlatformYouTube:
		return PlatformYouTube, true
	}
	return "", false
}

type Message struct {
	Platform  Platform
	ChannelID string
	UserID    string
	Username  string
	Text      string

	// Solo Twitch: permite responder en hilo al mensaje original.
	MessageID string

	// Flags que vienen de la plataforma (los rellenamos en el adapter)
	IsBroadcaster bool
	IsMod         bool
	IsVip         bool
}

// Flags son los permisos del autor de un mensaje; se calculan por evento y no se guardan.
type Flags struct {
	Broadcaster bool
	Mod         bool
}

func (f Flags) HasModPerms() bool {
	return f.Broadcaster || f.Mod
}

func (m Message) Flags() Flags {
	return Flags{Broadcaster: m.IsBroadcaster, Mod: m.IsMod}
}

package domain

import "context"

// Reply es una respuesta saliente hacia el chat de una plataforma.
type Reply struct {
	Platform  Platform
	ChannelID string
	Text      string
	// MessageID vacío = mensaje normal; con valor = respuesta en hilo (Twitch).
	MessageID string
}

type OutgoingMessagePort interface {
	SendReply(ctx context.Context, reply Reply) error
}

// WebhookPort publica mensajes en un webhook externo (Discord).
type WebhookPort interface {
	PostMessage(ctx context.Context, url, content string) error
}

// DictionaryPort busca la definición de una palabra.
type DictionaryPort interface {
	Define(ctx context.Context, word string) (string, error)
}

// SpeechPort es el efecto opaco de "decir texto" (TTS).
type SpeechPort interface {
	Speak(ctx context.Context, text, requestedBy string, platform Platform) error
}

// TwitchLookupService agrupa las consultas a Helix que usan los comandos.
type TwitchLookupService interface {
	LastGame(ctx context.Context, login string) (string, error)
	VODTimestamp(ctx context.Context, broadcasterID string) (string, error)
	ProfileURL(ctx context.Context, userID string) (string, error)
}

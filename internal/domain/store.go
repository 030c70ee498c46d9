package domain

import (
	"context"
	"errors"
)

// ErrStore envuelve cualquier fallo leyendo o escribiendo un recurso persistido
// (archivo ilegible, JSON mal formado, error de sqlite...).
var ErrStore = errors.New("store error")

// Tier es uno de los dos espacios de nombres de comandos.
type Tier string

const (
	TierGeneral    Tier = "commands"
	TierRestricted Tier = "broadcaster_commands"
)

func (t Tier) Valid() bool {
	return t == TierGeneral || t == TierRestricted
}

// Corpus es una lista ordenada de líneas de texto (quotes, compliments, ...).
type Corpus string

const (
	CorpusQuotes        Corpus = "quotes"
	CorpusCompliments   Corpus = "compliments"
	CorpusTimerMessages Corpus = "timer_messages"
	CorpusShoutouts     Corpus = "shoutouts"
)

// CommandRepository lee y reescribe entero el mapa nombre -> plantilla de un tier.
type CommandRepository interface {
	LoadCommands(ctx context.Context, tier Tier) (map[string]string, error)
	SaveCommands(ctx context.Context, tier Tier, commands map[string]string) error
}

// CorpusRepository lee y reescribe entera la lista de líneas de un corpus.
type CorpusRepository interface {
	LoadLines(ctx context.Context, corpus Corpus) ([]string, error)
	SaveLines(ctx context.Context, corpus Corpus, lines []string) error
}

// Package filler decide cuándo inyectar mensajes de relleno (quote, compliment o
// timer) en un chat activo.
package filler

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"chatBot/internal/domain"
)

type Kind string

const (
	KindQuote      Kind = "quote"
	KindCompliment Kind = "compliment"
	KindTimer      Kind = "timer"
)

var kinds = []Kind{KindQuote, KindCompliment, KindTimer}

type Config struct {
	CountThreshold int
	TimeThreshold  time.Duration
	ExcludedUsers  []string
}

// Limiter cuenta mensajes de chat normales y dispara un relleno cuando se
// cumplen a la vez el mínimo de mensajes y el tiempo desde el último relleno.
type Limiter struct {
	countThreshold int
	timeThreshold  time.Duration
	excluded       map[string]struct{}

	mu            sync.Mutex
	messageCount  int
	lastTimestamp time.Time

	now  func() time.Time
	pick func(n int) int
}

func NewLimiter(cfg Config) *Limiter {
	excluded := make(map[string]struct{}, len(cfg.ExcludedUsers))
	for _, user := range cfg.ExcludedUsers {
		user = strings.ToLower(strings.TrimSpace(user))
		if user != "" {
			excluded[user] = struct{}{}
		}
	}
	l := &Limiter{
		countThreshold: cfg.CountThreshold,
		timeThreshold:  cfg.TimeThreshold,
		excluded:       excluded,
		now:            time.Now,
		pick:           rand.IntN,
	}
	l.lastTimestamp = l.now()
	return l
}

// Eligible indica si el mensaje cuenta para la política: ni usuarios excluidos
// ni tráfico de YouTube.
func (l *Limiter) Eligible(msg domain.Message) bool {
	if msg.Platform == domain.PlatformYouTube {
		return false
	}
	_, skip := l.excluded[strings.ToLower(strings.TrimSpace(msg.Username))]
	return !skip
}

// Record registra un mensaje de chat normal. Si toca relleno devuelve el tipo
// elegido y reinicia los contadores; si no, incrementa el contador.
func (l *Limiter) Record(msg domain.Message) (Kind, bool) {
	if l == nil || !l.Eligible(msg) {
		return "", false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.messageCount >= l.countThreshold && now.Sub(l.lastTimestamp) >= l.timeThreshold {
		kind := kinds[l.pick(len(kinds))]
		l.messageCount = 0
		l.lastTimestamp = now
		return kind, true
	}

	l.messageCount++
	return "", false
}

// Snapshot devuelve el estado actual de los contadores.
func (l *Limiter) Snapshot() (int, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.messageCount, l.lastTimestamp
}

package commands

import (
	"context"
	"errors"
	"maps"
	"sync"

	"chatBot/internal/domain"
)

type memCommands struct {
	mu      sync.Mutex
	tiers   map[domain.Tier]map[string]string
	loadErr map[domain.Tier]error
	saveErr error
	saves   int
}

func newMemCommands() *memCommands {
	return &memCommands{
		tiers:   map[domain.Tier]map[string]string{},
		loadErr: map[domain.Tier]error{},
	}
}

func (m *memCommands) LoadCommands(_ context.Context, tier domain.Tier) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadErr[tier]; err != nil {
		return nil, err
	}
	out := map[string]string{}
	maps.Copy(out, m.tiers[tier])
	return out, nil
}

func (m *memCommands) SaveCommands(_ context.Context, tier domain.Tier, commands map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	out := map[string]string{}
	maps.Copy(out, commands)
	m.tiers[tier] = out
	return nil
}

type memLines map[domain.Corpus][]string

func (m memLines) LoadLines(_ context.Context, c domain.Corpus) ([]string, error) {
	return append([]string(nil), m[c]...), nil
}

func (m memLines) SaveLines(_ context.Context, c domain.Corpus, lines []string) error {
	m[c] = append([]string(nil), lines...)
	return nil
}

type captureOut struct {
	mu      sync.Mutex
	replies []domain.Reply
	err     error
}

func (c *captureOut) SendReply(_ context.Context, r domain.Reply) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.replies = append(c.replies, r)
	return nil
}

// blockingLines frena LoadLines hasta que se cierre release.
type blockingLines struct {
	memLines
	entered chan struct{}
	release chan struct{}
}

func (b blockingLines) LoadLines(ctx context.Context, c domain.Corpus) ([]string, error) {
	b.entered <- struct{}{}
	<-b.release
	return b.memLines.LoadLines(ctx, c)
}

func (c *captureOut) texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.replies))
	for _, r := range c.replies {
		out = append(out, r.Text)
	}
	return out
}

type fakeTwitch struct {
	games map[string]string
	vod   string
	calls int
}

func (f *fakeTwitch) LastGame(_ context.Context, login string) (string, error) {
	f.calls++
	game, ok := f.games[login]
	if !ok {
		return "", errors.New("unknown user")
	}
	return game, nil
}

func (f *fakeTwitch) VODTimestamp(context.Context, string) (string, error) {
	return f.vod, nil
}

func (f *fakeTwitch) ProfileURL(context.Context, string) (string, error) {
	return "", nil
}

type fakeDictionary struct {
	definitions map[string]string
}

func (f fakeDictionary) Define(_ context.Context, word string) (string, error) {
	def, ok := f.definitions[word]
	if !ok {
		return "", errors.New("not found")
	}
	return def, nil
}

type fakeWebhook struct {
	posted chan string
}

func (f *fakeWebhook) PostMessage(_ context.Context, _ string, content string) error {
	f.posted <- content
	return nil
}

var errDisk = errors.Join(domain.ErrStore, errors.New("disk full"))

package filler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"chatBot/internal/domain"
	"chatBot/internal/usecase/corpus"
)

type captureOut struct{ replies []domain.Reply }

func (c *captureOut) SendReply(_ context.Context, r domain.Reply) error {
	c.replies = append(c.replies, r)
	return nil
}

type staticCorpus map[domain.Corpus][]string

func (s staticCorpus) LoadLines(_ context.Context, c domain.Corpus) ([]string, error) {
	return s[c], nil
}

func (s staticCorpus) SaveLines(context.Context, domain.Corpus, []string) error { return nil }

func TestRespondRepliesToTriggerOnlyForCompliments(t *testing.T) {
	out := &captureOut{}
	store := corpus.NewStore(staticCorpus{
		domain.CorpusQuotes:        {"a quote"},
		domain.CorpusCompliments:   {"you rock"},
		domain.CorpusTimerMessages: {"follow!"},
	})
	r := NewResponder(store, out)
	trigger := domain.Message{Platform: domain.PlatformTwitch, ChannelID: "#chan", MessageID: "abc"}

	require.NoError(t, r.Respond(context.Background(), KindCompliment, trigger))
	require.NoError(t, r.Respond(context.Background(), KindQuote, trigger))
	require.NoError(t, r.Respond(context.Background(), KindTimer, trigger))

	require.Equal(t, []domain.Reply{
		{Platform: domain.PlatformTwitch, ChannelID: "#chan", Text: "you rock", MessageID: "abc"},
		{Platform: domain.PlatformTwitch, ChannelID: "#chan", Text: "a quote"},
		{Platform: domain.PlatformTwitch, ChannelID: "#chan", Text: "follow!"},
	}, out.replies)
}

func TestRespondEmptyCorpusSendsNothing(t *testing.T) {
	out := &captureOut{}
	r := NewResponder(corpus.NewStore(staticCorpus{}), out)

	err := r.Respond(context.Background(), KindTimer, domain.Message{Platform: domain.PlatformTwitch})
	require.ErrorIs(t, err, corpus.ErrEmptyCorpus)
	require.Empty(t, out.replies)
}

package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chatBot/internal/app/events"
	"chatBot/internal/domain"
	ttsusecase "chatBot/internal/usecase/tts"
)

type echoSynth struct{ fail string }

func (s echoSynth) Synthesize(_ context.Context, text string, _ ttsusecase.VoiceOption) ([]byte, error) {
	if text == s.fail {
		return nil, errors.New("boom")
	}
	return []byte(text), nil
}

type recordingPlayer struct {
	mu     sync.Mutex
	played []string
}

func (p *recordingPlayer) Play(_ context.Context, audio []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, string(audio))
	return nil
}

func (p *recordingPlayer) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.played...)
}

func TestRunnerPlaysInOrder(t *testing.T) {
	bus := events.NewBus()
	spoken, unsubscribe := bus.Subscribe(events.TopicTTSSpoken)
	defer unsubscribe()

	player := &recordingPlayer{}
	r := New(Config{Synth: echoSynth{fail: "bad"}, Player: player, Bus: bus})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	for _, text := range []string{"one", "bad", "two"} {
		_, err := r.Enqueue(ctx, ttsusecase.Request{Text: text, RequestedBy: "viewer", Platform: domain.PlatformYouTube})
		require.NoError(t, err)
	}

	var results []events.TTSSpokenDTO
	for len(results) < 3 {
		select {
		case payload := <-spoken:
			results = append(results, payload.(events.TTSSpokenDTO))
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for spoken events")
		}
	}

	require.Equal(t, []string{"one", "two"}, player.snapshot())
	require.True(t, results[0].OK)
	require.Equal(t, "one", results[0].Text)
	require.Equal(t, "viewer", results[0].RequestedBy)
	require.Equal(t, "youtube", results[0].Platform)
	require.False(t, results[1].OK)
	require.Contains(t, results[1].Error, "boom")
	require.True(t, results[2].OK)
	require.True(t, r.waitIdle(time.Second))
	require.NoError(t, r.Close())
}

func TestEnqueueAfterCloseFails(t *testing.T) {
	r := New(Config{Synth: echoSynth{}, Player: &recordingPlayer{}})
	r.Start(context.Background())
	require.NoError(t, r.Close())

	_, err := r.Enqueue(context.Background(), ttsusecase.Request{Text: "late"})
	require.Error(t, err)
}

func TestEnqueueRespectsQueueSize(t *testing.T) {
	r := New(Config{Synth: echoSynth{}, Player: &recordingPlayer{}, QueueSize: 1})

	id, err := r.Enqueue(context.Background(), ttsusecase.Request{Text: "a"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = r.Enqueue(context.Background(), ttsusecase.Request{Text: "b"})
	require.Error(t, err)
}

// waitIdle espera a que la cola se vacíe.
func (r *Runner) waitIdle(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		status := r.Status()
		if status.State != events.TTSSpeaking && status.QueueLength == 0 {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

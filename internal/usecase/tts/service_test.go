package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hegedustibor/htgo-tts/voices"
	"github.com/stretchr/testify/require"

	"chatBot/internal/domain"
)

type recordingQueue struct {
	mu   sync.Mutex
	reqs []Request
}

func (q *recordingQueue) Enqueue(_ context.Context, req Request) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.reqs = append(q.reqs, req)
	return "id", nil
}

func TestFindVoice(t *testing.T) {
	require.Equal(t, voices.EnglishUK, FindVoice("EN-UK").Code)
	require.Equal(t, "es", FindVoice("es-mx").Code)
	require.Equal(t, "en", FindVoice("klingon").Code)
	require.Equal(t, "en", FindVoice("").Code)
}

func TestSpeakEnqueues(t *testing.T) {
	queue := &recordingQueue{}
	svc := NewService(Config{Enabled: true, Voice: "fr"})
	svc.SetQueue(queue)

	require.NoError(t, svc.Speak(context.Background(), "  bob redeemed Hydrate  ", "bob", domain.PlatformTwitch))
	require.Len(t, queue.reqs, 1)
	require.Equal(t, "bob redeemed Hydrate", queue.reqs[0].Text)
	require.Equal(t, "fr", queue.reqs[0].Voice.Code)

	require.Error(t, svc.Speak(context.Background(), "   ", "bob", domain.PlatformTwitch))
}

func TestSpeakDisabledIsNoop(t *testing.T) {
	queue := &recordingQueue{}
	svc := NewService(Config{Enabled: false})
	svc.SetQueue(queue)

	require.NoError(t, svc.Speak(context.Background(), "hello", "bob", domain.PlatformTwitch))
	require.Empty(t, queue.reqs)
}

func TestSynthesizeChunksLongText(t *testing.T) {
	var (
		mu     sync.Mutex
		chunks []string
		langs  []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		chunks = append(chunks, r.URL.Query().Get("q"))
		langs = append(langs, r.URL.Query().Get("tl"))
		mu.Unlock()
		_, _ = w.Write([]byte("mp3"))
	}))
	defer srv.Close()

	svc := NewService(Config{Enabled: true, Voice: "de", Endpoint: srv.URL})
	audio, err := svc.Synthesize(context.Background(), strings.Repeat("a", 450), VoiceOption{})
	require.NoError(t, err)
	require.Equal(t, "mp3mp3mp3", string(audio))
	require.Len(t, chunks, 3)
	require.Len(t, chunks[2], 50)
	require.Equal(t, []string{"de", "de", "de"}, langs)
}

func TestSynthesizeReportsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := NewService(Config{Endpoint: srv.URL})
	_, err := svc.Synthesize(context.Background(), "hello", VoiceOption{})
	require.ErrorContains(t, err, "status 429")
}

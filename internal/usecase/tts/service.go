// Package tts convierte texto en audio mp3 con el endpoint de Google Translate
// y encola las lecturas para el runner.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hegedustibor/htgo-tts/voices"

	"chatBot/internal/domain"
)

const (
	defaultEndpoint = "https://translate.google.com/translate_tts"
	// el endpoint corta el texto pasado este largo
	chunkRunes = 200
)

type VoiceOption struct {
	Code  string
	Label string
}

var knownVoices = []VoiceOption{
	{Code: voices.English, Label: "English US"},
	{Code: voices.EnglishUK, Label: "English UK"},
	{Code: voices.Spanish, Label: "Español"},
	{Code: voices.Portuguese, Label: "Português"},
	{Code: voices.French, Label: "Français"},
	{Code: voices.German, Label: "Deutsch"},
}

type Request struct {
	ID          string
	Text        string
	Voice       VoiceOption
	RequestedBy string
	Platform    domain.Platform
	CreatedAt   time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, req Request) (string, error)
}

type Config struct {
	Enabled bool
	Voice   string
	// Endpoint reemplaza la URL de Google; vacío usa la real.
	Endpoint string
}

type Service struct {
	enabled  bool
	voice    VoiceOption
	endpoint string
	queue    Queue
	httpCli  *http.Client
}

func NewService(cfg Config) *Service {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Service{
		enabled:  cfg.Enabled,
		voice:    FindVoice(cfg.Voice),
		endpoint: endpoint,
		httpCli: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FindVoice busca la voz por código ("en", "en-uk"); si no existe cae al prefijo
// del idioma y, en último caso, a inglés.
func FindVoice(code string) VoiceOption {
	code = strings.ToLower(strings.TrimSpace(code))
	for code != "" {
		for _, option := range knownVoices {
			if strings.EqualFold(option.Code, code) {
				return option
			}
		}
		idx := strings.LastIndex(code, "-")
		if idx <= 0 {
			break
		}
		code = code[:idx]
	}
	return knownVoices[0]
}

func (s *Service) SetQueue(queue Queue) {
	if s == nil {
		return
	}
	s.queue = queue
}

func (s *Service) Voice() VoiceOption {
	return s.voice
}

func (s *Service) Enabled() bool {
	return s != nil && s.enabled
}

// Speak encola text para leerlo en voz alta. Con el TTS apagado no hace nada.
func (s *Service) Speak(ctx context.Context, text, requestedBy string, platform domain.Platform) error {
	if !s.Enabled() {
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("tts: texto vacío")
	}
	if s.queue == nil {
		return fmt.Errorf("tts: queue no disponible")
	}
	_, err := s.queue.Enqueue(ctx, Request{
		Text:        text,
		Voice:       s.voice,
		RequestedBy: requestedBy,
		Platform:    platform,
		CreatedAt:   time.Now(),
	})
	return err
}

// Synthesize descarga el mp3 de text en trozos y los concatena.
func (s *Service) Synthesize(ctx context.Context, text string, voice VoiceOption) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("tts: texto vacío")
	}
	if voice.Code == "" {
		voice = s.voice
	}

	runes := []rune(text)
	buf := bytes.NewBuffer(nil)
	for start := 0; start < len(runes); start += chunkRunes {
		end := min(start+chunkRunes, len(runes))
		audio, err := s.fetchChunk(ctx, string(runes[start:end]), voice.Code)
		if err != nil {
			return nil, err
		}
		buf.Write(audio)
	}
	return buf.Bytes(), nil
}

func (s *Service) fetchChunk(ctx context.Context, text, lang string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("q", text)
	params.Set("tl", lang)
	params.Set("total", "1")
	params.Set("idx", "0")
	params.Set("textlen", strconv.Itoa(len([]rune(text))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("tts: request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts: status %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

package runner

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hajimehoshi/go-mp3"
	"github.com/hajimehoshi/oto/v2"
)

// SpeakerPlayer reproduce mp3 por la salida de audio del sistema.
// oto solo admite un contexto por proceso, así que se crea una vez con la
// frecuencia del primer audio.
type SpeakerPlayer struct {
	mu sync.Mutex

	once       sync.Once
	ctx        *oto.Context
	sampleRate int
	initErr    error
}

func NewSpeakerPlayer() *SpeakerPlayer {
	return &SpeakerPlayer{}
}

func (p *SpeakerPlayer) Play(ctx context.Context, audio []byte) error {
	if len(audio) == 0 {
		return fmt.Errorf("audio vacío")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	decoder, err := mp3.NewDecoder(bytes.NewReader(audio))
	if err != nil {
		return fmt.Errorf("mp3 decoder: %w", err)
	}

	p.once.Do(func() {
		otoCtx, ready, err := oto.NewContext(decoder.SampleRate(), 2, 2)
		if err != nil {
			p.initErr = fmt.Errorf("oto context: %w", err)
			return
		}
		<-ready
		p.ctx = otoCtx
		p.sampleRate = decoder.SampleRate()
	})
	if p.initErr != nil {
		return p.initErr
	}
	if decoder.SampleRate() != p.sampleRate {
		return fmt.Errorf("sample rate %d distinto al del contexto (%d)", decoder.SampleRate(), p.sampleRate)
	}

	player := p.ctx.NewPlayer(decoder)
	defer player.Close()
	player.Play()

	ticker := time.NewTicker(15 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

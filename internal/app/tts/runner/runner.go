// Package runner reproduce las lecturas TTS de a una, en el orden en que llegan.
package runner

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"chatBot/internal/app/events"
	ttsusecase "chatBot/internal/usecase/tts"
)

type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice ttsusecase.VoiceOption) ([]byte, error)
}

// Player reproduce un mp3 y bloquea hasta terminar o hasta que ctx se cancele.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

type Config struct {
	Synth     Synthesizer
	Player    Player
	Bus       *events.Bus
	QueueSize int
}

type Runner struct {
	cfg Config

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []ttsusecase.Request
	closed bool
	wg     sync.WaitGroup

	cancelCurrent context.CancelFunc
	status        events.TTSStatusDTO
}

func New(cfg Config) *Runner {
	if cfg.Player == nil {
		cfg.Player = NewSpeakerPlayer()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 32
	}
	r := &Runner{cfg: cfg}
	r.cond = sync.NewCond(&r.mu)
	r.status = events.NewTTSStatusDTO(events.TTSIdle, 0, "", "")
	return r
}

func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		<-ctx.Done()
		r.shutdown()
	}()
	go func() {
		defer r.wg.Done()
		for {
			req, ok := r.next()
			if !ok {
				return
			}
			r.speak(ctx, req)
		}
	}()
	r.publish(events.TopicTTSStatus, r.Status())
}

// Enqueue agrega una lectura al final de la cola.
func (r *Runner) Enqueue(_ context.Context, req ttsusecase.Request) (string, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", fmt.Errorf("tts runner: detenido")
	}
	if len(r.queue) >= r.cfg.QueueSize {
		return "", fmt.Errorf("tts runner: cola llena (%d)", len(r.queue))
	}
	r.queue = append(r.queue, req)
	r.setStatusLocked(r.status.State, r.status.CurrentID, r.status.LastError)
	r.cond.Signal()
	return req.ID, nil
}

func (r *Runner) Status() events.TTSStatusDTO {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Close corta la lectura en curso, vacía la cola y espera al worker.
func (r *Runner) Close() error {
	r.shutdown()
	r.wg.Wait()
	return nil
}

func (r *Runner) shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.queue = nil
	if r.cancelCurrent != nil {
		r.cancelCurrent()
	}
	r.cond.Broadcast()
}

func (r *Runner) next() (ttsusecase.Request, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		if r.closed {
			return ttsusecase.Request{}, false
		}
		if len(r.queue) > 0 {
			req := r.queue[0]
			r.queue = r.queue[1:]
			r.setStatusLocked(events.TTSSpeaking, req.ID, "")
			return req, true
		}
		r.cond.Wait()
	}
}

func (r *Runner) speak(ctx context.Context, req ttsusecase.Request) {
	childCtx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancelCurrent = cancel
	r.mu.Unlock()
	defer func() {
		cancel()
		r.mu.Lock()
		r.cancelCurrent = nil
		r.mu.Unlock()
	}()

	err := r.play(childCtx, req)
	if err != nil {
		log.Printf("tts runner: %s: %v", req.ID, err)
	}

	r.publish(events.TopicTTSSpoken, events.NewTTSSpokenDTO(req.ID, req.Text, req.Voice.Code, req.RequestedBy, req.Platform, err))

	r.mu.Lock()
	if err != nil {
		r.setStatusLocked(events.TTSFailed, "", err.Error())
	} else {
		r.setStatusLocked(events.TTSIdle, "", "")
	}
	r.mu.Unlock()
}

func (r *Runner) play(ctx context.Context, req ttsusecase.Request) error {
	if r.cfg.Synth == nil {
		return fmt.Errorf("sin sintetizador")
	}
	audio, err := r.cfg.Synth.Synthesize(ctx, req.Text, req.Voice)
	if err != nil {
		return fmt.Errorf("synth: %w", err)
	}
	if err := r.cfg.Player.Play(ctx, audio); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}

func (r *Runner) setStatusLocked(state events.TTSState, currentID, lastError string) {
	r.status = events.NewTTSStatusDTO(state, len(r.queue), currentID, lastError)
	r.publish(events.TopicTTSStatus, r.status)
}

func (r *Runner) publish(topic string, payload any) {
	if r.cfg.Bus != nil {
		r.cfg.Bus.Publish(topic, payload)
	}
}

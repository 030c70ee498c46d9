// Package handle_message procesa cada mensaje de chat entrante: comandos,
// shoutouts automáticos y mensajes de relleno.
package handle_message

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"

	"chatBot/internal/app/events"
	"chatBot/internal/domain"
	"chatBot/internal/usecase/commands"
	"chatBot/internal/usecase/filler"
)

type Interactor struct {
	resolver  *commands.Resolver
	shoutouts *commands.AutoShoutout
	limiter   *filler.Limiter
	responder *filler.Responder
	out       domain.OutgoingMessagePort
	bus       *events.Bus
}

type Config struct {
	Resolver  *commands.Resolver
	Shoutouts *commands.AutoShoutout
	Limiter   *filler.Limiter
	Responder *filler.Responder
	Out       domain.OutgoingMessagePort
	Bus       *events.Bus
}

func NewInteractor(cfg Config) *Interactor {
	return &Interactor{
		resolver:  cfg.Resolver,
		shoutouts: cfg.Shoutouts,
		limiter:   cfg.Limiter,
		responder: cfg.Responder,
		out:       cfg.Out,
		bus:       cfg.Bus,
	}
}

// Handle procesa un mensaje. Un panic dentro del procesamiento se convierte en
// error para que un evento roto no tumbe el adapter.
func (uc *Interactor) Handle(ctx context.Context, msg domain.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("handle_message: panic procesando mensaje de %s: %v\n%s", msg.Username, r, debug.Stack())
			err = fmt.Errorf("handle_message: panic: %v", r)
		}
	}()

	if uc.bus != nil {
		uc.bus.Publish(events.TopicChatMessage, events.NewChatMessageDTO(msg))
	}

	if uc.shoutouts != nil {
		if _, err := uc.shoutouts.Observe(ctx, msg, uc.out); err != nil {
			log.Printf("handle_message: auto shoutout: %v", err)
		}
	}

	if uc.resolver != nil {
		isCommand, err := uc.resolver.Handle(ctx, msg, uc.out)
		if isCommand {
			return err
		}
	}

	if uc.limiter == nil || uc.responder == nil {
		return nil
	}
	kind, fire := uc.limiter.Record(msg)
	if !fire {
		return nil
	}
	return uc.responder.Respond(ctx, kind, msg)
}

package filler

import (
	"context"
	"fmt"
	"log"

	"chatBot/internal/domain"
	"chatBot/internal/infrastructure/telemetry"
	"chatBot/internal/usecase/corpus"
)

type Responder struct {
	corpus *corpus.Store
	out    domain.OutgoingMessagePort
}

func NewResponder(store *corpus.Store, out domain.OutgoingMessagePort) *Responder {
	return &Responder{corpus: store, out: out}
}

// Respond saca una línea del corpus que corresponde a kind y la manda al chat del
// mensaje que disparó el relleno. Los compliments van como respuesta al mensaje.
func (r *Responder) Respond(ctx context.Context, kind Kind, trigger domain.Message) error {
	if r == nil || r.corpus == nil || r.out == nil {
		return nil
	}

	source, err := corpusFor(kind)
	if err != nil {
		return err
	}

	line, err := r.corpus.Random(ctx, source)
	if err != nil {
		log.Printf("filler: no pude sacar un %s: %v", kind, err)
		return err
	}

	reply := domain.Reply{
		Platform:  trigger.Platform,
		ChannelID: trigger.ChannelID,
		Text:      line,
	}
	if kind == KindCompliment {
		reply.MessageID = trigger.MessageID
	}

	telemetry.ObserveFiller(string(kind))
	return r.out.SendReply(ctx, reply)
}

func corpusFor(kind Kind) (domain.Corpus, error) {
	switch kind {
	case KindQuote:
		return domain.CorpusQuotes, nil
	case KindCompliment:
		return domain.CorpusCompliments, nil
	case KindTimer:
		return domain.CorpusTimerMessages, nil
	}
	return "", fmt.Errorf("filler: tipo desconocido %q", kind)
}

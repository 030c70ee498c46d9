package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"chatBot/internal/domain"
	"chatBot/internal/usecase/corpus"
)

// QuoteCommand responde una cita al azar.
type QuoteCommand struct {
	lines *corpus.Store
}

func NewQuoteCommand(lines *corpus.Store) *QuoteCommand {
	return &QuoteCommand{lines: lines}
}

func (c *QuoteCommand) Name() string                          { return "quote" }
func (c *QuoteCommand) Aliases() []string                     { return nil }
func (c *QuoteCommand) SupportsPlatform(domain.Platform) bool { return true }
func (c *QuoteCommand) Allowed(domain.Flags) bool             { return true }

func (c *QuoteCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	quote, err := c.lines.Random(ctx, domain.CorpusQuotes)
	if err != nil {
		return drawFailed("quote", err)
	}
	return cmdCtx.Reply(ctx, quote)
}

// ComplimentCommand felicita a la primera palabra de los argumentos, o al autor.
type ComplimentCommand struct {
	lines *corpus.Store
}

func NewComplimentCommand(lines *corpus.Store) *ComplimentCommand {
	return &ComplimentCommand{lines: lines}
}

func (c *ComplimentCommand) Name() string                          { return "compliment" }
func (c *ComplimentCommand) Aliases() []string                     { return nil }
func (c *ComplimentCommand) SupportsPlatform(domain.Platform) bool { return true }
func (c *ComplimentCommand) Allowed(domain.Flags) bool             { return true }

func (c *ComplimentCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	compliment, err := c.lines.Random(ctx, domain.CorpusCompliments)
	if err != nil {
		return drawFailed("compliment", err)
	}
	target := cmdCtx.Mention()
	if target == "" {
		target = "@" + cmdCtx.Message.Username
	}
	return cmdCtx.Say(ctx, target+" "+compliment)
}

// drawFailed no responde nada en el chat cuando el corpus está vacío.
func drawFailed(what string, err error) error {
	if errors.Is(err, corpus.ErrEmptyCorpus) {
		log.Printf("commands: %s: sin líneas cargadas", what)
		return nil
	}
	return fmt.Errorf("commands: %s: %w", what, err)
}

// AddLineCommand agrega el resto de la línea a un corpus (!addquote, !addtimer, !addcompliment).
type AddLineCommand struct {
	lines  *corpus.Store
	name   string
	corpus domain.Corpus
	noun   string
}

func NewAddQuoteCommand(lines *corpus.Store) *AddLineCommand {
	return &AddLineCommand{lines: lines, name: "addquote", corpus: domain.CorpusQuotes, noun: "quote"}
}

func NewAddTimerCommand(lines *corpus.Store) *AddLineCommand {
	return &AddLineCommand{lines: lines, name: "addtimer", corpus: domain.CorpusTimerMessages, noun: "timer message"}
}

func NewAddComplimentCommand(lines *corpus.Store) *AddLineCommand {
	return &AddLineCommand{lines: lines, name: "addcompliment", corpus: domain.CorpusCompliments, noun: "compliment"}
}

func (c *AddLineCommand) Name() string                          { return c.name }
func (c *AddLineCommand) Aliases() []string                     { return nil }
func (c *AddLineCommand) SupportsPlatform(domain.Platform) bool { return true }

func (c *AddLineCommand) Allowed(flags domain.Flags) bool {
	return flags.HasModPerms()
}

func (c *AddLineCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	text := strings.TrimSpace(cmdCtx.Raw)
	if text == "" {
		return cmdCtx.Reply(ctx, fmt.Sprintf("Failed to add %s!", c.noun))
	}
	if err := c.lines.Append(ctx, c.corpus, text); err != nil {
		log.Printf("commands: %s: %v", c.name, err)
		return cmdCtx.Reply(ctx, fmt.Sprintf("Failed to add %s!", c.noun))
	}
	return cmdCtx.Reply(ctx, fmt.Sprintf("%s has been added successfully!", c.noun))
}

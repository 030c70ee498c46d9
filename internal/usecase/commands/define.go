package commands

import (
	"context"
	"fmt"
	"log"
	"time"

	"chatBot/internal/domain"
)

type DefineCommand struct {
	dictionary domain.DictionaryPort
	timeout    time.Duration
}

func NewDefineCommand(dictionary domain.DictionaryPort) *DefineCommand {
	return &DefineCommand{dictionary: dictionary, timeout: 15 * time.Second}
}

func (c *DefineCommand) Name() string                          { return "define" }
func (c *DefineCommand) Aliases() []string                     { return []string{"definition"} }
func (c *DefineCommand) SupportsPlatform(domain.Platform) bool { return true }
func (c *DefineCommand) Allowed(domain.Flags) bool             { return true }

func (c *DefineCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	word := cmdCtx.Mention()
	if word == "" || c.dictionary == nil {
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	definition, err := c.dictionary.Define(lookupCtx, word)
	if err != nil {
		log.Printf("commands: define %q: %v", word, err)
		definition = fmt.Sprintf("Couldn't find a definition for \"%s\"", word)
	}
	return cmdCtx.Reply(ctx, definition)
}

package commands

import (
	"context"
	"strings"

	"chatBot/internal/domain"
	"chatBot/internal/usecase/convert"
)

// ConvertCommand convierte "<valor><unidad> -> <unidad>".
type ConvertCommand struct{}

func NewConvertCommand() *ConvertCommand {
	return &ConvertCommand{}
}

func (c *ConvertCommand) Name() string                          { return "convert" }
func (c *ConvertCommand) Aliases() []string                     { return nil }
func (c *ConvertCommand) SupportsPlatform(domain.Platform) bool { return true }
func (c *ConvertCommand) Allowed(domain.Flags) bool             { return true }

func (c *ConvertCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	result, err := convert.Expression(cmdCtx.Raw)
	if err != nil {
		result = "Unsupported input: " + strings.TrimSpace(cmdCtx.Raw)
	}
	return cmdCtx.Reply(ctx, result)
}

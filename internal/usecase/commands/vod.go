package commands

import (
	"context"
	"fmt"

	"chatBot/internal/domain"
)

// VODCommand responde el enlace al VOD actual en el segundo en curso.
type VODCommand struct {
	twitch        domain.TwitchLookupService
	broadcasterID string
}

func NewVODCommand(twitch domain.TwitchLookupService, broadcasterID string) *VODCommand {
	return &VODCommand{twitch: twitch, broadcasterID: broadcasterID}
}

func (c *VODCommand) Name() string                          { return "vod" }
func (c *VODCommand) Aliases() []string                     { return nil }
func (c *VODCommand) SupportsPlatform(domain.Platform) bool { return true }

func (c *VODCommand) Allowed(flags domain.Flags) bool {
	return flags.HasModPerms()
}

func (c *VODCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	if c.twitch == nil || c.broadcasterID == "" {
		return nil
	}
	link, err := c.twitch.VODTimestamp(ctx, c.broadcasterID)
	if err != nil {
		return fmt.Errorf("commands: vod: %w", err)
	}
	return cmdCtx.Reply(ctx, link)
}

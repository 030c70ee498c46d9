package commands

import (
	"context"
	"fmt"
	"time"

	"chatBot/internal/domain"
)

// TimeCommand responde la hora local del stream.
type TimeCommand struct {
	loc *time.Location
	now func() time.Time
}

func NewTimeCommand(loc *time.Location) *TimeCommand {
	if loc == nil {
		loc = time.Local
	}
	return &TimeCommand{loc: loc, now: time.Now}
}

func (c *TimeCommand) Name() string {
	return "time"
}

func (c *TimeCommand) Aliases() []string {
	return nil
}

func (c *TimeCommand) SupportsPlatform(domain.Platform) bool {
	return true
}

func (c *TimeCommand) Allowed(domain.Flags) bool {
	return true
}

func (c *TimeCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	local := c.now().In(c.loc).Format("3:04:05 PM")
	return cmdCtx.Reply(ctx, fmt.Sprintf("%s it is currently %s", cmdCtx.Message.Username, local))
}

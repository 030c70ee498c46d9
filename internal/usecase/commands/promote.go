package commands

import (
	"context"
	"fmt"
	"log"
	"time"

	"chatBot/internal/domain"
)

const PromoteReply = "Promotion successful!"

type PromoteConfig struct {
	WebhookURL string
	RoleID     string
	URL        string
}

// PromoteCommand anuncia el stream en Discord. Solo el broadcaster puede usarlo.
type PromoteCommand struct {
	webhook domain.WebhookPort
	cfg     PromoteConfig
	timeout time.Duration
}

func NewPromoteCommand(webhook domain.WebhookPort, cfg PromoteConfig) *PromoteCommand {
	return &PromoteCommand{webhook: webhook, cfg: cfg, timeout: 15 * time.Second}
}

func (c *PromoteCommand) Name() string                          { return "promote" }
func (c *PromoteCommand) Aliases() []string                     { return nil }
func (c *PromoteCommand) SupportsPlatform(domain.Platform) bool { return true }

func (c *PromoteCommand) Allowed(flags domain.Flags) bool {
	return flags.Broadcaster
}

func (c *PromoteCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	content := c.Content(cmdCtx.Raw)
	if c.webhook != nil && c.cfg.WebhookURL != "" {
		go func() {
			postCtx, cancel := context.WithTimeout(context.Background(), c.timeout)
			defer cancel()
			if err := c.webhook.PostMessage(postCtx, c.cfg.WebhookURL, content); err != nil {
				log.Printf("commands: promote webhook: %v", err)
			}
		}()
	} else {
		log.Printf("commands: promote sin WEBHOOK_URL configurado")
	}
	return cmdCtx.Reply(ctx, PromoteReply)
}

// Content arma el texto que se publica: mención del rol, enlace y mensaje.
func (c *PromoteCommand) Content(message string) string {
	return fmt.Sprintf("<@&%s> \n%s\n%s", c.cfg.RoleID, c.cfg.URL, message)
}

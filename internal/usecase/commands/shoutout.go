package commands

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"chatBot/internal/domain"
	"chatBot/internal/usecase/corpus"
)

func ShoutoutText(login, game string) string {
	return fmt.Sprintf("Hey guys! Please check out @%s! They were last streaming %s at https://twitch.tv/%s!", login, game, login)
}

// ShoutoutCommand implementa !so <usuario> en Twitch para mods.
type ShoutoutCommand struct {
	twitch domain.TwitchLookupService
}

func NewShoutoutCommand(twitch domain.TwitchLookupService) *ShoutoutCommand {
	return &ShoutoutCommand{twitch: twitch}
}

func (c *ShoutoutCommand) Name() string      { return "so" }
func (c *ShoutoutCommand) Aliases() []string { return []string{"shoutout"} }

func (c *ShoutoutCommand) SupportsPlatform(p domain.Platform) bool {
	return p == domain.PlatformTwitch
}

func (c *ShoutoutCommand) Allowed(flags domain.Flags) bool {
	return flags.HasModPerms()
}

func (c *ShoutoutCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	login := strings.ToLower(strings.TrimPrefix(cmdCtx.Mention(), "@"))
	if login == "" || c.twitch == nil {
		return nil
	}
	game, err := c.twitch.LastGame(ctx, login)
	if err != nil {
		return fmt.Errorf("commands: shoutout %s: %w", login, err)
	}
	return cmdCtx.Say(ctx, ShoutoutText(login, game))
}

// AutoShoutout saluda una sola vez por ejecución a los streamers de la lista
// "shoutouts" la primera vez que escriben en el chat.
type AutoShoutout struct {
	lines  *corpus.Store
	twitch domain.TwitchLookupService

	mu   sync.Mutex
	done map[string]bool
}

func NewAutoShoutout(lines *corpus.Store, twitch domain.TwitchLookupService) *AutoShoutout {
	return &AutoShoutout{lines: lines, twitch: twitch, done: make(map[string]bool)}
}

// Observe devuelve true si el mensaje disparó un shoutout. La lista se lee sin
// tomar a.mu; el login queda reservado mientras se consulta Helix y se libera si
// la consulta o el envío fallan, para reintentar con el próximo mensaje.
func (a *AutoShoutout) Observe(ctx context.Context, msg domain.Message, out domain.OutgoingMessagePort) (bool, error) {
	if a == nil || a.twitch == nil || msg.Platform != domain.PlatformTwitch {
		return false, nil
	}
	login := strings.ToLower(msg.Username)
	if a.isDone(login) {
		return false, nil
	}

	listed, err := a.lines.Contains(ctx, domain.CorpusShoutouts, login)
	if err != nil || !listed {
		return false, err
	}
	if !a.reserve(login) {
		return false, nil
	}

	game, err := a.twitch.LastGame(ctx, login)
	if err != nil {
		a.release(login)
		log.Printf("commands: auto shoutout %s: %v", login, err)
		return false, err
	}
	err = out.SendReply(ctx, domain.Reply{
		Platform:  msg.Platform,
		ChannelID: msg.ChannelID,
		Text:      ShoutoutText(login, game),
	})
	if err != nil {
		a.release(login)
		return false, err
	}
	return true, nil
}

func (a *AutoShoutout) isDone(login string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done[login]
}

// reserve marca login como hecho; false si otro mensaje se adelantó.
func (a *AutoShoutout) reserve(login string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done[login] {
		return false
	}
	a.done[login] = true
	return true
}

func (a *AutoShoutout) release(login string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.done, login)
}

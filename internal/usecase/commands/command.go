package commands

import (
	"context"
	"strings"

	"chatBot/internal/domain"
)

type Command interface {
	Name() string
	Aliases() []string
	SupportsPlatform(p domain.Platform) bool
	// Allowed decide si el autor puede usar el comando. Si devuelve false el
	// resolver sigue buscando, como si el comando no existiera.
	Allowed(flags domain.Flags) bool
	Handle(ctx context.Context, c *Context) error
}

type Context struct {
	Message domain.Message
	Out     domain.OutgoingMessagePort

	// Name es el comando sin el prefijo; Raw es el resto de la línea tal cual.
	Name string
	Raw  string
	Args []string
}

// Mention es la primera palabra de los argumentos.
func (c *Context) Mention() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

func (c *Context) Flags() domain.Flags {
	return c.Message.Flags()
}

// Reply responde en el canal del mensaje, en hilo cuando la plataforma lo permite.
func (c *Context) Reply(ctx context.Context, text string) error {
	return c.Out.SendReply(ctx, domain.Reply{
		Platform:  c.Message.Platform,
		ChannelID: c.Message.ChannelID,
		Text:      text,
		MessageID: c.Message.MessageID,
	})
}

// Say responde en el canal sin hilo.
func (c *Context) Say(ctx context.Context, text string) error {
	return c.Out.SendReply(ctx, domain.Reply{
		Platform:  c.Message.Platform,
		ChannelID: c.Message.ChannelID,
		Text:      text,
	})
}

// Parse separa "!cmd resto de la línea" en ("cmd", "resto de la línea").
// ok es false si el texto no empieza con el prefijo o no trae nombre.
func Parse(prefix, text string) (name, raw string, ok bool) {
	if !strings.HasPrefix(text, prefix) {
		return "", "", false
	}
	withoutPrefix := strings.TrimPrefix(text, prefix)
	name, raw, _ = strings.Cut(withoutPrefix, " ")
	if strings.TrimSpace(name) == "" {
		return "", "", false
	}
	return name, raw, true
}

func newContext(msg domain.Message, out domain.OutgoingMessagePort, name, raw string) *Context {
	return &Context{
		Message: msg,
		Out:     out,
		Name:    name,
		Raw:     raw,
		Args:    strings.Fields(raw),
	}
}

func everyone(domain.Flags) bool { return true }

func modsOnly(f domain.Flags) bool { return f.HasModPerms() }

func broadcasterOnly(f domain.Flags) bool { return f.Broadcaster }

func anyPlatform(domain.Platform) bool { return true }

func twitchOnly(p domain.Platform) bool { return p == domain.PlatformTwitch }

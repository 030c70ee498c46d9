package commands

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"
	"unicode/utf8"

	"chatBot/internal/domain"
)

const manageFailedReply = "Operation of modifying command failed"

// ManageCommand implementa "!cmd add|edit|delete <nombre> [plantilla...]" sobre un tier.
type ManageCommand struct {
	store   *Store
	tier    domain.Tier
	name    string
	aliases []string
}

// NewManageCommand administra los comandos generales (!command, !cmd, !rcmd).
func NewManageCommand(store *Store) *ManageCommand {
	return &ManageCommand{store: store, tier: domain.TierGeneral, name: "command", aliases: []string{"cmd", "rcmd"}}
}

// NewManageModCommand administra los comandos restringidos (!mcmd, !modcommand).
func NewManageModCommand(store *Store) *ManageCommand {
	return &ManageCommand{store: store, tier: domain.TierRestricted, name: "mcmd", aliases: []string{"modcommand"}}
}

func (c *ManageCommand) Name() string {
	return c.name
}

func (c *ManageCommand) Aliases() []string {
	return c.aliases
}

func (c *ManageCommand) SupportsPlatform(domain.Platform) bool {
	return true
}

func (c *ManageCommand) Allowed(flags domain.Flags) bool {
	return flags.HasModPerms()
}

func (c *ManageCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	if c.store == nil {
		return nil
	}
	if len(cmdCtx.Args) < 2 {
		return cmdCtx.Reply(ctx, manageFailedReply)
	}

	mode := strings.ToLower(cmdCtx.Args[0])
	name := normalizeCommandName(cmdCtx.Args[1])
	if name == "" {
		return cmdCtx.Reply(ctx, manageFailedReply)
	}
	template := afterFields(cmdCtx.Raw, 2)

	var (
		ok  bool
		err error
		op  string
	)
	switch mode {
	case "add":
		op = "add"
		ok, err = c.store.Add(ctx, c.tier, name, template)
	case "edit":
		op = "edit"
		ok, err = c.store.Edit(ctx, c.tier, name, template)
	case "delete", "remove", "rm":
		op = "delete"
		ok, err = c.store.Delete(ctx, c.tier, name)
	default:
		return cmdCtx.Reply(ctx, manageFailedReply)
	}

	if err != nil {
		log.Printf("commands: %s %s en %s: %v", op, name, c.tier, err)
		return cmdCtx.Reply(ctx, fmt.Sprintf("Failed to %s command \"!%s\"", op, name))
	}
	return cmdCtx.Reply(ctx, manageResultReply(op, name, ok))
}

func manageResultReply(op, name string, ok bool) string {
	switch {
	case op == "add" && ok:
		return fmt.Sprintf("Command \"!%s\" has been added successfully!", name)
	case op == "add":
		return fmt.Sprintf("Command \"!%s\" already exists!", name)
	case ok:
		return fmt.Sprintf("Command \"!%s\" has been %sed successfully!", name, strings.TrimSuffix(op, "e"))
	default:
		return fmt.Sprintf("Command \"!%s\" doesn't exist!", name)
	}
}

// afterFields devuelve lo que sigue a los primeros n tokens de raw, sin el
// separador inmediato, respetando espacios y tabs del resto.
func afterFields(raw string, n int) string {
	rest := raw
	for i := 0; i < n; i++ {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			return ""
		}
		rest = rest[end:]
	}
	_, size := utf8.DecodeRuneInString(rest)
	return rest[size:]
}

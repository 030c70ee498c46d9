package commands

import (
	"context"
	"log"
	"slices"
	"strings"

	"chatBot/internal/domain"
	"chatBot/internal/infrastructure/telemetry"
)

const PermissionDeniedReply = "You do not have permission to use that command!"

// invocation es un comando en curso junto con los tiers leídos para resolverlo.
type invocation struct {
	*Context
	restricted map[string]string
	general    map[string]string
}

// route es una entrada de la tabla de despacho; gana la primera que coincide.
type route struct {
	name   string
	match  func(inv *invocation) bool
	handle func(ctx context.Context, inv *invocation) error
}

// Resolver resuelve "!comando" en este orden: comandos restringidos, comandos
// generales y, por último, los comandos internos en el orden en que se registran.
// Un comando guardado con el nombre de un comando interno (ej. "cmd") lo tapa.
type Resolver struct {
	prefix string
	store  *Store
	routes []route

	builtins []Command
}

func NewResolver(prefix string, store *Store) *Resolver {
	r := &Resolver{
		prefix: prefix,
		store:  store,
	}
	r.routes = []route{
		{
			name: "restricted",
			match: func(inv *invocation) bool {
				_, ok := lookup(inv.restricted, inv.Name)
				return ok
			},
			handle: func(ctx context.Context, inv *invocation) error {
				if !inv.Flags().HasModPerms() {
					return inv.Reply(ctx, PermissionDeniedReply)
				}
				template, _ := lookup(inv.restricted, inv.Name)
				return inv.Reply(ctx, expandTemplate(template, inv.Message.Username, inv.Mention()))
			},
		},
		{
			name: "general",
			match: func(inv *invocation) bool {
				_, ok := lookup(inv.general, inv.Name)
				return ok
			},
			handle: func(ctx context.Context, inv *invocation) error {
				template, _ := lookup(inv.general, inv.Name)
				return inv.Reply(ctx, expandTemplate(template, inv.Message.Username, inv.Mention()))
			},
		},
	}
	return r
}

// Register agrega un comando interno al final de la tabla.
func (r *Resolver) Register(cmd Command) {
	names := append([]string{cmd.Name()}, cmd.Aliases()...)
	r.builtins = append(r.builtins, cmd)
	r.routes = append(r.routes, route{
		name: cmd.Name(),
		match: func(inv *invocation) bool {
			if !matchesName(names, inv.Name) {
				return false
			}
			return cmd.SupportsPlatform(inv.Message.Platform) && cmd.Allowed(inv.Flags())
		},
		handle: func(ctx context.Context, inv *invocation) error {
			return cmd.Handle(ctx, inv.Context)
		},
	})
}

// Builtins devuelve los comandos internos en orden de registro.
func (r *Resolver) Builtins() []Command {
	return append([]Command(nil), r.builtins...)
}

// Handle procesa msg si es un comando. isCommand es false para chat normal.
// Si nada coincide no se responde nada.
func (r *Resolver) Handle(ctx context.Context, msg domain.Message, out domain.OutgoingMessagePort) (isCommand bool, err error) {
	name, raw, ok := Parse(r.prefix, strings.TrimSpace(msg.Text))
	if !ok {
		return false, nil
	}

	inv := &invocation{
		Context:    newContext(msg, out, name, raw),
		restricted: r.loadTier(ctx, domain.TierRestricted),
		general:    r.loadTier(ctx, domain.TierGeneral),
	}

	for _, rt := range r.routes {
		if !rt.match(inv) {
			continue
		}
		telemetry.ObserveCommand(rt.name)
		return true, rt.handle(ctx, inv)
	}
	return true, nil
}

// loadTier trata un tier ilegible como vacío.
func (r *Resolver) loadTier(ctx context.Context, tier domain.Tier) map[string]string {
	commands, err := r.store.Get(ctx, tier)
	if err != nil {
		log.Printf("commands: no pude leer %s, lo trato como vacío: %v", tier, err)
		return map[string]string{}
	}
	return commands
}

// lookup distingue mayúsculas: "!Discord" no encuentra "discord".
func lookup(commands map[string]string, name string) (string, bool) {
	template, ok := commands[name]
	return template, ok
}

func matchesName(names []string, name string) bool {
	return slices.Contains(names, name)
}

// expandTemplate reemplaza la primera aparición de {user} y de {mention}.
func expandTemplate(template, user, mention string) string {
	out := strings.Replace(template, "{user}", "@"+user, 1)
	return strings.Replace(out, "{mention}", mention, 1)
}

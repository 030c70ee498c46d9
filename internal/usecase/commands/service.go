package commands

import (
	"context"
	"fmt"
	"slices"

	"chatBot/internal/domain"
)

const (
	CommandSourceBuiltin    = "builtin"
	CommandSourceGeneral    = "general"
	CommandSourceRestricted = "restricted"
)

type CommandDTO struct {
	Name        string   `json:"name"`
	Response    string   `json:"response,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
	Permission  string   `json:"permission"`
	Source      string   `json:"source"`
	Description string   `json:"description,omitempty"`
	Usage       string   `json:"usage,omitempty"`
}

// Service arma el listado de comandos que consume GET /api/commands.
type Service struct {
	resolver *Resolver
	store    *Store
}

func NewService(resolver *Resolver, store *Store) *Service {
	return &Service{resolver: resolver, store: store}
}

// List devuelve primero los comandos internos y luego los guardados, ordenados por nombre.
func (s *Service) List(ctx context.Context) ([]CommandDTO, error) {
	if s == nil || s.resolver == nil || s.store == nil {
		return nil, fmt.Errorf("commands: service unavailable")
	}

	var out []CommandDTO
	for _, cmd := range s.resolver.Builtins() {
		out = append(out, builtinDTO(cmd))
	}

	for _, tier := range []domain.Tier{domain.TierRestricted, domain.TierGeneral} {
		stored, err := s.store.Get(ctx, tier)
		if err != nil {
			return nil, fmt.Errorf("commands: list %s: %w", tier, err)
		}
		names := make([]string, 0, len(stored))
		for name := range stored {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			out = append(out, storedDTO(tier, name, stored[name]))
		}
	}
	return out, nil
}

func builtinDTO(cmd Command) CommandDTO {
	desc := Describe(cmd.Name())
	var platforms []string
	for _, p := range []domain.Platform{domain.PlatformTwitch, domain.PlatformYouTube} {
		if cmd.SupportsPlatform(p) {
			platforms = append(platforms, string(p))
		}
	}
	return CommandDTO{
		Name:        cmd.Name(),
		Aliases:     append([]string(nil), cmd.Aliases()...),
		Platforms:   platforms,
		Permission:  desc.Permission,
		Source:      CommandSourceBuiltin,
		Description: desc.Description,
		Usage:       desc.Usage,
	}
}

func storedDTO(tier domain.Tier, name, template string) CommandDTO {
	dto := CommandDTO{
		Name:       name,
		Response:   template,
		Permission: PermissionEveryone,
		Source:     CommandSourceGeneral,
	}
	if tier == domain.TierRestricted {
		dto.Permission = PermissionMod
		dto.Source = CommandSourceRestricted
	}
	return dto
}

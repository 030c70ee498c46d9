package commands

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"

	"chatBot/internal/domain"
)

// Store es el almacén de comandos por tier. Cada mutación relee el tier,
// lo modifica y lo reescribe completo; un único mutex serializa todo.
type Store struct {
	repo domain.CommandRepository

	mu sync.Mutex
}

func NewStore(repo domain.CommandRepository) *Store {
	return &Store{repo: repo}
}

func (s *Store) Get(ctx context.Context, tier domain.Tier) (map[string]string, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("commands: store unavailable: %w", domain.ErrStore)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, tier)
}

// Add devuelve false sin tocar nada si el nombre ya existe en el tier.
func (s *Store) Add(ctx context.Context, tier domain.Tier, name, template string) (bool, error) {
	return s.mutate(ctx, tier, func(commands map[string]string) bool {
		if _, exists := commands[name]; exists {
			return false
		}
		commands[name] = template
		return true
	})
}

// Edit devuelve false sin tocar nada si el nombre no existe.
func (s *Store) Edit(ctx context.Context, tier domain.Tier, name, template string) (bool, error) {
	return s.mutate(ctx, tier, func(commands map[string]string) bool {
		if _, exists := commands[name]; !exists {
			return false
		}
		commands[name] = template
		return true
	})
}

func (s *Store) Delete(ctx context.Context, tier domain.Tier, name string) (bool, error) {
	return s.mutate(ctx, tier, func(commands map[string]string) bool {
		if _, exists := commands[name]; !exists {
			return false
		}
		delete(commands, name)
		return true
	})
}

func (s *Store) mutate(ctx context.Context, tier domain.Tier, apply func(map[string]string) bool) (bool, error) {
	if s == nil || s.repo == nil {
		return false, fmt.Errorf("commands: store unavailable: %w", domain.ErrStore)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	commands, err := s.load(ctx, tier)
	if err != nil {
		return false, err
	}
	if !apply(commands) {
		return false, nil
	}
	if err := s.repo.SaveCommands(ctx, tier, commands); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) load(ctx context.Context, tier domain.Tier) (map[string]string, error) {
	commands, err := s.repo.LoadCommands(ctx, tier)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(commands))
	maps.Copy(out, commands)
	return out, nil
}

// normalizeCommandName quita el "!" inicial y pasa a minúsculas.
func normalizeCommandName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "!")
	return strings.ToLower(name)
}

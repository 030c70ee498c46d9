// Package corpus maneja las listas de textos (quotes, compliments, timer messages)
// que usan los comandos y los mensajes de relleno.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"chatBot/internal/domain"
)

// ErrEmptyCorpus se devuelve al sortear de una lista vacía.
var ErrEmptyCorpus = errors.New("corpus: empty")

type Store struct {
	repo domain.CorpusRepository

	mu   sync.Mutex
	pick func(n int) int
}

func NewStore(repo domain.CorpusRepository) *Store {
	return &Store{
		repo: repo,
		pick: rand.IntN,
	}
}

func (s *Store) Lines(ctx context.Context, c domain.Corpus) ([]string, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("corpus: store unavailable: %w", domain.ErrStore)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.LoadLines(ctx, c)
}

// Append agrega una línea al final y reescribe el recurso completo.
func (s *Store) Append(ctx context.Context, c domain.Corpus, line string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("corpus: store unavailable: %w", domain.ErrStore)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.repo.LoadLines(ctx, c)
	if err != nil {
		return err
	}
	lines = append(lines, line)
	return s.repo.SaveLines(ctx, c, lines)
}

// Random elige una línea uniformemente entre las que no están en blanco. Sin
// líneas devuelve ErrEmptyCorpus.
func (s *Store) Random(ctx context.Context, c domain.Corpus) (string, error) {
	all, err := s.Lines(ctx, c)
	if err != nil {
		return "", err
	}
	lines := slices.DeleteFunc(all, func(line string) bool {
		return strings.TrimSpace(line) == ""
	})
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyCorpus, c)
	}
	return lines[s.pick(len(lines))], nil
}

// Contains indica si alguna línea coincide sin distinguir mayúsculas.
func (s *Store) Contains(ctx context.Context, c domain.Corpus, value string) (bool, error) {
	lines, err := s.Lines(ctx, c)
	if err != nil {
		return false, err
	}
	for _, line := range lines {
		if strings.EqualFold(strings.TrimSpace(line), strings.TrimSpace(value)) {
			return true, nil
		}
	}
	return false, nil
}

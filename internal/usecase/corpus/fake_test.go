package corpus

import (
	"context"
	"errors"

	"chatBot/internal/domain"
)

type memRepo struct {
	lines   map[domain.Corpus][]string
	saveErr error
}

func (m *memRepo) LoadLines(_ context.Context, c domain.Corpus) ([]string, error) {
	return append([]string(nil), m.lines[c]...), nil
}

func (m *memRepo) SaveLines(_ context.Context, c domain.Corpus, lines []string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.lines == nil {
		m.lines = map[domain.Corpus][]string{}
	}
	m.lines[c] = append([]string(nil), lines...)
	return nil
}

var errDisk = errors.Join(domain.ErrStore, errors.New("disk full"))

// Package jsonfile guarda los comandos en json_files/<tier>.json y los textos en
// txt_files/<corpus>.txt. Cada escritura reescribe el archivo completo.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"chatBot/internal/domain"
)

type Store struct {
	commandsDir string
	textDir     string
}

func NewStore(baseDir string) (*Store, error) {
	if strings.TrimSpace(baseDir) == "" {
		baseDir = "."
	}
	s := &Store{
		commandsDir: filepath.Join(baseDir, "json_files"),
		textDir:     filepath.Join(baseDir, "txt_files"),
	}
	for _, dir := range []string{s.commandsDir, s.textDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("jsonfile: creating dir: %w", err)
		}
	}
	return s, nil
}

func (s *Store) LoadCommands(ctx context.Context, tier domain.Tier) (map[string]string, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("jsonfile: tier %q: %w", tier, domain.ErrStore)
	}
	data, err := os.ReadFile(s.commandsPath(tier))
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: read %s: %w: %w", tier, domain.ErrStore, err)
	}

	commands := map[string]string{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return commands, nil
	}
	if err := json.Unmarshal(data, &commands); err != nil {
		return nil, fmt.Errorf("jsonfile: decode %s: %w: %w", tier, domain.ErrStore, err)
	}
	return commands, nil
}

func (s *Store) SaveCommands(ctx context.Context, tier domain.Tier, commands map[string]string) error {
	if !tier.Valid() {
		return fmt.Errorf("jsonfile: tier %q: %w", tier, domain.ErrStore)
	}
	if commands == nil {
		commands = map[string]string{}
	}
	data, err := json.MarshalIndent(commands, "", "\t")
	if err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w: %w", tier, domain.ErrStore, err)
	}
	return writeAtomic(s.commandsPath(tier), data)
}

func (s *Store) LoadLines(ctx context.Context, corpus domain.Corpus) ([]string, error) {
	data, err := os.ReadFile(s.textPath(corpus))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: read %s: %w: %w", corpus, domain.ErrStore, err)
	}
	return splitLines(string(data)), nil
}

func (s *Store) SaveLines(ctx context.Context, corpus domain.Corpus, lines []string) error {
	return writeAtomic(s.textPath(corpus), []byte(strings.Join(lines, "\n")))
}

func (s *Store) commandsPath(tier domain.Tier) string {
	return filepath.Join(s.commandsDir, string(tier)+".json")
}

func (s *Store) textPath(corpus domain.Corpus) string {
	return filepath.Join(s.textDir, string(corpus)+".txt")
}

// splitLines corta por \n quitando los \r y descarta las líneas en blanco, que
// si no podrían salir sorteadas como una respuesta vacía.
func splitLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(content, "\r", ""), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// writeAtomic escribe en un temporal del mismo directorio y lo renombra encima del destino.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile: create temp: %w: %w", domain.ErrStore, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("jsonfile: write %s: %w: %w", path, domain.ErrStore, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonfile: close %s: %w: %w", path, domain.ErrStore, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("jsonfile: rename %s: %w: %w", path, domain.ErrStore, err)
	}
	return nil
}

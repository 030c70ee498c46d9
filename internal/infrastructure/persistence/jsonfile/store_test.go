package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"chatBot/internal/domain"
)

func TestCommandsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	empty, err := store.LoadCommands(ctx, domain.TierGeneral)
	require.NoError(t, err)
	require.Empty(t, empty)

	require.NoError(t, store.SaveCommands(ctx, domain.TierGeneral, map[string]string{"discord": "join {user}"}))

	got, err := store.LoadCommands(ctx, domain.TierGeneral)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"discord": "join {user}"}, got)

	restricted, err := store.LoadCommands(ctx, domain.TierRestricted)
	require.NoError(t, err)
	require.Empty(t, restricted)
}

func TestLoadCommandsMalformed(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "json_files", "commands.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err = store.LoadCommands(context.Background(), domain.TierGeneral)
	require.ErrorIs(t, err, domain.ErrStore)
}

func TestLoadLinesStripsCarriageReturns(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "txt_files", "quotes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\r\ntwo\r\nthree\r\n"), 0o644))

	lines, err := store.LoadLines(context.Background(), domain.CorpusQuotes)
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestLoadLinesSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "txt_files", "quotes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\n\n   \ntwo\r\n\r\n"), 0o644))

	lines, err := store.LoadLines(context.Background(), domain.CorpusQuotes)
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two"}, lines)
}

func TestSaveLinesRewritesFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.SaveLines(ctx, domain.CorpusCompliments, []string{"nice hat", "great aim"}))

	raw, err := os.ReadFile(filepath.Join(dir, "txt_files", "compliments.txt"))
	require.NoError(t, err)
	require.Equal(t, "nice hat\ngreat aim", string(raw))

	entries, err := os.ReadDir(filepath.Join(dir, "txt_files"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files should be left behind")
}

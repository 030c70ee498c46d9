package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"chatBot/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "data", "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCommandsAreScopedByTier(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SaveCommands(ctx, domain.TierGeneral, map[string]string{"hi": "hello {user}"}))
	require.NoError(t, store.SaveCommands(ctx, domain.TierRestricted, map[string]string{"ban": "bye {mention}"}))

	general, err := store.LoadCommands(ctx, domain.TierGeneral)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"hi": "hello {user}"}, general)

	// reescribir un tier no toca el otro
	require.NoError(t, store.SaveCommands(ctx, domain.TierGeneral, map[string]string{}))
	general, err = store.LoadCommands(ctx, domain.TierGeneral)
	require.NoError(t, err)
	require.Empty(t, general)

	restricted, err := store.LoadCommands(ctx, domain.TierRestricted)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"ban": "bye {mention}"}, restricted)
}

func TestLinesKeepOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SaveLines(ctx, domain.CorpusQuotes, []string{"b", "a", "c"}))
	lines, err := store.LoadLines(ctx, domain.CorpusQuotes)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a", "c"}, lines)

	none, err := store.LoadLines(ctx, domain.CorpusTimerMessages)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	saved, err := store.SaveNotification(ctx, &domain.Notification{
		Type:     domain.NotificationRaid,
		Platform: domain.PlatformTwitch,
		Username: "friend",
		Amount:   42,
		Metadata: map[string]string{"viewers": "42"},
	})
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	list, err := store.ListNotifications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "friend", list[0].Username)
	require.Equal(t, "42", list[0].Metadata["viewers"])
}

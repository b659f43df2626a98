package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alkime/notes/internal/note"
	"github.com/alkime/notes/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]store.Store {
	t.Helper()

	sqlite, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]store.Store{
		"memory": store.NewMemory(),
		"sqlite": sqlite,
	}
}

func mustNote(t *testing.T, content string, at time.Time) note.Note {
	t.Helper()

	n, err := note.New(content, at)
	require.NoError(t, err)

	return n
}

func TestStore(t *testing.T) {
	base := time.Date(2026, 3, 10, 14, 0, 0, 123456789, time.UTC)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			empty, err := s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty)

			older := mustNote(t, "older", base)
			newer := mustNote(t, "newer", base.Add(time.Hour))
			tieA := mustNote(t, "tie a", base.Add(time.Minute))
			tieB := mustNote(t, "tie b", base.Add(time.Minute))

			for _, n := range []note.Note{older, newer, tieA, tieB} {
				require.NoError(t, s.Add(ctx, n))
			}

			got, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []note.Note{newer, tieB, tieA, older}, got)

			assert.ErrorIs(t, s.Add(ctx, note.Note{}), note.ErrEmptyContent)
			require.NoError(t, s.Close())
		})
	}
}

func TestSQLitePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.db")

	s, err := store.OpenSQLite(ctx, path)
	require.NoError(t, err)

	n := mustNote(t, "kept across restarts", time.Now())
	require.NoError(t, s.Add(ctx, n))
	require.Error(t, s.Add(ctx, n), "duplicate id")
	require.NoError(t, s.Close())

	reopened, err := store.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, n.ID, got[0].ID)
	assert.Equal(t, n.Content, got[0].Content)
	assert.True(t, n.CreatedAt.Equal(got[0].CreatedAt))
}

func TestSQLiteBadPath(t *testing.T) {
	_, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "notes.db"))
	assert.Error(t, err)
}

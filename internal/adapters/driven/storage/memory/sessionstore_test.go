package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

func sampleTurns(seq int) []domain.Turn {
	now := time.Now().UTC()
	return []domain.Turn{
		{Role: domain.RoleUser, Content: "q", Seq: seq, CreatedAt: now},
		{Role: domain.RoleAssistant, Content: "a", Seq: seq + 1, CreatedAt: now},
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, &domain.Session{ID: "s", Turns: sampleTurns(1)}))

	loaded, err := store.GetSession(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, loaded.Turns, 2)
	assert.False(t, loaded.CreatedAt.IsZero())
}

func TestSessionStore_GetReturnsCopy(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	require.NoError(t, store.SaveSession(ctx, &domain.Session{ID: "s", Turns: sampleTurns(1)}))

	loaded, err := store.GetSession(ctx, "s")
	require.NoError(t, err)
	loaded.Turns[0].Content = "tampered"

	again, err := store.GetSession(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "q", again.Turns[0].Content)
}

func TestSessionStore_AppendTurns(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	require.NoError(t, store.SaveSession(ctx, &domain.Session{ID: "s", Turns: sampleTurns(1)}))

	require.NoError(t, store.AppendTurns(ctx, "s", sampleTurns(3)))

	loaded, err := store.GetSession(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, loaded.Turns, 4)
}

func TestSessionStore_AppendTurns_MissingSession(t *testing.T) {
	store := NewSessionStore()

	err := store.AppendTurns(context.Background(), "missing", sampleTurns(1))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_ListSessions_MostRecentFirst(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	older := time.Now().UTC().Add(-time.Hour)

	require.NoError(t, store.SaveSession(ctx, &domain.Session{ID: "old", CreatedAt: older, UpdatedAt: older}))
	require.NoError(t, store.SaveSession(ctx, &domain.Session{ID: "new"}))

	list, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Empty(t, list[0].Turns)
}

func TestSessionStore_DeleteSession(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	require.NoError(t, store.SaveSession(ctx, &domain.Session{ID: "s"}))

	require.NoError(t, store.DeleteSession(ctx, "s"))

	_, err := store.GetSession(ctx, "s")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

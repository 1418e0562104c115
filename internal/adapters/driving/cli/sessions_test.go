package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shopquery-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

func setupSessionStore(t *testing.T) *memory.SessionStore {
	t.Helper()
	old := sessionStore
	store := memory.NewSessionStore()
	sessionStore = store
	t.Cleanup(func() { sessionStore = old })
	return store
}

func TestSessionsCmd_List(t *testing.T) {
	store := setupSessionStore(t)
	older := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, store.SaveSession(context.Background(), &domain.Session{
		ID: "session-old", CreatedAt: older, UpdatedAt: older,
	}))
	require.NoError(t, store.SaveSession(context.Background(), &domain.Session{
		ID: "session-new",
	}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sessions", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "session-new")
	assert.Contains(t, output, "session-old")
	assert.Less(t, strings.Index(output, "session-new"), strings.Index(output, "session-old"))
}

func TestSessionsCmd_ListEmpty(t *testing.T) {
	setupSessionStore(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sessions"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No saved sessions.")
}

func TestSessionsCmd_Show(t *testing.T) {
	store := setupSessionStore(t)
	require.NoError(t, store.SaveSession(context.Background(), &domain.Session{
		ID: "session-1",
		Turns: []domain.Turn{
			{Role: domain.RoleUser, Content: "what laptops do you have?", Seq: 1},
			{Role: domain.RoleAssistant, Content: "The UltraBook Pro.", Seq: 2},
		},
	}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sessions", "show", "session-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "Session session-1 (2 turns)")
	assert.Contains(t, output, "You: what laptops do you have?")
	assert.Contains(t, output, "Assistant: The UltraBook Pro.")
}

func TestSessionsCmd_Show_Missing(t *testing.T) {
	setupSessionStore(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"sessions", "show", "missing"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionsCmd_Delete(t *testing.T) {
	store := setupSessionStore(t)
	require.NoError(t, store.SaveSession(context.Background(), &domain.Session{ID: "session-1"}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sessions", "delete", "session-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Session deleted.")

	_, err = store.GetSession(context.Background(), "session-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionsCmd_StoreUnavailable(t *testing.T) {
	old := sessionStore
	sessionStore = nil
	defer func() { sessionStore = old }()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"sessions", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "session persistence not available")
}

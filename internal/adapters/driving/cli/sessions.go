package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved chat transcripts",
	Long: `List, show and delete persisted chat sessions.
Transcripts are recorded as chat exchanges complete; they are not
subject to the in-memory history budget.`,
	RunE: runSessionsList,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions, most recent first",
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show a session transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a session and its transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	if sessionStore == nil {
		return errors.New("session persistence not available")
	}

	sessions, err := sessionStore.ListSessions(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if len(sessions) == 0 {
		cmd.Println("No saved sessions.")
		return nil
	}

	for _, session := range sessions {
		cmd.Printf("%s  %s\n", session.ID, session.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	if sessionStore == nil {
		return errors.New("session persistence not available")
	}

	session, err := sessionStore.GetSession(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}

	cmd.Printf("Session %s (%d turns)\n\n", session.ID, len(session.Turns))
	printHistory(cmd, session.Turns)
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	if sessionStore == nil {
		return errors.New("session persistence not available")
	}

	if err := sessionStore.DeleteSession(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Println("Session not found.")
			return nil
		}
		return fmt.Errorf("deleting session: %w", err)
	}

	cmd.Println("Session deleted.")
	return nil
}

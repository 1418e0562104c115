package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driving"
	"github.com/custodia-labs/shopquery-cli/internal/core/services"
)

var chatSamples bool

// sampleQuestions exercises the assistant end to end: a normal
// catalogue question, an out-of-scope question, a question about
// unavailable information, and a comparison over retrieved products.
var sampleQuestions = []string{
	"What laptops do you have under $1500?",
	"What's the weather like today?",
	"Do you have any laptops with 64GB of RAM?",
	"Which of your gaming laptops has the best reviews?",
}

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Chat with the product assistant",
	Long: `Ask questions about the product catalogue in natural language.
Answers are grounded on retrieved products; the assistant declines to
invent specifications or prices.

With a question argument, answers once and exits. Without one, starts
an interactive session. Session commands:
  quit    - end the session
  clear   - forget the conversation so far
  history - show the conversation so far`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatSamples, "samples", false,
		"run the built-in sample questions and exit")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	chat, cleanup, err := newChatSession()
	if err != nil {
		return err
	}
	defer cleanup()

	if chatSamples {
		return runChatSamples(cmd, chat)
	}

	if len(args) == 1 {
		return askOnce(cmd, chat, args[0])
	}

	return runChatLoop(cmd, chat)
}

// newChatSession wires a chat service for a fresh session.
// The returned cleanup closes the LLM connection.
func newChatSession() (driving.ChatService, func(), error) {
	if searchService == nil {
		return nil, nil, errors.New(
			"search service not configured: run 'shopquery settings elasticsearch'")
	}
	if newLLMService == nil {
		return nil, nil, fmt.Errorf("%w: run 'shopquery settings llm'", domain.ErrLLMUnavailable)
	}

	llm, err := newLLMService()
	if err != nil {
		return nil, nil, err
	}
	if llm == nil {
		return nil, nil, fmt.Errorf("%w: run 'shopquery settings llm'", domain.ErrLLMUnavailable)
	}

	settings := domain.DefaultAppSettings()
	if settingsService != nil {
		if current, err := settingsService.Get(); err == nil {
			settings = *current
		}
	}

	chat, err := services.NewChatService(
		searchService, llm, sessionStore,
		uuid.NewString(),
		settings.Search, settings.Chat,
	)
	if err != nil {
		llm.Close()
		return nil, nil, err
	}
	if promptStore != nil {
		chat.SetPromptStore(promptStore)
	}

	return chat, func() { llm.Close() }, nil
}

func runChatSamples(cmd *cobra.Command, chat driving.ChatService) error {
	for _, question := range sampleQuestions {
		cmd.Printf("You: %s\n", question)
		if err := askOnce(cmd, chat, question); err != nil {
			return err
		}
	}
	return nil
}

func askOnce(cmd *cobra.Command, chat driving.ChatService, question string) error {
	answer, err := chat.Ask(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}
	printAnswer(cmd, answer)
	return nil
}

func runChatLoop(cmd *cobra.Command, chat driving.ChatService) error {
	cmd.Println("Product assistant ready. Type 'quit' to exit, 'clear' to start over.")
	cmd.Println()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "":
			continue
		case "quit", "exit":
			cmd.Println("Goodbye!")
			return nil
		case "clear":
			chat.Reset()
			cmd.Println("Conversation cleared.")
			cmd.Println()
			continue
		case "history":
			printHistory(cmd, chat.History())
			continue
		}

		answer, err := chat.Ask(cmd.Context(), input)
		if err != nil {
			// One bad exchange should not end the session.
			cmd.Printf("Error: %v\n\n", err)
			continue
		}
		printAnswer(cmd, answer)
	}

	return scanner.Err()
}

func printAnswer(cmd *cobra.Command, answer *domain.Answer) {
	cmd.Printf("Assistant: %s\n", answer.Text)
	if answer.Grounded && len(answer.Sources) > 0 {
		names := make([]string, len(answer.Sources))
		for i := range answer.Sources {
			names[i] = answer.Sources[i].Product.Name
		}
		cmd.Printf("(based on: %s)\n", strings.Join(names, ", "))
	}
	cmd.Println()
}

func printHistory(cmd *cobra.Command, turns []domain.Turn) {
	if len(turns) == 0 {
		cmd.Println("No conversation yet.")
		cmd.Println()
		return
	}
	for _, turn := range turns {
		speaker := "You"
		if turn.Role == domain.RoleAssistant {
			speaker = "Assistant"
		}
		cmd.Printf("%s: %s\n", speaker, turn.Content)
	}
	cmd.Println()
}

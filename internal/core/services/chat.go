package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/shopquery-cli/internal/core/ports/driving"
	"github.com/custodia-labs/shopquery-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// NoInformationReply is the fixed answer used when retrieval finds no
// grounding. The generator is never asked to improvise one.
const NoInformationReply = "I don't have information about that in my product catalogue. " +
	"Could you rephrase your question?"

// defaultSystemPrompt carries the assistant's grounding guardrails.
// It is used when no PromptStore override is configured.
const defaultSystemPrompt = `You are a helpful product assistant for an electronics store.

RULES:
1. Only answer questions using information from the provided product search results
2. If no relevant products are found, say "I don't have information about that"
3. Always include product names and prices in your recommendations
4. Do not make up specifications, features, or prices
5. Be concise (max 3-4 sentences per product mentioned)
6. If asked about something outside the product catalogue, politely decline

You have access to the conversation history. Use it to understand references like
"it", "that one", "the first one", and to compare with products mentioned earlier.`

// defaultReformulatePrompt rewrites a follow-up question into a
// standalone search query using recent conversation context.
const defaultReformulatePrompt = `Given a conversation history and the latest question, create a standalone search query that captures the user's intent. Return ONLY the search query, nothing else.

Create a standalone search query for: %s`

// reformulationContextTurns is how many trailing history turns are
// included when reformulating (two full exchanges).
const reformulationContextTurns = 4

// reformulation generation tuning: factual rewrite, short output.
const (
	reformulateTemperature = 0.3
	reformulateMaxTokens   = 50
)

// ChatService answers questions about the product catalogue, grounded
// on retrieved products, with conversational memory. One instance owns
// one session.
type ChatService struct {
	search         driving.SearchService
	llm            driven.LLMService
	sessions       driven.SessionStore // optional
	prompts        driven.PromptStore  // optional
	history        *ConversationManager
	sessionID      string
	searchSettings domain.SearchSettings
	chatSettings   domain.ChatSettings
}

// NewChatService creates a chat service owning the session sessionID.
// The LLM service is required; the session store is optional and, when
// present, receives every exchange for transcript persistence.
func NewChatService(
	search driving.SearchService,
	llm driven.LLMService,
	sessions driven.SessionStore,
	sessionID string,
	searchSettings domain.SearchSettings,
	chatSettings domain.ChatSettings,
) (*ChatService, error) {
	if search == nil {
		return nil, errors.New("chat: search service is required")
	}
	if llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is empty", domain.ErrInvalidConfig)
	}

	return &ChatService{
		search:         search,
		llm:            llm,
		sessions:       sessions,
		history:        NewConversationManager(chatSettings.MaxHistoryTurns, chatSettings.MaxHistoryChars),
		sessionID:      sessionID,
		searchSettings: searchSettings,
		chatSettings:   chatSettings,
	}, nil
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (c *ChatService) SetPromptStore(store driven.PromptStore) {
	c.prompts = store
}

// SessionID returns the identifier of the owned session.
func (c *ChatService) SessionID() string {
	return c.sessionID
}

// History returns a read-only snapshot of the session history.
func (c *ChatService) History() []domain.Turn {
	return c.history.History()
}

// Reset clears the session history.
func (c *ChatService) Reset() {
	c.history.Reset()
}

// Ask answers one question. The pipeline is strictly sequential:
// reformulate (when history exists) -> retrieve -> fuse -> build
// context -> generate -> append the exchange. Nothing is committed to
// history until generation succeeds, so a failed or cancelled call
// leaves the session exactly as it was.
func (c *ChatService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidQuery)
	}

	searchQuery := question
	if c.history.CompletedExchanges() >= 1 {
		if reformulated := c.reformulate(ctx, question); reformulated != "" {
			searchQuery = reformulated
		}
	}

	results, err := c.search.Search(ctx, searchQuery, domain.SearchOptions{Limit: c.searchSettings.TopK})
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		logger.Info("No grounding found for %q, generator skipped", searchQuery)
		c.commit(ctx, question, NoInformationReply)
		return &domain.Answer{Text: NoInformationReply, Grounded: false}, nil
	}

	block, err := BuildContext(results, c.searchSettings.TopK, c.searchSettings.MaxContextChars)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyContext) {
			c.commit(ctx, question, NoInformationReply)
			return &domain.Answer{Text: NoInformationReply, Grounded: false}, nil
		}
		return nil, err
	}

	answer, err := c.generate(ctx, question, block)
	if err != nil {
		return nil, err
	}

	c.commit(ctx, question, answer)
	return &domain.Answer{Text: answer, Sources: results, Grounded: true}, nil
}

// reformulate asks the LLM for a standalone search query capturing the
// question's intent given recent history. Falls back to the raw
// question on any failure - reformulation is an optimisation, never a
// gate.
func (c *ChatService) reformulate(ctx context.Context, question string) string {
	prompt := c.loadPrompt(driven.PromptQueryReformulate, defaultReformulatePrompt)

	turns := c.history.History()
	if len(turns) > reformulationContextTurns {
		turns = turns[len(turns)-reformulationContextTurns:]
	}

	messages := make([]driven.ChatMessage, 0, len(turns)+1)
	for i := range turns {
		messages = append(messages, driven.ChatMessage{
			Role:    turns[i].Role.String(),
			Content: turns[i].Content,
		})
	}
	messages = append(messages, driven.ChatMessage{
		Role:    domain.RoleUser.String(),
		Content: fmt.Sprintf(prompt, question),
	})

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	reformulated, err := c.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   reformulateMaxTokens,
		Temperature: reformulateTemperature,
	})
	if err != nil {
		logger.Warn("Query reformulation failed, using original question: %v", err)
		return ""
	}

	reformulated = strings.TrimSpace(reformulated)
	if reformulated != "" && reformulated != question {
		logger.Info("Reformulated query: %q", reformulated)
	}
	return reformulated
}

// generate assembles the single generation request: system guardrails,
// prior turns oldest first, then the context block and the question.
func (c *ChatService) generate(
	ctx context.Context, question string, block *domain.ContextBlock,
) (string, error) {
	system := c.loadPrompt(driven.PromptAssistantSystem, defaultSystemPrompt)

	turns := c.history.History()
	messages := make([]driven.ChatMessage, 0, len(turns)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    domain.RoleSystem.String(),
		Content: system,
	})
	for i := range turns {
		messages = append(messages, driven.ChatMessage{
			Role:    turns[i].Role.String(),
			Content: turns[i].Content,
		})
	}
	messages = append(messages, driven.ChatMessage{
		Role: domain.RoleUser.String(),
		Content: fmt.Sprintf(
			"Based on the following product information, answer the user's question.\n\n"+
				"PRODUCT INFORMATION:\n%s\n\nUSER QUESTION:\n%s",
			block.Text(), question),
	})

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	answer, err := c.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   c.chatSettings.MaxTokens,
		Temperature: c.chatSettings.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationUnavailable, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%w: model returned an empty response", domain.ErrGenerationUnavailable)
	}
	return answer, nil
}

// commit appends the completed exchange to the in-memory history and,
// when a session store is configured, persists it. Persistence failures
// are logged, not fatal - the conversation continues.
func (c *ChatService) commit(ctx context.Context, question, answer string) {
	userTurn := c.history.Append(domain.RoleUser, question)
	assistantTurn := c.history.Append(domain.RoleAssistant, answer)

	if c.sessions == nil {
		return
	}

	turns := []domain.Turn{userTurn, assistantTurn}
	err := c.sessions.AppendTurns(ctx, c.sessionID, turns)
	if errors.Is(err, domain.ErrNotFound) {
		now := time.Now()
		err = c.sessions.SaveSession(ctx, &domain.Session{
			ID:        c.sessionID,
			Turns:     turns,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err != nil {
		logger.Warn("Failed to persist session %s: %v", c.sessionID, err)
	}
}

// withTimeout derives the per-call deadline for LLM requests.
func (c *ChatService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.searchSettings.RequestTimeout > 0 {
		return context.WithTimeout(ctx, c.searchSettings.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

// loadPrompt loads a prompt from the store, falling back to the default
// if unavailable.
func (c *ChatService) loadPrompt(name, fallback string) string {
	if c.prompts == nil {
		return fallback
	}
	prompt, err := c.prompts.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

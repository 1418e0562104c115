package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shopquery-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
}

func (m *mockSearchService) Search(
	_ context.Context, _ string, _ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	answer *domain.Answer
	err    error
}

func (m *mockChatService) Ask(_ context.Context, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

func (m *mockChatService) History() []domain.Turn { return nil }
func (m *mockChatService) Reset()                 {}
func (m *mockChatService) SessionID() string      { return "session-1" }

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&Ports{
		Search: &mockSearchService{},
		Chat:   &mockChatService{answer: &domain.Answer{Text: "hi"}},
	})
	require.NoError(t, err)
	return app
}

func sizeApp(app *App) {
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
}

func TestNewApp_RequiresSearchService(t *testing.T) {
	_, err := NewApp(&Ports{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSearchService)
}

func TestNewApp_ChatOptional(t *testing.T) {
	app, err := NewApp(&Ports{Search: &mockSearchService{}})

	require.NoError(t, err)
	assert.NotNil(t, app)
}

func TestApp_StartsInChatView(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_TabSwitchesViews(t *testing.T) {
	app := newTestApp(t)
	sizeApp(app)

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_AnswerReceived_AppendsToTranscript(t *testing.T) {
	app := newTestApp(t)
	sizeApp(app)

	app.Update(messages.AnswerReceived{
		Question: "what laptops do you have?",
		Answer: &domain.Answer{
			Text:     "The UltraBook Pro.",
			Grounded: true,
			Sources:  []domain.SearchResult{{Product: domain.Product{Name: "UltraBook Pro"}}},
		},
	})

	view := app.View()
	assert.Contains(t, view, "The UltraBook Pro.")
	assert.Contains(t, view, "based on: UltraBook Pro")
}

func TestApp_AnswerReceived_ErrorShownInTranscript(t *testing.T) {
	app := newTestApp(t)
	sizeApp(app)

	app.Update(messages.AnswerReceived{Err: errors.New("generation unavailable")})

	assert.Contains(t, app.View(), "generation unavailable")
	assert.False(t, app.waiting)
}

func TestApp_SearchCompleted_StoresResults(t *testing.T) {
	app := newTestApp(t)
	sizeApp(app)
	app.Update(tea.KeyMsg{Type: tea.KeyTab})

	app.Update(messages.SearchCompleted{
		Query: "laptop",
		Results: []domain.SearchResult{
			{Product: domain.Product{Name: "UltraBook Pro", Price: 1299.99}},
			{Product: domain.Product{Name: "GameMaster X", Price: 1999.99}},
		},
	})

	require.Len(t, app.Results(), 2)
	view := app.View()
	assert.Contains(t, view, "UltraBook Pro")
	assert.Contains(t, view, "$1999.99")
}

func TestApp_SearchView_ArrowsMoveSelection(t *testing.T) {
	app := newTestApp(t)
	sizeApp(app)
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app.Update(messages.SearchCompleted{
		Results: []domain.SearchResult{
			{Product: domain.Product{Name: "A"}},
			{Product: domain.Product{Name: "B"}},
		},
	})

	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, app.selectedIndex)

	// Never past the end.
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, app.selectedIndex)

	app.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, app.selectedIndex)
}

func TestApp_SubmitWithoutChat_ExplainsMissingLLM(t *testing.T) {
	app, err := NewApp(&Ports{Search: &mockSearchService{}})
	require.NoError(t, err)
	sizeApp(app)

	typeString(app, "any question")
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Contains(t, app.View(), "No LLM configured")
}

func TestApp_SubmitEmptyInput_NoOp(t *testing.T) {
	app := newTestApp(t)
	sizeApp(app)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, app.transcript)
}

func TestApp_SubmitQuestion_MarksWaiting(t *testing.T) {
	app := newTestApp(t)
	sizeApp(app)

	typeString(app, "what laptops do you have?")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, app.waiting)
	assert.Contains(t, app.View(), "thinking")

	// The returned command resolves to an AnswerReceived message.
	msg := cmd()
	answer, ok := msg.(messages.AnswerReceived)
	require.True(t, ok)
	assert.Equal(t, "hi", answer.Answer.Text)
}

func TestApp_CtrlC_Quits(t *testing.T) {
	app := newTestApp(t)
	sizeApp(app)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_HelpView_Toggles(t *testing.T) {
	app := newTestApp(t)
	sizeApp(app)

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Keybindings")

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

// typeString feeds runes into the app one key at a time.
func typeString(app *App, s string) {
	for _, r := range s {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

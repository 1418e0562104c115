package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/shopquery-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/shopquery-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/shopquery-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/shopquery-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

// transcriptEntry is one rendered line pair in the chat view.
type transcriptEntry struct {
	speaker string
	text    string
	sources []string
	isError bool
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keys holds the keybindings.
	keys *keymap.KeyMap

	// prompt is the shared input field.
	prompt *input.PromptInput

	// currentView tracks which view is active.
	currentView messages.ViewType

	// transcript holds the rendered conversation, oldest first.
	transcript []transcriptEntry

	// results holds the current search results.
	results []domain.SearchResult

	// selectedIndex is the currently highlighted result.
	selectedIndex int

	// waiting indicates an in-flight ask or search. One request at a
	// time; input is ignored until the reply lands.
	waiting bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keys:        keymap.DefaultKeyMap(),
		prompt:      input.NewPromptInput(s, "Ask:", "Ask about the product catalogue..."),
		currentView: messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.prompt.Init(),
		tea.SetWindowTitle("shopquery - Product Assistant"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.prompt.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.AnswerReceived:
		a.waiting = false
		if msg.Err != nil {
			a.transcript = append(a.transcript, transcriptEntry{
				speaker: "Error", text: msg.Err.Error(), isError: true,
			})
			return a, nil
		}
		entry := transcriptEntry{speaker: "Assistant", text: msg.Answer.Text}
		if msg.Answer.Grounded {
			for i := range msg.Answer.Sources {
				entry.sources = append(entry.sources, msg.Answer.Sources[i].Product.Name)
			}
		}
		a.transcript = append(a.transcript, entry)
		return a, nil

	case messages.SearchCompleted:
		a.waiting = false
		a.err = msg.Err
		if msg.Err == nil {
			a.results = msg.Results
			a.selectedIndex = 0
		}
		return a, nil
	}

	return a, nil
}

//nolint:gocyclo // central key dispatch
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "ctrl+h":
		if a.currentView == messages.ViewHelp {
			a.currentView = messages.ViewChat
		} else {
			a.currentView = messages.ViewHelp
		}
		return a, nil

	case "tab":
		a.switchView()
		return a, nil

	case "esc":
		a.prompt.Reset()
		a.err = nil
		return a, nil

	case "up":
		if a.currentView == messages.ViewSearch && a.selectedIndex > 0 {
			a.selectedIndex--
		}
		return a, nil

	case "down":
		if a.currentView == messages.ViewSearch && a.selectedIndex < len(a.results)-1 {
			a.selectedIndex++
		}
		return a, nil

	case "enter":
		return a, a.submit()
	}

	// Everything else goes to the input field.
	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	return a, cmd
}

func (a *App) switchView() {
	if a.currentView == messages.ViewChat {
		a.currentView = messages.ViewSearch
		a.prompt.SetLabel("Search:")
	} else {
		a.currentView = messages.ViewChat
		a.prompt.SetLabel("Ask:")
	}
}

// submit dispatches the current input to the active view's service.
func (a *App) submit() tea.Cmd {
	if a.waiting {
		return nil
	}

	text := strings.TrimSpace(a.prompt.Value())
	if text == "" {
		return nil
	}
	a.prompt.Reset()

	if a.currentView == messages.ViewSearch {
		a.waiting = true
		return a.searchCmd(text)
	}

	if a.ports.Chat == nil {
		a.transcript = append(a.transcript, transcriptEntry{
			speaker: "Error",
			text:    "No LLM configured. Run 'shopquery settings llm' to enable chat.",
			isError: true,
		})
		return nil
	}

	a.transcript = append(a.transcript, transcriptEntry{speaker: "You", text: text})
	a.waiting = true
	return a.askCmd(text)
}

// askCmd asks the assistant off the update loop.
func (a *App) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.ports.Chat.Ask(a.ctx, question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

// searchCmd runs a product search off the update loop.
func (a *App) searchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.ports.Search.Search(a.ctx, query, domain.SearchOptions{Limit: 10})
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(a.styles.Title.Render("shopquery"))
	b.WriteString(a.styles.Muted.Render("  " + a.currentView.String()))
	b.WriteString("\n\n")

	switch a.currentView {
	case messages.ViewChat:
		b.WriteString(a.chatView())
	case messages.ViewSearch:
		b.WriteString(a.searchView())
	case messages.ViewHelp:
		b.WriteString(a.helpView())
	}

	if a.currentView != messages.ViewHelp {
		b.WriteString("\n")
		b.WriteString(a.prompt.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.statusView())

	return b.String()
}

func (a *App) chatView() string {
	if len(a.transcript) == 0 {
		return a.styles.Muted.Render("Ask a question about the product catalogue.") + "\n"
	}

	var b strings.Builder
	for _, entry := range a.transcript {
		switch {
		case entry.isError:
			b.WriteString(a.styles.Error.Render(entry.speaker+": ") + entry.text)
		case entry.speaker == "You":
			b.WriteString(a.styles.User.Render("You: ") + entry.text)
		default:
			b.WriteString(a.styles.Assistant.Render("Assistant: ") + entry.text)
		}
		b.WriteString("\n")
		if len(entry.sources) > 0 {
			b.WriteString(a.styles.Muted.Render(
				"  based on: " + strings.Join(entry.sources, ", ")))
			b.WriteString("\n")
		}
	}
	if a.waiting {
		b.WriteString(a.styles.Muted.Render("Assistant is thinking..."))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) searchView() string {
	if a.err != nil {
		return a.styles.Error.Render("Error: "+a.err.Error()) + "\n"
	}
	if a.waiting {
		return a.styles.Muted.Render("Searching...") + "\n"
	}
	if len(a.results) == 0 {
		return a.styles.Muted.Render("Enter a query to search the catalogue.") + "\n"
	}

	var b strings.Builder
	for i := range a.results {
		product := &a.results[i].Product
		line := fmt.Sprintf("%d. %s - $%.2f", i+1, product.Name, product.Price)
		if i == a.selectedIndex {
			b.WriteString(a.styles.Selected.Render(line))
		} else {
			b.WriteString(a.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	// Detail pane for the highlighted result.
	selected := &a.results[a.selectedIndex]
	b.WriteString("\n")
	b.WriteString(a.styles.Subtitle.Render(selected.Product.Name))
	b.WriteString("\n")
	if selected.Product.Category != "" {
		b.WriteString(a.styles.Muted.Render("Category: " + selected.Product.Category))
		b.WriteString("\n")
	}
	if len(selected.Product.Features) > 0 {
		b.WriteString(a.styles.Normal.Render(
			"Features: " + strings.Join(selected.Product.Features, ", ")))
		b.WriteString("\n")
	}
	if selected.Product.Reviews != nil {
		b.WriteString(a.styles.Normal.Render(fmt.Sprintf(
			"Rating: %.1f/5 (%d reviews)",
			selected.Product.Reviews.Rating, selected.Product.Reviews.Count)))
		b.WriteString("\n")
	}

	return b.String()
}

func (a *App) helpView() string {
	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render("Keybindings"))
	b.WriteString("\n\n")
	for _, row := range a.keys.FullHelp() {
		for _, binding := range row {
			help := binding.Help()
			b.WriteString(fmt.Sprintf("  %-8s %s\n", help.Key, help.Desc))
		}
	}
	return b.String()
}

func (a *App) statusView() string {
	var parts []string
	for _, binding := range a.keys.ShortHelp() {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return a.styles.Help.Render(strings.Join(parts, " · "))
}

// CurrentView returns the active view. Exposed for tests.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Results returns the current search results. Exposed for tests.
func (a *App) Results() []domain.SearchResult {
	return a.results
}

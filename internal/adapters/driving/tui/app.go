// Package tui provides the interactive chat interface. It follows the
// Elm architecture via Bubbletea: one model, messages for async answers,
// a viewport for the transcript and a textinput for questions.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/valigence-labs/valigence-cli/internal/core/ports/driving"
)

// historyPreload is how many past exchanges seed the transcript.
const historyPreload = 10

// Styles.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle   = lipgloss.NewStyle()
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// answerMsg carries the result of an async answer request.
type answerMsg struct {
	question string
	answer   string
	err      error
}

// App is the chat application. It implements tea.Model.
type App struct {
	answer  driving.AnswerService
	history driving.HistoryService

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	transcript []string
	waiting    bool
	ready      bool
	width      int
	height     int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// New creates the chat application. history may be nil; past exchanges
// are then not preloaded.
func New(answer driving.AnswerService, history driving.HistoryService) *App {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about the indexed documents"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	app := &App{
		answer:   answer,
		history:  history,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
	}
	app.preloadHistory()
	return app
}

// Run starts the Bubbletea program and blocks until the user quits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// preloadHistory seeds the transcript with recent exchanges, oldest first.
func (a *App) preloadHistory() {
	if a.history == nil {
		return
	}
	exchanges, err := a.history.Recent(context.Background(), historyPreload)
	if err != nil {
		return
	}
	// Recent returns newest first; the transcript reads top-down.
	for i := len(exchanges) - 1; i >= 0; i-- {
		a.appendExchange(exchanges[i].Question, exchanges[i].Answer)
	}
}

// appendExchange adds one question/answer pair to the transcript.
func (a *App) appendExchange(question, answer string) {
	a.transcript = append(a.transcript,
		questionStyle.Render("You: ")+question,
		answerStyle.Render(answer),
		"",
	)
}

// Init starts the cursor blink.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key events, window sizing and completed answers.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + ih + 2 // title, spacer, input frame, help line
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		a.viewport.Width = msg.Width
		a.viewport.Height = vh
		a.refreshViewport()
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			if a.waiting {
				return a, nil
			}
			question := strings.TrimSpace(a.input.Value())
			if question == "" {
				return a, nil
			}
			a.input.Reset()
			a.waiting = true
			a.transcript = append(a.transcript, questionStyle.Render("You: ")+question)
			a.refreshViewport()
			return a, tea.Batch(a.spinner.Tick, a.askCmd(question))
		}

	case answerMsg:
		a.waiting = false
		// Replace the pending question line with the full exchange.
		a.transcript = a.transcript[:len(a.transcript)-1]
		if msg.err != nil {
			a.transcript = append(a.transcript,
				questionStyle.Render("You: ")+msg.question,
				errStyle.Render("Error: "+msg.err.Error()),
				"",
			)
		} else {
			a.appendExchange(msg.question, msg.answer)
		}
		a.refreshViewport()
		return a, nil

	case spinner.TickMsg:
		if !a.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// askCmd runs the answer pipeline off the UI goroutine.
func (a *App) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.answer.Answer(context.Background(), question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

// refreshViewport re-renders the transcript and scrolls to the bottom.
func (a *App) refreshViewport() {
	content := strings.Join(a.transcript, "\n")
	if a.waiting {
		content += "\n" + a.spinner.View() + " thinking..."
	}
	if content == "" {
		content = helpStyle.Render("No questions yet. Type one below.")
	}
	a.viewport.SetContent(content)
	a.viewport.GotoBottom()
}

// View renders the chat layout.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	title := titleStyle.Render("Valigence Chat")
	transcript := a.viewport.View()
	input := inputBoxStyle.Width(max(20, a.width-2)).Render(a.input.View())
	help := helpStyle.Render("enter: ask | esc: quit")

	return fmt.Sprintf("%s\n\n%s\n%s\n%s", title, transcript, input, help)
}

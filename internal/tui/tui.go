// Package tui hosts the interactive session inside a Bubble Tea program.
//
// The session runs on its own goroutine and talks to the program through a
// Prompter that turns Show, Ask and Progress calls into messages. Answers
// travel back on a channel when the user presses enter.
package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/backdrop-downloader/internal/app"
	"github.com/handiism/backdrop-downloader/internal/config"
	"github.com/handiism/backdrop-downloader/internal/download"
	"github.com/handiism/backdrop-downloader/internal/workflow"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))
)

// Message types
type (
	// ShowMsg prints one session message above the prompt.
	ShowMsg struct {
		Level workflow.Level
		Text  string
	}

	// AskMsg puts a question on the prompt and focuses the input.
	AskMsg struct {
		Question string
	}

	// ProgressMsg updates the download bar.
	ProgressMsg struct {
		Progress download.Progress
	}

	// DoneMsg is sent when the session has returned.
	DoneMsg struct {
		Code int
	}
)

// answer is one line typed by the user, or the end of input.
type answer struct {
	text   string
	closed bool
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	styles    workflow.Styles
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model

	question string
	asking   bool

	// download is set while a transfer is being reported.
	download *download.Progress

	answers chan<- answer
	cancel  context.CancelFunc

	stopping bool
	done     bool
}

// newModel creates a model that delivers answers on answers and calls cancel
// when the user interrupts. answers must have room for one value.
func newModel(answers chan<- answer, cancel context.CancelFunc) Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	return Model{
		styles:    workflow.NewStyles(lipgloss.DefaultRenderer()),
		textInput: ti,
		spinner:   sp,
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
		answers:   answers,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(max(msg.Width-30, 20), 80)
		m.textInput.Width = max(msg.Width-len(m.question)-4, 20)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if !m.stopping {
				m.stopping = true
				m.cancel()
			}
			return m, nil

		case tea.KeyCtrlD:
			if m.asking && m.textInput.Value() == "" {
				return m.submit(answer{closed: true})
			}

		case tea.KeyEnter:
			if m.asking {
				return m.submit(answer{text: m.textInput.Value()})
			}
		}

	case ShowMsg:
		cmds = append(cmds, m.flushProgress(), tea.Println(m.renderShow(msg)))
		return m, tea.Sequence(cmds...)

	case AskMsg:
		m.question = msg.Question
		m.asking = true
		m.textInput.SetValue("")
		cmds = append(cmds, m.flushProgress(), m.textInput.Focus())
		return m, tea.Sequence(cmds...)

	case ProgressMsg:
		p := msg.Progress
		m.download = &p
		return m, nil

	case DoneMsg:
		m.done = true
		cmd := tea.Sequence(m.flushProgress(), tea.Quit)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.asking {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit hands a to the waiting session and echoes the exchange.
func (m Model) submit(a answer) (tea.Model, tea.Cmd) {
	select {
	case m.answers <- a:
	default:
	}
	echo := m.styles.Prompt.Render(m.question) + a.text
	m.asking = false
	m.question = ""
	m.textInput.Reset()
	m.textInput.Blur()
	return m, tea.Println(echo)
}

// flushProgress prints the final state of a finished download bar.
func (m *Model) flushProgress() tea.Cmd {
	if m.download == nil {
		return nil
	}
	line := workflow.FormatProgress(m.progress, *m.download)
	m.download = nil
	return tea.Println(line)
}

func (m Model) renderShow(msg ShowMsg) string {
	text := m.styles.Render(msg.Level, msg.Text)
	if msg.Level == workflow.LevelHeading {
		return "\n" + text
	}
	return text
}

// View renders the UI.
func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Backdrop Downloader"))
	b.WriteString("\n")

	switch {
	case m.download != nil:
		b.WriteString(workflow.FormatProgress(m.progress, *m.download))
	case m.asking:
		b.WriteString(questionStyle.Render(strings.TrimSpace(m.question)))
		b.WriteString("\n")
		b.WriteString(m.textInput.View())
	case m.stopping:
		b.WriteString(m.spinner.View() + " Stopping...")
	default:
		b.WriteString(m.spinner.View() + " Working...")
	}
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render(m.helpText()))
	return b.String()
}

func (m Model) helpText() string {
	if m.asking {
		return "enter: submit • ctrl+d: end input • esc/ctrl+c: quit"
	}
	return "esc/ctrl+c: quit"
}

// Prompter implements workflow.Prompter on top of a running program.
type Prompter struct {
	send    func(tea.Msg)
	answers <-chan answer
}

// Show implements workflow.Prompter.
func (p *Prompter) Show(level workflow.Level, text string) {
	p.send(ShowMsg{Level: level, Text: text})
}

// Ask implements workflow.Prompter.
func (p *Prompter) Ask(ctx context.Context, question string) (string, error) {
	p.send(AskMsg{Question: question})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a := <-p.answers:
		if a.closed {
			return "", workflow.ErrInputClosed
		}
		return a.text, nil
	}
}

// Progress implements workflow.Prompter.
func (p *Prompter) Progress(pr download.Progress) {
	p.send(ProgressMsg{Progress: pr})
}

// Run starts the TUI and the session and returns the process exit code
// once both have stopped. Cancelling ctx interrupts the session the same
// way ctrl+c does.
func Run(ctx context.Context, settings *config.Settings, logger *slog.Logger) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	answers := make(chan answer, 1)
	program := tea.NewProgram(newModel(answers, cancel), tea.WithoutSignalHandler())
	prompter := &Prompter{send: program.Send, answers: answers}

	code := app.ExitOK
	var g errgroup.Group

	g.Go(func() error {
		// The session must not outlive the program it prints to.
		defer cancel()
		_, err := program.Run()
		return err
	})

	g.Go(func() error {
		code = app.Run(ctx, settings, prompter, logger)
		program.Send(DoneMsg{Code: code})
		return nil
	})

	err := g.Wait()
	return code, err
}

package workflow

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/handiism/backdrop-downloader/internal/download"
)

// Styles holds the lipgloss styles for each message level.
type Styles struct {
	Heading lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Prompt  lipgloss.Style
	Dim     lipgloss.Style
}

// NewStyles builds the styles on r, so color output follows the
// capabilities of r's writer.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("#A8DADC")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("#FFE66D")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		Success: r.NewStyle().Foreground(lipgloss.Color("#95E1A3")),
		Prompt:  r.NewStyle().Bold(true),
		Dim:     r.NewStyle().Foreground(lipgloss.Color("#6C757D")),
	}
}

// Render styles text for level.
func (s Styles) Render(level Level, text string) string {
	switch level {
	case LevelHeading:
		return s.Heading.Render(text)
	case LevelInfo:
		return s.Info.Render(text)
	case LevelWarning:
		return s.Warning.Render(text)
	case LevelError:
		return s.Error.Render(text)
	case LevelSuccess:
		return s.Success.Render(text)
	default:
		return text
	}
}

// FormatProgress renders a download progress line without a trailing newline.
func FormatProgress(bar progress.Model, p download.Progress) string {
	if f := p.Fraction(); f >= 0 {
		return fmt.Sprintf("%s %s / %s", bar.ViewAs(f), humanize.IBytes(uint64(p.Written)), humanize.IBytes(uint64(p.Total)))
	}
	return fmt.Sprintf("Downloaded %s", humanize.IBytes(uint64(p.Written)))
}

type lineResult struct {
	line string
	err  error
}

// Console is a Prompter on a plain reader and writer, normally stdin and
// stdout.
type Console struct {
	in  io.Reader
	out io.Writer

	styles Styles
	bar    progress.Model

	startOnce sync.Once
	lines     chan lineResult

	// midLine is true while a progress line is being redrawn with \r.
	midLine bool
}

// NewConsole creates a Console reading lines from in and writing to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:     in,
		out:    out,
		styles: NewStyles(lipgloss.NewRenderer(out)),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		lines:  make(chan lineResult),
	}
}

// readLines pumps input lines into c.lines so Ask can also wait on ctx.
func (c *Console) readLines() {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		c.lines <- lineResult{line: scanner.Text()}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	for {
		c.lines <- lineResult{err: err}
	}
}

func (c *Console) endProgressLine() {
	if c.midLine {
		fmt.Fprintln(c.out)
		c.midLine = false
	}
}

// Show implements Prompter.
func (c *Console) Show(level Level, text string) {
	c.endProgressLine()
	if level == LevelHeading {
		fmt.Fprintln(c.out)
	}
	fmt.Fprintln(c.out, c.styles.Render(level, text))
}

// Ask implements Prompter.
func (c *Console) Ask(ctx context.Context, question string) (string, error) {
	c.endProgressLine()
	c.startOnce.Do(func() { go c.readLines() })

	fmt.Fprint(c.out, c.styles.Prompt.Render(question))

	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", ctx.Err()
	case res := <-c.lines:
		if res.err == io.EOF {
			fmt.Fprintln(c.out)
			return "", ErrInputClosed
		}
		if res.err != nil {
			fmt.Fprintln(c.out)
			return "", fmt.Errorf("%w: %w", ErrInputClosed, res.err)
		}
		return res.line, nil
	}
}

// Progress implements Prompter.
func (c *Console) Progress(p download.Progress) {
	fmt.Fprint(c.out, "\r"+FormatProgress(c.bar, p))
	c.midLine = true
}

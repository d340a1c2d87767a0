package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aravindadityxa/nayamai/apperr"
	"github.com/aravindadityxa/nayamai/history"
	"github.com/aravindadityxa/nayamai/locale"
	"github.com/aravindadityxa/nayamai/notify"
	"github.com/aravindadityxa/nayamai/settings"
)

// reportedError marks a failure already shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// report shows err the way the chat widget would and returns it marked as
// reported. Persistence warnings are shown but do not fail the command.
func report(cmd *cobra.Command, err error, lang locale.Language) error {
	if err == nil {
		return nil
	}
	n := notify.FromError(err, lang)
	notify.NewTerminal(cmd.ErrOrStderr()).Show(n)
	if apperr.IsWarning(err) {
		return nil
	}
	return &reportedError{err: err}
}

func success(cmd *cobra.Command, text string) {
	notify.NewTerminal(cmd.OutOrStdout()).Show(notify.Success(text))
}

// palette holds the chat styles for one theme.
type palette struct {
	user      lipgloss.Style
	assistant lipgloss.Style
	dim       lipgloss.Style
	title     lipgloss.Style
}

var palettes = map[settings.Theme]palette{
	settings.ThemeLight: {
		user:      lipgloss.NewStyle().Foreground(lipgloss.Color("#2563eb")).Bold(true),
		assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("#059669")).Bold(true),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
		title:     lipgloss.NewStyle().Foreground(lipgloss.Color("#111827")).Bold(true),
	},
	settings.ThemeDark: {
		user:      lipgloss.NewStyle().Foreground(lipgloss.Color("#60a5fa")).Bold(true),
		assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399")).Bold(true),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af")),
		title:     lipgloss.NewStyle().Foreground(lipgloss.Color("#f9fafb")).Bold(true),
	},
}

func paletteFor(theme settings.Theme) palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[settings.ThemeLight]
}

const assistantName = "NAYAM AI"

func printMessage(w io.Writer, p palette, m history.Message) {
	who := p.user.Render("You")
	if m.Sender == history.SenderAssistant {
		who = p.assistant.Render(assistantName)
	}
	fmt.Fprintf(w, "%s %s\n%s\n\n", who, p.dim.Render(m.Timestamp.Local().Format("15:04")), m.Content)
}

// prompter reads answers from the command's input.
type prompter struct {
	raw io.Reader
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{
		raw: cmd.InOrStdin(),
		in:  bufio.NewReader(cmd.InOrStdin()),
		out: cmd.ErrOrStderr(),
	}
}

// Line prompts for one line of input. It returns io.EOF when input ends
// before anything was typed.
func (p *prompter) Line(label string) (string, error) {
	if label != "" {
		fmt.Fprint(p.out, label)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password reads without echo when input is a terminal.
func (p *prompter) Password(label string) (string, error) {
	if f, ok := p.raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.out, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		return string(b), err
	}
	return p.Line(label)
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *prompter) Confirm(prompt string) bool {
	answer, err := p.Line(prompt + " [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// confirmer returns a ConfirmFunc that skips the prompt when yes is set.
func confirmer(p *prompter, yes bool) func(string) bool {
	if yes {
		return func(string) bool { return true }
	}
	return p.Confirm
}

// orPrompt returns value, or prompts for it when empty.
func orPrompt(p *prompter, value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	return p.Line(label)
}

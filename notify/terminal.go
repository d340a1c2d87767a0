package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Widget notification colors.
var levelColors = map[Level]lipgloss.Color{
	LevelInfo:    lipgloss.Color("#3b82f6"),
	LevelSuccess: lipgloss.Color("#10b981"),
	LevelError:   lipgloss.Color("#ef4444"),
	LevelWarning: lipgloss.Color("#f59e0b"),
}

var baseStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#ffffff")).
	Bold(true).
	Padding(0, 1)

// Style returns the badge style for level.
func Style(level Level) lipgloss.Style {
	color, ok := levelColors[level]
	if !ok {
		color = levelColors[LevelInfo]
	}
	return baseStyle.Background(color)
}

// Terminal prints each notification as one styled line. Printed lines
// cannot be taken back, so Dismiss does nothing.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Show(n Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, Style(n.Level).Render(n.Text))
}

func (t *Terminal) Dismiss() {}

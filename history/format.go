package history

import (
	"encoding/json"
	"io"
	"strings"
	"time"
)

const exportFilePrefix = "nayam-ai-chat-history-"

// ExportFilename returns the download name for an export taken at now.
func ExportFilename(now time.Time) string {
	return exportFilePrefix + now.UTC().Format(dayLayout) + ".json"
}

// WriteExport writes e as JSON indented with two spaces.
func WriteExport(w io.Writer, e Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// DayLabel renders day relative to now: "Today", "Yesterday" or a short date.
func DayLabel(day, now time.Time) string {
	day = day.In(now.Location())
	switch {
	case sameDay(day, now):
		return "Today"
	case sameDay(day, now.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return day.Format("Jan 2, 2006")
	}
}

// Preview summarizes the last two messages of a group.
func Preview(messages []Message) string {
	start := max(len(messages)-2, 0)
	parts := make([]string, 0, 2)
	for _, m := range messages[start:] {
		if m.Sender == SenderUser {
			parts = append(parts, "You: "+m.Content)
		} else {
			parts = append(parts, "AI: "+m.Content)
		}
	}
	return strings.Join(parts, " | ")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/google/uuid"
)

// FileName is the log file created under the data directory.
const FileName = "nayam.log"

type Config struct {
	DataDir string
	DevMode bool
	// Stderr keeps console logs off stdout, which carries command output
	// and the MCP protocol.
	Stderr bool
}

// Init installs the global slog logger and returns the log file path, or
// "" when logging to the console.
//
// Outside dev mode logs go to DataDir/nayam.log. LOG_FILE overrides the
// path, LOG_LEVEL the level and LOG_FORMAT=json selects JSON output.
func Init(cfg Config) string {
	console := io.Writer(os.Stdout)
	if cfg.Stderr {
		console = os.Stderr
	}

	w, path := openSink(cfg, console)

	opts := &slog.HandlerOptions{Level: parseLevel(os.Getenv("LOG_LEVEL"))}
	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if os.Getenv("LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
	return path
}

// openSink falls back to console when the log file cannot be opened.
func openSink(cfg Config, console io.Writer) (io.Writer, string) {
	path := os.Getenv("LOG_FILE")
	if path == "" {
		if cfg.DevMode || cfg.DataDir == "" {
			return console, ""
		}
		path = filepath.Join(cfg.DataDir, FileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		fmt.Fprintf(console, "nayam: cannot create log directory %s: %v\n", filepath.Dir(path), err)
		return console, ""
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(console, "nayam: cannot open log file %s: %v\n", path, err)
		return console, ""
	}
	return f, path
}

// parseLevel accepts slog level names in any case, with optional offsets
// such as "debug+2". Unknown values mean info.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewRequestLogger tags log lines of one MCP tool call.
func NewRequestLogger() *slog.Logger {
	return slog.With("requestId", uuid.Must(uuid.NewV7()).String())
}

// LogPanic logs a recovered panic value with its stack trace.
func LogPanic(r any, msg string, args ...any) {
	slog.Error(msg, append(args, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))...)
}

// Truncate shortens user content to n runes for log lines.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

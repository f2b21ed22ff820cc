package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/MatusOllah/slogcolor"
	"github.com/fatih/color"
)

// New creates the console logger used by the server and CLI.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a colored slog logger writing to w.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	opts := slogcolor.DefaultOptions
	opts.Level = ParseLevel(level)
	opts.MsgColor = color.New(color.FgMagenta)
	opts.SrcFileMode = slogcolor.Nop
	return slog.New(slogcolor.NewHandler(w, opts))
}

// ForFunction returns a logger bound to the Functions Framework log writer of ctx,
// so entries end up attached to the invocation that produced them.
func ForFunction(ctx context.Context, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(funcframework.LogWriter(ctx), &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Package logger provides the leveled console logger used by the semtrim
// CLI. Output lines carry [HH:MM:SS] timestamps; level tags are colored when
// writing to a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level is a message severity.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a level name to a Level, defaulting to info for empty
// or unknown names.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Console writes leveled, timestamped messages to a writer. It is safe for
// concurrent use.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
	color bool
}

// NewConsole creates a Console writing to w at the given minimum level.
// Color is enabled only when w is a terminal and NO_COLOR is unset.
func NewConsole(w io.Writer, level string) *Console {
	return &Console{
		w:     w,
		level: ParseLevel(level),
		color: isTerminal(w) && !color.NoColor,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Tracef logs at trace level.
func (c *Console) Tracef(format string, args ...any) {
	c.logf(LevelTrace, "TRACE", nil, format, args...)
}

// Debugf logs at debug level.
func (c *Console) Debugf(format string, args ...any) {
	c.logf(LevelDebug, "DEBUG", color.New(color.Faint), format, args...)
}

// Infof logs at info level.
func (c *Console) Infof(format string, args ...any) {
	c.logf(LevelInfo, "INFO", nil, format, args...)
}

// Warnf logs at warn level.
func (c *Console) Warnf(format string, args ...any) {
	c.logf(LevelWarn, "WARN", color.New(color.FgYellow), format, args...)
}

// Errorf logs at error level.
func (c *Console) Errorf(format string, args ...any) {
	c.logf(LevelError, "ERROR", color.New(color.FgRed), format, args...)
}

func (c *Console) logf(level Level, tag string, col *color.Color, format string, args ...any) {
	if c == nil || c.w == nil || level < c.level {
		return
	}
	if c.color && col != nil {
		tag = col.Sprint(tag)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "[%s] %s %s\n",
		time.Now().Format("15:04:05"), tag, fmt.Sprintf(format, args...))
}

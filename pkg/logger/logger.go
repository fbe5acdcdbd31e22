// Package logger wraps charmbracelet/log with a trace level and a process-wide default.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	charm "github.com/charmbracelet/log"
)

// Logger is a thin wrapper over a charm logger that adds trace-level logging.
type Logger struct {
	charm *charm.Logger
}

// NewLogger wraps an existing charm logger.
func NewLogger(l *charm.Logger) *Logger {
	return &Logger{charm: l}
}

// New creates a Logger writing to stderr with the default styles.
func New() *Logger {
	return NewWithOutput(os.Stderr)
}

// NewWithOutput creates a Logger writing to w with the default styles.
func NewWithOutput(w io.Writer) *Logger {
	l := charm.New(w)
	l.SetStyles(getLogStyles())
	return NewLogger(l)
}

// CharmLogger returns the underlying charm logger.
func (l *Logger) CharmLogger() *charm.Logger {
	return l.charm
}

// SetLevel sets the minimum level that is emitted.
func (l *Logger) SetLevel(level charm.Level) {
	l.charm.SetLevel(level)
}

// GetLevel returns the current level.
func (l *Logger) GetLevel() charm.Level {
	return l.charm.GetLevel()
}

// GetLevelString returns the lower-case name of the current level.
func (l *Logger) GetLevelString() string {
	switch level := l.charm.GetLevel(); level {
	case TraceLevel:
		return "trace"
	case offLevel:
		return "off"
	default:
		return level.String()
	}
}

// SetOutput redirects log output.
func (l *Logger) SetOutput(w io.Writer) {
	l.charm.SetOutput(w)
}

// SetReportTimestamp toggles timestamps on each line.
func (l *Logger) SetReportTimestamp(report bool) {
	l.charm.SetReportTimestamp(report)
}

// With returns a child logger that always includes the given key/value pairs.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return NewLogger(l.charm.With(keyvals...))
}

func (l *Logger) Trace(msg interface{}, keyvals ...interface{}) {
	l.charm.Log(TraceLevel, msg, keyvals...)
}

func (l *Logger) Tracef(format string, args ...interface{}) {
	l.charm.Log(TraceLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(msg interface{}, keyvals ...interface{}) {
	l.charm.Debug(msg, keyvals...)
}

func (l *Logger) Info(msg interface{}, keyvals ...interface{}) {
	l.charm.Info(msg, keyvals...)
}

func (l *Logger) Warn(msg interface{}, keyvals ...interface{}) {
	l.charm.Warn(msg, keyvals...)
}

func (l *Logger) Error(msg interface{}, keyvals ...interface{}) {
	l.charm.Error(msg, keyvals...)
}

// getLogStyles returns the level badges and key styles used on terminals.
func getLogStyles() *charm.Styles {
	styles := charm.DefaultStyles()

	styles.Levels[TraceLevel] = lipgloss.NewStyle().
		SetString("TRCE").
		Foreground(lipgloss.Color("#8A8A8A"))
	styles.Levels[charm.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBU").
		Foreground(lipgloss.Color("#5F87FF"))
	styles.Levels[charm.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(lipgloss.Color("#00AFAF"))
	styles.Levels[charm.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#FFAF00"))
	styles.Levels[charm.ErrorLevel] = lipgloss.NewStyle().
		SetString("EROR").
		Foreground(lipgloss.Color("#FF5F5F"))

	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	styles.Values["err"] = lipgloss.NewStyle().Bold(true)
	styles.Keys["step"] = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AFAF"))

	return styles
}

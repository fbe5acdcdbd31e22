package logger

import (
	"fmt"
	"math"
	"strings"

	charm "github.com/charmbracelet/log"

	errUtils "github.com/cloudposse/artifactor/errors"
)

// TraceLevel is one step more verbose than charm's DebugLevel.
const TraceLevel = charm.DebugLevel - 1

// offLevel is above every level charm emits, so nothing is printed.
const offLevel = charm.Level(math.MaxInt32)

// LogLevel is the user-facing name of a log level.
type LogLevel string

const (
	LogLevelOff     LogLevel = "Off"
	LogLevelTrace   LogLevel = "Trace"
	LogLevelDebug   LogLevel = "Debug"
	LogLevelInfo    LogLevel = "Info"
	LogLevelWarning LogLevel = "Warning"
)

// ParseLogLevel converts a user-supplied level name into a LogLevel.
// Matching is case-insensitive and an empty string means Info.
func ParseLogLevel(logLevel string) (LogLevel, error) {
	if logLevel == "" {
		return LogLevelInfo, nil
	}

	for _, level := range []LogLevel{LogLevelOff, LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarning} {
		if strings.EqualFold(string(level), logLevel) {
			return level, nil
		}
	}

	return "", fmt.Errorf("%w: '%s'. Supported log levels are Trace, Debug, Info, Warning, Off",
		errUtils.ErrInvalidLogLevel, logLevel)
}

// CharmLevel maps the LogLevel onto the charm level used by the logger.
func (l LogLevel) CharmLevel() charm.Level {
	switch l {
	case LogLevelOff:
		return offLevel
	case LogLevelTrace:
		return TraceLevel
	case LogLevelDebug:
		return charm.DebugLevel
	case LogLevelWarning:
		return charm.WarnLevel
	default:
		return charm.InfoLevel
	}
}

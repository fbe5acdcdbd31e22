package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorBuilder provides a fluent API for constructing enriched errors.
type ErrorBuilder struct {
	err          error
	cause        error
	message      string
	hints        []string
	explanations []string
	context      map[string]interface{}
	exitCode     *int
	sentinels    []error
}

// Build creates a new ErrorBuilder from a base error.
// Leaf errors (no wrapped cause) are treated as sentinels so errors.Is keeps
// matching them after enrichment.
func Build(err error) *ErrorBuilder {
	builder := &ErrorBuilder{err: err}

	if err != nil && errors.UnwrapOnce(err) == nil {
		builder.sentinels = append(builder.sentinels, err)
	}

	return builder
}

// WithCause attaches the underlying error that triggered the sentinel.
// The resulting message reads "<sentinel>: <cause>".
func (b *ErrorBuilder) WithCause(cause error) *ErrorBuilder {
	b.cause = cause
	return b
}

// WithMessagef replaces the sentinel text in front of the cause, so the
// message reads "<message>: <cause>". The sentinel still matches errors.Is.
func (b *ErrorBuilder) WithMessagef(format string, args ...interface{}) *ErrorBuilder {
	b.message = fmt.Sprintf(format, args...)
	return b
}

// WithHint adds a user-facing hint to the error.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.hints = append(b.hints, hint)
	return b
}

// WithHintf adds a formatted user-facing hint to the error.
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.hints = append(b.hints, fmt.Sprintf(format, args...))
	return b
}

// WithExplanation adds a detailed explanation to the error.
func (b *ErrorBuilder) WithExplanation(explanation string) *ErrorBuilder {
	b.explanations = append(b.explanations, explanation)
	return b
}

// WithExplanationf adds a formatted explanation to the error.
func (b *ErrorBuilder) WithExplanationf(format string, args ...interface{}) *ErrorBuilder {
	return b.WithExplanation(fmt.Sprintf(format, args...))
}

// WithContext adds safe structured context to the error.
// Context is displayed in verbose mode.
func (b *ErrorBuilder) WithContext(key string, value interface{}) *ErrorBuilder {
	if b.context == nil {
		b.context = make(map[string]interface{})
	}
	b.context[key] = value
	return b
}

// WithExitCode attaches an exit code to the error.
func (b *ErrorBuilder) WithExitCode(code int) *ErrorBuilder {
	b.exitCode = &code
	return b
}

// WithSentinel marks the error with a sentinel error for errors.Is() checks.
func (b *ErrorBuilder) WithSentinel(sentinel error) *ErrorBuilder {
	b.sentinels = append(b.sentinels, sentinel)
	return b
}

// Err finalizes and returns the enriched error.
func (b *ErrorBuilder) Err() error {
	if b.err == nil {
		return nil
	}

	err := b.err
	sentinels := b.sentinels

	if b.cause != nil {
		message := b.message
		if message == "" {
			message = err.Error()
		}
		// Keep the cause in the chain so exec exit codes survive.
		err = errors.Wrap(b.cause, message)
		sentinels = append(sentinels[:len(sentinels):len(sentinels)], b.err)
	}

	for _, explanation := range b.explanations {
		err = errors.WithDetail(err, explanation)
	}

	for _, hint := range b.hints {
		err = errors.WithHint(err, hint)
	}

	if len(b.context) > 0 {
		keys := make([]string, 0, len(b.context))
		for k := range b.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var formatParts []string
		var safeValues []interface{}

		for _, key := range keys {
			formatParts = append(formatParts, key+"=%s")
			safeValues = append(safeValues, errors.Safe(b.context[key]))
		}

		err = errors.WithSafeDetails(err, strings.Join(formatParts, " "), safeValues...)
	}

	// Marks must be applied after all other wrapping.
	for _, sentinel := range sentinels {
		err = errors.Mark(err, sentinel)
	}
	if len(sentinels) > 0 {
		err = &markedError{error: err, sentinels: sentinels}
	}

	if b.exitCode != nil {
		err = WithExitCode(err, *b.exitCode)
	}

	return err
}

// markedError lets the standard library errors.Is match the sentinels applied
// with errors.Mark, which only cockroachdb/errors understands.
type markedError struct {
	error
	sentinels []error
}

func (e *markedError) Unwrap() error {
	return e.error
}

func (e *markedError) Is(target error) bool {
	for _, sentinel := range e.sentinels {
		if sentinel == target {
			return true
		}
	}
	return false
}

// Package process runs external commands for the pipeline steps.
package process

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	errUtils "github.com/cloudposse/artifactor/errors"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/perf"
)

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -source=process.go -destination=mock_process.go -package=process

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string

	// Stream copies stdout to the log writer as it is produced, in addition
	// to capturing it.
	Stream bool
}

// String renders the command line for logs.
func (c *Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout string
	Stderr string
}

// Executor runs commands. It is the seam tests replace with a mock.
type Executor interface {
	// Run executes cmd and waits for it. A non-zero exit is returned as an
	// error wrapping ErrCommandFailed and the *exec.ExitError.
	Run(ctx context.Context, cmd *Command) (*Result, error)

	// LookPath resolves an executable on PATH.
	LookPath(file string) (string, error)
}

// DefaultExecutor runs commands with os/exec.
type DefaultExecutor struct {
	// DryRun logs each command instead of running it.
	DryRun bool

	// StreamTo receives streamed stdout. Defaults to os.Stdout.
	StreamTo io.Writer
}

// NewExecutor returns an executor; dryRun turns it into a logger of commands.
func NewExecutor(dryRun bool) *DefaultExecutor {
	return &DefaultExecutor{DryRun: dryRun, StreamTo: os.Stdout}
}

// Run implements Executor.
func (e *DefaultExecutor) Run(ctx context.Context, cmd *Command) (*Result, error) {
	defer perf.Track(nil, "process.DefaultExecutor.Run")()

	if e.DryRun {
		log.Info("Dry run, skipping command", "command", cmd.String())
		return &Result{}, nil
	}

	log.Debug("Running command", "command", cmd.String(), "dir", cmd.Dir)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...) //nolint:gosec // commands are assembled from fixed tool names
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	if cmd.Stream {
		streamTo := e.StreamTo
		if streamTo == nil {
			streamTo = os.Stdout
		}
		c.Stdout = io.MultiWriter(&stdout, streamTo)
	}
	c.Stderr = &stderr

	err := c.Run()
	result := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		return result, errUtils.Build(errUtils.ErrCommandFailed).
			WithCause(withStderr(err, result.Stderr)).
			WithContext("command", cmd.Name).
			Err()
	}

	return result, nil
}

// LookPath implements Executor.
func (e *DefaultExecutor) LookPath(file string) (string, error) {
	defer perf.Track(nil, "process.DefaultExecutor.LookPath")()

	return exec.LookPath(file)
}

// stderrError appends the trimmed stderr to the message of a failed command.
type stderrError struct {
	cause  error
	stderr string
}

func (e *stderrError) Error() string {
	return e.cause.Error() + ": " + e.stderr
}

func (e *stderrError) Unwrap() error {
	return e.cause
}

func withStderr(err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return err
	}
	return &stderrError{cause: err, stderr: stderr}
}

// TrimOutput strips trailing CR/LF characters from command output.
func TrimOutput(s string) string {
	return strings.TrimRight(s, "\r\n")
}

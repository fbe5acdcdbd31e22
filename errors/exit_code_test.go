package errors

import (
	"os/exec"
	"runtime"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "plain error", err: errors.New("boom"), expected: 1},
		{name: "explicit exit code", err: WithExitCode(errors.New("boom"), 42), expected: 42},
		{name: "wrapped explicit exit code", err: errors.Wrap(WithExitCode(errors.New("boom"), 7), "outer"), expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetExitCode(tt.err))
		})
	}
}

func TestWithExitCode_Nil(t *testing.T) {
	assert.NoError(t, WithExitCode(nil, 2))
}

func TestGetExitCode_ExecExitError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	err := exec.Command("sh", "-c", "exit 3").Run()
	require.Error(t, err)

	wrapped := Build(ErrCommandFailed).WithCause(err).Err()

	assert.Equal(t, 3, GetExitCode(wrapped))
}

package github

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestProvider_Detect(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected bool
	}{
		{name: "github actions", env: map[string]string{"GITHUB_ACTIONS": "true"}, expected: true},
		{name: "unset", env: map[string]string{}, expected: false},
		{name: "other value", env: map[string]string{"GITHUB_ACTIONS": "false"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProviderWithEnv(envFrom(tt.env), &bytes.Buffer{})
			assert.Equal(t, tt.expected, p.Detect())
		})
	}
}

func TestProvider_Context(t *testing.T) {
	p := NewProviderWithEnv(envFrom(map[string]string{
		"GITHUB_EVENT_PATH": "/tmp/event.json",
		"GITHUB_REF":        "refs/pull/42/merge",
		"GITHUB_SHA":        "abc123",
		"GITHUB_REPOSITORY": "cloudposse/svc",
	}), &bytes.Buffer{})

	ctx, err := p.Context()
	require.NoError(t, err)
	assert.Equal(t, ProviderName, ctx.Provider)
	assert.Equal(t, "/tmp/event.json", ctx.EventPath)
	assert.Equal(t, "refs/pull/42/merge", ctx.Ref)
	assert.Equal(t, "abc123", ctx.SHA)
	assert.Equal(t, "cloudposse/svc", ctx.Repository)
}

func TestProvider_OutputWriter(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "output")
	p := NewProviderWithEnv(envFrom(map[string]string{"GITHUB_OUTPUT": outputPath}), &bytes.Buffer{})

	require.NoError(t, p.OutputWriter().WriteOutput("version", "1.0.0"))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "version=1.0.0\n", string(data))
}

func TestProvider_AddPath(t *testing.T) {
	pathFile := filepath.Join(t.TempDir(), "path")
	t.Setenv("PATH", "/usr/bin")

	p := NewProviderWithEnv(envFrom(map[string]string{"GITHUB_PATH": pathFile}), &bytes.Buffer{})
	require.NoError(t, p.AddPath("/home/runner/.dotnet/tools"))

	data, err := os.ReadFile(pathFile)
	require.NoError(t, err)
	assert.Equal(t, "/home/runner/.dotnet/tools\n", string(data))
	assert.Equal(t, "/home/runner/.dotnet/tools"+string(os.PathListSeparator)+"/usr/bin", os.Getenv("PATH"))
}

func TestProvider_Fail(t *testing.T) {
	var out bytes.Buffer
	p := NewProviderWithEnv(envFrom(nil), &out)

	p.Fail(`Step "Build and push docker container" failed. Error: exit status 1`)

	assert.Equal(t, "::error::Step \"Build and push docker container\" failed. Error: exit status 1\n", out.String())
}

func TestEscapeCommandData(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{in: "plain", expected: "plain"},
		{in: "100%", expected: "100%25"},
		{in: "line1\nline2", expected: "line1%0Aline2"},
		{in: "a\r\nb", expected: "a%0D%0Ab"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, EscapeCommandData(tt.in))
		})
	}
}

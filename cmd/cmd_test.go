package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	errUtils "github.com/cloudposse/artifactor/errors"
	"github.com/cloudposse/artifactor/pkg/ci"
	"github.com/cloudposse/artifactor/pkg/nbgv"
	"github.com/cloudposse/artifactor/pkg/version"
)

// useProvider stubs provider resolution and returns the repository
// directories it was resolved with.
func useProvider(t *testing.T, provider ci.Provider) *[]string {
	t.Helper()

	var dirs []string
	original := resolveProvider
	resolveProvider = func(repoDir string) ci.Provider {
		dirs = append(dirs, repoDir)
		return provider
	}
	t.Cleanup(func() { resolveProvider = original })
	return &dirs
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(append([]string{}, args...))
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	err := Execute(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "artifactor "+version.Version)
}

func TestRoot_MissingAppNameFailsTheStep(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("INPUT_APP-NAME", "")
	t.Setenv("ARTIFACTOR_APP_NAME", "")

	ctrl := gomock.NewController(t)
	provider := ci.NewMockProvider(ctrl)
	provider.EXPECT().Fail(gomock.Any()).Times(1)
	useProvider(t, provider)

	_, err := execute(t)

	require.Error(t, err)
	assert.ErrorIs(t, err, errUtils.ErrMissingInput)
}

func TestRun_DryRun(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "version.json"), []byte(`{"version": "1.0"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0o644))

	var outputs bytes.Buffer
	ctrl := gomock.NewController(t)
	provider := ci.NewMockProvider(ctrl)
	provider.EXPECT().Name().Return("test").AnyTimes()
	provider.EXPECT().OutputWriter().Return(ci.NewStreamOutputWriter(&outputs)).AnyTimes()
	provider.EXPECT().Context().Return(&ci.Context{Provider: "test", Ref: "refs/heads/main"}, nil)
	dirs := useProvider(t, provider)

	_, err := execute(t, "run",
		"--app-name", "svc",
		"--working-directory", dir,
		"--dry-run",
		"--artifact-backend", "local",
		"--log-level", "Off",
	)
	require.NoError(t, err)

	got := outputs.String()
	assert.Contains(t, got, "version="+nbgv.DryRunVersion)
	assert.Contains(t, got, "is-pre-release=true")
	assert.Contains(t, got, "image-tag=svc:main")
	assert.Contains(t, got, "artifact-name=svc-"+nbgv.DryRunVersion)
	assert.Equal(t, []string{".", dir}, *dirs)
}

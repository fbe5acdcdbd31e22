package nbgv

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	cockroachErrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	errUtils "github.com/cloudposse/artifactor/errors"
	"github.com/cloudposse/artifactor/pkg/process"
)

const versionJSON = `{
  "Version": "2.0.0.12345",
  "SemVer2": "2.0.0-ci",
  "CloudBuildAllVars": {
    "NBGV_GitCommitId": "abc",
    "NBGV_NuGetPackageVersion": "2.0.0-ci"
  }
}`

type argsMatcher []string

func (m argsMatcher) Matches(x any) bool {
	c, ok := x.(*process.Command)
	return ok && assert.ObjectsAreEqual([]string(m), append([]string{c.Name}, c.Args...))
}

func (m argsMatcher) String() string {
	return "command " + strings.Join(m, " ")
}

func expect(m *process.MockExecutor, argv ...string) *gomock.Call {
	return m.EXPECT().Run(gomock.Any(), argsMatcher(argv))
}

func TestParseVersionJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectedErr error
	}{
		{name: "valid", input: versionJSON, expected: "2.0.0-ci"},
		{name: "malformed", input: `{"CloudBuildAllVars": `, expectedErr: errUtils.ErrVersionOutputMalformed},
		{name: "empty output", input: ``, expectedErr: errUtils.ErrVersionOutputMalformed},
		{name: "missing object", input: `{"Version":"1.0"}`, expectedErr: errUtils.ErrVersionFieldMissing},
		{name: "missing field", input: `{"CloudBuildAllVars":{}}`, expectedErr: errUtils.ErrVersionFieldMissing},
		{name: "empty field", input: `{"CloudBuildAllVars":{"NBGV_NuGetPackageVersion":""}}`, expectedErr: errUtils.ErrVersionFieldMissing},
		{name: "wrong type", input: `{"CloudBuildAllVars":{"NBGV_NuGetPackageVersion":3}}`, expectedErr: errUtils.ErrVersionFieldMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVersionJSON([]byte(tt.input))
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestIsPreRelease(t *testing.T) {
	assert.True(t, IsPreRelease("1.2.3-beta"))
	assert.True(t, IsPreRelease("2.0.0-ci"))
	assert.False(t, IsPreRelease("1.2.3"))
	assert.False(t, IsPreRelease(""))
}

func TestNewVersion(t *testing.T) {
	v := NewVersion("1.2.3-beta.4")
	assert.True(t, v.IsPreRelease)
	require.NotNil(t, v.SemVer)
	assert.Equal(t, "beta.4", v.SemVer.Prerelease())

	v = NewVersion("not a version")
	assert.False(t, v.IsPreRelease)
	assert.Nil(t, v.SemVer)
}

func TestDescriptorDir(t *testing.T) {
	sep := string(filepath.Separator)
	assert.Equal(t, "."+sep, DescriptorDir("version.json"))
	assert.Equal(t, filepath.Join("src", "app")+sep, DescriptorDir(filepath.Join("src", "app", "version.json")+"\n"))
}

func TestTool_Install(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh install", func(t *testing.T) {
		m := process.NewMockExecutor(gomock.NewController(t))
		expect(m, "dotnet", "tool", "install", "-g", "nbgv").Return(&process.Result{}, nil)

		require.NoError(t, New(m).Install(ctx))
	})

	t.Run("already installed is updated", func(t *testing.T) {
		m := process.NewMockExecutor(gomock.NewController(t))
		gomock.InOrder(
			expect(m, "dotnet", "tool", "install", "-g", "nbgv").Return(&process.Result{}, errUtils.ErrCommandFailed),
			expect(m, "dotnet", "tool", "update", "-g", "nbgv").Return(&process.Result{}, nil),
		)

		require.NoError(t, New(m).Install(ctx))
	})

	t.Run("install and update fail", func(t *testing.T) {
		m := process.NewMockExecutor(gomock.NewController(t))
		installErr := errors.New("tool nbgv is already installed")
		updateErr := errors.New("feed unreachable")
		expect(m, "dotnet", "tool", "install", "-g", "nbgv").Return(&process.Result{}, installErr)
		expect(m, "dotnet", "tool", "update", "-g", "nbgv").Return(&process.Result{}, updateErr)

		err := New(m).Install(ctx)
		assert.ErrorIs(t, err, errUtils.ErrToolInstallFailed)
		assert.ErrorIs(t, err, updateErr)
		assert.Contains(t, cockroachErrors.FlattenDetails(err), "tool nbgv is already installed")
	})
}

func TestTool_ToolsDir(t *testing.T) {
	tool := New(nil, WithHomeDir(func() (string, error) { return "/home/runner", nil }))
	dir, err := tool.ToolsDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/runner", ".dotnet", "tools"), dir)

	tool = New(nil, WithHomeDir(func() (string, error) { return "", errors.New("no home") }))
	_, err = tool.ToolsDir()
	assert.Error(t, err)
}

func TestTool_GetVersion(t *testing.T) {
	ctx := context.Background()
	dir := "src/"

	tests := []struct {
		name        string
		opts        []Option
		jsonResult  *process.Result
		jsonErr     error
		expected    string
		preRelease  bool
		expectedErr error
	}{
		{
			name:       "pre-release",
			jsonResult: &process.Result{Stdout: versionJSON},
			expected:   "2.0.0-ci",
			preRelease: true,
		},
		{
			name:       "stderr is tolerated by default",
			jsonResult: &process.Result{Stdout: `{"CloudBuildAllVars":{"NBGV_NuGetPackageVersion":"1.0.0"}}`, Stderr: "warning: shallow clone"},
			expected:   "1.0.0",
		},
		{
			name:        "strict stderr",
			opts:        []Option{WithStrictStderr(true)},
			jsonResult:  &process.Result{Stdout: versionJSON, Stderr: "shallow clone detected"},
			expectedErr: errUtils.ErrVersionToolStderr,
		},
		{
			name:        "json query fails",
			jsonResult:  &process.Result{},
			jsonErr:     errUtils.ErrCommandFailed,
			expectedErr: errUtils.ErrVersionToolFailed,
		},
		{
			name:        "malformed output",
			jsonResult:  &process.Result{Stdout: "not json"},
			expectedErr: errUtils.ErrVersionOutputMalformed,
		},
		{
			name:       "dry run",
			opts:       []Option{WithDryRun(true)},
			jsonResult: &process.Result{},
			expected:   DryRunVersion,
			preRelease: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := process.NewMockExecutor(gomock.NewController(t))
			gomock.InOrder(
				expect(m, "nbgv", "get-version", "-p", dir).Return(&process.Result{}, nil),
				expect(m, "nbgv", "get-version", "-f", "json", "-p", dir).Return(tt.jsonResult, tt.jsonErr),
			)

			v, err := New(m, tt.opts...).GetVersion(ctx, dir)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v.PackageVersion)
			assert.Equal(t, tt.preRelease, v.IsPreRelease)
		})
	}
}

func TestTool_GetVersion_HumanReadableFails(t *testing.T) {
	m := process.NewMockExecutor(gomock.NewController(t))
	expect(m, "nbgv", "get-version", "-p", "./").Return(&process.Result{}, errUtils.ErrCommandFailed)

	_, err := New(m).GetVersion(context.Background(), "./")
	assert.ErrorIs(t, err, errUtils.ErrVersionToolFailed)
}

package filematch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/artifactor/errors"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("test content"), 0o644))
	}
}

func TestFindOne(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected string
		wantErr  error
	}{
		{
			name:     "root level",
			files:    []string{"version.json"},
			expected: "version.json",
		},
		{
			name:     "nested",
			files:    []string{"src/app/version.json", "src/app/main.cs"},
			expected: "src/app/version.json",
		},
		{
			name:     "shallowest wins",
			files:    []string{"b/c/version.json", "z/version.json"},
			expected: "z/version.json",
		},
		{
			name:     "lexical order at same depth",
			files:    []string{"b/version.json", "a/version.json"},
			expected: "a/version.json",
		},
		{
			name:    "missing",
			files:   []string{"src/other.json"},
			wantErr: errUtils.ErrVersionDescriptorNotFound,
		},
		{
			name:    "directory with the same name is not a match",
			files:   []string{"version.json/readme.md"},
			wantErr: errUtils.ErrVersionDescriptorNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, tt.files...)

			got, err := FindOne(root, "version.json", errUtils.ErrVersionDescriptorNotFound)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, filepath.Join(root, filepath.FromSlash(tt.expected)), got)
		})
	}
}

func TestFindAll_MissingRoot(t *testing.T) {
	_, err := FindAll(filepath.Join(t.TempDir(), "nope"), "Dockerfile")

	require.Error(t, err)
	assert.ErrorIs(t, err, errUtils.ErrFileNotFound)
}

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "app.dll", "lib/a.dll", "lib/nested/b.dll")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	files, err := ListFiles(root)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "app.dll"),
		filepath.Join(root, "lib", "a.dll"),
		filepath.Join(root, "lib", "nested", "b.dll"),
	}, files)
}

func TestListFiles_NotADirectory(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "file.txt")

	_, err := ListFiles(filepath.Join(root, "file.txt"))

	assert.ErrorIs(t, err, errUtils.ErrFileNotFound)
}

func TestSortByDepth(t *testing.T) {
	paths := []string{"a/b/c", "z", "a/b", "b"}
	sortByDepth(paths)
	assert.Equal(t, []string{"b", "z", "a/b", "a/b/c"}, paths)
}

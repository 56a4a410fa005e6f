package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeOutputPath(t *testing.T) {
	dir := t.TempDir()

	existing := filepath.Join(dir, "metrics.prom")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o600))

	link := filepath.Join(dir, "link.prom")
	require.NoError(t, os.Symlink(existing, link))

	t.Run("existing file", func(t *testing.T) {
		got, err := SanitizeOutputPath(existing)
		require.NoError(t, err)
		assert.Equal(t, existing, got)
	})

	t.Run("new file", func(t *testing.T) {
		target := filepath.Join(dir, "new.prom")
		got, err := SanitizeOutputPath(target)
		require.NoError(t, err)
		assert.Equal(t, target, got)
	})

	t.Run("relative path made absolute", func(t *testing.T) {
		got, err := SanitizeOutputPath("out.prom")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})

	t.Run("dot segments cleaned", func(t *testing.T) {
		got, err := SanitizeOutputPath(filepath.Join(dir, "sub", "..", "metrics.prom"))
		require.NoError(t, err)
		assert.Equal(t, existing, got)
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			path string
			want string
		}{
			{"empty", "", "empty output path"},
			{"symlink", link, "symlink"},
			{"directory", dir, "is a directory"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := SanitizeOutputPath(tt.path)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.want)
			})
		}
	})
}

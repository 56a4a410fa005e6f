package mcpserver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasconform/oaserrors"
)

func minimalDoc(title string) string {
	return `openapi: 3.1.0
info:
  title: "` + title + `"
  version: "1.0"
paths: {}
`
}

func TestSpecInput_ResolveFile(t *testing.T) {
	specCache.reset()
	result, err := specInput{File: "testdata/petstore.yaml"}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "3.1.0", result.Version)
	assert.Equal(t, "Petstore", result.Document.Info.Title)
}

func TestSpecInput_ResolveContent(t *testing.T) {
	specCache.reset()
	result, err := specInput{Content: minimalDoc("Inline")}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "Inline", result.Document.Info.Title)
}

func TestSpecInput_ResolveInputCount(t *testing.T) {
	tests := []struct {
		name  string
		input specInput
	}{
		{"none", specInput{}},
		{"both", specInput{File: "foo.yaml", Content: "bar"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.input.resolve()
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrConfig)
			assert.Contains(t, err.Error(), "file or content")
		})
	}
}

func TestSpecInput_ResolveFileNotFound(t *testing.T) {
	specCache.reset()
	_, err := specInput{File: "/nonexistent/path.yaml"}.resolve()
	assert.Error(t, err)
	assert.Zero(t, specCache.size())
}

func TestSpecInput_InlineSizeLimit(t *testing.T) {
	saved := cfg.MaxInlineSize
	cfg.MaxInlineSize = 16
	t.Cleanup(func() { cfg.MaxInlineSize = saved })

	_, err := specInput{Content: minimalDoc("Too big")}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OASCONFORM_MAX_INLINE_SIZE")
}

func TestSpecCache_HitOnSameFile(t *testing.T) {
	specCache.reset()
	input := specInput{File: "testdata/petstore.yaml"}

	result1, err := input.resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, specCache.size())

	result2, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, result1, result2, "expected same pointer from cache hit")
}

func TestSpecCache_MissOnModifiedFile(t *testing.T) {
	specCache.reset()
	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalDoc("V1")), 0o644))

	input := specInput{File: path}
	result1, err := input.resolve()
	require.NoError(t, err)
	assert.Equal(t, "V1", result1.Document.Info.Title)

	require.NoError(t, os.WriteFile(path, []byte(minimalDoc("V2")), 0o644))
	// Ensure mtime differs from the first write on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	result2, err := input.resolve()
	require.NoError(t, err)
	assert.NotSame(t, result1, result2)
	assert.Equal(t, "V2", result2.Document.Info.Title)
}

func TestSpecCache_ContentHash(t *testing.T) {
	specCache.reset()
	input := specInput{Content: minimalDoc("Hash")}

	result1, err := input.resolve()
	require.NoError(t, err)
	result2, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, result1, result2)
}

func TestSpecCache_Disabled(t *testing.T) {
	specCache.reset()
	cfg.CacheEnabled = false
	t.Cleanup(func() { cfg.CacheEnabled = true })

	input := specInput{Content: minimalDoc("Uncached")}
	result1, err := input.resolve()
	require.NoError(t, err)
	result2, err := input.resolve()
	require.NoError(t, err)
	assert.NotSame(t, result1, result2)
	assert.Zero(t, specCache.size())
}

func TestSpecCache_LRUEviction(t *testing.T) {
	specCache.reset()

	var firstKey string
	for i := range 11 {
		input := specInput{Content: minimalDoc("Spec " + string(rune('A'+i)))}
		if i == 0 {
			firstKey, _ = input.cacheKey()
		}
		_, err := input.resolve()
		require.NoError(t, err)
	}

	assert.Equal(t, 10, specCache.size())
	assert.Nil(t, specCache.get(firstKey), "expected oldest entry to be evicted")
}

func TestSpecCache_ExpiryAndSweep(t *testing.T) {
	specCache.reset()
	specCache.put("short", nil, -time.Second)
	specCache.put("long", nil, time.Hour)
	assert.Equal(t, 2, specCache.size())

	specCache.sweep()
	assert.Equal(t, 1, specCache.size())
	assert.Nil(t, specCache.get("short"))
}

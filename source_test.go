package jpathcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestOpenSourceMissingFileIsNotFound(t *testing.T) {
	_, err := openSource(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestOpenSourceReadsMappedBytes(t *testing.T) {
	path := writeTempFile(t, "doc.json", `{"a":1}`)
	src, err := openSource(path)
	require.NoError(t, err)
	defer src.release()

	assert.Equal(t, `{"a":1}`, string(src.bytes()))
	assert.True(t, src.mapped())
}

func TestOpenSourceEmptyFileSkipsMmap(t *testing.T) {
	path := writeTempFile(t, "empty.json", "")
	src, err := openSource(path)
	require.NoError(t, err)
	defer src.release()

	assert.Empty(t, src.bytes())
	assert.True(t, src.mapped())
}

func TestSourceReleaseIsIdempotentAndUnmaps(t *testing.T) {
	path := writeTempFile(t, "doc.json", `[1,2,3]`)
	src, err := openSource(path)
	require.NoError(t, err)

	require.NoError(t, src.release())
	assert.False(t, src.mapped())
	assert.NoError(t, src.release())
}

func TestSourceTokenizerStartsAtOffsetZero(t *testing.T) {
	path := writeTempFile(t, "doc.json", `[1,2,3]`)
	src, err := openSource(path)
	require.NoError(t, err)
	defer src.release()

	dec := src.tokenizer()
	v, err := readValue(dec)
	require.NoError(t, err)
	require.True(t, v.IsArray())
	assert.Len(t, v.Arr, 3)
}

package adapter

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

func TestWalkRecursive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ts"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.ts"), []byte("b"), 0o644))

	fs := NewLocalSourceFSAdapter()

	var files []string

	err := fs.Walk(m.Path(dir), true, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)

		if !info.IsDir() {
			files = append(files, filepath.Base(path))
		}

		return nil
	})
	require.NoError(t, err)

	sort.Strings(files)
	assert.Equal(t, []string{"a.ts", "b.ts"}, files)
}

func TestWalkNonRecursiveSkipsSubdirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ts"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.ts"), []byte("b"), 0o644))

	fs := NewLocalSourceFSAdapter()

	var files []string

	err := fs.Walk(m.Path(dir), false, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)

		if !info.IsDir() {
			files = append(files, filepath.Base(path))
		}

		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.ts"}, files)
}

func TestHashFileStable(t *testing.T) {
	dir := t.TempDir()
	path := m.Path(filepath.Join(dir, "a.ts"))

	fs := NewLocalSourceFSAdapter()
	require.NoError(t, fs.WriteFile(path, []byte("const n = 1;\n"), 0o644))

	first, err := fs.HashFile(path)
	require.NoError(t, err)
	require.Len(t, first, 64)

	second, err := fs.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, fs.WriteFile(path, []byte("const n = 2;\n"), 0o644))

	third, err := fs.HashFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestRelAndJoinPath(t *testing.T) {
	fs := NewLocalSourceFSAdapter()

	rel, err := fs.RelPath("proj", "proj/pages/app.ts")
	require.NoError(t, err)
	assert.Equal(t, m.Path(filepath.Join("pages", "app.ts")), rel)

	assert.Equal(t, m.Path(filepath.Join("out", "app.main.ts")), fs.JoinPath("out", "app.main.ts"))
}

package domain

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotsplit.dev/pkg/hotsplit/internal/adapter"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

type fakeFileInfo struct {
	name string
	dir  bool
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() os.FileMode  { return 0o644 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return f.dir }
func (f fakeFileInfo) Sys() any           { return nil }

// fakeFS is an in-memory SourceFSAdapter.
type fakeFS struct {
	files   map[string]string
	written map[string]string
}

func newFakeFS(files map[string]string) *fakeFS {
	return &fakeFS{files: files, written: make(map[string]string)}
}

func (f *fakeFS) Walk(root m.Path, recursive bool, fn adapter.FilepathWalkFunc) error {
	paths := make([]string, 0, len(f.files))
	for path := range f.files {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	for _, path := range paths {
		if !strings.HasPrefix(path, string(root)) {
			continue
		}

		if err := fn(path, fakeFileInfo{name: path}, nil); err != nil {
			return err
		}
	}

	return nil
}

func (f *fakeFS) ReadFile(path m.Path) ([]byte, error) {
	content, ok := f.files[string(path)]
	if !ok {
		return nil, os.ErrNotExist
	}

	return []byte(content), nil
}

func (f *fakeFS) WriteFile(path m.Path, content []byte, _ os.FileMode) error {
	f.written[string(path)] = string(content)

	return nil
}

func (f *fakeFS) HashFile(path m.Path) (string, error) {
	content, ok := f.files[string(path)]
	if !ok {
		return "", os.ErrNotExist
	}

	return fmt.Sprintf("%x", sha256.Sum256([]byte(content))), nil
}

func (f *fakeFS) FileInfo(path m.Path) (os.FileInfo, error) {
	if _, ok := f.files[string(path)]; ok {
		return fakeFileInfo{name: string(path)}, nil
	}

	return fakeFileInfo{name: string(path), dir: true}, nil
}

func (f *fakeFS) RelPath(base, target m.Path) (m.Path, error) {
	return m.Path(strings.TrimPrefix(string(target), string(base)+"/")), nil
}

func (f *fakeFS) JoinPath(elem ...string) m.Path {
	return m.Path(strings.Join(elem, "/"))
}

// fakeManifestStore records saved manifests.
type fakeManifestStore struct {
	saved map[string]m.Manifest
}

func newFakeManifestStore() *fakeManifestStore {
	return &fakeManifestStore{saved: make(map[string]m.Manifest)}
}

func (s *fakeManifestStore) SaveManifest(path m.Path, manifest m.Manifest) error {
	s.saved[string(path)] = manifest

	return nil
}

func (s *fakeManifestStore) LoadManifest(path m.Path) (m.Manifest, error) {
	return s.saved[string(path)], nil
}

const workflowScript = `const n = 1;
app(() => n);
`

func newTestWorkflow(files map[string]string) (*fakeFS, *fakeManifestStore, Workflow) {
	fs := newFakeFS(files)
	store := newFakeManifestStore()
	splitter := NewSplitter(adapter.NewLocalScriptFileAdapter())

	return fs, store, NewWorkflow(fs, store, splitter)
}

func TestWorkflowDiscoverScripts(t *testing.T) {
	_, _, w := newTestWorkflow(map[string]string{
		"proj/a.ts":        workflowScript,
		"proj/b.js":        workflowScript,
		"proj/a.locals.ts": "generated",
		"proj/a.main.ts":   "generated",
		"proj/readme.md":   "not a script",
	})

	scripts, err := w.DiscoverScripts("proj", true)
	require.NoError(t, err)
	require.Len(t, scripts, 2)

	assert.Equal(t, m.Path("proj/a.ts"), scripts[0].Path)
	assert.Equal(t, m.Path("proj/b.js"), scripts[1].Path)
	assert.Equal(t, workflowScript, scripts[0].Source)
	assert.NotEmpty(t, scripts[0].Hash)
}

func TestWorkflowDiscoverSingleFile(t *testing.T) {
	_, _, w := newTestWorkflow(map[string]string{
		"proj/a.ts": workflowScript,
	})

	scripts, err := w.DiscoverScripts("proj/a.ts", false)
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	assert.Equal(t, m.Path("proj/a.ts"), scripts[0].Path)
}

func TestWorkflowBuildAll(t *testing.T) {
	_, _, w := newTestWorkflow(map[string]string{
		"proj/a.ts": workflowScript,
		"proj/b.ts": workflowScript,
	})

	scripts, err := w.DiscoverScripts("proj", true)
	require.NoError(t, err)

	splits, err := w.BuildAll(context.Background(), scripts, 2)
	require.NoError(t, err)
	require.Len(t, splits, 2)

	assert.Equal(t, m.Path("proj/a.ts"), splits[0].Script.Path)
	assert.Equal(t, m.Path("proj/b.ts"), splits[1].Script.Path)
	assert.Contains(t, splits[0].Main.Source, "export default (locals)")
}

func TestWorkflowBuildAllPropagatesErrors(t *testing.T) {
	_, _, w := newTestWorkflow(map[string]string{
		"proj/a.ts": "const n = 1;\n",
	})

	scripts, err := w.DiscoverScripts("proj", true)
	require.NoError(t, err)

	_, err = w.BuildAll(context.Background(), scripts, 4)
	require.ErrorIs(t, err, ErrEntryPointNotFound)
}

func TestWorkflowWriteSplits(t *testing.T) {
	fs, _, w := newTestWorkflow(map[string]string{
		"proj/a.ts": workflowScript,
	})

	scripts, err := w.DiscoverScripts("proj", true)
	require.NoError(t, err)

	splits, err := w.BuildAll(context.Background(), scripts, 1)
	require.NoError(t, err)

	require.NoError(t, w.WriteSplits(splits))

	require.Contains(t, fs.written, "proj/a.locals.ts")
	require.Contains(t, fs.written, "proj/a.main.ts")
	assert.Contains(t, fs.written["proj/a.locals.ts"], "Object.seal")
}

func TestWorkflowSaveManifest(t *testing.T) {
	_, store, w := newTestWorkflow(map[string]string{
		"proj/a.ts": workflowScript,
	})

	scripts, err := w.DiscoverScripts("proj", true)
	require.NoError(t, err)

	splits, err := w.BuildAll(context.Background(), scripts, 1)
	require.NoError(t, err)

	require.NoError(t, w.SaveManifest("proj/hotsplit.manifest.yaml", splits))

	manifest := store.saved["proj/hotsplit.manifest.yaml"]
	require.Len(t, manifest.Entries, 1)
	assert.Equal(t, m.Path("proj/a.ts"), manifest.Entries[0].Source)
	assert.Equal(t, m.Path("proj/a.locals.ts"), manifest.Entries[0].Locals)
	assert.Equal(t, []string{"n"}, manifest.Entries[0].Bindings)
	assert.NotEmpty(t, manifest.GeneratedAt)
}

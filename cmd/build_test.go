package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

const buildTestScript = `const greeting = "hello";
let count = 0;
app((name) => {
  count = count + 1;
  return greeting + name;
});
`

func chdirTemp(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()
	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })

	return tempDir
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

func TestBuildCmd_WritesModulesAndManifest(t *testing.T) {
	tempDir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "app.ts"), []byte(buildTestScript), 0o644))

	output, err := executeRoot(t, "build", ".")
	require.NoError(t, err)

	locals, err := os.ReadFile(filepath.Join(tempDir, "app.locals.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(locals), "export default Object.seal({")
	assert.Contains(t, string(locals), "  greeting: greeting,")
	assert.Contains(t, string(locals), "  get count() { return count; },")

	mainSrc, err := os.ReadFile(filepath.Join(tempDir, "app.main.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(mainSrc), "export default (locals) => ")
	assert.Contains(t, string(mainSrc), "(locals.greeting) + name")

	manifest, err := os.ReadFile(filepath.Join(tempDir, defaultManifestName))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "app.locals.ts")

	assert.Contains(t, output, "app.main.ts")
}

func TestBuildCmd_DiffWritesNothing(t *testing.T) {
	tempDir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "app.ts"), []byte(buildTestScript), 0o644))

	output, err := executeRoot(t, "build", "--diff", ".")
	require.NoError(t, err)

	t.Cleanup(func() { buildDiffFlag = false })

	assert.Contains(t, output, "+++ app.locals.ts")
	assert.Contains(t, output, "+++ app.main.ts")

	_, statErr := os.Stat(filepath.Join(tempDir, "app.locals.ts"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuildCmd_FailsOnBrokenScript(t *testing.T) {
	tempDir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "broken.ts"), []byte("const = ;\n"), 0o644))

	output, err := executeRoot(t, "build", ".")
	require.Error(t, err)
	assert.Contains(t, output, "broken.ts")
}

func TestRebaseSplits(t *testing.T) {
	splits := []m.Split{{
		Locals: m.Module{Path: "src/app.locals.ts"},
		Main:   m.Module{Path: "src/app.main.ts"},
	}}

	rebaseSplits(splits, "")
	assert.Equal(t, m.Path("src/app.locals.ts"), splits[0].Locals.Path)

	rebaseSplits(splits, "out")
	assert.Equal(t, m.Path("out/app.locals.ts"), splits[0].Locals.Path)
	assert.Equal(t, m.Path("out/app.main.ts"), splits[0].Main.Path)
}

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

func TestWatchCmd_RequiresScriptArg(t *testing.T) {
	cmd := newWatchCmd()
	cmd.SetArgs([]string{})

	require.Error(t, cmd.Execute())
}

func TestRebuildFunc_CompilesOnChange(t *testing.T) {
	tempDir := chdirTemp(t)
	script := filepath.Join(tempDir, "app.ts")
	require.NoError(t, os.WriteFile(script, []byte(buildTestScript), 0o644))

	rebuild := newRebuildFunc(m.Path(script))

	split, changed, err := rebuild(context.Background())
	require.NoError(t, err)
	require.True(t, changed)
	assert.Len(t, split.Bindings, 2)

	_, statErr := os.Stat(filepath.Join(tempDir, "app.main.ts"))
	require.NoError(t, statErr)

	// Unchanged source is skipped.
	_, changed, err = rebuild(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)

	// Touching the source triggers another build.
	require.NoError(t, os.WriteFile(script, []byte("const n = 1;\napp(() => n);\n"), 0o644))

	split, changed, err = rebuild(context.Background())
	require.NoError(t, err)
	require.True(t, changed)
	assert.Len(t, split.Bindings, 1)
}

func TestRebuildFunc_ReportsCompileErrors(t *testing.T) {
	tempDir := chdirTemp(t)
	script := filepath.Join(tempDir, "app.ts")
	require.NoError(t, os.WriteFile(script, []byte("const = ;\n"), 0o644))

	rebuild := newRebuildFunc(m.Path(script))

	_, changed, err := rebuild(context.Background())
	require.Error(t, err)
	assert.True(t, changed)
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd_ShowsBindings(t *testing.T) {
	tempDir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "app.ts"), []byte(buildTestScript), 0o644))

	output, err := executeRoot(t, "list", ".")
	require.NoError(t, err)

	assert.Contains(t, output, "greeting")
	assert.Contains(t, output, "readonly")
	assert.Contains(t, output, "count")
	assert.Contains(t, output, "mutable")

	// Listing never writes modules.
	_, statErr := os.Stat(filepath.Join(tempDir, "app.locals.ts"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestListCmd_ReportsEntryPointError(t *testing.T) {
	tempDir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "plain.ts"), []byte("const a = 1;\n"), 0o644))

	output, err := executeRoot(t, "list", ".")
	require.Error(t, err)
	assert.Contains(t, output, "no entry-point call found")
}

package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducesProgram(t *testing.T) {
	a := NewLocalScriptFileAdapter()

	prog, err := a.Parse(context.Background(), "app.ts", "const n = 1;\napp(() => n);\n")
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 2)
}

func TestParseErrorCarriesPathAndSnippet(t *testing.T) {
	a := NewLocalScriptFileAdapter()

	_, err := a.Parse(context.Background(), "broken.ts", "const = 1;\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.ts")
	assert.Contains(t, err.Error(), "^")
}

func TestParseHonorsCancelledContext(t *testing.T) {
	a := NewLocalScriptFileAdapter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Parse(ctx, "app.ts", "app(() => 1);\n")
	require.ErrorIs(t, err, context.Canceled)
}

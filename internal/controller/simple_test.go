package controller

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

func newTestUI() (*SimpleUI, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{Use: "test"}
	cmd.SetOut(out)

	return NewSimpleUI(cmd), out
}

func sampleSplit() m.Split {
	return m.Split{
		Script: m.Script{Path: "app.ts", Source: "const n = 1;\napp(() => n);\n"},
		Bindings: m.Bindings{
			{Name: "n", Mutable: false},
			{Name: "count", Mutable: true},
		},
		Locals: m.Module{
			Kind:   m.ModuleLocals,
			Path:   "app.locals.ts",
			Source: "const n = 1;\nexport default Object.seal({\n  n: n,\n});\n",
		},
		Main: m.Module{
			Kind:   m.ModuleMain,
			Path:   "app.main.ts",
			Source: "export default (locals) => () => (locals.n);\n",
		},
	}
}

func TestSimpleUIDisplayBindings(t *testing.T) {
	ui, out := newTestUI()

	err := ui.DisplayBindings(context.Background(), []m.Split{sampleSplit()}, nil)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "app.ts")
	assert.Contains(t, output, "n")
	assert.Contains(t, output, "readonly")
	assert.Contains(t, output, "mutable")
	assert.Contains(t, output, "TOTAL SCRIPTS 1")
	assert.Contains(t, output, "1 MUTABLE")
}

func TestSimpleUILifecycle(t *testing.T) {
	ui, out := newTestUI()
	ctx := context.Background()

	require.NoError(t, ui.Start(ctx))
	ui.Wait(ctx)
	ui.Close(ctx)
	assert.Empty(t, out.String())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.Error(t, ui.Start(cancelled))
}

func TestSimpleUIDisplayBindingsError(t *testing.T) {
	ui, out := newTestUI()

	splitErr := errors.New("boom")
	err := ui.DisplayBindings(context.Background(), nil, splitErr)

	require.ErrorIs(t, err, splitErr)
	assert.Contains(t, out.String(), "split error: boom")
}

func TestSimpleUIDisplayBuildSummary(t *testing.T) {
	ui, out := newTestUI()

	err := ui.DisplayBuildSummary(context.Background(), []m.Split{sampleSplit()})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "app.locals.ts")
	assert.Contains(t, output, "app.main.ts")
	assert.Contains(t, output, "2")
}

func TestSimpleUIDisplayDiff(t *testing.T) {
	ui, out := newTestUI()

	err := ui.DisplayDiff(context.Background(), sampleSplit())
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "--- app.ts")
	assert.Contains(t, output, "+++ app.locals.ts")
	assert.Contains(t, output, "+++ app.main.ts")
	assert.Contains(t, output, "+export default (locals) => () => (locals.n);")
}

func TestSimpleUIRespectsCancelledContext(t *testing.T) {
	ui, out := newTestUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, ui.DisplayBindings(ctx, nil, nil))
	require.Error(t, ui.DisplayBuildSummary(ctx, nil))
	ui.DisplayBuildError(ctx, "app.ts", errors.New("boom"))

	assert.Empty(t, out.String())
}

func TestWatchModelApplyRebuild(t *testing.T) {
	wm := newWatchModel("app.ts", 0, nil)

	// Unchanged polls leave the model alone.
	wm = wm.applyRebuild(rebuildDoneMsg{changed: false})
	assert.Equal(t, watchIdle, wm.status)
	assert.Equal(t, 0, wm.builds)

	wm = wm.applyRebuild(rebuildDoneMsg{split: sampleSplit(), changed: true})
	assert.Equal(t, watchOK, wm.status)
	assert.Equal(t, 1, wm.builds)
	assert.Equal(t, 2, wm.bindings)

	wm = wm.applyRebuild(rebuildDoneMsg{changed: true, err: errors.New("parse error")})
	assert.Equal(t, watchFailed, wm.status)
	assert.Equal(t, "parse error", wm.errText)
	assert.Equal(t, 2, wm.builds)
}

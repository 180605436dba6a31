package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayBindings prints the captured bindings of each split, or the error
// that prevented splitting.
func (s *SimpleUI) DisplayBindings(ctx context.Context, splits []m.Split, err error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err != nil {
		s.printf("split error: %v\n", err)
		return err
	}

	s.printf("\n%s", renderBindingsTable(splits))

	return nil
}

func renderBindingsTable(splits []m.Split) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Script", "Binding", "Access"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	totalBindings := 0
	mutableBindings := 0

	for _, split := range splits {
		for _, binding := range split.Bindings {
			table.Append([]string{string(split.Script.Path), binding.Name, accessLabel(binding)})

			totalBindings++
		}

		mutableBindings += split.Bindings.CountMutable()
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Scripts %d", len(splits)),
		fmt.Sprintf("%d", totalBindings),
		fmt.Sprintf("%d mutable", mutableBindings),
	})

	table.Render()

	return tableBuffer.String()
}

func accessLabel(binding m.Binding) string {
	if binding.Mutable {
		return "mutable"
	}

	return "readonly"
}

// DisplayBuildSummary prints one row per compiled script with its emitted
// module paths and binding count.
func (s *SimpleUI) DisplayBuildSummary(ctx context.Context, splits []m.Split) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Source", "Locals", "Main", "Bindings"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
	})

	totalBindings := 0

	for _, split := range splits {
		table.Append([]string{
			string(split.Script.Path),
			string(split.Locals.Path),
			string(split.Main.Path),
			fmt.Sprintf("%d", len(split.Bindings)),
		})

		totalBindings += len(split.Bindings)
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Scripts %d", len(splits)),
		"",
		"",
		fmt.Sprintf("%d", totalBindings),
	})

	table.Render()

	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplayDiff prints unified diffs from the original script to both emitted
// modules.
func (s *SimpleUI) DisplayDiff(ctx context.Context, split m.Split) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, mod := range []m.Module{split.Locals, split.Main} {
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(split.Script.Source),
			B:        difflib.SplitLines(mod.Source),
			FromFile: string(split.Script.Path),
			ToFile:   string(mod.Path),
			Context:  3,
		})
		if err != nil {
			return fmt.Errorf("failed to diff %s: %w", mod.Path, err)
		}

		s.printf("%s\n", text)
	}

	return nil
}

// DisplayBuildError reports a failed script without stopping the UI.
func (s *SimpleUI) DisplayBuildError(ctx context.Context, path m.Path, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return
	}

	s.printf("Failed %s: %v\n", path, err)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

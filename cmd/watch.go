package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hotsplit.dev/pkg/hotsplit/internal/controller"
	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <script>",
		Short: "Recompile a script whenever it changes",
		Long: `Poll the script's content hash and rebuild its locals/main module pair
on every change. Runs an interactive status view when attached to a
terminal, otherwise prints one line per rebuild.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt)
			defer stop()

			script := m.Path(args[0])
			interval := viper.GetDuration(watchIntervalKey)
			rebuild := newRebuildFunc(script)

			if controller.IsTTY(os.Stdout) {
				tui := controller.NewWatchTUI(c.OutOrStdout(), script, interval, rebuild)
				return tui.Run(ctx)
			}

			return watchPlain(ctx, c, script, interval, rebuild)
		},
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// newRebuildFunc compiles script when its content hash moved since the last
// call and writes the emitted modules.
func newRebuildFunc(script m.Path) controller.RebuildFunc {
	w := newWorkflow()
	lastHash := ""

	return func(ctx context.Context) (m.Split, bool, error) {
		scripts, err := w.DiscoverScripts(script, false)
		if err != nil {
			return m.Split{}, true, err
		}

		if len(scripts) == 0 {
			return m.Split{}, true, fmt.Errorf("no script at %s", script)
		}

		if scripts[0].Hash == lastHash {
			return m.Split{}, false, nil
		}

		lastHash = scripts[0].Hash

		splits, err := w.BuildAll(ctx, scripts, 1)
		if err != nil {
			return m.Split{}, true, err
		}

		rebaseSplits(splits, viper.GetString(outputFlagName))

		if err := w.WriteSplits(splits); err != nil {
			return m.Split{}, true, err
		}

		return splits[0], true, nil
	}
}

func watchPlain(ctx context.Context, c *cobra.Command, script m.Path, interval time.Duration, rebuild controller.RebuildFunc) error {
	fmt.Fprintf(c.OutOrStdout(), "watching %s (interval %s)\n", script, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		split, changed, err := rebuild(ctx)

		switch {
		case err != nil:
			fmt.Fprintf(c.OutOrStdout(), "FAIL %s: %v\n", script, err)
		case changed:
			fmt.Fprintf(c.OutOrStdout(), "OK %s -> %s, %s (%d bindings)\n",
				script, split.Locals.Path, split.Main.Path, len(split.Bindings))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

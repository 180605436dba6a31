package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hotsplit.dev/pkg/hotsplit/internal/domain"
	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

var buildParallelFlag int
var buildDiffFlag bool

// buildCmd represents the build command.
var buildCmd = newBuildCmd()

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Split scripts into locals and main module pairs",
		Long:  buildLongDescription,
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()

			if err := ui.Start(ctx); err != nil {
				return err
			}
			defer ui.Close(ctx)

			w := newWorkflow()

			scripts, err := discoverScripts(w, args)
			if err != nil {
				return err
			}

			splits, err := w.BuildAll(ctx, scripts, viper.GetInt(buildParallelConfigKey))
			if err != nil {
				return err
			}

			outputDir := viper.GetString(outputFlagName)
			rebaseSplits(splits, outputDir)

			if buildDiffFlag {
				// Dry run: show what would be emitted, write nothing.
				for _, split := range splits {
					if err := ui.DisplayDiff(ctx, split); err != nil {
						return err
					}
				}

				return nil
			}

			if outputDir != "" {
				if err := os.MkdirAll(outputDir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			if err := w.WriteSplits(splits); err != nil {
				return err
			}

			if err := w.SaveManifest(manifestPath(), splits); err != nil {
				return err
			}

			if err := ui.DisplayBuildSummary(ctx, splits); err != nil {
				return err
			}

			ui.Wait(ctx)

			return nil
		},
	}

	configureBuildFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func configureBuildFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&buildParallelFlag, buildParallelFlagName, "p", viper.GetInt(buildParallelConfigKey), "number of scripts to compile in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(buildParallelFlagName), buildParallelConfigKey)
	cmd.Flags().BoolVar(&buildDiffFlag, buildDiffFlagName, false, "print unified diffs instead of writing modules")
}

// discoverScripts loads every candidate script under the given paths,
// defaulting to the current directory.
func discoverScripts(w domain.Workflow, args []string) ([]m.Script, error) {
	paths := parsePaths(args)
	if len(paths) == 0 {
		paths = []m.Path{m.Path(".")}
	}

	recursive := viper.GetBool(recursiveFlagName)

	var scripts []m.Script

	for _, path := range paths {
		found, err := w.DiscoverScripts(path, recursive)
		if err != nil {
			return nil, err
		}

		scripts = append(scripts, found...)
	}

	return scripts, nil
}

// rebaseSplits points the emitted module paths into dir when set. By default
// modules land alongside their source scripts.
func rebaseSplits(splits []m.Split, dir string) {
	if dir == "" {
		return
	}

	for i := range splits {
		splits[i].Locals.Path = fsAdapter.JoinPath(dir, filepath.Base(string(splits[i].Locals.Path)))
		splits[i].Main.Path = fsAdapter.JoinPath(dir, filepath.Base(string(splits[i].Main.Path)))
	}
}

func manifestPath() m.Path {
	name := viper.GetString(manifestFlagName)

	if dir := viper.GetString(outputFlagName); dir != "" {
		return fsAdapter.JoinPath(dir, name)
	}

	return m.Path(name)
}

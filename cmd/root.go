// Package cmd provides the root command and CLI setup for hotsplit.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"hotsplit.dev/pkg/hotsplit/internal/adapter"
	"hotsplit.dev/pkg/hotsplit/internal/controller"
	"hotsplit.dev/pkg/hotsplit/internal/domain"
	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

// Defaults for the configurable entry call and locals parameter names.
const (
	defaultEntryName  = domain.DefaultEntryName
	defaultLocalsName = domain.DefaultLocalsName
)

var scriptAdapter adapter.ScriptFileAdapter
var fsAdapter adapter.SourceFSAdapter
var manifestStore adapter.ManifestStore
var ui controller.UI

// outputDirFlag is a root-level flag shared by commands that write modules.
var outputDirFlag string

// entryFlag names the identifier the entry-point locator scans for.
var entryFlag string

// localsNameFlag names the injected locals parameter in emitted main modules.
var localsNameFlag string

// recursiveFlag controls whether directory scans descend into subdirectories.
var recursiveFlag bool

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewSimpleUI(rootCmd)
	scriptAdapter = adapter.NewLocalScriptFileAdapter()
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	manifestStore = adapter.NewLocalManifestStore()
}

// newSplitter builds a splitter honoring the entry/locals-name settings,
// which are only final once flags and config have been parsed.
func newSplitter() domain.Splitter {
	return domain.NewSplitter(scriptAdapter,
		domain.WithEntryName(viper.GetString(entryFlagName)),
		domain.WithLocalsName(viper.GetString(localsNameFlagName)),
	)
}

func newWorkflow() domain.Workflow {
	return domain.NewWorkflow(fsAdapter, manifestStore, newSplitter())
}

const rootLongDescription = `Hotsplit is a source-to-source compiler that splits a typed script into
two modules: a locals module holding the script's top-level state behind a
sealed accessor object, and a main module exporting the entry handler with
captured references routed through an injected locals parameter. Swapping
the main module preserves the state living in the locals module.`

const buildLongDescription = `Compile the given scripts (or every script under the given directories)
into <name>.locals.<ext> and <name>.main.<ext> module pairs, then record
a build manifest.`

const listLongDescription = `Parse the given scripts and list the top-level bindings each entry
handler captures, without writing any output files.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hotsplit",
		Short: "Script splitting compiler for hot-swappable modules",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for emitted modules (default: alongside each source)",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVar(&entryFlag, entryFlagName, viper.GetString(entryFlagName), "identifier the entry-point call must be rooted at")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(entryFlagName), entryFlagName)

	cmd.PersistentFlags().StringVar(&localsNameFlag, localsNameFlagName, viper.GetString(localsNameFlagName), "parameter name injected into emitted main modules")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(localsNameFlagName), localsNameFlagName)

	cmd.PersistentFlags().BoolVarP(&recursiveFlag, recursiveFlagName, "r", viper.GetBool(recursiveFlagName), "recurse into subdirectories when scanning")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(recursiveFlagName), recursiveFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

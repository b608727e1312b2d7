// Package main implements the dimasbt CLI, an operator's front end for
// the behavior-tree engine.
//
// Command implementations are split across cmd_*.go files:
//
//   - main.go         - entry point, rootCmd, global flags, init()
//   - cmd_run.go      - runCmd: drive a tree through the agent shell
//   - cmd_validate.go - validateCmd: build a tree and report its structure
//   - cmd_describe.go - describeCmd: render registered behavior manifests
//   - cmd_watch.go    - watchCmd: live TUI with XML hot-reload
//   - registry.go     - shared registry construction and leaf behaviors
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dimasbt/internal/config"
	"dimasbt/internal/logging"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dimasbt",
	Short: "dimasbt - reactive behavior-tree execution engine",
	Long: `dimasbt builds behavior trees from XML descriptions and drives them
through an operational-state lifecycle.

Trees are described in the BTCPP v4 XML dialect, constructed against a
registry of built-in composites, decorators and leaf behaviors, and
ticked until the root reports completion.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		path := configPath
		if path == "" {
			path = filepath.Join(ws, ".dimasbt", "config.yaml")
		}
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}

		if err := logging.Initialize(ws, cfg.Logging.DebugMode); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize file logging: %v\n", err)
		}
		if cfg.Logging.DebugMode {
			if err := logging.InitAudit(ws); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to initialize audit stream: %v\n", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAudit()
		logging.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <workspace>/.dimasbt/config.yaml)")

	validateCmd.Flags().BoolVar(&dumpBlackboard, "dump-blackboard", false, "Print the root blackboard's key/type table after construction")

	rootCmd.AddCommand(
		runCmd,
		validateCmd,
		describeCmd,
		watchCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

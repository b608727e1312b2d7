package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dimasbt/internal/agent"
	"dimasbt/internal/ui"
	"dimasbt/internal/xmlfactory"
)

// runCmd drives a tree from an XML file through the agent shell: the
// agent is managed up to Active, which starts the tick loop, and back
// down to Created on completion or on SIGINT/SIGTERM.
var runCmd = &cobra.Command{
	Use:   "run <tree.xml>",
	Short: "Build a tree from XML and tick it until completion",
	Long: `Builds a behavior tree from the given XML file and drives it through
the operational-state lifecycle: the agent steps up to Active (starting
the tick loop), runs until the root completes or a shutdown signal
arrives, then steps back down to Created.

Example:
  dimasbt run examples/patrol.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func runTree(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger.Info("Building tree", zap.String("file", path))

	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	factory := xmlfactory.New(registry)
	bt, err := buildFromFile(factory, path)
	if err != nil {
		return err
	}

	a := agent.New(path, bt, cfg.Agent.TickInterval)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := a.Run(ctx, cfg.Agent.ShutdownGrace); err != nil {
		return err
	}

	status := a.Status()
	logger.Info("Tree completed", zap.String("status", status.String()))
	fmt.Println(ui.StatusString(status))
	return nil
}

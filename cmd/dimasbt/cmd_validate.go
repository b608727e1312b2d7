package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dimasbt/internal/blackboard"
	"dimasbt/internal/ui"
	"dimasbt/internal/xmlfactory"
)

var dumpBlackboard bool

// validateCmd builds a tree from XML without ticking it, reporting the
// resulting structure or the first construction error.
var validateCmd = &cobra.Command{
	Use:   "validate <tree.xml>",
	Short: "Build a tree from XML and report its structure",
	Long: `Runs the full two-pass XML construction (canonicalization, definition
extraction, subtree expansion with loop detection, port ingestion) and
prints the resulting node hierarchy without ticking anything.

Example:
  dimasbt validate examples/patrol.xml --dump-blackboard`,
	Args: cobra.ExactArgs(1),
	RunE: validateTree,
}

func validateTree(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger.Info("Validating tree", zap.String("file", path))

	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	factory := xmlfactory.New(registry)
	bt, err := buildFromFile(factory, path)
	if err != nil {
		return err
	}

	fmt.Printf("%s: OK\n\n", path)
	fmt.Print(ui.RenderTree(bt.Root()))

	if dumpBlackboard {
		fmt.Println()
		dumpScope(bt.Root().Config().Blackboard)
	}
	return nil
}

// dumpScope prints the root scope's local key/type table, sorted by key.
func dumpScope(bb *blackboard.Blackboard) {
	dump := bb.Dump()
	if len(dump) == 0 {
		fmt.Println("blackboard: (empty)")
		return
	}
	keys := make([]string, 0, len(dump))
	for k := range dump {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Println("blackboard:")
	for _, k := range keys {
		fmt.Printf("  %s (%s) = %v\n", k, dump[k].TypeName(), dump[k].Value())
	}
}

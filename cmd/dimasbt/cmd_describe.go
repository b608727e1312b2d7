package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"dimasbt/internal/behavior"
)

// describeCmd renders a registered behavior's manifest, or lists every
// registration when no id is given.
var describeCmd = &cobra.Command{
	Use:   "describe [id]",
	Short: "Show a registered behavior's manifest",
	Long: `Shows the category, declared ports and description of a behavior
registered under the given id. Without an id, lists every registration.

Examples:
  dimasbt describe
  dimasbt describe Parallel`,
	Args: cobra.MaximumNArgs(1),
	RunE: describeBehavior,
}

func describeBehavior(cmd *cobra.Command, args []string) error {
	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		ids := registry.IDs()
		sort.Strings(ids)
		for _, id := range ids {
			m, _, _ := registry.Lookup(id)
			fmt.Printf("%-24s %s\n", id, m.Category)
		}
		return nil
	}

	id := args[0]
	m, _, ok := registry.Lookup(id)
	if !ok {
		return fmt.Errorf("no behavior registered under %q", id)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}
	out, err := renderer.Render(manifestMarkdown(m))
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// manifestMarkdown formats a manifest as the markdown document describe
// renders.
func manifestMarkdown(m *behavior.Manifest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n*%s*\n\n%s\n", m.RegistrationID, m.Category, m.Description)
	if names := m.Ports.Names(); len(names) > 0 {
		sb.WriteString("\n## Ports\n\n")
		for _, n := range names {
			fmt.Fprintf(&sb, "- `%s`\n", n)
		}
	}
	return sb.String()
}

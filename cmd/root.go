// Package cmd wires the weaver CLI: the weave run itself plus small
// inspection commands around the story store.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the weaver command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "weaver",
		Short:        "Weave fictional narratives by cycling LLM-backed roles",
		Long:         "Weaver drives four text-generation roles (narrator, world simulator, character, editor) through a fixed number of iterations and compiles their accumulated outputs into a story.",
		SilenceUsage: true,
	}

	root.AddCommand(NewWeaveCmd())
	root.AddCommand(NewCheckpointsCmd())
	root.AddCommand(NewVersionCmd())
	return root
}

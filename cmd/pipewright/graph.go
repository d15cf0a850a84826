package main

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/pipewright/internal/compiler"
	"github.com/aretw0/pipewright/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [definition]",
	Short: "Export the pipeline graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of a pipeline definition file, or of a stored
document when --name is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		return runGraph(cmd.Context(), cmd.OutOrStdout(), args, name)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("name", "", "graph a stored document instead of a file")
}

func runGraph(ctx context.Context, w io.Writer, args []string, name string) error {
	if name != "" {
		engine, closeStore, err := newEngine(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		out, err := engine.Graph(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("a definition file or --name is required")
	}
	p, err := compiler.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(w, graph.GenerateMermaid(p))
	return nil
}

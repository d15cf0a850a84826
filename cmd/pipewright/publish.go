package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/pipewright/internal/compiler"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish <name> <definition>",
	Short: "Compile a definition and store it under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd.Context(), cmd.OutOrStdout(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(ctx context.Context, w io.Writer, name, path string) error {
	p, err := compiler.Load(path)
	if err != nil {
		return err
	}

	engine, closeStore, err := newEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	doc, err := engine.Publish(ctx, name, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Published '%s' (%d stages, %d jobs) compiled at %s\n",
		doc.Name, len(p.Stages), p.JobCount(), doc.CompiledAt.Format(time.RFC3339))
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/pipewright/internal/compiler"
	"github.com/aretw0/pipewright/pkg/dsl"
	"github.com/spf13/cobra"
)

var errValidation = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate <definition>...",
	Short: "Check that definitions compile",
	Long:  `Loads each definition and compiles it, reporting parse errors and incomplete parts.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(w io.Writer, paths []string) error {
	failed := 0
	for _, path := range paths {
		p, err := compiler.Load(path)
		if err == nil {
			_, err = dsl.FromPipeline(p, dsl.WithLogger(logger)).Compile()
		}
		if err != nil {
			fmt.Fprintf(w, "✗ %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "✓ %s (%d stages, %d jobs)\n", path, len(p.Stages), p.JobCount())
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d definitions", errValidation, failed, len(paths))
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aretw0/pipewright/internal/compiler"
	"github.com/aretw0/pipewright/internal/presentation/tui"
	"github.com/aretw0/pipewright/pkg/adapters/file"
	"github.com/aretw0/pipewright/pkg/dsl"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	output  string
	summary bool
}

var renderCmd = &cobra.Command{
	Use:   "render <definition>",
	Short: "Compile a definition file and print the document",
	Long: `Loads a YAML (.yml, .yaml) or HCL (.hcl) pipeline definition, replays it through the
builder and prints the compiled document. Use -o to write it to a file instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		summary, _ := cmd.Flags().GetBool("summary")
		return runRender(cmd.OutOrStdout(), args[0], renderOptions{output: output, summary: summary})
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("output", "o", "", "write the document to this file")
	renderCmd.Flags().Bool("summary", false, "print a summary box before the document")
}

func runRender(w io.Writer, path string, opts renderOptions) error {
	p, err := compiler.Load(path)
	if err != nil {
		return err
	}
	text, err := dsl.FromPipeline(p, dsl.WithLogger(logger)).Compile()
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", path, err)
	}

	if opts.summary {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		fmt.Fprintln(w, tui.Summary(name, p))
	}

	if opts.output != "" {
		if err := file.WriteFile(opts.output, text); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %s\n", opts.output)
		return nil
	}

	out, err := tui.NewRenderer()(text)
	if err != nil {
		return err
	}
	fmt.Fprint(w, out)
	return nil
}

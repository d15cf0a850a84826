package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/aretw0/pipewright/pkg/dsl"
	"github.com/aretw0/pipewright/pkg/flat"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Build the sample pipelines with both builders",
	Long: `Builds an Azure-Pipelines style document with the staged builder and a two-job
document with the flat builder. With --dir the documents are written to
<dir>/azure-pipelines.yml and <dir>/flat-pipeline.yml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		return runDemo(cmd.OutOrStdout(), dir)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringP("dir", "d", "", "write the documents into this directory")
}

func azurePipeline() *dsl.Global {
	return dsl.New(dsl.WithLogger(logger)).
		Trigger("main").
		Pool("rust_meetup", func(p *domain.Pool) { p.Image("ubuntu:latest") }).
		Stage("Create Artifact", func(s *domain.Stage) {
			s.AddJob(domain.NewJob("Compile"))
			s.AddJob(domain.NewJob("Test"))
			s.AddJob(domain.NewJob("Apply DB Migrations"))
		}).
		Done()
}

func flatPipeline() *flat.Global {
	return flat.New(flat.WithLogger(logger)).
		Job().Echo("Job 1").Done().
		Job().Echo("Job 2").Done()
}

func runDemo(w io.Writer, dir string) error {
	if dir != "" {
		azurePath := filepath.Join(dir, "azure-pipelines.yml")
		if err := azurePipeline().WriteToFile(azurePath); err != nil {
			return err
		}
		flatPath := filepath.Join(dir, "flat-pipeline.yml")
		if err := flatPipeline().WriteToFile(flatPath); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %s\nWrote %s\n", azurePath, flatPath)
		return nil
	}

	azure, err := azurePipeline().Compile()
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	text, err := flatPipeline().Text()
	if err != nil {
		return fmt.Errorf("failed to build flat pipeline: %w", err)
	}

	fmt.Fprintln(w, "# staged builder")
	fmt.Fprint(w, azure)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# flat builder")
	fmt.Fprint(w, text)
	return nil
}

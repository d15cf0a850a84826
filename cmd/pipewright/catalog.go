package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored documents",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd.Context(), cmd.OutOrStdout())
	},
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return runShow(cmd.Context(), cmd.OutOrStdout(), args[0], asJSON)
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <name>...",
	Aliases: []string{"rm"},
	Short:   "Remove one or more stored documents",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDelete(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	showCmd.Flags().Bool("json", false, "print the stored record as JSON")
}

func runList(ctx context.Context, w io.Writer) error {
	engine, closeStore, err := newEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	names, err := engine.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if len(names) == 0 {
		fmt.Fprintln(w, "No documents found.")
		return nil
	}
	fmt.Fprintln(w, "Documents:")
	for _, name := range names {
		fmt.Fprintln(w, "- "+name)
	}
	return nil
}

func runShow(ctx context.Context, w io.Writer, name string, asJSON bool) error {
	engine, closeStore, err := newEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	doc, err := engine.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to load '%s': %w", name, err)
	}
	if !asJSON {
		fmt.Fprint(w, doc.Text)
		return nil
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func runDelete(ctx context.Context, w io.Writer, names []string) error {
	engine, closeStore, err := newEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var errs []error
	for _, name := range names {
		if err := engine.Delete(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove '%s': %w", name, err))
			continue
		}
		fmt.Fprintf(w, "Removed '%s'\n", name)
	}
	return errors.Join(errs...)
}

package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/pipewright"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pipewright",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pipewright version %s\n", strings.TrimSpace(pipewright.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

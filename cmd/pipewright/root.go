package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/pipewright/internal/config"
	"github.com/aretw0/pipewright/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     = config.Default()
	logger  = logging.NewNop()
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "pipewright",
	Short: "Pipewright builds CI pipeline documents",
	Long: `Pipewright compiles pipeline definitions (YAML or HCL) into Azure-Pipelines style
documents, stores them, and serves them over HTTP or MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/pipewright/pipewright.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("backend", "", "document store backend: memory, file, redis or sqlite")

	_ = v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("store.backend", rootCmd.PersistentFlags().Lookup("backend"))
}

func loadConfig() error {
	if err := config.Init(v, cfgFile); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	c, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return err
	}

	cfg = c
	logger = logging.New(level)
	slog.SetDefault(logger)
	return nil
}

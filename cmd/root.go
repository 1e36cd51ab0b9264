package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rotar1/rota/internal/app"
	"github.com/rotar1/rota/internal/config"
	"github.com/rotar1/rota/internal/logging"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rota",
	Short: "Residency exam question bank",
	Long: `rota is a terminal study tool for medical residency (R1) exams.

Browse the question bank, answer questions, keep favorites and notes, follow
per-area accuracy and take simulated exams. Progress is stored locally in
SQLite by default, or in Redis.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/rota/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ROTA_DB env var)")
	rootCmd.PersistentFlags().String("backend", "", "Storage backend: sqlite, redis or memory (overrides ROTA_STORAGE)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(examCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration, applies flag overrides and builds the
// logger. Flags take precedence over the environment and the config file.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		c.Storage.Path = db
	}
	if b, _ := cmd.Flags().GetString("backend"); b != "" {
		c.Storage.Backend = b
	}
	if err := c.Validate(); err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	l, err := logging.New(c.Logging, verbose)
	if err != nil {
		return err
	}

	cfg, logger = c, l
	logger.Debug("config loaded",
		zap.String("path", path),
		zap.String("backend", cfg.Storage.Backend),
		zap.String("key", cfg.Storage.Key))
	return nil
}

// openApp opens the configured store and question state.
func openApp(cmd *cobra.Command) (*app.App, error) {
	a, err := app.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open app: %w", err)
	}
	return a, nil
}

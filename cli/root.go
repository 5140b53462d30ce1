package cli

import (
	"fmt"

	"github.com/equipsight/equipsight/pkg/config"
	"github.com/equipsight/equipsight/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// RootCmd builds the equipsight command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "equipsight",
		Short:         "Chemical equipment parameter visualizer",
		Long:          "EquipSight stores equipment CSV uploads and serves summary statistics,\nPDF reports, and a terminal dashboard.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadEnvFile(cmd); err != nil {
				return err
			}
			logLevel, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
			if err != nil {
				return err
			}
			logger.SetupLogger(logLevel, logJSON, logSource)
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "path to a YAML configuration file")
	root.PersistentFlags().String("env-file", "", "path to a .env file to load before reading configuration")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "emit logs as JSON")
	root.PersistentFlags().Bool("log-source", false, "include source locations in logs")

	root.AddCommand(
		ServeCmd(),
		MigrateCmd(),
		DashboardCmd(),
		VersionCmd(),
	)
	return root
}

// loadEnvFile loads an explicitly requested .env file, or .env from the
// working directory when present.
func loadEnvFile(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
	// A missing default .env is not an error.
	_ = godotenv.Load()
	return nil
}

// loadConfig reads the configuration honoring the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	return config.Load(path)
}

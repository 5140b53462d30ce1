package cli

import (
	"fmt"

	"github.com/equipsight/equipsight/cli/api"
	"github.com/equipsight/equipsight/cli/tui"
	"github.com/equipsight/equipsight/pkg/logger"
	"github.com/spf13/cobra"
)

// DashboardCmd starts the terminal dashboard.
func DashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive terminal dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if baseURL, err := cmd.Flags().GetString("base-url"); err == nil && baseURL != "" {
				cfg.CLI.BaseURL = baseURL
			}
			client, err := api.NewClient(cfg)
			if err != nil {
				return fmt.Errorf("failed to create API client: %w", err)
			}
			ctx := logger.ContextWithLogger(cmd.Context(), logger.GetDefault())
			return tui.Run(ctx, client)
		},
	}
	cmd.Flags().String("base-url", "", "override the configured API base URL")
	return cmd
}

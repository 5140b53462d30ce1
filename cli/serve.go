package cli

import (
	"fmt"

	"github.com/equipsight/equipsight/engine/infra/server"
	"github.com/equipsight/equipsight/pkg/logger"
	"github.com/spf13/cobra"
)

// ServeCmd runs the HTTP API server until interrupted.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the EquipSight API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if port, err := cmd.Flags().GetInt("port"); err == nil && port > 0 {
				cfg.Server.Port = port
			}
			if cors, err := cmd.Flags().GetBool("cors"); err == nil && cmd.Flags().Changed("cors") {
				cfg.Server.CORSEnabled = cors
			}
			ctx := logger.ContextWithLogger(cmd.Context(), logger.GetDefault())
			srv, err := server.NewServer(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}
			return srv.Run(ctx)
		},
	}
	cmd.Flags().Int("port", 0, "override the configured server port")
	cmd.Flags().Bool("cors", false, "enable CORS")
	return cmd
}

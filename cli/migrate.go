package cli

import (
	"fmt"

	"github.com/equipsight/equipsight/engine/infra/postgres"
	"github.com/equipsight/equipsight/pkg/config"
	"github.com/equipsight/equipsight/pkg/logger"
	"github.com/spf13/cobra"
)

// MigrateCmd applies the embedded database migrations and exits.
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := logger.ContextWithLogger(cmd.Context(), logger.GetDefault())
			log := logger.FromContext(ctx)
			dsn := migrationDSN(cfg)
			log.Info("Applying migrations", "database", cfg.Database.DBName)
			if err := postgres.ApplyMigrationsWithLock(ctx, dsn); err != nil {
				return fmt.Errorf("migrations failed: %w", err)
			}
			log.Info("Migrations applied")
			return nil
		},
	}
}

func migrationDSN(cfg *config.Config) string {
	pc := &postgres.Config{
		ConnString: cfg.Database.ConnString,
		Host:       cfg.Database.Host,
		Port:       cfg.Database.Port,
		User:       cfg.Database.User,
		Password:   cfg.Database.Password.Value(),
		DBName:     cfg.Database.DBName,
		SSLMode:    cfg.Database.SSLMode,
	}
	return pc.DSN()
}

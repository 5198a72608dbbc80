package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/internal/bootstrap"
	"github.com/lojaweb/storefront-api/internal/storage/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := bootstrap.OpenSQL(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := postgres.Migrate(cmd.Context(), db)
			if err != nil {
				return err
			}
			log.Info("migrations applied", zap.Strings("files", applied), zap.Int("count", len(applied)))
			return nil
		},
	}
}

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	catalogservice "github.com/lojaweb/storefront-api/internal/catalog/service"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Create or update catalog products from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			items, err := catalogservice.LoadSeed(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			e, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			res, err := e.services.Products.Import(cmd.Context(), items)
			if err != nil {
				return err
			}
			log.Info("catalog seeded", zap.Int("created", res.Created), zap.Int("updated", res.Updated))
			return nil
		},
	}
}

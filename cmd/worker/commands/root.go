// Package commands implements the storefront maintenance CLI.
package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/config"
	"github.com/lojaweb/storefront-api/internal/bootstrap"
	"github.com/lojaweb/storefront-api/internal/logging"
)

var (
	cfg *config.Config
	log *zap.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:           "worker",
		Short:         "Storefront maintenance: migrations, seeding and scheduled jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			log, err = logging.New(cfg.App.Environment, cfg.App.LogLevel)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}

	root.AddCommand(migrateCmd(), seedCmd(), runCmd(), scheduleCmd())

	err := root.Execute()
	if err != nil {
		if log != nil {
			log.Error("worker failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
	return err
}

// env is what the data commands need. close releases it.
type env struct {
	db       *sql.DB
	redis    *redis.Client
	services *bootstrap.Services
}

func (e *env) close() {
	if e.redis != nil {
		e.redis.Close()
	}
	if e.db != nil {
		e.db.Close()
	}
}

func openServices(ctx context.Context) (*env, error) {
	db, err := bootstrap.OpenSQL(&cfg.Database)
	if err != nil {
		return nil, err
	}
	e := &env{db: db}

	if e.redis, err = bootstrap.OpenRedis(ctx, &cfg.Redis); err != nil {
		e.close()
		return nil, err
	}
	if e.services, err = bootstrap.NewServices(ctx, cfg, bootstrap.Deps{SQL: db, Redis: e.redis, Log: log}); err != nil {
		e.close()
		return nil, err
	}
	return e, nil
}

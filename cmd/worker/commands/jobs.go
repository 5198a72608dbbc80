package commands

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lojaweb/storefront-api/internal/jobs"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <job>",
		Short: fmt.Sprintf("Run one job now (%s)", strings.Join([]string{jobs.RatingsJob, jobs.StaleOrdersJob}, ", ")),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			j, ok := jobs.Find(e.services.Jobs, args[0])
			if !ok {
				return fmt.Errorf("unknown job %q", args[0])
			}
			return jobs.RunOnce(cmd.Context(), log, j)
		},
	}
}

func scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the jobs on their cron schedules until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			s := jobs.NewScheduler(log, e.services.Jobs...)
			if err := s.Start(); err != nil {
				return err
			}
			log.Info("scheduler running")
			<-ctx.Done()

			sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return s.Stop(sctx)
		},
	}
}

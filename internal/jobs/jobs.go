package jobs

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/internal/logging"
)

const (
	RatingsJob     = "ratings"
	StaleOrdersJob = "stale-orders"
)

type RatingRefresher interface {
	RefreshRatings(ctx context.Context) (int64, error)
}

type StaleOrderCanceller interface {
	CancelStale(ctx context.Context, age time.Duration) (int, error)
}

// Settings carry the schedule of each job. An empty spec disables that job.
type Settings struct {
	RatingsSpec     string
	StaleOrdersSpec string
	StaleOrderAge   time.Duration
}

// Catalog builds the storefront's jobs.
func Catalog(s Settings, ratings RatingRefresher, orders StaleOrderCanceller) []Job {
	return []Job{
		{
			Name: RatingsJob,
			Spec: s.RatingsSpec,
			Run: func(ctx context.Context) error {
				n, err := ratings.RefreshRatings(ctx)
				if err != nil {
					return fmt.Errorf("refresh ratings: %w", err)
				}
				logging.FromContext(ctx).Info("ratings refreshed", zap.Int64("products", n))
				return nil
			},
		},
		{
			Name: StaleOrdersJob,
			Spec: s.StaleOrdersSpec,
			Run: func(ctx context.Context) error {
				n, err := orders.CancelStale(ctx, s.StaleOrderAge)
				if err != nil {
					return fmt.Errorf("cancel stale orders: %w", err)
				}
				logging.FromContext(ctx).Info("stale orders cancelled",
					zap.Int("orders", n), zap.Duration("age", s.StaleOrderAge))
				return nil
			},
		},
	}
}

// Find returns the job with the given name.
func Find(jobs []Job, name string) (Job, bool) {
	i := slices.IndexFunc(jobs, func(j Job) bool { return j.Name == name })
	if i < 0 {
		return Job{}, false
	}
	return jobs[i], true
}

package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/servly/booking-api/internal/apiclient"
	"github.com/servly/booking-api/internal/store"
	"github.com/servly/booking-api/pkg/logger"
	"github.com/servly/booking-api/pkg/metrics"
)

type RefresherConfig struct {
	Interval time.Duration
}

// Refresher periodically re-syncs the store from the backend so state
// mutated by other sessions converges here.
type Refresher struct {
	client  *apiclient.Client
	store   *store.BookingStore
	config  RefresherConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewRefresher(
	client *apiclient.Client,
	s *store.BookingStore,
	config RefresherConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Refresher {
	if config.Interval <= 0 {
		panic("Interval must be greater than 0")
	}

	return &Refresher{
		client:  client,
		store:   s,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (r *Refresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	r.logger.Info("Starting backend refresher")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Shutting down backend refresher")
			return
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.logger.Error(err, "Failed to refresh from backend")
			}
		}
	}
}

// Refresh pulls every collection from the backend and swaps it into the
// store. A failure leaves the previous state intact.
func (r *Refresher) Refresh(ctx context.Context) error {
	started := time.Now()
	r.metrics.RefreshRuns.Inc()

	bookings, err := r.client.ListBookings(ctx)
	if err != nil {
		r.metrics.RefreshFailed.Inc()
		return fmt.Errorf("failed to list bookings: %w", err)
	}
	employees, err := r.client.ListEmployees(ctx)
	if err != nil {
		r.metrics.RefreshFailed.Inc()
		return fmt.Errorf("failed to list employees: %w", err)
	}
	services, err := r.client.ListServices(ctx)
	if err != nil {
		r.metrics.RefreshFailed.Inc()
		return fmt.Errorf("failed to list services: %w", err)
	}
	rows, err := r.client.ListEligibility(ctx)
	if err != nil {
		r.metrics.RefreshFailed.Inc()
		return fmt.Errorf("failed to list eligibility rows: %w", err)
	}

	if err := r.store.Load(bookings, employees, services, rows); err != nil {
		r.metrics.RefreshFailed.Inc()
		return fmt.Errorf("failed to load state: %w", err)
	}

	r.metrics.RefreshLatency.Observe(time.Since(started).Seconds())
	r.logger.Debug("Refreshed state from backend", "bookings", len(bookings))
	return nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/servly/booking-api/internal/apiclient"
	"github.com/servly/booking-api/internal/config"
	"github.com/servly/booking-api/internal/eligibility"
	"github.com/servly/booking-api/internal/handler"
	bookingHandler "github.com/servly/booking-api/internal/handler/booking"
	eligibilityHandler "github.com/servly/booking-api/internal/handler/eligibility"
	scheduleHandler "github.com/servly/booking-api/internal/handler/schedule"
	"github.com/servly/booking-api/internal/middleware"
	"github.com/servly/booking-api/internal/model"
	"github.com/servly/booking-api/internal/router"
	"github.com/servly/booking-api/internal/store"
	"github.com/servly/booking-api/internal/worker"
	"github.com/servly/booking-api/internal/workflow"
	"github.com/servly/booking-api/pkg/logger"
	"github.com/servly/booking-api/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	if err := model.RegisterValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register request validations")
	}

	// Initialize backend client
	client := apiclient.New(apiclient.Config{
		BaseURL: cfg.Backend.BaseURL,
		OrgID:   cfg.Backend.OrgID,
		Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
	})

	// Select transition policy
	var policy workflow.TransitionPolicy
	switch cfg.Workflow.Policy {
	case "graph":
		policy = workflow.DefaultGraph()
	case "unrestricted":
		policy = workflow.Unrestricted{}
	default:
		log.Fatal().Str("policy", cfg.Workflow.Policy).Msg("unknown workflow policy")
	}

	// Initialize core
	matrix := eligibility.NewMatrix()
	bookingStore := store.New(store.Config{OrgID: cfg.Backend.OrgID}, workflow.New(policy), matrix)

	appMetrics := metrics.NewMetrics("booking", "api")

	// Initial load; the refresher retries on its interval if this fails
	refresher := worker.NewRefresher(client, bookingStore, worker.RefresherConfig{
		Interval: time.Duration(cfg.Schedule.RefreshIntervalSeconds) * time.Second,
	}, appLogger.WithComponent("refresher"), appMetrics)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := refresher.Refresh(loadCtx); err != nil {
		log.Warn().Err(err).Msg("initial load from backend failed, starting empty")
	}
	cancelLoad()

	scheduleCache := cache.New(
		time.Duration(cfg.Schedule.CacheTTLSeconds)*time.Second,
		time.Duration(cfg.Schedule.CacheTTLSeconds)*2*time.Second,
	)

	// Initialize handlers
	h := handler.NewHandler()
	bookingH := bookingHandler.NewHandler(bookingStore, client, scheduleCache, appMetrics)
	scheduleH := scheduleHandler.NewHandler(bookingStore, scheduleCache, appMetrics)
	eligibilityH := eligibilityHandler.NewHandler(bookingStore, client, appMetrics)

	// Setup router
	r := router.NewRouter(bookingH, scheduleH, eligibilityH, h, router.Config{
		RateLimit:     rate.Limit(cfg.Rate.RPS),
		RateBurst:     cfg.Rate.Burst,
		Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "booking_api",
	})
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Start background refresh
	refreshCtx, cancelRefresh := context.WithCancel(context.Background())
	go refresher.Start(refreshCtx)

	// Start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	cancelRefresh()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

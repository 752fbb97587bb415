package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"orkg/internal/activities"
	"orkg/internal/config"
	"orkg/internal/graph"
	"orkg/internal/logging"
	"orkg/internal/metrics"
	"orkg/internal/storage"
	"orkg/internal/workflows"
)

func main() {
	_ = godotenv.Load(".env")
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	m := metrics.New()
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux(m), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("metrics server stopped", "addr", cfg.MetricsAddr, "error", err)
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress, Namespace: cfg.TemporalNamespace})
	if err != nil {
		logger.Fatalw("dial temporal", "error", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		logger.Fatalw("connect postgres", "error", err)
	}
	defer db.Close()
	curators := make([]graph.ContributorID, 0, len(cfg.Curators))
	for _, id := range cfg.Curators {
		curators = append(curators, graph.ContributorID(id))
	}
	if err := db.AddCurators(ctx, curators...); err != nil {
		logger.Fatalw("register curators", "error", err)
	}

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{})
	workflows.Register(w)
	activities.Register(w, activities.New(cfg, db, m, logger))

	logger.Infow("orkg worker listening",
		"temporal", cfg.TemporalAddress,
		"namespace", cfg.TemporalNamespace,
		"queue", cfg.TemporalTaskQueue,
		"metrics", cfg.MetricsAddr,
		"curators", len(curators),
	)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Errorw("worker stopped", "error", err)
	}
}

func metricsMux(m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

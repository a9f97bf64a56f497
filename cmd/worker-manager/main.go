// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"jobsearch-analytics/internal/analytics/historical"
	"jobsearch-analytics/internal/analytics/practice"
	"jobsearch-analytics/internal/analytics/preparation"
	"jobsearch-analytics/internal/analytics/report"
	"jobsearch-analytics/internal/analytics/responsetime"
	"jobsearch-analytics/internal/common/camunda"
	"jobsearch-analytics/internal/common/config"
	"jobsearch-analytics/internal/common/database"
	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/common/observability"
	"jobsearch-analytics/internal/common/validation"
	"jobsearch-analytics/internal/repository"
	"jobsearch-analytics/pkg/registry"

	bsr "jobsearch-analytics/internal/workers/analytics/build-success-report"
	prt "jobsearch-analytics/internal/workers/analytics/predict-response-time"
	shp "jobsearch-analytics/internal/workers/analytics/score-historical-performance"
	spr "jobsearch-analytics/internal/workers/analytics/score-practice-readiness"
	sp "jobsearch-analytics/internal/workers/analytics/score-preparation"
	sr "jobsearch-analytics/internal/workers/analytics/synthesize-recommendations"
	qp "jobsearch-analytics/internal/workers/data-access/query-postgresql"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(cfg.Camunda))
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	records := repository.NewPostgres(pg.DB)
	cohorts := buildCohortProvider(ctx, cfg, records, log, zapLog)

	// --- Activity registry & input schemas ---
	reg, err := registry.LoadRegistry(cfg.Analytics.RegistryPath)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.String("path", cfg.Analytics.RegistryPath), zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}
	validator, err := validation.NewSchemaValidator(reg)
	if err != nil {
		zapLog.Fatal("input schema compilation failed", zap.Error(err))
	}

	// --- Scoring services ---
	prepService := preparation.NewService(records, log)
	histService := historical.NewService(records, cfg.Analytics.TrendWindowMonths, log)
	pracService := practice.NewService(records, cfg.Analytics.PracticeWindow(), log)
	predictor := responsetime.NewPredictor(cohorts, log)
	builder := report.NewBuilder(prepService, histService, pracService, log)

	// --- Workers ---
	handlers := map[string]camunda.JobHandler{
		sp.TaskType: sp.NewHandler(
			sp.LoadConfig(config.GetWorkerConfig(cfg, sp.TaskType)),
			prepService, validator, obs, log,
		),
		shp.TaskType: shp.NewHandler(
			shp.LoadConfig(config.GetWorkerConfig(cfg, shp.TaskType)),
			histService, validator, obs, log,
		),
		spr.TaskType: spr.NewHandler(
			spr.LoadConfig(config.GetWorkerConfig(cfg, spr.TaskType)),
			pracService, validator, obs, log,
		),
		prt.TaskType: prt.NewHandler(
			prt.LoadConfig(config.GetWorkerConfig(cfg, prt.TaskType)),
			records, predictor, validator, obs, log,
		),
		sr.TaskType: sr.NewHandler(
			sr.LoadConfig(config.GetWorkerConfig(cfg, sr.TaskType)),
			validator, obs, log,
		),
		bsr.TaskType: bsr.NewHandler(
			bsr.LoadConfig(config.GetWorkerConfig(cfg, bsr.TaskType)),
			builder, validator, obs, log,
		),
		qp.TaskType: qp.NewHandler(
			qp.LoadConfig(config.GetWorkerConfig(cfg, qp.TaskType), cfg.Analytics),
			records, cohorts, validator, obs, log,
		),
	}

	var jobWorkers []worker.JobWorker
	for taskType, handler := range handlers {
		if _, ok := reg.Lookup(taskType); !ok {
			zapLog.Warn("task type missing from activity registry", zap.String("taskType", taskType))
		}
		w := camunda.StartWorker(zeebe.GetClient(), taskType, config.GetWorkerConfig(cfg, taskType), handler, obs, log)
		if w != nil {
			jobWorkers = append(jobWorkers, w)
		}
	}
	zapLog.Info("workers registered", zap.Int("count", len(jobWorkers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{"zeebe": "ok", "postgres": "ok"}
		status := http.StatusOK
		if err := zeebe.HealthCheck(checkCtx); err != nil {
			checks["zeebe"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := pg.Ping(checkCtx); err != nil {
			checks["postgres"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		checks["time"] = time.Now().Format(time.RFC3339)
		if status == http.StatusOK {
			checks["status"] = "ready"
		} else {
			checks["status"] = "not ready"
		}
		writeStatus(w, status, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Server.MetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range jobWorkers {
		w.Close()
		w.AwaitClose()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing metrics", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// buildCohortProvider picks the cohort statistics backend and, when Redis is
// configured, puts the cache in front of it. Redis is optional: an unreachable
// cache is logged and skipped.
func buildCohortProvider(
	ctx context.Context,
	cfg *config.Config,
	records *repository.Postgres,
	log logger.Logger,
	zapLog *zap.Logger,
) repository.CohortStatsProvider {
	var provider repository.CohortStatsProvider = records

	if cfg.Analytics.CohortBackend == config.CohortBackendElasticsearch {
		var es *database.ElasticsearchClient
		err := retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		provider = repository.NewElasticCohorts(es.Client, cfg.Analytics.CohortIndex)
		zapLog.Info("Elasticsearch cohort backend enabled", zap.String("index", cfg.Analytics.CohortIndex))
	}

	if !cfg.Database.Redis.Enabled() {
		return provider
	}

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err == nil {
		err = retryWithBackoff(func() error { return rdb.Ping(ctx) }, 3, time.Second, zapLog, "Redis connection")
	}
	if err != nil {
		zapLog.Warn("cohort cache disabled", zap.Error(err))
		return provider
	}
	zapLog.Info("Redis cohort cache enabled", zap.Duration("ttl", cfg.Analytics.CohortCacheTTL))
	return repository.NewCachedCohorts(provider, rdb.Client, cfg.Analytics.CohortCacheTTL, log)
}

func writeStatus(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recruitment-workers/internal/common/aws"
	"recruitment-workers/internal/common/camunda"
	"recruitment-workers/internal/common/config"
	"recruitment-workers/internal/common/database"
	"recruitment-workers/internal/common/logger"
	"recruitment-workers/internal/common/observability"
	"recruitment-workers/internal/store"
	completeassessment "recruitment-workers/internal/workers/assessment/complete-assessment"
	saveassessmentresponse "recruitment-workers/internal/workers/assessment/save-assessment-response"
	scheduleinterview "recruitment-workers/internal/workers/assessment/schedule-interview"
	createcandidaterecord "recruitment-workers/internal/workers/candidate/create-candidate-record"
	notifystatuschange "recruitment-workers/internal/workers/candidate/notify-status-change"
	scoreeligibility "recruitment-workers/internal/workers/candidate/score-eligibility"
	indexcandidate "recruitment-workers/internal/workers/reporting/index-candidate"
	pipelinekpi "recruitment-workers/internal/workers/reporting/pipeline-kpi"
	"recruitment-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// retryWithBackoff retries an init operation with exponential delay so a slow
// broker or database does not kill the process on startup.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = operation(); err == nil {
			if attempt > 1 {
				log.Info("operation succeeded after retry",
					zap.String("operation", operationName),
					zap.Int("attempt", attempt))
			}
			return nil
		}

		log.Warn("operation failed, retrying",
			zap.String("operation", operationName),
			zap.Int("attempt", attempt),
			zap.Int("maxRetries", maxRetries),
			zap.Duration("nextDelay", delay),
			zap.Error(err))

		if attempt < maxRetries {
			time.Sleep(delay)
			delay *= 2
		}
	}

	return err
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load configuration", zap.Error(err))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = logger.NewZapAdapter(zapLog)

	log.Info("starting worker manager", map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
		"broker":      cfg.Camunda.BrokerAddress,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// Zeebe broker
	var zeebeClient *camunda.Client
	err = retryWithBackoff(func() error {
		var connErr error
		zeebeClient, connErr = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return connErr
	}, 5, 2*time.Second, zapLog, "zeebe-connect")
	if err != nil {
		zapLog.Fatal("failed to connect to Zeebe broker", zap.Error(err))
	}
	defer zeebeClient.Close()

	// PostgreSQL
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var dbErr error
		pg, dbErr = database.NewPostgres(cfg.Database.Postgres)
		if dbErr != nil {
			return dbErr
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return pg.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "postgres-connect")
	if err != nil {
		zapLog.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pg.Close()

	// Elasticsearch
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var esErr error
		es, esErr = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if esErr != nil {
			return esErr
		}
		return es.Ping()
	}, 5, 2*time.Second, zapLog, "elasticsearch-connect")
	if err != nil {
		zapLog.Fatal("failed to connect to Elasticsearch", zap.Error(err))
	}

	// Redis
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var redisErr error
		rdb, redisErr = database.NewRedis(cfg.Database.Redis)
		if redisErr != nil {
			return redisErr
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return rdb.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "redis-connect")
	if err != nil {
		zapLog.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	// Notification clients, only when a channel is enabled.
	var snsClient *aws.SNSClient
	var sesClient *aws.SESClient
	if cfg.Notifications.SMS.Enabled {
		snsClient, err = aws.NewSNSClient(context.Background(), cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SNS client", zap.Error(err))
		}
	}
	if cfg.Notifications.Email.Enabled {
		sesClient, err = aws.NewSESClient(context.Background(), cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SES client", zap.Error(err))
		}
	}

	candidateStore := store.NewCandidateStore(pg.GetDB(), log)
	assessmentStore := store.NewAssessmentStore(pg.GetDB(), log)
	rubricCache := store.NewRubricCache(rdb.GetClient(),
		cfg.Rubric.CacheKey,
		time.Duration(cfg.Rubric.CacheTTLSeconds)*time.Second)

	seedRubricCache(cfg, rubricCache, log)

	// Worker registration
	var workers []*camunda.Worker

	if workerEnabled(cfg, scoreeligibility.TaskType) {
		handlerCfg := scoreeligibility.LoadConfig()
		applyWorkerTimeout(cfg, scoreeligibility.TaskType, &handlerCfg.Timeout)
		handler := scoreeligibility.NewHandler(handlerCfg, log)
		workers = append(workers, startWorker(zeebeClient, cfg, scoreeligibility.TaskType, handler.Handle, zapLog))
	}

	if workerEnabled(cfg, createcandidaterecord.TaskType) {
		handlerCfg := createcandidaterecord.LoadConfig()
		applyWorkerTimeout(cfg, createcandidaterecord.TaskType, &handlerCfg.Timeout)
		handler := createcandidaterecord.NewHandler(handlerCfg, candidateStore, log)
		workers = append(workers, startWorker(zeebeClient, cfg, createcandidaterecord.TaskType, handler.Handle, zapLog))
	}

	if workerEnabled(cfg, notifystatuschange.TaskType) {
		handlerCfg := notifystatuschange.LoadConfig()
		applyWorkerTimeout(cfg, notifystatuschange.TaskType, &handlerCfg.Timeout)
		handlerCfg.SMSEnabled = cfg.Notifications.SMS.Enabled
		handlerCfg.EmailEnabled = cfg.Notifications.Email.Enabled
		handlerCfg.SenderID = cfg.Notifications.SMS.SenderID
		handlerCfg.FromEmail = cfg.Notifications.Email.FromEmail
		handler := notifystatuschange.NewHandler(handlerCfg, snsClient, sesClient, log)
		workers = append(workers, startWorker(zeebeClient, cfg, notifystatuschange.TaskType, handler.Handle, zapLog))
	}

	if workerEnabled(cfg, scheduleinterview.TaskType) {
		handlerCfg := scheduleinterview.LoadConfig()
		applyWorkerTimeout(cfg, scheduleinterview.TaskType, &handlerCfg.Timeout)
		handler := scheduleinterview.NewHandler(handlerCfg, assessmentStore, log)
		workers = append(workers, startWorker(zeebeClient, cfg, scheduleinterview.TaskType, handler.Handle, zapLog))
	}

	if workerEnabled(cfg, saveassessmentresponse.TaskType) {
		handlerCfg := saveassessmentresponse.LoadConfig()
		applyWorkerTimeout(cfg, saveassessmentresponse.TaskType, &handlerCfg.Timeout)
		handler := saveassessmentresponse.NewHandler(handlerCfg, assessmentStore, rubricCache, log)
		workers = append(workers, startWorker(zeebeClient, cfg, saveassessmentresponse.TaskType, handler.Handle, zapLog))
	}

	if workerEnabled(cfg, completeassessment.TaskType) {
		handlerCfg := completeassessment.LoadConfig()
		applyWorkerTimeout(cfg, completeassessment.TaskType, &handlerCfg.Timeout)
		handler := completeassessment.NewHandler(handlerCfg, assessmentStore, rubricCache, log)
		workers = append(workers, startWorker(zeebeClient, cfg, completeassessment.TaskType, handler.Handle, zapLog))
	}

	if workerEnabled(cfg, pipelinekpi.TaskType) {
		handlerCfg := pipelinekpi.LoadConfig()
		applyWorkerTimeout(cfg, pipelinekpi.TaskType, &handlerCfg.Timeout)
		handler := pipelinekpi.NewHandler(handlerCfg, pg.GetDB(), log)
		workers = append(workers, startWorker(zeebeClient, cfg, pipelinekpi.TaskType, handler.Handle, zapLog))
	}

	if workerEnabled(cfg, indexcandidate.TaskType) {
		handlerCfg := indexcandidate.LoadConfig()
		applyWorkerTimeout(cfg, indexcandidate.TaskType, &handlerCfg.Timeout)
		handlerCfg.Index = cfg.Database.Elasticsearch.Index
		handler := indexcandidate.NewHandler(handlerCfg, candidateStore, es, log)
		workers = append(workers, startWorker(zeebeClient, cfg, indexcandidate.TaskType, handler.Handle, zapLog))
	}

	if len(workers) == 0 {
		zapLog.Fatal("no workers enabled, check the workers section of the configuration")
	}

	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// Health and metrics endpoint, default mux so pprof is served too.
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().UTC().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())

		zapLog.Info("metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
			zapLog.Error("metrics server stopped", zap.Error(err))
		}
	}()

	// Block until shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info("shutdown signal received", map[string]interface{}{"signal": sig.String()})

	for _, w := range workers {
		w.Stop()
	}

	log.Info("worker manager stopped", nil)
}

// seedRubricCache validates the rubric definition file and primes the redis
// cache so the first assessment job does not pay the database round trip.
// Seeding is best effort: the database rubric remains the source of truth.
func seedRubricCache(cfg *config.Config, cache *store.RubricCache, log logger.Logger) {
	reg, err := registry.Load(cfg.Rubric.RegistryPath)
	if err != nil {
		log.Warn("rubric registry unavailable, cache will fill from database", map[string]interface{}{
			"path":  cfg.Rubric.RegistryPath,
			"error": err,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cache.Invalidate(ctx); err != nil {
		log.Warn("failed to invalidate rubric cache", map[string]interface{}{"error": err})
	}
	if err := cache.Set(ctx, reg.ToPillars()); err != nil {
		log.Warn("failed to seed rubric cache", map[string]interface{}{"error": err})
		return
	}

	log.Info("rubric cache seeded", map[string]interface{}{
		"version": reg.Version,
		"pillars": len(reg.Pillars),
	})
}

func workerEnabled(cfg *config.Config, taskType string) bool {
	wc, ok := cfg.Workers[taskType]
	return ok && wc.Enabled
}

// applyWorkerTimeout overrides a handler's default timeout when the workers
// section configures one for the task type.
func applyWorkerTimeout(cfg *config.Config, taskType string, timeout *time.Duration) {
	if wc, ok := cfg.Workers[taskType]; ok && wc.Timeout > 0 {
		*timeout = time.Duration(wc.Timeout) * time.Millisecond
	}
}

func startWorker(client *camunda.Client, cfg *config.Config, taskType string, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) *camunda.Worker {
	maxJobsActive := cfg.Camunda.MaxJobsActive
	timeout := time.Duration(cfg.Camunda.Timeout) * time.Millisecond
	if wc, ok := cfg.Workers[taskType]; ok {
		if wc.MaxJobsActive > 0 {
			maxJobsActive = wc.MaxJobsActive
		}
		if wc.Timeout > 0 {
			timeout = time.Duration(wc.Timeout) * time.Millisecond
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return camunda.NewWorker(client.Raw(), taskType, maxJobsActive, timeout,
		camunda.JobHandlerFunc(handlerFunc), log)
}

package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/document-triage/internal/config"
	"github.com/kirillkom/document-triage/internal/core/classifier"
	"github.com/kirillkom/document-triage/internal/core/ports"
	"github.com/kirillkom/document-triage/internal/core/usecase"
	"github.com/kirillkom/document-triage/internal/infrastructure/export"
	"github.com/kirillkom/document-triage/internal/infrastructure/extractor/ocr"
	"github.com/kirillkom/document-triage/internal/infrastructure/extractor/pdftext"
	"github.com/kirillkom/document-triage/internal/infrastructure/profile"
	"github.com/kirillkom/document-triage/internal/infrastructure/queue/nats"
	"github.com/kirillkom/document-triage/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/document-triage/internal/infrastructure/resilience"
	"github.com/kirillkom/document-triage/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/document-triage/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue      ports.MessageQueue
	Classifier *classifier.Classifier

	BatchClassifier ports.BatchClassifier
	SubmitUC        ports.BatchSubmitter
	ProcessUC       ports.BatchProcessor
	ReadUC          ports.BatchReader
	Exporter        ports.ResultExporter

	closeFn func()
}

// New wires storage, persistence, messaging and the pipeline use cases.
// classification may be nil when the process exposes no metrics.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, classification *metrics.ClassificationMetrics) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rules, err := profile.Load(cfg.SanitizationProfile)
	if err != nil {
		return nil, fmt.Errorf("load sanitization profile: %w", err)
	}

	storage, err := localfs.New(cfg.WorkspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("init workspace storage: %w", err)
	}

	executorOpts := []resilience.Option{resilience.WithLogger(logger)}
	if classification != nil {
		executorOpts = append(executorOpts, resilience.WithObserver(classification))
	}
	executor := resilience.NewExecutor(resilienceConfig(cfg), executorOpts...)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewBatchRepository(db, executor)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		QueueGroup:         cfg.NATSQueueGroup,
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	core := classifier.New(classifier.WithWorkers(cfg.ClassifyWorkers))
	var recorder ports.ClassificationRecorder
	if classification != nil {
		recorder = classification
	}
	classifyUC := usecase.NewClassifyUseCase(core, recorder, logger)

	ocrReader := ocr.New(ocr.Config{
		Languages: cfg.OCRLanguages,
		Pdftoppm:  cfg.PdftoppmPath,
		DPI:       cfg.OCRDPI,
		MaxPages:  cfg.OCRMaxPages,
	}, logger)

	prepareUC := usecase.NewPrepareWorkspaceUseCase(storage, logger)
	sanitizeUC := usecase.NewSanitizeUseCase(storage, rules)
	extractUC := usecase.NewExtractTextUseCase(pdftext.New(cfg.PDFMaxPages), ocrReader, logger)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:      queue,
		Classifier: core,

		BatchClassifier: classifyUC,
		SubmitUC:        usecase.NewSubmitBatchUseCase(prepareUC, repo, queue),
		ProcessUC:       usecase.NewProcessBatchUseCase(repo, sanitizeUC, extractUC, classifyUC),
		ReadUC:          usecase.NewGetBatchUseCase(repo),
		Exporter:        export.NewXLSXExporter(logger),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func resilienceConfig(cfg config.Config) resilience.Config {
	rc := resilience.DefaultConfig()
	rc.RetryMaxAttempts = cfg.RetryMaxAttempts
	rc.RetryInitialBackoff = cfg.RetryInitialBackoff
	rc.RetryMaxBackoff = cfg.RetryMaxBackoff
	rc.BreakerEnabled = cfg.BreakerEnabled
	rc.BreakerOpenTimeout = cfg.BreakerOpenTimeout
	return rc
}

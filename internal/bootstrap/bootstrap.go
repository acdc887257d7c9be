package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kirillkom/legalease/internal/config"
	"github.com/kirillkom/legalease/internal/core/analysis"
	"github.com/kirillkom/legalease/internal/core/ports"
	"github.com/kirillkom/legalease/internal/core/usecase"
	"github.com/kirillkom/legalease/internal/infrastructure/cache"
	"github.com/kirillkom/legalease/internal/infrastructure/export/xlsx"
	"github.com/kirillkom/legalease/internal/infrastructure/extractor"
	"github.com/kirillkom/legalease/internal/infrastructure/extractor/docx"
	"github.com/kirillkom/legalease/internal/infrastructure/extractor/ocr"
	"github.com/kirillkom/legalease/internal/infrastructure/extractor/pdf"
	"github.com/kirillkom/legalease/internal/infrastructure/extractor/plaintext"
	"github.com/kirillkom/legalease/internal/infrastructure/queue/nats"
	"github.com/kirillkom/legalease/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/legalease/internal/infrastructure/resilience"
	"github.com/kirillkom/legalease/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/legalease/internal/infrastructure/storage/minio"
	"github.com/kirillkom/legalease/internal/infrastructure/summarizer/lsa"
	"github.com/kirillkom/legalease/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Queue     *nats.Queue
	Executor  *resilience.Executor
	AnalyzeUC ports.DocumentAnalyzer
	IngestUC  ports.DocumentIngestor
	ProcessUC *usecase.ProcessDocumentUseCase
	ExplainUC ports.ClauseExplainer
	HistoryUC ports.DocumentHistory

	closeFn func()
}

// Engine is the storage-free half of the pipeline: backend dispatch and the
// tiered summarizer. The CLI uses it on its own.
type Engine struct {
	Extractor  *extractor.Dispatcher
	Summarizer *analysis.Summarizer
	Executor   *resilience.Executor
}

// NewEngine probes optional backends once. A missing tesseract binary or an
// unsupported LSA language leaves that capability unset rather than failing.
func NewEngine(cfg config.Config, onBreakerChange resilience.StateObserver) *Engine {
	executor := resilience.NewExecutor(resilienceConfig(cfg, onBreakerChange))

	backends := extractor.Backends{
		Text: plaintext.NewExtractor(),
		PDF:  pdf.NewExtractor(),
		DOCX: docx.NewExtractor(),
	}
	if err := ocr.CheckAvailable(cfg.TesseractPath); err != nil {
		slog.Warn("ocr_backend_unavailable", "binary", cfg.TesseractPath, "error", err)
	} else {
		engine := ocr.NewTesseract(ocr.Config{
			Binary:      cfg.TesseractPath,
			Lang:        cfg.OCRLang,
			TessdataDir: cfg.TessdataDir,
		}, ocr.NewExecRunner(slog.Default()), executor)
		backends.Image = ocr.NewImageExtractor(engine)
	}

	var statistical ports.StatisticalSummarizer
	if ranker, err := lsa.NewWithOptions(lsa.Options{}); err != nil {
		slog.Warn("statistical_summarizer_unavailable", "error", err)
	} else {
		statistical = ranker
	}

	return &Engine{
		Extractor: extractor.New(backends),
		Summarizer: analysis.NewSummarizer(analysis.SummarizerConfig{
			MinSentences:     cfg.SummaryMinSentences,
			MaxSentences:     cfg.SummaryMaxSentences,
			WordsPerSentence: cfg.SummaryWordsPerSentence,
		}, statistical),
		Executor: executor,
	}
}

func resilienceConfig(cfg config.Config, onStateChange resilience.StateObserver) resilience.Config {
	out := resilience.DefaultConfig()
	if cfg.ResilienceRetryMaxAttempts > 0 {
		out.RetryMaxAttempts = cfg.ResilienceRetryMaxAttempts
	}
	out.BreakerEnabled = cfg.ResilienceBreakerEnabled
	if cfg.ResilienceBreakerTimeout > 0 {
		out.BreakerOpenTimeout = cfg.ResilienceBreakerTimeout
	}
	out.OnStateChange = onStateChange
	return out
}

// New wires the full service. pipeline may be nil when metrics are not exported.
func New(ctx context.Context, cfg config.Config, pipeline *metrics.PipelineMetrics) (*App, error) {
	var (
		observer        ports.AnalysisObserver
		onBreakerChange resilience.StateObserver
	)
	if pipeline != nil {
		observer = pipeline
		onBreakerChange = pipeline.ObserveBreakerTransition
	}
	engine := NewEngine(cfg, onBreakerChange)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	logs := postgres.NewProcessingLogRepository(db)

	storage, err := newObjectStorage(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: engine.Executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	var analysisCache ports.AnalysisCache
	if c := cache.NewAnalysisCache(cfg.AnalysisCacheTTL, 0); c != nil {
		analysisCache = c
	}

	analyzeUC := usecase.NewAnalyzeDocumentUseCase(repo, logs, engine.Extractor, engine.Summarizer, analysisCache, observer)
	ingestUC := usecase.NewIngestDocumentUseCase(repo, logs, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, logs, storage, engine.Extractor, engine.Summarizer, analysisCache, observer)
	explainUC := usecase.NewExplainClauseUseCase(logs)
	historyUC := usecase.NewHistoryUseCase(repo, logs, xlsx.NewRenderer(slog.Default()), cfg.HistoryPageSize)

	return &App{
		Config:   cfg,
		Queue:    queue,
		Executor: engine.Executor,

		AnalyzeUC: analyzeUC,
		IngestUC:  ingestUC,
		ProcessUC: processUC,
		ExplainUC: explainUC,
		HistoryUC: historyUC,

		closeFn: closer(queue, db),
	}, nil
}

func newObjectStorage(ctx context.Context, cfg config.Config) (ports.ObjectStorage, error) {
	switch cfg.StorageBackend {
	case "", "localfs":
		store, err := localfs.New(cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "minio":
		store, err := minio.New(minio.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func closer(queue *nats.Queue, db *sql.DB) func() {
	return func() {
		queue.Close()
		_ = db.Close()
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

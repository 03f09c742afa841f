package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/common"
	"github.com/iuh-ecommerce/poli/internal/handlers"
	"github.com/iuh-ecommerce/poli/internal/interfaces"
	"github.com/iuh-ecommerce/poli/internal/services/chunker"
	"github.com/iuh-ecommerce/poli/internal/services/embeddings"
	"github.com/iuh-ecommerce/poli/internal/services/ingest"
	"github.com/iuh-ecommerce/poli/internal/services/llm"
	"github.com/iuh-ecommerce/poli/internal/services/pdf"
	"github.com/iuh-ecommerce/poli/internal/services/reindex"
	"github.com/iuh-ecommerce/poli/internal/services/scheduler"
	"github.com/iuh-ecommerce/poli/internal/services/synthesizer"
	"github.com/iuh-ecommerce/poli/internal/services/vector"
	"github.com/iuh-ecommerce/poli/internal/storage/sqlite"
)

// App holds all application components and dependencies
type App struct {
	Config    *common.Config
	Logger    arbor.ILogger
	ctx       context.Context
	cancelCtx context.CancelFunc

	// Storage
	DB         *sqlite.DB
	FAQStorage interfaces.FAQStorage

	// LLM backends. ChatService drives QA synthesis and follows the
	// configured provider; EmbedService is always the Gemini backend since
	// Claude has no embedding API.
	ChatService  interfaces.LLMService
	EmbedService interfaces.LLMService

	// Pipeline services
	EmbeddingService interfaces.EmbeddingService
	VectorIndex      interfaces.VectorIndex
	Extractor        interfaces.DocumentExtractor
	Chunker          *chunker.Chunker
	Synthesizer      interfaces.QASynthesizer
	ReportService    *pdf.ReportService

	// Orchestration
	IngestOrchestrator  *ingest.Orchestrator
	ReindexOrchestrator *reindex.Orchestrator
	SchedulerService    *scheduler.Service

	// HTTP handlers
	FAQHandler     *handlers.FAQHandler
	IngestHandler  *handlers.IngestHandler
	ReindexHandler *handlers.ReindexHandler
	APIHandler     *handlers.APIHandler
}

// New creates the application with all services wired. Startup fails when
// the configured Qdrant collection exists with a different schema; an
// unreachable index only logs a warning since ingestion degrades to
// stored-only records.
func New(config *common.Config) (*App, error) {
	logger := common.GetLogger()
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		Config:    config,
		Logger:    logger,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	if err := app.initStorage(); err != nil {
		cancel()
		return nil, err
	}

	if err := app.initLLM(); err != nil {
		cancel()
		app.DB.Close()
		return nil, err
	}

	if err := app.initPipeline(); err != nil {
		cancel()
		app.closeBackends()
		return nil, err
	}

	app.initHandlers()

	logger.Info().
		Str("provider", string(config.LLM.Provider)).
		Str("collection", config.Qdrant.Collection).
		Str("staging_dir", config.Staging.Dir).
		Msg("Application initialized")

	return app, nil
}

func (a *App) initStorage() error {
	db, err := sqlite.NewDB(a.Logger, &a.Config.Storage.SQLite)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.DB = db
	a.FAQStorage = sqlite.NewFAQStorage(db, a.Logger)
	return nil
}

func (a *App) initLLM() error {
	chatService, err := llm.NewLLMService(a.ctx, a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM service: %w", err)
	}
	a.ChatService = chatService

	// Claude cannot embed, so a Claude chat provider still needs the
	// Gemini backend for vectors.
	if chatService.GetMode() == interfaces.LLMModeGemini {
		a.EmbedService = chatService
	} else {
		embedService, err := llm.NewGeminiService(a.ctx, &a.Config.Gemini, a.Logger)
		if err != nil {
			chatService.Close()
			return fmt.Errorf("failed to initialize embedding backend: %w", err)
		}
		a.EmbedService = embedService
	}

	a.EmbeddingService = embeddings.NewService(a.EmbedService, a.Config.Gemini.EmbedDimension, a.Logger)
	return nil
}

func (a *App) initPipeline() error {
	index, err := vector.NewQdrantIndex(&a.Config.Qdrant, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vector index: %w", err)
	}
	a.VectorIndex = index

	if err := index.EnsureCollection(a.ctx); err != nil {
		if errors.Is(err, vector.ErrCollectionMismatch) {
			return err
		}
		a.Logger.Warn().Err(err).Msg("Vector index unreachable at startup, FAQs will be stored without vectors until it recovers")
	}

	textChunker, err := chunker.NewChunker(a.Config.Chunker.WindowSize, a.Config.Chunker.Overlap, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize chunker: %w", err)
	}
	a.Chunker = textChunker

	a.Extractor = pdf.NewExtractor(a.Logger)
	a.ReportService = pdf.NewReportService(a.Logger)
	a.Synthesizer = synthesizer.NewService(a.ChatService, a.Logger)

	staging := ingest.NewOSStaging(&a.Config.Staging, a.Logger)
	retry := llm.NewRetryConfig(a.Config.Ingest.MaxAttempts)

	a.IngestOrchestrator = ingest.NewOrchestrator(
		staging,
		a.Extractor,
		a.Chunker,
		a.Synthesizer,
		a.FAQStorage,
		a.EmbeddingService,
		a.VectorIndex,
		retry,
		a.Logger,
	)

	a.ReindexOrchestrator = reindex.NewOrchestrator(
		a.FAQStorage,
		a.EmbeddingService,
		a.VectorIndex,
		a.Config.Reindex.Workers,
		a.Logger,
	)

	a.SchedulerService = scheduler.NewService(a.IngestOrchestrator, a.Config.Ingest.Schedule, a.Logger)
	return nil
}

func (a *App) initHandlers() {
	a.FAQHandler = handlers.NewFAQHandler(a.FAQStorage, a.EmbeddingService, a.VectorIndex, a.ReportService, a.Logger)
	a.IngestHandler = handlers.NewIngestHandler(a.IngestOrchestrator, a.Logger)
	a.ReindexHandler = handlers.NewReindexHandler(a.ReindexOrchestrator, a.Logger)
	a.APIHandler = handlers.NewAPIHandler(a.Config, a.FAQStorage, a.VectorIndex, a.ChatService, a.Logger)
}

// Start launches background services
func (a *App) Start() error {
	if err := a.SchedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	return nil
}

// Close shuts down background services and releases all resources
func (a *App) Close() error {
	a.Logger.Info().Msg("Shutting down application")

	if a.SchedulerService != nil {
		a.SchedulerService.Stop()
	}
	a.cancelCtx()
	a.closeBackends()

	return nil
}

func (a *App) closeBackends() {
	if a.EmbedService != nil && a.EmbedService != a.ChatService {
		a.EmbedService.Close()
	}
	if a.ChatService != nil {
		a.ChatService.Close()
	}
	if a.FAQStorage != nil {
		a.FAQStorage.Close()
	} else if a.DB != nil {
		a.DB.Close()
	}
}

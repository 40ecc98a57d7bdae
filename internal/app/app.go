// Package app wires configuration, stores and services into a single
// application instance shared by the CLI, API server and worker.
package app

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"taxon/internal/catcache"
	"taxon/internal/config"
	"taxon/internal/services"
	"taxon/internal/store"
	"taxon/internal/store/primary"
	"taxon/internal/store/vector"
	"taxon/pkg/classifier"
)

type App struct {
	Config *config.Config

	CategoryStore store.CategoryStore
	PostStore     store.PostStore
	JobStore      store.JobStore
	UsageStore    store.UsageStore
	VectorStore   store.VectorStore

	JobClient        store.JobClient
	EmbeddingService store.EmbeddingService

	ClassificationService *services.ClassificationService
	CategoryService       *services.CategoryService
	PostService           *services.PostService
	RelatedService        *services.RelatedService

	nameCache *catcache.NameCache
}

// Options toggles optional subsystems. The CLI classify command, for
// example, needs neither Redis nor the vector store.
type Options struct {
	NeedJobClient   bool
	NeedVectorStore bool
}

func NewApp(cfg *config.Config, opts Options) (*App, error) {
	ctx := context.Background()
	app := &App{Config: cfg}

	if err := app.initPrimaryStore(ctx); err != nil {
		return nil, err
	}
	if opts.NeedJobClient {
		if err := app.initJobClient(); err != nil {
			app.cleanupPartialInit()
			return nil, err
		}
	}
	if opts.NeedVectorStore {
		if err := app.initEmbeddingService(ctx); err != nil {
			app.cleanupPartialInit()
			return nil, err
		}
		if err := app.initVectorStore(ctx); err != nil {
			app.cleanupPartialInit()
			return nil, err
		}
	}
	app.initClassification()
	app.initCoreServices()

	log.Debug("Application initialization complete")
	return app, nil
}

func (a *App) initPrimaryStore(ctx context.Context) error {
	ps, err := primary.NewPrimaryStore(ctx, a.Config.Database.Primary.DSN)
	if err != nil {
		return fmt.Errorf("init primary store: %w", err)
	}
	a.CategoryStore = ps
	a.PostStore = ps
	a.JobStore = ps
	a.UsageStore = ps
	a.nameCache = catcache.New(ps.ListCategoryNames)
	return nil
}

func (a *App) initJobClient() error {
	jc, err := store.NewAsynqJobClient(a.Config.Redis.Address, a.Config.Redis.Password, a.Config.Redis.DB, a.JobStore)
	if err != nil {
		return fmt.Errorf("init job client: %w", err)
	}
	a.JobClient = jc
	return nil
}

// initEmbeddingService builds the provider fallback chain. Providers with
// mismatched dimensions cannot share a vector index, so only those matching
// the first enabled provider are kept.
func (a *App) initEmbeddingService(ctx context.Context) error {
	cfg := a.Config
	var providers []services.EmbeddingProvider

	if cfg.AI.OpenaiApiKey != "" {
		openaiProvider, err := services.NewOpenAIProvider(
			cfg.AI.OpenaiApiKey,
			cfg.AI.EmbeddingModel,
			a.UsageStore,
			cfg.Pricing["openai"],
		)
		if err != nil {
			log.Warnf("Failed to initialize OpenAI embedding provider: %v", err)
		} else if openaiProvider.Status() == store.ProviderStatusActive {
			providers = append(providers, openaiProvider)
		}
	}

	if cfg.AI.GoogleApiKey != "" {
		geminiProvider, err := services.NewGeminiProvider(ctx, cfg.AI.GoogleApiKey, cfg.AI.GeminiModelName)
		if err != nil {
			log.Warnf("Failed to initialize Gemini embedding provider: %v", err)
		} else if geminiProvider.Status() == store.ProviderStatusActive {
			if len(providers) > 0 && geminiProvider.Dimension() != providers[0].Dimension() {
				log.Warnf("Gemini embedding dimension %d differs from %s's %d, skipping fallback registration",
					geminiProvider.Dimension(), providers[0].Name(), providers[0].Dimension())
			} else {
				providers = append(providers, geminiProvider)
			}
		}
	}

	if len(providers) == 0 {
		log.Warn("No embedding providers configured. Related-post features will be unavailable.")
		return nil
	}

	embeddingService, err := services.NewFallbackEmbeddingService(providers, &services.SimpleRetryStrategy{MaxAttempts: 3, BaseDelayMs: 200})
	if err != nil {
		return fmt.Errorf("init embedding service: %w", err)
	}
	a.EmbeddingService = embeddingService
	return nil
}

func (a *App) initVectorStore(ctx context.Context) error {
	dsn := a.Config.Database.Vector.DSN
	if dsn == "" {
		dsn = a.Config.Database.Primary.DSN
	}
	vectorStore, err := vector.NewStore(ctx, dsn)
	if err != nil {
		return fmt.Errorf("init postgres vector store: %w", err)
	}
	a.VectorStore = vectorStore
	return nil
}

func (a *App) initClassification() {
	cfg := a.Config

	var chatClient classifier.ChatCompleter
	if cfg.AI.OpenaiApiKey != "" {
		chatClient = openai.NewClient(cfg.AI.OpenaiApiKey)
	} else {
		log.Warn("No OpenAI API key configured. Classification will run on heuristics only.")
	}

	recorder := services.NewUsageRecorder(a.UsageStore, "openai", cfg.Pricing["openai"])
	normalizer := classifier.NewLLMNormalizer(chatClient, cfg.AI.NormalizerModel, recorder)
	model := classifier.NewLLMClassifier(chatClient, cfg.AI.ChatModel, recorder)

	a.ClassificationService = services.NewClassificationService(normalizer, model, a.nameCache, cfg.AI.MaxPromptChars)
}

func (a *App) initCoreServices() {
	cfg := a.Config
	a.CategoryService = services.NewCategoryService(a.CategoryStore, a.nameCache)
	a.PostService = services.NewPostService(
		a.PostStore,
		a.CategoryStore,
		a.ClassificationService,
		a.JobClient,
		cfg.Classification.Async,
		cfg.Classification.MaxCategories,
	)
	if a.VectorStore != nil && a.EmbeddingService != nil {
		a.RelatedService = services.NewRelatedService(a.PostStore, a.VectorStore, a.EmbeddingService)
	}
}

func (a *App) cleanupPartialInit() {
	if a.JobClient != nil {
		a.JobClient.Close()
	}
	if a.VectorStore != nil {
		a.VectorStore.Close()
	}
}

// Close releases all held connections.
func (a *App) Close() {
	a.cleanupPartialInit()
	if ps, ok := a.CategoryStore.(*primary.StoreImpl); ok {
		ps.Close()
	}
}

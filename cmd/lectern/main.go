package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lecternhq/lectern/internal/api"
	"github.com/lecternhq/lectern/internal/config"
	"github.com/lecternhq/lectern/internal/docproc"
	"github.com/lecternhq/lectern/internal/embedding"
	"github.com/lecternhq/lectern/internal/generator"
	"github.com/lecternhq/lectern/internal/repository"
	"github.com/lecternhq/lectern/internal/search"
	"github.com/lecternhq/lectern/internal/service"
	"github.com/lecternhq/lectern/internal/session"
	"github.com/lecternhq/lectern/internal/tools"
	"github.com/lecternhq/lectern/internal/vectorstore"
	"github.com/lecternhq/lectern/internal/vectorstore/duckdb"
	"github.com/lecternhq/lectern/internal/vectorstore/memory"
	"github.com/lecternhq/lectern/internal/vectorstore/qdrant"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize course catalog
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()
	catalog := repository.NewCourseRepository(db)

	// Initialize vector store
	store, err := openVectorStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize vector store", zap.Error(err))
	}
	defer store.Close()

	embedder := embedding.NewClient(
		cfg.Embedding.BaseURL,
		cfg.Embedding.APIKey,
		cfg.Embedding.Model,
		cfg.EmbeddingTimeout(),
	)
	engine := generator.NewClient(
		cfg.Anthropic.BaseURL,
		cfg.Anthropic.APIKey,
		cfg.Anthropic.Model,
		cfg.Anthropic.MaxTokens,
		cfg.AnthropicTimeout(),
	)

	// Register search tools
	adapter := search.NewAdapter(catalog, embedder, store, cfg.RAG.MaxResults)
	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewSearchTool(adapter)); err != nil {
		logger.Fatal("Failed to register tool", zap.Error(err))
	}
	if err := registry.Register(tools.NewOutlineTool(catalog)); err != nil {
		logger.Fatal("Failed to register tool", zap.Error(err))
	}

	// Initialize services
	sessions := session.NewStore(cfg.RAG.MaxHistory)
	queryService := service.NewQueryService(engine, registry, sessions, logger)
	ingestService := service.NewIngestService(
		docproc.NewDocumentProcessor(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap),
		catalog,
		embedder,
		store,
		logger,
	)
	catalogService := service.NewCatalogService(catalog)

	// Index course documents on startup; already-cataloged titles are skipped
	if info, err := os.Stat(cfg.RAG.DocsDir); err == nil && info.IsDir() {
		courses, chunks, err := ingestService.AddCourseFolder(context.Background(), cfg.RAG.DocsDir, false)
		if err != nil {
			logger.Warn("Failed to load course documents", zap.Error(err))
		} else {
			logger.Info("Loaded course documents",
				zap.String("dir", cfg.RAG.DocsDir),
				zap.Int("courses", courses),
				zap.Int("chunks", chunks),
			)
		}
	}

	// Setup router
	router := api.SetupRouter(queryService, ingestService, catalogService, api.RouterConfig{
		APIKey:       cfg.API.Key,
		AllowOrigins: []string{"*"},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting Lectern server",
			zap.String("address", cfg.Address()),
			zap.String("vector_backend", cfg.Vector.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// openVectorStore selects the configured vector index backend
func openVectorStore(cfg *config.Config) (vectorstore.Store, error) {
	switch cfg.Vector.Backend {
	case "memory", "":
		return memory.NewStore(), nil
	case "qdrant":
		return qdrant.NewStore(qdrant.Config{
			URL:        cfg.Vector.Qdrant.URL,
			APIKey:     cfg.Vector.Qdrant.APIKey,
			Collection: cfg.Vector.Qdrant.Collection,
			Dimension:  cfg.Embedding.Dimension,
			Timeout:    cfg.QdrantTimeout(),
		}), nil
	case "duckdb":
		return duckdb.NewStore(cfg.Vector.DuckDB.Path, cfg.Embedding.Dimension)
	default:
		return nil, fmt.Errorf("unknown vector backend: %s", cfg.Vector.Backend)
	}
}

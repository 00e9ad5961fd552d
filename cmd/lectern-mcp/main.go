package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/lecternhq/lectern/internal/config"
	"github.com/lecternhq/lectern/internal/embedding"
	"github.com/lecternhq/lectern/internal/mcp"
	"github.com/lecternhq/lectern/internal/repository"
	"github.com/lecternhq/lectern/internal/search"
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

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	catalog := repository.NewCourseRepository(db)

	store, err := openVectorStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize vector store: %v", err)
	}
	defer store.Close()

	embedder := embedding.NewClient(
		cfg.Embedding.BaseURL,
		cfg.Embedding.APIKey,
		cfg.Embedding.Model,
		cfg.EmbeddingTimeout(),
	)
	adapter := search.NewAdapter(catalog, embedder, store, cfg.RAG.MaxResults)

	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewSearchTool(adapter)); err != nil {
		log.Fatalf("Failed to register tool: %v", err)
	}
	if err := registry.Register(tools.NewOutlineTool(catalog)); err != nil {
		log.Fatalf("Failed to register tool: %v", err)
	}

	server := mcp.NewServer(registry)

	// stdout carries the protocol; status goes to stderr
	fmt.Fprintf(os.Stderr, "Lectern MCP server starting (vector backend: %s)\n", cfg.Vector.Backend)

	if err := server.Serve(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
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

// Package main is the entry point for the ampd memory server.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/madeindigio/remembrances-mcp/internal/config"
	"github.com/madeindigio/remembrances-mcp/internal/retrieval"
	"github.com/madeindigio/remembrances-mcp/internal/storage"
	"github.com/madeindigio/remembrances-mcp/pkg/embedder"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	mcpserver "github.com/ThinkInAIXYZ/go-mcp/server"
	mcptransport "github.com/ThinkInAIXYZ/go-mcp/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.SetupLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := storage.NewSurrealDBStorage(&storage.ConnectionConfig{
		URL:       cfg.SurrealDBURL,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		Namespace: cfg.GetSurrealDBNamespace(),
		Database:  cfg.GetSurrealDBDatabase(),
	})
	if err := store.Connect(ctx); err != nil {
		log.Fatalf("failed to connect to SurrealDB: %v", err)
	}
	defer store.Close()

	if err := store.InitializeSchema(ctx); err != nil {
		log.Fatalf("failed to initialize schema: %v", err)
	}

	emb, provider, err := buildEmbedding(cfg)
	if err != nil {
		log.Fatalf("failed to configure embedding provider: %v", err)
	}

	engine, err := retrieval.NewEngine(store, retrieval.EngineConfig{
		Embedder:         provider,
		AutoseedTopK:     cfg.AutoseedTopK,
		CollectNodeCap:   cfg.CollectNodeCap,
		AllPathsCap:      cfg.AllPathsCap,
		GraphStepTimeout: time.Duration(cfg.GraphStepTimeoutMs) * time.Millisecond,
		GlobalDeadline:   time.Duration(cfg.QueryDeadlineMs) * time.Millisecond,
		ArmSoftCap:       time.Duration(cfg.ArmSoftCapMs) * time.Millisecond,
		Weights:          retrieval.Weights{Vector: cfg.WeightVector, Text: cfg.WeightText, Graph: cfg.WeightGraph},
	})
	if err != nil {
		log.Fatalf("failed to build retrieval engine: %v", err)
	}

	var t mcptransport.ServerTransport
	switch {
	case cfg.MCPStreamableHTTP:
		addr := cfg.MCPStreamableHTTPAddr
		slog.Info("starting MCP over Streamable HTTP", "addr", addr, "endpoint", cfg.MCPStreamableHTTPEndpoint)
		t, err = mcptransport.NewStreamableHTTPServerTransport(addr)
		if err != nil {
			log.Fatalf("failed to initialize Streamable HTTP transport: %v", err)
		}
	default:
		slog.Info("starting MCP over stdio")
		t = mcptransport.NewStdioServerTransport()
	}

	var srv *mcpserver.Server
	if cfg.MCPStreamableHTTP {
		srv, err = mcpserver.NewServer(
			t,
			mcpserver.WithServerInfo(protocol.Implementation{Name: "ampd", Version: "0.1.0"}),
			mcpserver.WithInstructions("ampd hybrid retrieval server is ready."),
			mcpserver.WithLogger(streamableHTTPLogger()),
		)
	} else {
		srv, err = mcpserver.NewServer(
			t,
			mcpserver.WithServerInfo(protocol.Implementation{Name: "ampd", Version: "0.1.0"}),
			mcpserver.WithInstructions("ampd hybrid retrieval server is ready."),
		)
	}
	if err != nil {
		log.Fatalf("failed to create MCP server: %v", err)
	}

	tm := NewToolManager(store, engine, emb)
	if err := tm.RegisterTools(srv); err != nil {
		log.Fatalf("failed to register tools: %v", err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Run(); err != nil {
		log.Fatalf("server run error: %v", err)
	}
}

// buildEmbedding constructs the embedder.Embedder (for direct EmbedQuery use
// by the upsert tool) and its retrieval.EmbeddingProvider adapter (for the
// engine's vector arm) from cfg. Both are nil/disabled when no provider is
// configured.
func buildEmbedding(cfg *config.Config) (embedder.Embedder, retrieval.EmbeddingProvider, error) {
	embCfg := &embedder.Config{
		Provider:        cfg.EmbeddingProvider,
		OllamaURL:       cfg.OllamaURL,
		OllamaModel:     cfg.OllamaModel,
		OpenAIKey:       cfg.OpenAIKey,
		OpenAIBaseURL:   cfg.OpenAIURL,
		OpenAIModel:     cfg.OpenAIModel,
		OpenRouterKey:   cfg.OpenRouterKey,
		OpenRouterURL:   cfg.OpenRouterURL,
		OpenRouterModel: cfg.OpenRouterModel,
	}

	if cfg.EmbeddingProvider == "" {
		provider, _ := embedder.NewProviderFromConfig(embCfg)
		return nil, provider, nil
	}

	emb, err := embedder.NewEmbedderFromConfig(embCfg)
	if err != nil {
		return nil, nil, err
	}
	provider, err := embedder.NewProviderFromConfig(embCfg)
	if err != nil {
		return nil, nil, err
	}
	return emb, provider, nil
}

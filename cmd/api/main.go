// Package main implements the employee semantic-search API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/CodeWithNed/company-vector-db/engine/answer"
	"github.com/CodeWithNed/company-vector-db/engine/directory"
	"github.com/CodeWithNed/company-vector-db/engine/ingest"
	"github.com/CodeWithNed/company-vector-db/engine/orggraph"
	"github.com/CodeWithNed/company-vector-db/engine/semantic"
	"github.com/CodeWithNed/company-vector-db/pkg/embed"
	"github.com/CodeWithNed/company-vector-db/pkg/metrics"
	"github.com/CodeWithNed/company-vector-db/pkg/mid"
	"github.com/CodeWithNed/company-vector-db/pkg/resilience"
)

// Config holds all environment-based configuration.
type Config struct {
	Port          string
	EmbedProvider string // "ollama" or "openai"
	OllamaURL     string
	OpenAIBaseURL string
	OpenAIToken   string
	EmbedModel    string
	EmbedDims     int
	QdrantURL     string
	Collection    string
	Neo4jURL      string // empty disables the org graph
	Neo4jUser     string
	Neo4jPass     string
	NatsURL       string // empty disables the load consumer
	DataFile      string
	SnapshotDir   string
	TopK          int
	Workers       int
	CORSOrigin    string
	RateRPS       float64
	RateBurst     int
}

func loadConfig() Config {
	return Config{
		Port:          envOr("PORT", "8000"),
		EmbedProvider: envOr("EMBED_PROVIDER", "ollama"),
		OllamaURL:     envOr("OLLAMA_URL", "http://localhost:11434"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIToken:   os.Getenv("OPENAI_API_KEY"),
		EmbedModel:    envOr("EMBED_MODEL", "nomic-embed-text"),
		EmbedDims:     envIntOr("EMBED_DIMS", 768),
		QdrantURL:     envOr("QDRANT_URL", "localhost:6334"),
		Collection:    envOr("QDRANT_COLLECTION", "employees"),
		Neo4jURL:      os.Getenv("NEO4J_URL"),
		Neo4jUser:     envOr("NEO4J_USER", "neo4j"),
		Neo4jPass:     envOr("NEO4J_PASS", "password"),
		NatsURL:       os.Getenv("NATS_URL"),
		DataFile:      envOr("DATA_FILE", "company_data.json"),
		SnapshotDir:   envOr("SNAPSHOT_DIR", "data/directory"),
		TopK:          envIntOr("TOP_K", 5),
		Workers:       envIntOr("EMBED_WORKERS", 4),
		CORSOrigin:    envOr("CORS_ORIGIN", "*"),
		RateRPS:       float64(envIntOr("RATE_LIMIT_RPS", 50)),
		RateBurst:     envIntOr("RATE_LIMIT_BURST", 100),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func newEmbedder(cfg Config) (embed.Embedder, error) {
	var (
		e   embed.Embedder
		err error
	)
	switch cfg.EmbedProvider {
	case "ollama":
		e = embed.NewOllama(cfg.OllamaURL, cfg.EmbedModel)
	case "openai":
		e, err = embed.NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIToken, cfg.EmbedModel)
	default:
		return nil, fmt.Errorf("unknown embed provider %q", cfg.EmbedProvider)
	}
	if err != nil {
		return nil, err
	}
	return embed.WithBreaker(e, resilience.NewBreaker(resilience.DefaultBreakerOpts)), nil
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	// --- Connect to Qdrant ---
	vectorStore, err := semantic.New(cfg.QdrantURL, cfg.Collection)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer vectorStore.Close()
	if err := vectorStore.EnsureCollection(ctx, cfg.EmbedDims); err != nil {
		return fmt.Errorf("qdrant collection: %w", err)
	}

	// --- Restore directory snapshot ---
	dirStore, err := directory.Open(cfg.SnapshotDir, false)
	if err != nil {
		return fmt.Errorf("directory snapshot: %w", err)
	}
	defer dirStore.Close()

	if count, err := vectorStore.Count(ctx); err != nil {
		logger.Warn("vector count unavailable", "err", err)
	} else if int(count) != dirStore.Len() {
		logger.Warn("vector index and directory snapshot disagree",
			"indexed", count, "snapshot", dirStore.Len())
	}

	// --- Org graph (optional) ---
	var graphStore *orggraph.Store
	if cfg.Neo4jURL != "" {
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
		if err != nil {
			return fmt.Errorf("neo4j driver: %w", err)
		}
		defer driver.Close(ctx)
		graphStore = orggraph.New(driver)
	}

	// --- Load + query services ---
	loader := ingest.NewLoader(embedder, vectorStore, dirStore,
		orGraph(graphStore),
		ingest.Options{Dims: cfg.EmbedDims, Workers: cfg.Workers}, logger)

	answers := answer.New(embedder, vectorStore, dirStore,
		chainFinder(graphStore),
		answer.Options{TopK: cfg.TopK}, logger)

	// --- Load consumer (optional) ---
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL, nats.Name("company-vector-db-api"))
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Close()
		sub, err := ingest.StartConsumer(nc, loader, logger)
		if err != nil {
			return fmt.Errorf("load consumer: %w", err)
		}
		defer sub.Unsubscribe()
		logger.Info("load consumer started", "subject", ingest.LoadSubject)
	}

	// --- HTTP server ---
	reg := metrics.New()
	reg.Gauge("directory_employees_loaded", "Employees in the live directory.").Set(int64(dirStore.Len()))

	srvState := &server{
		loader:   loader,
		answers:  answers,
		records:  dirStore,
		dataFile: cfg.DataFile,
		reg:      reg,
		logger:   logger,
	}

	handler := mid.Chain(srvState.routes(),
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.RateLimit(cfg.RateRPS, cfg.RateBurst),
		mid.OTel("company-vector-db"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port, "provider", cfg.EmbedProvider)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// orGraph keeps a typed-nil *orggraph.Store from sneaking into the loader's
// interface field.
func orGraph(g *orggraph.Store) ingest.OrgGraph {
	if g == nil {
		return nil
	}
	return g
}

func chainFinder(g *orggraph.Store) answer.ChainFinder {
	if g == nil {
		return nil
	}
	return g
}

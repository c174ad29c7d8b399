package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	goredis "github.com/redis/go-redis/v9"

	_ "github.com/docqa-labs/docqa-core/docs"
	"github.com/docqa-labs/docqa-core/internal/adapters/driven/ai"
	jwtauth "github.com/docqa-labs/docqa-core/internal/adapters/driven/auth"
	"github.com/docqa-labs/docqa-core/internal/adapters/driven/extract"
	"github.com/docqa-labs/docqa-core/internal/adapters/driven/postgres"
	redisadapter "github.com/docqa-labs/docqa-core/internal/adapters/driven/redis"
	httpserver "github.com/docqa-labs/docqa-core/internal/adapters/driving/http"
	"github.com/docqa-labs/docqa-core/internal/config"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-core/internal/core/services"
	"github.com/docqa-labs/docqa-core/internal/telemetry"
)

// version is set at build time via -ldflags
var version = "dev"

// @title docqa-core API
// @version 1.0
// @description Document question answering service. Upload documents, parse them into embedded chunks, and ask questions answered only from document content.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	if cfg.Telemetry.JaegerEndpoint != "" {
		shutdown, err := telemetry.InitJaeger("docqa-core", version, cfg.Telemetry.JaegerEndpoint)
		if err != nil {
			log.Fatalf("Failed to initialize tracing: %v", err)
		}
		defer func() {
			if err := shutdown(ctx); err != nil {
				slog.Error("failed to flush traces", "error", err)
			}
		}()
		log.Printf("Tracing enabled: %s", cfg.Telemetry.JaegerEndpoint)
	}

	// PostgreSQL is the system of record for users, files, blobs and vectors.
	dbCfg := postgres.DefaultConfig(cfg.Database.URL)
	dbCfg.MaxOpenConns = cfg.Database.MaxOpenConns
	dbCfg.MaxIdleConns = cfg.Database.MaxIdleConns
	if cfg.Database.ConnMaxLifetime > 0 {
		dbCfg.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
	}

	db, err := postgres.Connect(ctx, dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	userStore := postgres.NewUserStore(db)
	fileStore := postgres.NewFileStore(db)
	contentStore := postgres.NewParsedContentStore(db)
	blobStore := postgres.NewBlobStore(db)

	// Redis is optional: with it, sessions and the ingest lock are shared
	// across instances; without it, PostgreSQL covers both.
	var sessionStore driven.SessionStore
	var lock driven.DistributedLock
	var redisPinger httpserver.Pinger

	if cfg.Redis.URL != "" {
		opt, err := goredis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to parse redis URL: %v", err)
		}
		client := goredis.NewClient(opt)

		redisLock := redisadapter.NewLock(client)
		if err := redisLock.Ping(ctx); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		sessionStore = redisadapter.NewSessionStore(client)
		lock = redisLock
		redisPinger = redisLock
		log.Println("Using redis for sessions and distributed locking")
	} else {
		sessionStore = postgres.NewSessionStore(db)
		lock = postgres.NewAdvisoryLock(db)
		log.Println("REDIS_URL not set, using postgres for sessions and locking")
	}

	embedder, err := ai.NewEmbeddingService(ai.ProviderSettings{
		Provider: cfg.Embedding.Provider,
		Model:    cfg.Embedding.Model,
		BaseURL:  cfg.Embedding.BaseURL,
		APIKey:   cfg.Embedding.APIKey,
	})
	if err != nil {
		log.Fatalf("Failed to create embedding service: %v", err)
	}
	defer embedder.Close()
	log.Printf("Embedding provider: %s (model %s, %d dimensions)",
		cfg.Embedding.Provider, embedder.Model(), embedder.Dimensions())

	llm, err := ai.NewLLMService(ai.ProviderSettings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		APIKey:   cfg.LLM.APIKey,
	})
	if err != nil {
		log.Fatalf("Failed to create LLM service: %v", err)
	}
	defer llm.Close()

	chunker, err := services.NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.Overlap)
	if err != nil {
		log.Fatalf("Failed to create chunker: %v", err)
	}

	// NewAnswerer pings the model, so a misconfigured provider fails at
	// startup rather than on the first query.
	answerer, err := services.NewAnswerer(ctx, llm)
	if err != nil {
		log.Fatalf("Failed to reach LLM %q: %v", llm.Model(), err)
	}
	log.Printf("LLM provider: %s (model %s)", cfg.LLM.Provider, llm.Model())

	authService := services.NewAuthService(userStore, sessionStore,
		jwtauth.NewAdapter(cfg.Auth.JWTSecret))
	fileService := services.NewFileService(userStore, fileStore, blobStore)
	ingestService := services.NewIngestionService(userStore, fileStore, contentStore,
		blobStore, extract.NewExtractor(), embedder, chunker, lock, nil)
	queryService := services.NewQueryService(userStore, contentStore, embedder, answerer, nil)

	server := httpserver.NewServer(httpserver.Config{
		Host:    cfg.Server.Host,
		Port:    cfg.Server.Port,
		Version: version,
	}, authService, fileService, ingestService, queryService, db, redisPinger)

	log.Printf("Starting docqa-core %s on %s:%d", version, cfg.Server.Host, cfg.Server.Port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

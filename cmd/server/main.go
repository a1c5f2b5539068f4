package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/copyflow/detection-engine/internal/agent"
	"github.com/copyflow/detection-engine/internal/api"
	"github.com/copyflow/detection-engine/internal/config"
	"github.com/copyflow/detection-engine/internal/detect"
	"github.com/copyflow/detection-engine/internal/pkg/logger"
	"github.com/copyflow/detection-engine/internal/repository/postgres"
	"github.com/copyflow/detection-engine/internal/store"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from stale processes occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	log.Println("CopyFlow Detection Engine (cmd/server/main.go)")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	if cfg.Logging.RedactPII != nil {
		logger.SetRedactPII(*cfg.Logging.RedactPII)
	}

	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}
	log.Printf("Pre-flight check passed: port %d is available", port)

	// Shared state store: Redis when configured, in-process otherwise.
	var st store.Store
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			log.Fatalf("Redis unreachable at %s: %v", cfg.Redis.Addr, err)
		}
		st = store.NewRedisStore(redisClient)
		log.Printf("Redis store connected: %s", cfg.Redis.Addr)
	} else {
		st = store.NewMemoryStore()
		log.Println("WARNING: no Redis configured, using in-process store (single instance only)")
	}

	engineCfg := detect.DefaultConfig()
	engineCfg.CacheTTL = cfg.Detection.CacheTTL()
	engineCfg.AnalysisTimeout = cfg.Detection.AnalysisTimeout()
	engineCfg.RateLimitPerMinute = cfg.Detection.RateLimitPerMinute
	engineCfg.FastPathMaxHeaders = cfg.Detection.FastPathMaxHeaders
	engineCfg.CacheSampleRows = cfg.Detection.CacheSampleRows
	engineCfg.CacheSampleCells = cfg.Detection.CacheSampleCells
	engine := detect.NewEngine(st, engineCfg)

	handlers := api.NewHandlers(engine, st, cfg.Detection.ChatRateLimitPerMinute)

	// Optional detection audit trail.
	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Printf("Warning: failed to open audit database: %v", err)
		} else {
			repo := postgres.NewDetectionRepo(db)
			engine.SetRecorder(repo)
			handlers.SetDetectionRepo(repo)
			log.Println("Detection audit repository enabled")
		}
	} else {
		log.Println("Detection audit disabled (no DATABASE_URL)")
	}

	// Support chat: OpenAI-backed when configured, rule-based otherwise.
	if cfg.OpenAI.Enabled && cfg.OpenAI.APIKey != "" {
		handlers.SetResponder(agent.NewOpenAIResponder(cfg.OpenAI.APIKey, cfg.OpenAI.Model, agent.NewRuleResponder()))
		log.Printf("Support chat using OpenAI model %q with rule-based fallback", cfg.OpenAI.Model)
	} else {
		log.Println("Support chat using rule-based responder")
	}

	router := api.SetupRoutes(handlers)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Println("All services initialized — server is ready")

	<-done
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

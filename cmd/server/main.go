package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mwerner/shiftago/backend/internal/config"
	"github.com/mwerner/shiftago/backend/internal/repository/redis"
	"github.com/mwerner/shiftago/backend/internal/service/cleanup"
	"github.com/mwerner/shiftago/backend/internal/service/game"
	transporthttp "github.com/mwerner/shiftago/backend/internal/transport/http"
	"github.com/mwerner/shiftago/backend/internal/transport/http/middleware"
	transportws "github.com/mwerner/shiftago/backend/internal/transport/websocket"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadConfig()

	logger := newLogger(cfg.Preferences.LogLevel)
	defer logger.Sync()
	sugar := logger.Sugar()

	sugar.Info("Starting shiftago backend server...")

	// Snapshot persistence is optional: without redis, games simply are
	// not resumable across restarts.
	var store game.SnapshotStore
	redisClient, err := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		sugar.Warnw("[REDIS] Could not connect, snapshots disabled", "error", err)
	} else {
		defer redisClient.Close()
		store = redis.NewSnapshotStore(redisClient, cfg.SnapshotTTL)
		sugar.Info("[REDIS] Connected successfully")
	}

	sessionManager := game.NewSessionManager(sugar)
	connectionManager := transportws.NewConnectionManager()

	gameHandler := transporthttp.NewGameHandler(sessionManager, connectionManager, store,
		cfg.JWTSecret, cfg.TokenTTL, cfg.Preferences, sugar)
	wsHandler := transportws.NewHandler(sessionManager, connectionManager, cfg.JWTSecret, cfg.AllowedOrigins, sugar)
	cleanupWorker := cleanup.NewWorker(sessionManager, cfg.CleanupInterval, sugar)

	mux := http.NewServeMux()
	mux.Handle("/ws", wsHandler)
	mux.HandleFunc("/health", transporthttp.HandleHealth)
	mux.HandleFunc("/api/games", gameHandler.HandleCreateGame)
	mux.HandleFunc("/api/games/resume", gameHandler.HandleResumeGame)
	mux.HandleFunc("/api/snapshot", gameHandler.HandleSnapshot)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: middleware.EnableCORS(cfg.AllowedOrigins, middleware.SecurityHeaders(mux)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		cleanupWorker.Run(groupCtx)
		return nil
	})

	group.Go(func() error {
		sugar.Infof("Server is listening on port %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		sugar.Info("Server is shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		sugar.Fatalf("Server error: %v", err)
	}
	sugar.Info("Server exited gracefully")
}

func newLogger(level string) *zap.Logger {
	if level == "debug" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}

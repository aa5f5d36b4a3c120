package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/cache"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/chat"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/config"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/handler"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/history"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/hub"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/kafka"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/presence"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/room"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/storage"
	"github.com/shivrajcodez/Real-Time-Chat-App/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(log.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, ServiceName: "chat-server"})
	l := log.L()

	// Storage + room directory
	var (
		store storage.MessageStore
		dir   room.Directory
	)
	switch cfg.Storage.Driver {
	case "memory":
		store = storage.NewMemoryStore()
		dir = room.NewMemoryDirectory()
	default:
		db, err := storage.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			l.Fatal().Err(err).Str("path", cfg.Storage.Path).Msg("failed to open database")
		}
		store, err = storage.NewSQLiteStore(db)
		if err != nil {
			l.Fatal().Err(err).Msg("failed to initialise message store")
		}
		dir, err = room.NewSQLiteDirectory(db)
		if err != nil {
			l.Fatal().Err(err).Msg("failed to initialise room directory")
		}
	}
	defer store.Close()

	ctx := context.Background()
	if err := room.Seed(ctx, dir); err != nil {
		l.Fatal().Err(err).Msg("failed to seed default rooms")
	}

	// Optional history cache
	var msgCache cache.MessageCache
	if cfg.History.CacheEnabled {
		msgCache, err = cache.NewRedisCache(cache.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			l.Fatal().Err(err).Str("address", cfg.Redis.Address).Msg("failed to connect to redis")
		}
		defer msgCache.Close()
		l.Info().Str("address", cfg.Redis.Address).Msg("history cache enabled")
	}

	// Optional Kafka firehose
	var mirror storage.Mirror
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewConfluentProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Partitions)
		if err != nil {
			l.Fatal().Err(err).Str("brokers", cfg.Kafka.Brokers).Msg("failed to create kafka producer")
		}
		defer producer.Close()
		mirror = producer
		l.Info().Str("brokers", cfg.Kafka.Brokers).Str("kafka_topic", cfg.Kafka.Topic).Msg("kafka firehose enabled")
	}

	// Persistence write pool
	pool := storage.NewWritePool(store, mirror, cfg.Persist.QueueSize, cfg.Persist.Workers, cfg.Persist.Timeout)
	defer pool.Close()

	// Broadcast fabric
	wsHub := hub.NewHub(cfg.WebSocket)
	go wsHub.Run()

	// Core wiring
	reg := presence.NewRegistry()
	hist := history.NewService(store, msgCache, cfg.History.CacheTTL)
	coord := chat.NewCoordinator(reg, dir, hist, pool, wsHub, cfg.History.Limit)

	// HTTP surface
	router := mux.NewRouter()
	handler.NewWSHandler(wsHub, coord, cfg.WebSocket).RegisterRoutes(router)
	handler.NewHTTPHandler(dir, hist, reg, cfg.History.Limit).RegisterRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		l.Info().Str("addr", server.Addr).Msg("chat server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info().Msg("shutting down chat server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Warn().Err(err).Msg("server forced to shutdown")
	}

	l.Info().Msg("chat server stopped")
}

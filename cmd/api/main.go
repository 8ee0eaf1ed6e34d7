package main

import (
	"context"
	"fmt"
	"log"

	"assistant-chat/config"
	"assistant-chat/internal/events"
	"assistant-chat/internal/handler"
	"assistant-chat/internal/redis"
	"assistant-chat/internal/repository"
	"assistant-chat/internal/server"
	"assistant-chat/internal/services"
	"assistant-chat/internal/storage"
	"assistant-chat/internal/websocket"
	"assistant-chat/pkg/database"
	"assistant-chat/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := newRepository(ctx, cfg)
	if err != nil {
		l.Logger.Fatal("failed to open chat store", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer repo.Close()
	l.Infof("Chat store ready (backend=%s)", cfg.StoreBackend)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	var publisher events.Publisher = hub
	if cfg.RedisEnabled() {
		client, err := redis.NewClient(ctx, redis.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			l.Logger.Fatal("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer client.Close()
		publisher = redis.NewPublisher(client)

		bridge := websocket.NewRedisBridge(redis.NewSubscriber(client), hub)
		go func() {
			if err := bridge.Run(ctx); err != nil {
				l.Errorf("redis bridge stopped: %v", err)
			}
		}()
		l.Infof("Publishing chat events through redis at %s", cfg.RedisAddr)
	}

	chatService := services.NewChatService(repo, publisher, l)

	handlers := &server.Handlers{
		Chat: handler.NewChatHandler(chatService, l),
		WS:   websocket.NewHandler(chatService, hub, websocket.NewLogger(l.Logger)),
	}

	if cfg.S3Enabled() {
		s3Client, err := storage.NewClient(ctx, storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PublicBase: cfg.S3PublicBase,
			PresignTTL: cfg.S3PresignTTL,
		})
		if err != nil {
			l.Logger.Fatal("failed to configure s3", zap.Error(err))
		}
		if err := s3Client.Ping(ctx); err != nil {
			l.Warnf("S3 bucket %s is not reachable yet: %v", cfg.S3Bucket, err)
		}
		handlers.Upload = handler.NewUploadHandler(services.NewUploadS3Service(s3Client))
	} else {
		l.Warnf("S3 is not configured, image uploads are disabled")
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers)
	if err := srv.Start(); err != nil {
		l.Errorf("server exited with error: %v", err)
	}
}

func newRepository(ctx context.Context, cfg *config.Config) (repository.ChatRepository, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return repository.NewMemoryChatRepository(), nil
	case config.StorePostgres:
		db, err := database.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := database.ApplyMigrations(ctx, db, database.DirectionUp); err != nil {
			db.Close()
			return nil, err
		}
		return repository.NewPostgresChatRepository(db), nil
	case config.StoreBadger:
		db, err := repository.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		return repository.NewBadgerChatRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

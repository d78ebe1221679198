package main

import (
	"context"
	"log"

	"chatrelay/config"
	"chatrelay/internal/events"
	"chatrelay/internal/handler"
	"chatrelay/internal/redis"
	"chatrelay/internal/repository"
	"chatrelay/internal/server"
	"chatrelay/internal/services"
	"chatrelay/internal/storage"
	"chatrelay/internal/websocket"
	"chatrelay/pkg/database"
	"chatrelay/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()
	l := logger.New(cfg.AppMode)

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := redis.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	store, err := storage.NewClient(ctx, storage.Config{
		Region:        cfg.AWSRegion,
		AccessKey:     cfg.AWSAccessKey,
		SecretKey:     cfg.AWSSecretKey,
		UploadTimeout: cfg.UploadTimeout(),
	})
	if err != nil {
		log.Fatalf("Failed to build storage client: %v", err)
	}

	userRepo := repository.NewUserRepository(db, cfg.QueryTimeout())
	chatRepo := repository.NewChatRepository(db, cfg.QueryTimeout())
	sessions := redis.NewSessionStore(redisClient)
	bus := events.NewBus()

	userService := services.NewUserService(userRepo, store, cfg.UsersBucket, cfg.UserImageExt)
	chatService := services.NewChatService(chatRepo)
	authService := services.NewAuthService(userService, sessions, cfg.JWTSecret, cfg.AccessTokenTTL())

	srv := server.New(cfg, l, db)
	srv.SetupRoutes(&server.Handlers{
		Auth: handler.NewAuthHandler(authService),
		User: handler.NewUserHandler(userService),
		Chat: handler.NewChatHandler(chatService, bus),
		WS:   websocket.NewHandler(authService, bus, l),
	}, authService)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}

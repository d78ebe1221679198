package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatrelay/config"
	"chatrelay/internal/handler"
	"chatrelay/internal/middleware"
	"chatrelay/internal/services"
	"chatrelay/internal/transport/httpdto"
	"chatrelay/internal/websocket"
	"chatrelay/pkg/database"
	"chatrelay/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
	db         *pgxpool.Pool
}

const (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Auth *handler.AuthHandler
	User *handler.UserHandler
	Chat *handler.ChatHandler
	WS   *websocket.Handler
}

func New(cfg *config.Config, l *logger.Logger, db *pgxpool.Pool) *Server {
	switch cfg.AppMode {
	case ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case TestMode:
		gin.SetMode(gin.TestMode)
	case DebugMode:
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
		db:     db,
	}
}

// Engine exposes the underlying router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), s.db); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	guard := middleware.AuthMiddleware(authService)

	auth := s.engine.Group("/v1/auth")
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/logout", guard, handlers.Auth.Logout)
	}

	users := s.engine.Group("/v1/users")
	{
		users.POST("", handlers.User.Create)
		users.GET("", guard, handlers.User.List)
		users.GET("/:id", guard, handlers.User.Get)
		users.PATCH("/me", guard, handlers.User.Update)
		users.DELETE("/me", guard, handlers.User.Delete)
		users.POST("/me/image", guard, handlers.User.UploadImage)
	}

	chats := s.engine.Group("/v1/chats")
	{
		chats.POST("", guard, handlers.Chat.Create)
		chats.GET("", guard, handlers.Chat.List)
		chats.GET("/:id", handlers.Chat.Get)
		chats.PUT("/:id", guard, handlers.Chat.Update)
		chats.DELETE("/:id", guard, handlers.Chat.Remove)
	}

	s.engine.GET("/ws/chats", handlers.WS.ChatCreated)
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Errorf("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}
	return nil
}

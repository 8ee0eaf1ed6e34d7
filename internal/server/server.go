package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assistant-chat/config"
	"assistant-chat/internal/handler"
	"assistant-chat/internal/middleware"
	"assistant-chat/internal/websocket"
	"assistant-chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

// Handlers groups the route handlers. Upload and WS are optional.
type Handlers struct {
	Chat   *handler.ChatHandler
	Upload *handler.UploadHandler
	WS     *websocket.Handler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery(l))

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware(s.config.CORSOrigins))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/", handlers.Chat.Root)
	s.engine.GET("/health", handlers.Chat.Health)

	s.engine.POST("/create_chat", handlers.Chat.CreateChat)
	s.engine.POST("/send_message", handlers.Chat.SendMessage)

	chats := s.engine.Group("/chats")
	{
		chats.GET("", handlers.Chat.ListChats)
		chats.GET("/:chat_id", handlers.Chat.GetChat)
		chats.PATCH("/:chat_id", handlers.Chat.RenameChat)
		chats.DELETE("/:chat_id", handlers.Chat.DeleteChat)
		chats.GET("/:chat_id/messages", handlers.Chat.ListMessages)
	}

	if handlers.Upload != nil {
		s.engine.POST("/uploads/images", handlers.Upload.PresignImage)
	}
	if handlers.WS != nil {
		s.engine.GET("/ws/chats/:chat_id", handlers.WS.Connect)
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until SIGINT/SIGTERM, then shuts down with a 5 second grace period.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		s.logger.Errorf("Error in starting the server: %s", err)
		return err
	case <-quit:
	}

	s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Errorf("Error in the graceful shutdown of the server: %s", err)
		return err
	}

	s.logger.Infof("Server stopped gracefully")
	return nil
}

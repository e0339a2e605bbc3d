package main

import (
	// Standard library
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	// External dependencies
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/taskchat/taskchat/cmd/server/internal/agent"
	"github.com/taskchat/taskchat/cmd/server/internal/api"
	"github.com/taskchat/taskchat/cmd/server/internal/auth"
	"github.com/taskchat/taskchat/cmd/server/internal/config"
	"github.com/taskchat/taskchat/cmd/server/internal/middleware"
	"github.com/taskchat/taskchat/cmd/server/internal/store"
	"github.com/taskchat/taskchat/pkg/logger"
)

const version = "0.1.0"

func main() {
	logInstance, err := logger.Init(logger.Config{
		Level:       os.Getenv("LOG_LEVEL"),
		Environment: os.Getenv("ENV"),
		WithSource:  !strings.EqualFold(os.Getenv("ENV"), "prod"),
		File:        os.Getenv("LOG_FILE"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	appLogger := logInstance.With("component", "web-server")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := config.ValidateConfig(cfg); err != nil {
		appLogger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	appLogger.Info("configuration loaded", "env", cfg.Server.Env, "port", cfg.Server.Port)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open database and migrate schema
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		appLogger.Error("database init failed", "error", err)
		os.Exit(1)
	}
	tasks := store.NewTaskStore(db)
	convs := store.NewConversationStore(db)
	appLogger.Info("database ready", "path", cfg.Database.Path)

	// Initialize the text-generation client. A missing API key is a normal
	// operating mode: the parser then runs on the keyword fallback alone.
	var generator agent.Generator
	if cfg.Gemini.APIKey != "" {
		gemini, err := agent.NewGeminiClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			appLogger.Error("gemini client init failed", "error", err)
			os.Exit(1)
		}
		generator = gemini
		appLogger.Info("gemini client ready", "model", cfg.Gemini.Model)
	} else {
		appLogger.Warn("GEMINI_API_KEY not set, intent parser running in fallback-only mode")
	}

	parser := agent.NewParser(generator, cfg.Gemini.Timeout, logInstance.With("component", "intent-parser"))
	executor := agent.NewExecutor(tasks, logInstance.With("component", "command-executor"))
	session := agent.NewSession(convs, parser, executor, logInstance.With("component", "chat-session"))

	// Token manager for bearer auth
	tokens, err := auth.NewManager([]byte(cfg.Security.JWTSecret))
	if err != nil {
		appLogger.Error("auth manager init failed", "error", err)
		os.Exit(1)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(corsMiddleware(cfg.Security.CORSAllowedOrigins))

	// Unauthenticated endpoints
	r.GET("/healthz", api.HandleHealth(version, generator != nil))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Authenticated API surface. The X-User header shortcut is only honored
	// outside production.
	v1 := r.Group("/api/v1")
	v1.Use(middleware.OwnerAuth(tokens, !cfg.IsProduction()))
	{
		v1.GET("/tasks", api.HandleListTasks(tasks))
		v1.POST("/tasks", api.HandleCreateTask(tasks))
		v1.PUT("/tasks/:id", api.HandleUpdateTask(tasks))
		v1.DELETE("/tasks/:id", api.HandleDeleteTask(tasks))
		v1.PATCH("/tasks/:id/complete", api.HandleCompleteTask(tasks))

		v1.POST("/chat", api.HandleChat(session))
		v1.GET("/conversations/:id/messages", api.HandleConversationMessages(session))
	}

	// Create HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    cfg.GetServerAddr(),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("server starting", "addr", srv.Addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit
	appLogger.Info("shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	appLogger.Info("server shutdown complete")
}

// corsMiddleware allows the configured browser origins to call the API.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-User")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

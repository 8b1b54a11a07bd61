package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/breathe/backend/internal/config"
	"github.com/JonnyWalker81/breathe/backend/internal/handlers"
	"github.com/JonnyWalker81/breathe/backend/internal/logger"
	"github.com/JonnyWalker81/breathe/backend/internal/metrics"
	"github.com/JonnyWalker81/breathe/backend/internal/middleware"
	"github.com/JonnyWalker81/breathe/backend/internal/repository"
	"github.com/JonnyWalker81/breathe/backend/internal/service"
	"github.com/JonnyWalker81/breathe/backend/pkg/supabase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	log := logger.NewSlogLogger(logger.ParseConfig(cfg.Log.Level, cfg.Log.Format))
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting breathe API server",
		logger.String("env", cfg.Server.Env),
		logger.String("store", cfg.Store.Driver),
	)

	supabaseClient := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)

	logRepo, closeRepo, err := newLogRepository(ctx, cfg, supabaseClient)
	if err != nil {
		return err
	}
	defer closeRepo()

	m := metrics.New()
	wellnessService := service.NewWellnessService(logRepo, cfg.Analysis, m)
	wellnessHandler := handlers.NewWellnessHandler(wellnessService, cfg.Analysis.DefaultTZOffset)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log, m))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
			"store":  cfg.Store.Driver,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(ctx, cfg.RateLimit))
	v1.Use(middleware.Auth(supabaseClient))
	handlers.RegisterWellnessRoutes(v1, wellnessHandler)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.String("addr", httpServer.Addr))
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

// newLogRepository builds the log store selected by store.driver. The
// returned func releases its resources.
func newLogRepository(ctx context.Context, cfg *config.Config, client *supabase.Client) (repository.WellnessLogRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := repository.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return repository.NewPostgresLogRepository(pool), pool.Close, nil
	default:
		return repository.NewWellnessLogRepository(client), func() {}, nil
	}
}

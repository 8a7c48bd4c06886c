package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"mbs-pricing-ui/internal/config"
	"mbs-pricing-ui/internal/handler"
	"mbs-pricing-ui/internal/logger"
	"mbs-pricing-ui/internal/metrics"
	"mbs-pricing-ui/internal/render"
	"mbs-pricing-ui/internal/repository"
	"mbs-pricing-ui/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&cfg.Logging)
	log.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("Agency MBS Pricing Predictor UI")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("✅ Server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	gin.SetMode(cfg.Server.GinMode)

	sessions, err := newSessionRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer sessions.Close()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Initialize prediction client
	client := service.NewPredictionClient(&cfg.Prediction, log)
	log.Info().
		Str("predict_url", cfg.Prediction.PredictURL()).
		Dur("timeout", cfg.Prediction.RequestTimeout()).
		Msg("✅ Prediction client initialized")

	pricingService := service.NewPricingService(sessions, client, m, log)

	templates, err := render.LoadTemplates()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	formHandler := handler.NewFormHandler(pricingService, templates, cfg.Server.BasePath, log)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinMiddleware(log))
	if m != nil {
		router.Use(m.GinMiddleware())
	}

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins()
	corsConfig.AllowMethods = cfg.Server.CORSMethods()
	corsConfig.AllowHeaders = cfg.Server.CORSHeaders()
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "agency-mbs-pricing-ui",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	if m != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	base := router.Group(cfg.Server.BasePath)

	// Static assets come from the embedded FS or from disk, see embed.go and static_dev.go
	setupStaticFiles(base, log)

	ui := base.Group("", handler.SessionMiddleware(&cfg.Session, cfg.Server.BasePath))
	handler.RegisterFormRoutes(ui, formHandler)

	if cfg.Prediction.ProxyEnabled {
		proxyHandler, err := handler.NewProxyHandler(cfg.Prediction.APIBase, log)
		if err != nil {
			return err
		}
		handler.RegisterProxyRoutes(base, proxyHandler)
		log.Info().Str("target", cfg.Prediction.APIBase).Msg("🔧 Proxying /api to the prediction backend")
	}

	if cfg.Server.BasePath != "/" {
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, cfg.Server.BasePath+"/")
		})
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("🚀 Starting server")
		log.Info().Msgf("🌐 Web UI: http://localhost:%d%s", cfg.Server.Port, cfg.Server.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newSessionRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.SessionRepository, error) {
	ttl := cfg.Session.SessionTTL()

	if cfg.Session.Backend == "redis" {
		repo, err := repository.NewRedisSessionRepository(ctx, &cfg.Redis, ttl)
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", ttl).Msg("✅ Connected to Redis session store")
		return repo, nil
	}

	log.Info().Dur("ttl", ttl).Msg("✅ Using in-memory session store")
	return repository.NewMemorySessionRepository(ttl), nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dchpef/acta-engine/internal/audit"
	"github.com/dchpef/acta-engine/internal/config"
	"github.com/dchpef/acta-engine/internal/handlers"
	"github.com/dchpef/acta-engine/internal/metrics"
	"github.com/dchpef/acta-engine/internal/pdfgen"
	"github.com/dchpef/acta-engine/internal/reporting"
	"github.com/dchpef/acta-engine/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.InitLogger()
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting acta-engine",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.HTTPPort))

	db, err := storage.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := storage.RunMigrations(cfg.Database); err != nil {
		logger.Fatal("failed to run database migrations", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := storage.NewRepository(db, logger)
	generador := pdfgen.NewGenerator(cfg.Documents, logger)
	exportador := reporting.NewExporter(logger)
	metricas := metrics.NewCollector()

	auditoria := audit.NewLogger(cfg.Audit, logger)
	if err := auditoria.Start(ctx); err != nil {
		logger.Fatal("failed to start audit logger", zap.Error(err))
	}

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	h := handlers.NewHandler(cfg.Documents, repo, generador, exportador, auditoria, metricas, logger)
	h.RegisterRoutes(router)

	if cfg.Monitoring.EnableMetrics {
		router.GET(cfg.Monitoring.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.Timeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.Timeout) * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	if err := auditoria.Stop(shutdownCtx); err != nil {
		logger.Error("audit logger shutdown failed", zap.Error(err))
	}
	logger.Info("stopped")
}

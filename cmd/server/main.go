package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	httpctx "github.com/dtroode/emotion-log/internal/api/http/context"
	"github.com/dtroode/emotion-log/internal/api/http/router"
	httpServer "github.com/dtroode/emotion-log/internal/api/http/server"
	"github.com/dtroode/emotion-log/internal/config"
	"github.com/dtroode/emotion-log/internal/logger"
	"github.com/dtroode/emotion-log/internal/model"
	"github.com/dtroode/emotion-log/internal/repository/memory"
	"github.com/dtroode/emotion-log/internal/repository/postgres"
	"github.com/dtroode/emotion-log/internal/server"
	"github.com/dtroode/emotion-log/internal/service"
	storage "github.com/dtroode/emotion-log/internal/storage/minio"
	"github.com/dtroode/emotion-log/internal/token"
	"github.com/dtroode/emotion-log/internal/validation"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewServerConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	var (
		userStore model.UserStore
		logStore  model.EmotionLogStore
		services  router.Services
	)

	switch cfg.Database.Driver {
	case "memory":
		logger.Warn("using in-memory storage, data is lost on restart")
		userStore = memory.NewUserRepository()
		logStore = memory.NewEmotionLogRepository()
	case "postgres":
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Fatal("failed to initialize database", "error", err)
		}
		defer db.Close()

		userStore = postgres.NewUserRepository(db)
		logStore = postgres.NewEmotionLogRepository(db)
		services.DB = db
	default:
		logger.Fatal("unknown database driver", "driver", cfg.Database.Driver)
	}

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	authService, err := service.NewAuth(userStore, tokenManager, bcrypt.DefaultCost, logger)
	if err != nil {
		logger.Fatal("failed to initialize auth service", "error", err)
	}
	services.Auth = authService
	services.EmotionLog = service.NewEmotionLog(logStore, logger)

	if cfg.Storage.Enabled {
		storageClient, err := storage.New(ctx, cfg.Storage)
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}
		services.Export = service.NewExport(logStore, storageClient, logger)
	}

	r := router.New(services, router.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		LoginRate:      cfg.HTTP.LoginRate,
		LoginBurst:     cfg.HTTP.LoginBurst,
		EnableMetrics:  cfg.Metrics.Enabled,
	}, validation.New(), httpctx.NewManager(), logger)

	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))
	sl := server.NewSecurityLayer(cfg.HTTP)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

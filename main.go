package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fleet_tracker/internal/api"
	"fleet_tracker/internal/logging"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/repository"
	"fleet_tracker/internal/service"
	"fleet_tracker/internal/storage"
	"fleet_tracker/internal/utils"
	"fleet_tracker/pkg/config"
)

func main() {
	// 載入應用程式配置
	// 從設定檔與 FLEET_ 開頭的環境變數讀取設置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化資料庫連接
	db, err := storage.NewPostgresDB(cfg.DB, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	// 確保在程序結束時關閉數據庫連接
	defer db.Close()

	// 自動遷移資料庫結構
	if err := db.AutoMigrate(); err != nil {
		logger.Fatal("Failed to auto migrate database", zap.Error(err))
	}

	// 初始化 repositories 與 services
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, service.Options{
		Tokens:     utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.RefreshSecret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshExpiresIn),
		BcryptCost: service.DefaultBcryptCost,
		Location:   cfg.App.Location(),
		Logger:     logger,
	})

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window)
	limiter.StartCleanup(ctx, cfg.Server.RateLimit.Window)

	// 設置 Gin 路由
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	if err := api.SetupRoutes(r, services, api.Options{
		Logger:         logger,
		CORSOrigin:     cfg.Server.CORSOrigin,
		TrustedProxies: cfg.Server.TrustedProxies,
		RateLimiter:    limiter,
		Database:       db,
	}); err != nil {
		logger.Fatal("Failed to set up routes", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 啟動伺服器
	go func() {
		logger.Info("Server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

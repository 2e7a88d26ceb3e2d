package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fleet_tracker/internal/api/handlers"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"
	"fleet_tracker/internal/service"
	"fleet_tracker/internal/validation"
)

// Options 路由層的外部設定
type Options struct {
	Logger         *zap.Logger
	CORSOrigin     string
	TrustedProxies []string                // 空值時 ClientIP 只看連線位址
	RateLimiter    *middleware.RateLimiter // nil 表示不限制
	Database       handlers.Pinger         // nil 時健康檢查不含資料庫
}

func SetupRoutes(r *gin.Engine, services *service.Services, opts Options) error {
	if err := validation.Register(); err != nil {
		return err
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	// 限流以 ClientIP 為鍵，不可信任任意來源的 X-Forwarded-For
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return err
	}

	// 全域中間件
	r.Use(middleware.RequestLogger(opts.Logger), middleware.Metrics())
	r.Use(secure.New(securityHeaders()))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Handler())
	}
	r.Use(cors.New(corsConfig(opts.CORSOrigin)))

	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	userHandler := handlers.NewUserHandler(services.User)
	vehicleHandler := handlers.NewVehicleHandler(services.Vehicle)
	reportHandler := handlers.NewReportHandler(services.Report)
	liveHandler := handlers.NewLiveHandler(services.Live, services.Vehicle, opts.CORSOrigin)
	healthHandler := handlers.NewHealthHandler(opts.Database)

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.Response{Success: false, Message: "Route not found"})
	})

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRequired := middleware.AuthMiddleware(services.Auth)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := r.Group("/api")

	// 認證
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authRequired, authHandler.Logout)
		auth.GET("/me", authRequired, authHandler.Me)
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(authRequired)

	users := authorized.Group("/users")
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.POST("", adminOnly, userHandler.Create)
		users.PUT("/:id", adminOnly, userHandler.Update)
		users.DELETE("/:id", adminOnly, userHandler.Delete)
	}

	vehicles := authorized.Group("/vehicles")
	{
		vehicles.GET("", vehicleHandler.List)
		vehicles.POST("", vehicleHandler.Create)
		vehicles.GET("/live", liveHandler.Subscribe) // WebSocket
		vehicles.GET("/:id", vehicleHandler.Get)
		vehicles.PUT("/:id", vehicleHandler.Update)
		vehicles.DELETE("/:id", vehicleHandler.Delete)
		vehicles.GET("/:id/status", vehicleHandler.Status)
		vehicles.POST("/:id/status", vehicleHandler.RecordStatus)
	}

	reports := authorized.Group("/reports")
	{
		reports.GET("/vehicle/:vehicleId", reportHandler.VehicleReport)
		reports.GET("/generate", reportHandler.Generate)
	}

	return nil
}

func corsConfig(origin string) cors.Config {
	config := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origin == "*" {
		config.AllowAllOrigins = true
		config.AllowCredentials = false
	} else {
		config.AllowOrigins = []string{origin}
	}
	return config
}

func securityHeaders() secure.Config {
	return secure.Config{
		STSSeconds:            15552000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "no-referrer",
	}
}

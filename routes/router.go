package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirlapp/hirl-server/config"
	"github.com/hirlapp/hirl-server/controllers"
	"github.com/hirlapp/hirl-server/geo"
	"github.com/hirlapp/hirl-server/middleware"
	"github.com/hirlapp/hirl-server/repository"
	"github.com/hirlapp/hirl-server/services"
	"github.com/hirlapp/hirl-server/utils"
	"github.com/hirlapp/hirl-server/visibility"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	gate := geo.NewGate(cfg.DisplayRadiusMeters, cfg.CheckInRadiusMeters)
	policy := visibility.NewPolicy(visibility.Options{
		GridGenderGateEnabled: cfg.GridGenderGateEnabled,
		GridFullAccessGender:  cfg.GridFullAccessGender,
	})

	checkInRepo := repository.NewCheckInRepository(db)
	pingRepo := repository.NewPingRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	userRepo := repository.NewUserRepository(db)

	checkInService := services.NewCheckInService(checkInRepo, gate)
	pingService := services.NewPingService(pingRepo, userRepo)

	authController := controllers.NewAuthController(db, checkInService)
	venueController := controllers.NewVenueController(db, gate)
	checkInController := controllers.NewCheckInController(db, checkInService, checkInRepo, blockRepo, policy)
	pingController := controllers.NewPingController(db, pingService, pingRepo, checkInRepo, blockRepo)
	blockController := controllers.NewBlockController(blockRepo)
	statsController := controllers.NewStatsController(db)
	configController := controllers.NewConfigController()
	adminController := controllers.NewAdminController(db, checkInRepo)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public endpoints
	api.GET("/stats", statsController.Global)
	api.GET("/config/client", configController.Client)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.GET("/venues", venueController.ListVenues)
	protected.GET("/venues/:id", venueController.GetVenue)
	protected.POST("/venues/:id/check-in", checkInController.CheckIn)
	protected.GET("/venues/:id/people", checkInController.People)

	protected.GET("/check-ins/me", checkInController.ActiveCheckIn)
	protected.POST("/check-ins/:id/check-out", checkInController.CheckOut)

	protected.POST("/pings", pingController.SendPing)
	protected.POST("/pings/:id/seen", pingController.MarkSeen)
	protected.GET("/pings/incoming", pingController.ListIncoming)
	protected.GET("/pings/matches", pingController.ListMatches)

	protected.POST("/blocks", blockController.Block)
	protected.DELETE("/blocks/:email", blockController.Unblock)
	protected.GET("/blocks", blockController.List)

	protected.GET("/stats/me", statsController.Mine)

	protected.POST("/admin/seed-test-data", adminController.SeedTestData)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}

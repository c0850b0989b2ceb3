package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rushmoreapp/rushmore/config"
	"github.com/rushmoreapp/rushmore/controllers"
	"github.com/rushmoreapp/rushmore/middleware"
	"github.com/rushmoreapp/rushmore/services"
	"github.com/rushmoreapp/rushmore/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, questions *services.QuestionService, streaks *services.StreakService) *gin.Engine {
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
	loc := cfg.Location()

	r := gin.New()
	// Replace default console logger with file-based zap logger
	ginLogPath := cfg.GinPath
	// Use application log level as reference
	gl, err := utils.NewRollingFileLogger(ginLogPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
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
	// Record PV after each request
	r.Use(middleware.PageViewRecorder(db))

	r.Static("/static", "./static")

	r.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	questionController := controllers.NewQuestionController(db, questions, loc)
	submissions := services.NewSubmissionService(db, questions, streaks)
	rushmoreController := controllers.NewRushmoreController(db, submissions, loc)
	voteController := controllers.NewVoteController(db)
	commentController := controllers.NewCommentController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public reads
	api.GET("/questions/today", questionController.Today)
	api.GET("/rushmores", rushmoreController.ListToday)
	api.GET("/leaderboard", rushmoreController.Leaderboard)
	api.GET("/rushmores/:id/comments", commentController.List)
	api.GET("/users/:id", authController.GetUserPublic)
	api.GET("/users/:id/stats", statsController.GetUserStats)
	api.GET("/achievements", statsController.ListAchievements)
	api.GET("/stats", statsController.GetStats)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/rushmores", rushmoreController.Create)
	protected.POST("/votes", voteController.Cast)
	protected.POST("/rushmores/:id/comments", commentController.Create)
	protected.POST("/rushmores/:id/report", rushmoreController.Report)
	protected.DELETE("/comments/:commentId", commentController.Delete)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired())
	admin.POST("/questions", questionController.SetQuestion)
	admin.POST("/reset", questionController.Reset)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		// fall back to the SPA entry for client-side routes
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}

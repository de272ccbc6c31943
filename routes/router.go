package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ricebook-backend/config"
	"ricebook-backend/controllers"
	"ricebook-backend/middleware"
	"ricebook-backend/utils"
)

// SetupRouter wires middleware and routes onto a gin engine.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(utils.GinLogger(utils.Logger))
	r.Use(utils.GinRecovery(utils.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.PageViewRecorder(db))

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	corsCfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	articleController := controllers.NewArticleController(db)
	profileController := controllers.NewProfileController(db)
	followController := controllers.NewFollowController(db)
	statsController := controllers.NewStatsController(db)

	// Rate limit only the credential endpoints
	limited := r.Group("/", middleware.RateLimitMiddleware())
	limited.POST("/register", authController.Register)
	limited.POST("/login", authController.Login)

	auth := r.Group("/", middleware.AuthRequired())
	auth.PUT("/logout", authController.Logout)
	auth.GET("/me", authController.Me)

	// Articles. Gin has no optional path parameters, so the with- and
	// without-parameter forms are registered separately.
	auth.GET("/articles", articleController.GetArticles)
	auth.GET("/articles/:id", articleController.GetArticles)
	auth.POST("/article", articleController.CreateArticle)
	auth.PUT("/articles/:id", articleController.UpdateArticle)

	// Profile fields
	auth.GET("/headline", profileController.GetHeadline)
	auth.GET("/headline/:user", profileController.GetHeadline)
	auth.PUT("/headline", profileController.UpdateHeadline)
	auth.GET("/email", profileController.GetEmail)
	auth.GET("/email/:user", profileController.GetEmail)
	auth.PUT("/email", profileController.UpdateEmail)
	auth.GET("/zipcode", profileController.GetZipcode)
	auth.GET("/zipcode/:user", profileController.GetZipcode)
	auth.PUT("/zipcode", profileController.UpdateZipcode)
	auth.GET("/phone", profileController.GetPhone)
	auth.GET("/phone/:user", profileController.GetPhone)
	auth.PUT("/phone", profileController.UpdatePhone)
	auth.GET("/dob", profileController.GetDOB)
	auth.GET("/dob/:user", profileController.GetDOB)
	auth.GET("/avatar", profileController.GetAvatar)
	auth.GET("/avatar/:user", profileController.GetAvatar)
	auth.PUT("/avatar", profileController.UpdateAvatar)
	auth.PUT("/password", profileController.UpdatePassword)

	// Follow graph
	auth.GET("/following", followController.GetFollowing)
	auth.GET("/following/:user", followController.GetFollowing)
	auth.PUT("/following/:user", followController.Follow)
	auth.DELETE("/following/:user", followController.Unfollow)

	auth.GET("/stats", statsController.Overview)

	return r
}

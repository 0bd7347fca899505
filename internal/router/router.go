package router

import (
	"newsapi/internal/auth"
	"newsapi/internal/cache"
	"newsapi/internal/config"
	"newsapi/internal/handlers"
	"newsapi/internal/middleware"
	"newsapi/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Setup 组装全部路由
func Setup(cfg *config.Config, gdb *gorm.DB, store cache.Cache, tokens *auth.TokenService, geo *services.GeoService, logger *zap.Logger) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.LoadUser(gdb, tokens))

	healthHandler := handlers.NewHealthHandler(gdb, cfg)
	authHandler := handlers.NewAuthHandler(gdb, tokens, logger)
	articleHandler := handlers.NewArticleHandler(gdb, store, logger)
	commentHandler := handlers.NewCommentHandler(services.NewCommentService(gdb))
	userHandler := handlers.NewUserHandler(gdb)
	dashboardHandler := handlers.NewDashboardHandler(gdb, store)
	visitHandler := handlers.NewVisitHandler(gdb, geo, logger)

	v1 := r.Group("/api/v1")

	// 公开接口
	v1.GET("/health", healthHandler.Check)
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/refresh", authHandler.Refresh)
	v1.POST("/visits", visitHandler.Create)

	// 登录后可用
	authed := v1.Group("")
	authed.Use(middleware.AuthRequired())
	{
		authed.POST("/articles", articleHandler.Create)
		authed.GET("/articles", articleHandler.List)
		authed.GET("/articles/:id", articleHandler.Get)
		authed.PUT("/articles/:id", articleHandler.Update)
		authed.DELETE("/articles/:id", articleHandler.Delete)

		authed.POST("/comments", commentHandler.Create)
		authed.GET("/comments/article/:article_id", commentHandler.ListByArticle)
		authed.DELETE("/comments/article/:article_id/comment/:comment_id", commentHandler.Delete)

		authed.GET("/users/me", userHandler.Me)
		authed.PUT("/users/me", userHandler.UpdateMe)
		authed.GET("/users/:id", userHandler.GetByID)

		authed.GET("/dashboard/stats", dashboardHandler.Stats)
	}

	// 管理员接口
	admin := v1.Group("")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/comments", commentHandler.ListAll)
		admin.POST("/comments/:comment_id/review", commentHandler.Review)
		admin.GET("/users", userHandler.List)
		admin.GET("/visits/stats", visitHandler.Stats)
	}

	return r
}

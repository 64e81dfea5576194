package app

import (
	"career_compass_backend/docs"
	"career_compass_backend/internal/config"
	"career_compass_backend/internal/middleware"
	"career_compass_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 测评：游客可用，登录用户结果会关联账号
	a.registerAssessmentRoutes(router, c)

	// 3. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerAuthorizedRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		// 结果 ID 可分享，查看不需要登录
		public.GET("/analysis/results/:id", c.analysis.GetResult)
		public.GET("/analysis/results/:id/snapshot", c.analysis.GetSnapshot)
		public.GET("/analysis/full-results/:id", c.analysis.GetFullResult)
	}
}

func (a *App) registerAssessmentRoutes(router *gin.Engine, c *controllers) {
	sessions := router.Group("/api/assessment/sessions")
	sessions.Use(middleware.TryAuthMiddleware(a.Config))
	{
		sessions.POST("", c.assessment.Start)
		sessions.GET("/:id", c.assessment.Get)
		sessions.POST("/:id/select", c.assessment.SelectOption)
		sessions.POST("/:id/confirm", c.assessment.Confirm)
		sessions.POST("/:id/skip", c.assessment.Skip)
		sessions.POST("/:id/cancel", c.assessment.Cancel)
	}
}

func (a *App) registerAuthorizedRoutes(rg *gin.RouterGroup, c *controllers) {
	// 用户档案与旅程进度
	rg.GET("/user/profile", c.user.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.PUT("/user/journey", c.user.UpdateJourneyProgress)

	// 测评历史
	rg.GET("/analysis/history", c.analysis.History)
	rg.GET("/analysis/full-history", c.analysis.FullHistory)
	rg.GET("/analysis/latest", c.analysis.Latest)
	rg.GET("/analysis/top-careers", c.analysis.TopCareers)

	// 技能差距
	rg.POST("/skill-gap", c.skillGap.Request)
	rg.GET("/skill-gap", c.skillGap.History)
	rg.GET("/skill-gap/:id", c.skillGap.Get)
	rg.DELETE("/skill-gap/:id", c.skillGap.Delete)
	rg.PUT("/skill-gap/:id/progress", c.skillGap.ToggleProgress)
	rg.POST("/skill-gap/:id/course-plan", c.skillGap.CoursePlan)

	// 路径试验
	rg.POST("/tryouts", c.tryout.Create)
	rg.GET("/tryouts", c.tryout.List)
	rg.GET("/tryouts/:id", c.tryout.Get)
	rg.POST("/tryouts/:id/log", c.tryout.LogTask)

	// 推送订阅
	rg.POST("/push/subscribe", c.push.Subscribe)
	rg.POST("/push/unsubscribe", c.push.Unsubscribe)
	rg.GET("/push/subscriptions", c.push.List)
}

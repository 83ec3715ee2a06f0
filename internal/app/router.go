package app

import (
	"github.com/Ravishyamsingh/Quiz-System/docs"
	"github.com/Ravishyamsingh/Quiz-System/internal/config"
	"github.com/Ravishyamsingh/Quiz-System/internal/middleware"
	"github.com/Ravishyamsingh/Quiz-System/pkg/monitoring"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	// Learner surface: anonymous callers allowed, identity resolved to the
	// anonymous sentinel when no token is present.
	learner := router.Group("/api")
	learner.Use(middleware.TryAuthMiddleware(cfg))
	{
		learner.GET("/quizzes", c.quiz.List)
		learner.GET("/quizzes/:id", c.quiz.Fetch)
		learner.POST("/quizzes/:id/submit", c.quiz.Submit)
	}

	// Instructor surface: authenticated only.
	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware(cfg))
	{
		authorized.POST("/quizzes/generate", c.quiz.Generate)
		authorized.POST("/quizzes", c.quiz.Save)
		authorized.PATCH("/quizzes/:id/status", c.quiz.UpdateStatus)
		authorized.DELETE("/quizzes/:id", c.quiz.Delete)
		authorized.GET("/attempts", c.quiz.Attempts)
	}
}

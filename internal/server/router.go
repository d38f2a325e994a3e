package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/veracomply/veracomply-backend/internal/handlers"
	"github.com/veracomply/veracomply-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName       string
	AllowOrigins      []string
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	TemplateHandler   *handlers.TemplateHandler
	AssessmentHandler *handlers.AssessmentHandler
	AnalysisHandler   *handlers.AnalysisHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Templates
	protected.POST("/templates", cfg.TemplateHandler.CreateDraft)
	protected.GET("/templates", cfg.TemplateHandler.ListPublished)
	protected.GET("/templates/:template_id", cfg.TemplateHandler.GetByID)
	protected.POST("/templates/:template_id/publish", cfg.TemplateHandler.Publish)

	// Assessments
	protected.POST("/assessments", cfg.AssessmentHandler.Start)
	protected.GET("/assessments/:assessment_id", cfg.AssessmentHandler.GetByID)
	protected.POST("/assessments/:assessment_id/answers", cfg.AssessmentHandler.SubmitAnswer)
	protected.GET("/assessments/:assessment_id/score", cfg.AssessmentHandler.ComputeScore)

	// Analysis (entitlement-gated inside the service)
	protected.GET("/assessments/:assessment_id/gap-analysis", cfg.AnalysisHandler.GetGapAnalysis)
	protected.GET("/assessments/:assessment_id/strategy-matrix", cfg.AnalysisHandler.GetStrategyMatrix)

	return router
}

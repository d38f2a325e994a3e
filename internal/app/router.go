package app

import (
	"github.com/gin-gonic/gin"

	"github.com/veracomply/veracomply-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:       cfg.ServiceName,
		AllowOrigins:      cfg.AllowOrigins,
		AuthHandler:       handlerset.Auth,
		AuthMiddleware:    middlewareset.Auth,
		TemplateHandler:   handlerset.Template,
		AssessmentHandler: handlerset.Assessment,
		AnalysisHandler:   handlerset.Analysis,
	})
}

package app

import (
	"github.com/veracomply/veracomply-backend/internal/handlers"
	"github.com/veracomply/veracomply-backend/internal/logger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Template   *handlers.TemplateHandler
	Assessment *handlers.AssessmentHandler
	Analysis   *handlers.AnalysisHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       handlers.NewAuthHandler(serviceset.Auth),
		Template:   handlers.NewTemplateHandler(serviceset.Template),
		Assessment: handlers.NewAssessmentHandler(serviceset.Assessment),
		Analysis:   handlers.NewAnalysisHandler(serviceset.Analysis),
	}
}

package app

import (
	"gorm.io/gorm"

	redisclient "github.com/veracomply/veracomply-backend/internal/clients/redis"
	"github.com/veracomply/veracomply-backend/internal/entitlement"
	"github.com/veracomply/veracomply-backend/internal/gaps"
	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/scoring"
	"github.com/veracomply/veracomply-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Template   services.TemplateService
	Assessment services.AssessmentService
	Analysis   services.AnalysisService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	engine := scoring.NewEngine(log)
	generator := gaps.NewGenerator(log)
	gate := entitlement.NewGate(reposet.Subscription, log)

	// Redis is optional; scoring falls back to recomputing on every call.
	cache, err := redisclient.NewScoreCache(log)
	if err != nil {
		log.Warn("score cache disabled", "error", err)
		cache = nil
	}

	return Services{
		Auth: services.NewAuthService(db, log,
			reposet.User, reposet.Organization, reposet.Subscription,
			cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Template: services.NewTemplateService(db, log, reposet.Template),
		Assessment: services.NewAssessmentService(db, log,
			reposet.Assessment, reposet.Answer, reposet.Template, engine, cache),
		Analysis: services.NewAnalysisService(db, log,
			reposet.Assessment, reposet.Answer, reposet.Template,
			reposet.Gap, reposet.Vendor, engine, generator, gate),
	}, nil
}

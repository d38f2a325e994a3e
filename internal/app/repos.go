package app

import (
	"gorm.io/gorm"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/repos"
)

type Repos struct {
	Organization repos.OrganizationRepo
	User         repos.UserRepo
	Subscription repos.SubscriptionRepo
	Template     repos.TemplateRepo
	Assessment   repos.AssessmentRepo
	Answer       repos.AnswerRepo
	Gap          repos.GapRepo
	Vendor       repos.VendorRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Organization: repos.NewOrganizationRepo(db, log),
		User:         repos.NewUserRepo(db, log),
		Subscription: repos.NewSubscriptionRepo(db, log),
		Template:     repos.NewTemplateRepo(db, log),
		Assessment:   repos.NewAssessmentRepo(db, log),
		Answer:       repos.NewAnswerRepo(db, log),
		Gap:          repos.NewGapRepo(db, log),
		Vendor:       repos.NewVendorRepo(db, log),
	}
}

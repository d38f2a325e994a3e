package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/types"
)

type OrganizationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, org *types.Organization) (*types.Organization, error)
	GetByID(ctx context.Context, tx *gorm.DB, organizationID uuid.UUID) (*types.Organization, error)
}

type organizationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrganizationRepo(db *gorm.DB, baseLog *logger.Logger) OrganizationRepo {
	return &organizationRepo{db: db, log: baseLog.With("repo", "OrganizationRepo")}
}

func (r *organizationRepo) Create(ctx context.Context, tx *gorm.DB, org *types.Organization) (*types.Organization, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(org).Error; err != nil {
		return nil, err
	}
	return org, nil
}

func (r *organizationRepo) GetByID(ctx context.Context, tx *gorm.DB, organizationID uuid.UUID) (*types.Organization, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var org types.Organization
	err := transaction.WithContext(ctx).First(&org, "id = ?", organizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

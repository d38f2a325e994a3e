package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/types"
)

type SubscriptionRepo interface {
	// GetByOrganizationID returns (nil, nil) when the organization has no
	// subscription on file; the entitlement gate treats that as FREE.
	GetByOrganizationID(ctx context.Context, organizationID uuid.UUID) (*types.Subscription, error)
	Upsert(ctx context.Context, tx *gorm.DB, sub *types.Subscription) (*types.Subscription, error)
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (r *subscriptionRepo) GetByOrganizationID(ctx context.Context, organizationID uuid.UUID) (*types.Subscription, error) {
	var sub types.Subscription
	err := r.db.WithContext(ctx).First(&sub, "organization_id = ?", organizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepo) Upsert(ctx context.Context, tx *gorm.DB, sub *types.Subscription) (*types.Subscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	existing, err := r.GetByOrganizationID(ctx, sub.OrganizationID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := transaction.WithContext(ctx).Create(sub).Error; err != nil {
			return nil, err
		}
		return sub, nil
	}
	existing.Plan = sub.Plan
	existing.RenewsAt = sub.RenewsAt
	if err := transaction.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

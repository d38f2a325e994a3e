package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/types"
)

type VendorRepo interface {
	ListAll(ctx context.Context, tx *gorm.DB) ([]types.Vendor, error)
	UpsertByName(ctx context.Context, tx *gorm.DB, vendors []types.Vendor) error
}

type vendorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVendorRepo(db *gorm.DB, baseLog *logger.Logger) VendorRepo {
	return &vendorRepo{db: db, log: baseLog.With("repo", "VendorRepo")}
}

func (r *vendorRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]types.Vendor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.Vendor
	if err := transaction.WithContext(ctx).Order("name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *vendorRepo) UpsertByName(ctx context.Context, tx *gorm.DB, vendors []types.Vendor) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(vendors) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"website", "categories", "updated_at"}),
		}).
		Create(&vendors).Error
}

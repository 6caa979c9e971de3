package listings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"

	"github.com/diwinters/tradewind-backend/pkg/db/models"
)

// Repository is the read model the order lifecycle consults. Listing CRUD
// lives outside this service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Listing, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a listings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeListingNotAvailable, "listing not found")
		}
		return nil, err
	}
	return &listing, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

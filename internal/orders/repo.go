package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diwinters/tradewind-backend/pkg/db/models"
	"github.com/diwinters/tradewind-backend/pkg/enums"
	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
	"github.com/diwinters/tradewind-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their disputes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	LockByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, status *enums.OrderStatus, params pagination.Params) ([]models.Order, int64, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, status *enums.OrderStatus, params pagination.Params) ([]models.Order, int64, error)

	CreateDispute(ctx context.Context, dispute *models.Dispute) error
	FindDisputeByOrder(ctx context.Context, orderID uuid.UUID) (*models.Dispute, error)
	UpdateDispute(ctx context.Context, disputeID uuid.UUID, updates map[string]any) error

	UpdateSellerRating(ctx context.Context, sellerID uuid.UUID, rating int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Dispute").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeOrderNotFound, "order not found")
		}
		return nil, err
	}
	return &order, nil
}

// LockByID loads the order row under SELECT ... FOR UPDATE so concurrent
// transitions on the same order serialize. Callers must already be inside a
// transaction.
func (r *repository) LockByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	query := r.db.WithContext(ctx)
	if query.Dialector.Name() != "sqlite" { // sqlite has a single writer
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := query.First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeOrderNotFound, "order not found")
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, status *enums.OrderStatus, params pagination.Params) ([]models.Order, int64, error) {
	return r.list(ctx, "buyer_id", buyerID, status, params)
}

func (r *repository) ListBySeller(ctx context.Context, sellerID uuid.UUID, status *enums.OrderStatus, params pagination.Params) ([]models.Order, int64, error) {
	return r.list(ctx, "seller_id", sellerID, status, params)
}

func (r *repository) list(ctx context.Context, column string, partyID uuid.UUID, status *enums.OrderStatus, params pagination.Params) ([]models.Order, int64, error) {
	params = params.Normalize()

	base := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where(column+" = ?", partyID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := base.
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *repository) CreateDispute(ctx context.Context, dispute *models.Dispute) error {
	return r.db.WithContext(ctx).Create(dispute).Error
}

func (r *repository) FindDisputeByOrder(ctx context.Context, orderID uuid.UUID) (*models.Dispute, error) {
	var dispute models.Dispute
	err := r.db.WithContext(ctx).First(&dispute, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dispute, nil
}

func (r *repository) UpdateDispute(ctx context.Context, disputeID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Dispute{}).
		Where("id = ?", disputeID).
		Updates(updates).Error
}

// UpdateSellerRating folds one rating into the seller's running average as a
// single UPDATE, so the aggregate stays consistent with the completion that
// produced it.
func (r *repository) UpdateSellerRating(ctx context.Context, sellerID uuid.UUID, rating int64) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE users
		SET rating_avg = (rating_avg * rating_count + ?) / (rating_count + 1),
			rating_count = rating_count + 1
		WHERE id = ?
	`, rating, sellerID).Error
}

package wallet

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

// Repository manages persistence for wallets and their transaction log.
// Escrow lives on the order row, so the repository also exposes the narrow
// order surface the ledger needs (lock, read, zero/set escrow) without the
// wallet package depending on the order lifecycle.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	LockUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateWallet(ctx context.Context, userID uuid.UUID, balanceCents, heldCents int64) error

	CreateTransaction(ctx context.Context, record *models.WalletTransaction) error
	ListTransactions(ctx context.Context, userID uuid.UUID, txType *enums.TransactionType, params pagination.Params) ([]models.WalletTransaction, int64, error)

	LockOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	SetOrderEscrow(ctx context.Context, orderID uuid.UUID, escrowCents int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a wallet repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}
		return nil, err
	}
	return &user, nil
}

// LockUser loads the wallet row under SELECT ... FOR UPDATE so concurrent
// mutations on the same user serialize. Callers must already be inside a
// transaction.
func (r *repository) LockUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	query := r.db.WithContext(ctx)
	if query.Dialector.Name() != "sqlite" { // sqlite has a single writer
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := query.First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdateWallet(ctx context.Context, userID uuid.UUID, balanceCents, heldCents int64) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"balance_cents": balanceCents,
			"held_cents":    heldCents,
		}).Error
}

func (r *repository) CreateTransaction(ctx context.Context, record *models.WalletTransaction) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) ListTransactions(ctx context.Context, userID uuid.UUID, txType *enums.TransactionType, params pagination.Params) ([]models.WalletTransaction, int64, error) {
	params = params.Normalize()

	base := r.db.WithContext(ctx).
		Model(&models.WalletTransaction{}).
		Where("user_id = ?", userID)
	if txType != nil {
		base = base.Where("type = ?", *txType)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.WalletTransaction
	if err := base.
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *repository) LockOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	query := r.db.WithContext(ctx)
	if query.Dialector.Name() != "sqlite" {
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

func (r *repository) SetOrderEscrow(ctx context.Context, orderID uuid.UUID, escrowCents int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("escrow_cents", escrowCents).Error
}

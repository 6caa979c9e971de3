package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diwinters/tradewind-backend/pkg/db/models"
	"github.com/diwinters/tradewind-backend/pkg/enums"
	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
	"github.com/diwinters/tradewind-backend/pkg/logger"
	"github.com/diwinters/tradewind-backend/pkg/metrics"
	"github.com/diwinters/tradewind-backend/pkg/pagination"
)

// TxRunner executes fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns every balance- and escrow-affecting mutation. Each operation
// runs as one atomic unit with the wallet rows it touches locked; escrow
// operations accept an optional caller transaction so the order lifecycle can
// compose them with its own status writes.
type Service interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*Balance, error)
	Deposit(ctx context.Context, input DepositInput) (*models.WalletTransaction, error)
	Withdraw(ctx context.Context, input WithdrawInput) (*models.WalletTransaction, error)
	Hold(ctx context.Context, tx *gorm.DB, input HoldInput) error
	Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*ReleaseResult, error)
	Refund(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*RefundResult, error)
	ResolveSplit(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, refundCents int64) (*SplitResult, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, input ListTransactionsInput) (*pagination.Page[models.WalletTransaction], error)
}

// Balance is the wallet snapshot returned to callers.
type Balance struct {
	TotalCents     int64 `json:"total_cents"`
	HeldCents      int64 `json:"held_cents"`
	AvailableCents int64 `json:"available_cents"`
}

// DepositInput credits a wallet.
type DepositInput struct {
	UserID      uuid.UUID
	AmountCents int64
	Reference   *string
	Description string
}

// WithdrawInput debits a wallet from its available portion.
type WithdrawInput struct {
	UserID      uuid.UUID
	AmountCents int64
	Reference   *string
}

// HoldInput escrows part of a buyer's balance against an order.
type HoldInput struct {
	UserID      uuid.UUID
	OrderID     uuid.UUID
	AmountCents int64
}

// ReleaseResult reports the funds moved by a successful release.
type ReleaseResult struct {
	BuyerID     uuid.UUID
	SellerID    uuid.UUID
	EscrowCents int64
	SellerCents int64
	FeeCents    int64
}

// RefundResult reports the escrow returned by a successful refund.
type RefundResult struct {
	BuyerID     uuid.UUID
	EscrowCents int64
}

// SplitResult reports both sides of a partial dispute resolution.
type SplitResult struct {
	BuyerID          uuid.UUID
	SellerID         uuid.UUID
	EscrowCents      int64
	BuyerRefundCents int64
	SellerCents      int64
}

// ListTransactionsInput filters and pages the transaction log.
type ListTransactionsInput struct {
	Type       *enums.TransactionType
	Pagination pagination.Params
}

type service struct {
	repo    Repository
	tx      TxRunner
	logg    *logger.Logger
	metrics *metrics.DomainMetrics
}

// NewService wires a wallet service with its repository and transaction runner.
func NewService(repo Repository, tx TxRunner, logg *logger.Logger, m *metrics.DomainMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg, metrics: m}, nil
}

func (s *service) GetBalance(ctx context.Context, userID uuid.UUID) (*Balance, error) {
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Balance{
		TotalCents:     user.BalanceCents,
		HeldCents:      user.HeldCents,
		AvailableCents: user.AvailableCents(),
	}, nil
}

func (s *service) Deposit(ctx context.Context, input DepositInput) (*models.WalletTransaction, error) {
	if input.AmountCents <= 0 {
		s.metrics.IncWalletFailure("deposit", string(apperrors.CodeInvalidAmount))
		return nil, apperrors.New(apperrors.CodeInvalidAmount, "deposit amount must be positive")
	}

	var record *models.WalletTransaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		user, err := repo.LockUser(ctx, input.UserID)
		if err != nil {
			return err
		}

		before := user.BalanceCents
		after := before + input.AmountCents
		if err := repo.UpdateWallet(ctx, user.ID, after, user.HeldCents); err != nil {
			return err
		}

		record = &models.WalletTransaction{
			UserID:             &user.ID,
			Type:               enums.TransactionTypeDeposit,
			AmountCents:        input.AmountCents,
			BalanceBeforeCents: before,
			BalanceAfterCents:  after,
			Status:             enums.TransactionStatusCompleted,
			Reference:          input.Reference,
			Description:        input.Description,
		}
		return repo.CreateTransaction(ctx, record)
	})
	if err != nil {
		s.metrics.IncWalletFailure("deposit", failureCode(err))
		return nil, err
	}
	s.metrics.IncWalletOp("deposit")
	return record, nil
}

func (s *service) Withdraw(ctx context.Context, input WithdrawInput) (*models.WalletTransaction, error) {
	if input.AmountCents <= 0 {
		s.metrics.IncWalletFailure("withdraw", string(apperrors.CodeInvalidAmount))
		return nil, apperrors.New(apperrors.CodeInvalidAmount, "withdrawal amount must be positive")
	}

	var record *models.WalletTransaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		user, err := repo.LockUser(ctx, input.UserID)
		if err != nil {
			return err
		}
		if input.AmountCents > user.AvailableCents() {
			return apperrors.New(apperrors.CodeInsufficientBalance, "withdrawal exceeds available balance")
		}

		before := user.BalanceCents
		after := before - input.AmountCents
		if err := repo.UpdateWallet(ctx, user.ID, after, user.HeldCents); err != nil {
			return err
		}

		record = &models.WalletTransaction{
			UserID:             &user.ID,
			Type:               enums.TransactionTypeWithdrawal,
			AmountCents:        -input.AmountCents,
			BalanceBeforeCents: before,
			BalanceAfterCents:  after,
			Status:             enums.TransactionStatusCompleted,
			Reference:          input.Reference,
			Description:        "wallet withdrawal",
		}
		return repo.CreateTransaction(ctx, record)
	})
	if err != nil {
		s.metrics.IncWalletFailure("withdraw", failureCode(err))
		return nil, err
	}
	s.metrics.IncWalletOp("withdraw")
	return record, nil
}

// Hold escrows input.AmountCents of the buyer's available balance. The wallet
// total does not move; the hold entry records balanceBefore == balanceAfter.
func (s *service) Hold(ctx context.Context, tx *gorm.DB, input HoldInput) error {
	err := s.inTx(ctx, tx, func(tx *gorm.DB) error {
		if input.AmountCents <= 0 {
			return apperrors.New(apperrors.CodeInvalidAmount, "hold amount must be positive")
		}

		repo := s.repo.WithTx(tx)
		user, err := repo.LockUser(ctx, input.UserID)
		if err != nil {
			return err
		}
		if input.AmountCents > user.AvailableCents() {
			return apperrors.New(apperrors.CodeInsufficientBalance, "hold exceeds available balance")
		}

		if err := repo.UpdateWallet(ctx, user.ID, user.BalanceCents, user.HeldCents+input.AmountCents); err != nil {
			return err
		}
		if err := repo.SetOrderEscrow(ctx, input.OrderID, input.AmountCents); err != nil {
			return err
		}

		return repo.CreateTransaction(ctx, &models.WalletTransaction{
			UserID:             &user.ID,
			OrderID:            &input.OrderID,
			Type:               enums.TransactionTypeHold,
			AmountCents:        input.AmountCents,
			BalanceBeforeCents: user.BalanceCents,
			BalanceAfterCents:  user.BalanceCents,
			Status:             enums.TransactionStatusCompleted,
			Description:        "escrow hold",
		})
	})
	if err != nil {
		s.metrics.IncWalletFailure("hold", failureCode(err))
		return err
	}
	s.metrics.IncWalletOp("hold")
	s.metrics.AddEscrowHeld(input.AmountCents)
	return nil
}

// Release moves the held escrow from buyer to seller minus commission. The
// escrow guard and its zeroing happen inside the same transaction, so a
// concurrent second caller observes zero escrow and fails with NO_ESCROW.
func (s *service) Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*ReleaseResult, error) {
	var result *ReleaseResult
	err := s.inTx(ctx, tx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.EscrowCents <= 0 {
			return apperrors.New(apperrors.CodeNoEscrow, "no escrow held for order")
		}

		buyer, seller, err := lockPair(ctx, repo, order.BuyerID, order.SellerID)
		if err != nil {
			return err
		}

		escrow := order.EscrowCents

		// Buyer side: balance and held both drop by the full escrow.
		buyerAfter := buyer.BalanceCents - escrow
		if err := repo.UpdateWallet(ctx, buyer.ID, buyerAfter, buyer.HeldCents-escrow); err != nil {
			return err
		}
		if err := repo.CreateTransaction(ctx, &models.WalletTransaction{
			UserID:             &buyer.ID,
			OrderID:            &order.ID,
			Type:               enums.TransactionTypeRelease,
			AmountCents:        -escrow,
			BalanceBeforeCents: buyer.BalanceCents,
			BalanceAfterCents:  buyerAfter,
			Status:             enums.TransactionStatusCompleted,
			Description:        "escrow released to seller",
		}); err != nil {
			return err
		}

		// Seller side: credited with the order total minus commission.
		sellerAfter := seller.BalanceCents + order.SellerAmountCents
		if err := repo.UpdateWallet(ctx, seller.ID, sellerAfter, seller.HeldCents); err != nil {
			return err
		}
		if err := repo.CreateTransaction(ctx, &models.WalletTransaction{
			UserID:             &seller.ID,
			OrderID:            &order.ID,
			Type:               enums.TransactionTypeRelease,
			AmountCents:        order.SellerAmountCents,
			BalanceBeforeCents: seller.BalanceCents,
			BalanceAfterCents:  sellerAfter,
			Status:             enums.TransactionStatusCompleted,
			Description:        "escrow payout",
		}); err != nil {
			return err
		}

		// Commission is a revenue report, not a wallet movement.
		if err := repo.CreateTransaction(ctx, &models.WalletTransaction{
			OrderID:            &order.ID,
			Type:               enums.TransactionTypeCommission,
			AmountCents:        order.PlatformFeeCents,
			BalanceBeforeCents: 0,
			BalanceAfterCents:  0,
			Status:             enums.TransactionStatusCompleted,
			Description:        "platform commission",
		}); err != nil {
			return err
		}

		if err := repo.SetOrderEscrow(ctx, order.ID, 0); err != nil {
			return err
		}

		result = &ReleaseResult{
			BuyerID:     buyer.ID,
			SellerID:    seller.ID,
			EscrowCents: escrow,
			SellerCents: order.SellerAmountCents,
			FeeCents:    order.PlatformFeeCents,
		}
		return nil
	})
	if err != nil {
		s.metrics.IncWalletFailure("release", failureCode(err))
		return nil, err
	}

	s.metrics.IncWalletOp("release")
	s.metrics.AddEscrowHeld(-result.EscrowCents)
	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, orderID.String())
		s.logg.Info(logCtx, "escrow released")
	}
	return result, nil
}

// Refund returns held escrow to the buyer. The balance was never decremented
// at hold time, so only held moves; the refund entry records
// balanceBefore == balanceAfter.
func (s *service) Refund(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*RefundResult, error) {
	var result *RefundResult
	err := s.inTx(ctx, tx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.EscrowCents <= 0 {
			return apperrors.New(apperrors.CodeNoEscrow, "no escrow held for order")
		}

		buyer, err := repo.LockUser(ctx, order.BuyerID)
		if err != nil {
			return err
		}

		escrow := order.EscrowCents
		if err := repo.UpdateWallet(ctx, buyer.ID, buyer.BalanceCents, buyer.HeldCents-escrow); err != nil {
			return err
		}
		if err := repo.CreateTransaction(ctx, &models.WalletTransaction{
			UserID:             &buyer.ID,
			OrderID:            &order.ID,
			Type:               enums.TransactionTypeRefund,
			AmountCents:        escrow,
			BalanceBeforeCents: buyer.BalanceCents,
			BalanceAfterCents:  buyer.BalanceCents,
			Status:             enums.TransactionStatusCompleted,
			Description:        "escrow refunded",
		}); err != nil {
			return err
		}
		if err := repo.SetOrderEscrow(ctx, order.ID, 0); err != nil {
			return err
		}

		result = &RefundResult{BuyerID: buyer.ID, EscrowCents: escrow}
		return nil
	})
	if err != nil {
		s.metrics.IncWalletFailure("refund", failureCode(err))
		return nil, err
	}

	s.metrics.IncWalletOp("refund")
	s.metrics.AddEscrowHeld(-result.EscrowCents)
	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, orderID.String())
		s.logg.Info(logCtx, "escrow refunded")
	}
	return result, nil
}

// ResolveSplit settles a disputed escrow partially: refundCents go back to
// the buyer, the remainder is released to the seller. Both sub-operations
// commit under one transaction boundary. No commission is taken on a
// disputed split.
func (s *service) ResolveSplit(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, refundCents int64) (*SplitResult, error) {
	var result *SplitResult
	err := s.inTx(ctx, tx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.EscrowCents <= 0 {
			return apperrors.New(apperrors.CodeNoEscrow, "no escrow held for order")
		}
		if refundCents < 0 || refundCents > order.EscrowCents {
			return apperrors.New(apperrors.CodeInvalidAmount, "refund must be between zero and the held escrow")
		}

		buyer, seller, err := lockPair(ctx, repo, order.BuyerID, order.SellerID)
		if err != nil {
			return err
		}

		escrow := order.EscrowCents
		sellerCents := escrow - refundCents

		// Buyer: held always drops by the full escrow; balance drops only by
		// the portion released to the seller.
		buyerAfter := buyer.BalanceCents - sellerCents
		if err := repo.UpdateWallet(ctx, buyer.ID, buyerAfter, buyer.HeldCents-escrow); err != nil {
			return err
		}
		if sellerCents > 0 {
			if err := repo.CreateTransaction(ctx, &models.WalletTransaction{
				UserID:             &buyer.ID,
				OrderID:            &order.ID,
				Type:               enums.TransactionTypeRelease,
				AmountCents:        -sellerCents,
				BalanceBeforeCents: buyer.BalanceCents,
				BalanceAfterCents:  buyerAfter,
				Status:             enums.TransactionStatusCompleted,
				Description:        "dispute split released to seller",
			}); err != nil {
				return err
			}
		}
		if refundCents > 0 {
			if err := repo.CreateTransaction(ctx, &models.WalletTransaction{
				UserID:             &buyer.ID,
				OrderID:            &order.ID,
				Type:               enums.TransactionTypeRefund,
				AmountCents:        refundCents,
				BalanceBeforeCents: buyerAfter,
				BalanceAfterCents:  buyerAfter,
				Status:             enums.TransactionStatusCompleted,
				Description:        "dispute split refunded",
			}); err != nil {
				return err
			}
		}

		if sellerCents > 0 {
			sellerAfter := seller.BalanceCents + sellerCents
			if err := repo.UpdateWallet(ctx, seller.ID, sellerAfter, seller.HeldCents); err != nil {
				return err
			}
			if err := repo.CreateTransaction(ctx, &models.WalletTransaction{
				UserID:             &seller.ID,
				OrderID:            &order.ID,
				Type:               enums.TransactionTypeRelease,
				AmountCents:        sellerCents,
				BalanceBeforeCents: seller.BalanceCents,
				BalanceAfterCents:  sellerAfter,
				Status:             enums.TransactionStatusCompleted,
				Description:        "dispute split payout",
			}); err != nil {
				return err
			}
		}

		if err := repo.SetOrderEscrow(ctx, order.ID, 0); err != nil {
			return err
		}

		result = &SplitResult{
			BuyerID:          buyer.ID,
			SellerID:         seller.ID,
			EscrowCents:      escrow,
			BuyerRefundCents: refundCents,
			SellerCents:      sellerCents,
		}
		return nil
	})
	if err != nil {
		s.metrics.IncWalletFailure("resolve_split", failureCode(err))
		return nil, err
	}

	s.metrics.IncWalletOp("resolve_split")
	s.metrics.AddEscrowHeld(-result.EscrowCents)
	return result, nil
}

func (s *service) ListTransactions(ctx context.Context, userID uuid.UUID, input ListTransactionsInput) (*pagination.Page[models.WalletTransaction], error) {
	if _, err := s.repo.FindUser(ctx, userID); err != nil {
		return nil, err
	}

	params := input.Pagination.Normalize()
	records, total, err := s.repo.ListTransactions(ctx, userID, input.Type, params)
	if err != nil {
		return nil, err
	}
	return &pagination.Page[models.WalletTransaction]{
		Items:  records,
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	}, nil
}

// inTx joins the caller's transaction when one is supplied, otherwise runs
// its own.
func (s *service) inTx(ctx context.Context, tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx != nil {
		return fn(tx)
	}
	return s.tx.WithTx(ctx, fn)
}

// lockPair locks two wallet rows in a stable global order so concurrent
// releases touching the same users cannot deadlock.
func lockPair(ctx context.Context, repo Repository, buyerID, sellerID uuid.UUID) (buyer, seller *models.User, err error) {
	first, second := buyerID, sellerID
	if second.String() < first.String() {
		first, second = second, first
	}

	a, err := repo.LockUser(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := repo.LockUser(ctx, second)
	if err != nil {
		return nil, nil, err
	}

	if a.ID == buyerID {
		return a, b, nil
	}
	return b, a, nil
}

func failureCode(err error) string {
	if typed := apperrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return string(apperrors.CodeInternal)
}

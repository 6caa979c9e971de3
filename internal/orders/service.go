package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/diwinters/tradewind-backend/internal/wallet"
	"github.com/diwinters/tradewind-backend/pkg/db"
	"github.com/diwinters/tradewind-backend/pkg/db/models"
	"github.com/diwinters/tradewind-backend/pkg/enums"
	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
	"github.com/diwinters/tradewind-backend/pkg/metrics"
	"github.com/diwinters/tradewind-backend/pkg/outbox"
	"github.com/diwinters/tradewind-backend/pkg/pagination"
	"github.com/diwinters/tradewind-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// walletLedger is the slice of the wallet service the order lifecycle drives.
type walletLedger interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*wallet.Balance, error)
	Hold(ctx context.Context, tx *gorm.DB, input wallet.HoldInput) error
	Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*wallet.ReleaseResult, error)
	Refund(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*wallet.RefundResult, error)
	ResolveSplit(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, refundCents int64) (*wallet.SplitResult, error)
}

type listingSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
}

// Service drives the order lifecycle. Every mutation locks the order row,
// validates the transition against the state machine, composes any wallet
// movement in the same transaction, and queues notification events on the
// outbox so delivery can never hold a wallet lock.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Pay(ctx context.Context, input ActionInput) (*models.Order, error)
	Accept(ctx context.Context, input ActionInput) (*models.Order, error)
	Reject(ctx context.Context, input RejectInput) (*models.Order, error)
	StartProgress(ctx context.Context, input ActionInput) (*models.Order, error)
	Ship(ctx context.Context, input ShipInput) (*models.Order, error)
	MarkDelivered(ctx context.Context, input ActionInput) (*models.Order, error)
	Complete(ctx context.Context, input CompleteInput) (*models.Order, error)
	Cancel(ctx context.Context, input CancelInput) (*models.Order, error)
	OpenDispute(ctx context.Context, input OpenDisputeInput) (*models.Dispute, error)
	ResolveDispute(ctx context.Context, input ResolveDisputeInput) (*models.Order, error)

	Get(ctx context.Context, input ActionInput) (*models.Order, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID, input ListInput) (*pagination.Page[models.Order], error)
	ListForSeller(ctx context.Context, sellerID uuid.UUID, input ListInput) (*pagination.Page[models.Order], error)
}

type service struct {
	repo     Repository
	listings listingSource
	wallet   walletLedger
	tx       txRunner
	outbox   outboxPublisher
	metrics  *metrics.DomainMetrics
	now      func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, listings listingSource, ledger walletLedger, tx txRunner, publisher outboxPublisher, m *metrics.DomainMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if listings == nil {
		return nil, fmt.Errorf("listing source required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("wallet ledger required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:     repo,
		listings: listings,
		wallet:   ledger,
		tx:       tx,
		outbox:   publisher,
		metrics:  m,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.BuyerID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "buyer id required")
	}
	if input.ListingID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "listing id required")
	}
	if input.Quantity <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "quantity must be positive")
	}
	if input.FeePercent.IsNegative() || input.FeePercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, apperrors.New(apperrors.CodeValidation, "fee percent must be between 0 and 100")
	}

	listing, err := s.listings.FindByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsPurchasable() {
		return nil, apperrors.New(apperrors.CodeListingNotAvailable, "listing is not available")
	}
	if listing.OwnerID == input.BuyerID {
		return nil, apperrors.New(apperrors.CodeCannotBuyOwn, "cannot purchase your own listing")
	}

	totalCents := listing.UnitPriceCents * input.Quantity
	feeCents := platformFee(totalCents, input.FeePercent)

	// Pre-flight affordability check; the actual hold happens at Pay.
	balance, err := s.wallet.GetBalance(ctx, input.BuyerID)
	if err != nil {
		return nil, err
	}
	if balance.AvailableCents < totalCents {
		return nil, apperrors.New(apperrors.CodeInsufficientBalance, "available balance below order total")
	}

	order := &models.Order{
		OrderNumber:        s.orderNumber(),
		ListingID:          listing.ID,
		BuyerID:            input.BuyerID,
		SellerID:           listing.OwnerID,
		Quantity:           input.Quantity,
		UnitPriceCents:     listing.UnitPriceCents,
		TotalCents:         totalCents,
		PlatformFeePercent: input.FeePercent,
		PlatformFeeCents:   feeCents,
		SellerAmountCents:  totalCents - feeCents,
		Status:             enums.OrderStatusCreated,
		Metadata:           input.Metadata,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Pay escrows the order total from the buyer and moves created -> paid.
func (s *service) Pay(ctx context.Context, input ActionInput) (*models.Order, error) {
	return s.mutate(ctx, input.OrderID, func(tx *gorm.DB, repo Repository, order *models.Order) error {
		if order.BuyerID != input.ActorID {
			return apperrors.New(apperrors.CodeNotAuthorized, "only the buyer can pay")
		}
		if err := s.ensureTransition(order, enums.OrderStatusPaid); err != nil {
			return err
		}

		if err := s.wallet.Hold(ctx, tx, wallet.HoldInput{
			UserID:      order.BuyerID,
			OrderID:     order.ID,
			AmountCents: order.TotalCents,
		}); err != nil {
			return err
		}

		now := s.now()
		if err := s.applyTransition(ctx, repo, order, enums.OrderStatusPaid, map[string]any{"paid_at": now}); err != nil {
			return err
		}
		order.PaidAt = &now
		order.EscrowCents = order.TotalCents

		if err := s.emitOrderEvent(ctx, tx, enums.EventOrderPaid, order, input.ActorID, "buyer", nil); err != nil {
			return err
		}
		return s.emitOrderEvent(ctx, tx, enums.EventPaymentReceived, order, input.ActorID, "buyer", nil)
	})
}

func (s *service) Accept(ctx context.Context, input ActionInput) (*models.Order, error) {
	return s.mutate(ctx, input.OrderID, func(tx *gorm.DB, repo Repository, order *models.Order) error {
		if order.SellerID != input.ActorID {
			return apperrors.New(apperrors.CodeNotAuthorized, "only the seller can accept")
		}
		if err := s.ensureTransition(order, enums.OrderStatusAccepted); err != nil {
			return err
		}

		now := s.now()
		if err := s.applyTransition(ctx, repo, order, enums.OrderStatusAccepted, map[string]any{"accepted_at": now}); err != nil {
			return err
		}
		order.AcceptedAt = &now

		return s.emitOrderEvent(ctx, tx, enums.EventOrderAccepted, order, input.ActorID, "seller", nil)
	})
}

// Reject refunds the escrow to the buyer and moves paid -> refunded.
func (s *service) Reject(ctx context.Context, input RejectInput) (*models.Order, error) {
	return s.mutate(ctx, input.OrderID, func(tx *gorm.DB, repo Repository, order *models.Order) error {
		if order.SellerID != input.SellerID {
			return apperrors.New(apperrors.CodeNotAuthorized, "only the seller can reject")
		}
		if err := s.ensureTransition(order, enums.OrderStatusRefunded); err != nil {
			return err
		}

		if _, err := s.wallet.Refund(ctx, tx, order.ID); err != nil {
			return err
		}

		updates := map[string]any{}
		if input.Reason != nil {
			order.Metadata = order.Metadata.Set(types.MetaRejectionReason, *input.Reason)
			updates["metadata"] = order.Metadata
		}
		if err := s.applyTransition(ctx, repo, order, enums.OrderStatusRefunded, updates); err != nil {
			return err
		}
		order.EscrowCents = 0

		return s.emitOrderEvent(ctx, tx, enums.EventOrderRejected, order, input.SellerID, "seller", input.Reason)
	})
}

func (s *service) StartProgress(ctx context.Context, input ActionInput) (*models.Order, error) {
	return s.mutate(ctx, input.OrderID, func(tx *gorm.DB, repo Repository, order *models.Order) error {
		if order.SellerID != input.ActorID {
			return apperrors.New(apperrors.CodeNotAuthorized, "only the seller can start progress")
		}
		if err := s.ensureTransition(order, enums.OrderStatusInProgress); err != nil {
			return err
		}
		if err := s.applyTransition(ctx, repo, order, enums.OrderStatusInProgress, nil); err != nil {
			return err
		}
		return s.emitOrderEvent(ctx, tx, enums.EventOrderInProgress, order, input.ActorID, "seller", nil)
	})
}

func (s *service) Ship(ctx context.Context, input ShipInput) (*models.Order, error) {
	return s.mutate(ctx, input.OrderID, func(tx *gorm.DB, repo Repository, order *models.Order) error {
		if order.SellerID != input.SellerID {
			return apperrors.New(apperrors.CodeNotAuthorized, "only the seller can ship")
		}
		if err := s.ensureTransition(order, enums.OrderStatusShipped); err != nil {
			return err
		}

		now := s.now()
		updates := map[string]any{"shipped_at": now}
		if input.TrackingInfo != nil {
			order.Metadata = order.Metadata.Set(types.MetaTrackingInfo, *input.TrackingInfo)
			updates["metadata"] = order.Metadata
		}
		if err := s.applyTransition(ctx, repo, order, enums.OrderStatusShipped, updates); err != nil {
			return err
		}
		order.ShippedAt = &now

		return s.emitOrderEvent(ctx, tx, enums.EventOrderShipped, order, input.SellerID, "seller", nil)
	})
}

func (s *service) MarkDelivered(ctx context.Context, input ActionInput) (*models.Order, error) {
	return s.mutate(ctx, input.OrderID, func(tx *gorm.DB, repo Repository, order *models.Order) error {
		if order.SellerID != input.ActorID {
			return apperrors.New(apperrors.CodeNotAuthorized, "only the seller can mark delivered")
		}
		if err := s.ensureTransition(order, enums.OrderStatusDelivered); err != nil {
			return err
		}

		now := s.now()
		if err := s.applyTransition(ctx, repo, order, enums.OrderStatusDelivered, map[string]any{"delivered_at": now}); err != nil {
			return err
		}
		order.DeliveredAt = &now

		return s.emitOrderEvent(ctx, tx, enums.EventOrderDelivered, order, input.ActorID, "seller", nil)
	})
}

// Complete releases the escrow to the seller and, when a rating is supplied,
// folds it into the seller's running average inside the same transaction.
func (s *service) Complete(ctx context.Context, input CompleteInput) (*models.Order, error) {
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, apperrors.New(apperrors.CodeValidation, "rating must be between 1 and 5")
	}

	return s.mutate(ctx, input.OrderID, func(tx *gorm.DB, repo Repository, order *models.Order) error {
		if order.BuyerID != input.BuyerID {
			return apperrors.New(apperrors.CodeNotAuthorized, "only the buyer can complete")
		}
		if err := s.ensureTransition(order, enums.OrderStatusCompleted); err != nil {
			return err
		}

		if _, err := s.wallet.Release(ctx, tx, order.ID); err != nil {
			return err
		}

		now := s.now()
		updates := map[string]any{"completed_at": now}
		if input.Rating != nil {
			order.Metadata = order.Metadata.Set(types.MetaBuyerRating, *input.Rating)
			updates["metadata"] = order.Metadata
			if err := repo.UpdateSellerRating(ctx, order.SellerID, *input.Rating); err != nil {
				return err
			}
		}
		if err := s.applyTransition(ctx, repo, order, enums.OrderStatusCompleted, updates); err != nil {
			return err
		}
		order.CompletedAt = &now
		order.EscrowCents = 0

		return s.emitOrderEvent(ctx, tx, enums.EventOrderCompleted, order, input.BuyerID, "buyer", nil)
	})
}

// Cancel is permitted from any state whose transition table includes
// cancelled; a held escrow is refunded first.
func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.Order, error) {
	return s.mutate(ctx, input.OrderID, func(tx *gorm.DB, repo Repository, order *models.Order) error {
		role, err := partyRole(order, input.ActorID)
		if err != nil {
			return err
		}
		if err := s.ensureTransition(order, enums.OrderStatusCancelled); err != nil {
			return err
		}

		if order.EscrowCents > 0 {
			if _, err := s.wallet.Refund(ctx, tx, order.ID); err != nil {
				return err
			}
		}

		now := s.now()
		updates := map[string]any{"cancelled_at": now}
		if input.Reason != nil {
			order.Metadata = order.Metadata.Set(types.MetaCancellationReason, *input.Reason)
			updates["metadata"] = order.Metadata
		}
		if err := s.applyTransition(ctx, repo, order, enums.OrderStatusCancelled, updates); err != nil {
			return err
		}
		order.CancelledAt = &now
		order.EscrowCents = 0

		return s.emitOrderEvent(ctx, tx, enums.EventOrderCancelled, order, input.ActorID, role, input.Reason)
	})
}

// OpenDispute creates the order's one-and-only dispute and moves it to
// disputed. The unique index on disputes.order_id backs the duplicate check
// under concurrency.
func (s *service) OpenDispute(ctx context.Context, input OpenDisputeInput) (*models.Dispute, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "dispute reason required")
	}

	var dispute *models.Dispute
	_, err := s.mutate(ctx, input.OrderID, func(tx *gorm.DB, repo Repository, order *models.Order) error {
		role, err := partyRole(order, input.ActorID)
		if err != nil {
			return err
		}
		if err := s.ensureTransition(order, enums.OrderStatusDisputed); err != nil {
			return err
		}

		existing, err := repo.FindDisputeByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.New(apperrors.CodeDuplicateDispute, "dispute already open for order")
		}

		dispute = &models.Dispute{
			OrderID:     order.ID,
			OpenedByID:  input.ActorID,
			Reason:      input.Reason,
			Description: input.Description,
		}
		if err := repo.CreateDispute(ctx, dispute); err != nil {
			if db.IsUniqueViolation(err, "") {
				return apperrors.New(apperrors.CodeDuplicateDispute, "dispute already open for order")
			}
			return err
		}

		now := s.now()
		if err := s.applyTransition(ctx, repo, order, enums.OrderStatusDisputed, map[string]any{"disputed_at": now}); err != nil {
			return err
		}
		order.DisputedAt = &now

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDisputeOpened,
			AggregateType: enums.AggregateDispute,
			AggregateID:   dispute.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: role},
			Data: DisputeEvent{
				OrderID:    order.ID,
				DisputeID:  dispute.ID,
				BuyerID:    order.BuyerID,
				SellerID:   order.SellerID,
				OpenedByID: input.ActorID,
				Reason:     input.Reason,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return dispute, nil
}

// ResolveDispute is the administrative path; it is not bound by the
// buyer/seller actor check. The tagged resolution decides both the ledger
// settlement and the terminal status.
func (s *service) ResolveDispute(ctx context.Context, input ResolveDisputeInput) (*models.Order, error) {
	if !input.Resolution.IsValid() {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid dispute resolution")
	}
	if input.Resolution == enums.DisputeResolutionPartialRefund && input.RefundCents == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "partial refund requires an amount")
	}

	return s.mutate(ctx, input.OrderID, func(tx *gorm.DB, repo Repository, order *models.Order) error {
		dispute, err := repo.FindDisputeByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if dispute == nil {
			return apperrors.New(apperrors.CodeValidation, "order has no dispute to resolve")
		}
		if dispute.ResolvedAt != nil {
			return apperrors.New(apperrors.CodeInvalidTransition, "dispute already resolved")
		}
		// Both terminal resolutions are reachable only from disputed; check
		// before any ledger movement.
		if err := s.ensureTransition(order, enums.OrderStatusResolvedBuyer); err != nil {
			return err
		}

		var target enums.OrderStatus
		var refundCents *int64

		switch input.Resolution {
		case enums.DisputeResolutionRefundBuyer:
			if _, err := s.wallet.Refund(ctx, tx, order.ID); err != nil {
				return err
			}
			target = enums.OrderStatusResolvedBuyer

		case enums.DisputeResolutionReleaseToSeller:
			if _, err := s.wallet.Release(ctx, tx, order.ID); err != nil {
				return err
			}
			target = enums.OrderStatusResolvedSeller

		case enums.DisputeResolutionPartialRefund:
			split, err := s.wallet.ResolveSplit(ctx, tx, order.ID, *input.RefundCents)
			if err != nil {
				return err
			}
			refundCents = input.RefundCents
			// The side receiving the majority names the terminal state; an
			// even split resolves to the buyer.
			if split.SellerCents > split.BuyerRefundCents {
				target = enums.OrderStatusResolvedSeller
			} else {
				target = enums.OrderStatusResolvedBuyer
			}

		default:
			return apperrors.New(apperrors.CodeValidation, "invalid dispute resolution")
		}

		if err := s.applyTransition(ctx, repo, order, target, nil); err != nil {
			return err
		}
		order.EscrowCents = 0

		now := s.now()
		if err := repo.UpdateDispute(ctx, dispute.ID, map[string]any{
			"resolution":   input.Resolution,
			"refund_cents": refundCents,
			"resolved_by":  input.AdminID,
			"resolved_at":  now,
		}); err != nil {
			return err
		}
		resolution := input.Resolution
		dispute.Resolution = &resolution
		dispute.RefundCents = refundCents
		dispute.ResolvedBy = &input.AdminID
		dispute.ResolvedAt = &now

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDisputeResolved,
			AggregateType: enums.AggregateDispute,
			AggregateID:   dispute.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.AdminID, Role: "admin"},
			Data: DisputeEvent{
				OrderID:     order.ID,
				DisputeID:   dispute.ID,
				BuyerID:     order.BuyerID,
				SellerID:    order.SellerID,
				OpenedByID:  dispute.OpenedByID,
				Reason:      dispute.Reason,
				Resolution:  &resolution,
				RefundCents: refundCents,
			},
		})
	})
}

func (s *service) Get(ctx context.Context, input ActionInput) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != input.ActorID && order.SellerID != input.ActorID {
		return nil, apperrors.New(apperrors.CodeNotAuthorized, "not authorized for this order")
	}
	return order, nil
}

func (s *service) ListForBuyer(ctx context.Context, buyerID uuid.UUID, input ListInput) (*pagination.Page[models.Order], error) {
	params := pagination.Params{Limit: input.Limit, Offset: input.Offset}.Normalize()
	orders, total, err := s.repo.ListByBuyer(ctx, buyerID, input.Status, params)
	if err != nil {
		return nil, err
	}
	return &pagination.Page[models.Order]{Items: orders, Total: total, Limit: params.Limit, Offset: params.Offset}, nil
}

func (s *service) ListForSeller(ctx context.Context, sellerID uuid.UUID, input ListInput) (*pagination.Page[models.Order], error) {
	params := pagination.Params{Limit: input.Limit, Offset: input.Offset}.Normalize()
	orders, total, err := s.repo.ListBySeller(ctx, sellerID, input.Status, params)
	if err != nil {
		return nil, err
	}
	return &pagination.Page[models.Order]{Items: orders, Total: total, Limit: params.Limit, Offset: params.Offset}, nil
}

// mutate runs fn with the order locked inside one transaction and returns the
// mutated order.
func (s *service) mutate(ctx context.Context, orderID uuid.UUID, fn func(tx *gorm.DB, repo Repository, order *models.Order) error) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "order id required")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		locked, err := repo.LockByID(ctx, orderID)
		if err != nil {
			return err
		}
		order = locked
		return fn(tx, repo, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) ensureTransition(order *models.Order, to enums.OrderStatus) error {
	if !CanTransition(order.Status, to) {
		s.metrics.IncTransitionFailure(order.Status.String(), to.String())
		return apperrors.New(apperrors.CodeInvalidTransition,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, to))
	}
	return nil
}

func (s *service) applyTransition(ctx context.Context, repo Repository, order *models.Order, to enums.OrderStatus, extra map[string]any) error {
	updates := map[string]any{"status": to}
	for key, value := range extra {
		updates[key] = value
	}
	if err := repo.Update(ctx, order.ID, updates); err != nil {
		return err
	}
	s.metrics.IncTransition(order.Status.String(), to.String())
	order.Status = to
	return nil
}

func (s *service) emitOrderEvent(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, order *models.Order, actorID uuid.UUID, role string, reason *string) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Actor:         &outbox.ActorRef{UserID: actorID, Role: role},
		Data: OrderEvent{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			BuyerID:     order.BuyerID,
			SellerID:    order.SellerID,
			Status:      order.Status,
			TotalCents:  order.TotalCents,
			Reason:      reason,
		},
	})
}

func (s *service) orderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("TW-%s-%s", s.now().UTC().Format("20060102"), suffix)
}

// partyRole resolves which side of the order the actor is on.
func partyRole(order *models.Order, actorID uuid.UUID) (string, error) {
	switch actorID {
	case order.BuyerID:
		return "buyer", nil
	case order.SellerID:
		return "seller", nil
	default:
		return "", apperrors.New(apperrors.CodeNotAuthorized, "not authorized for this order")
	}
}

// platformFee rounds half up on the cent boundary so fee + seller amount
// always reconstructs the total.
func platformFee(totalCents int64, feePercent decimal.Decimal) int64 {
	return decimal.NewFromInt(totalCents).
		Mul(feePercent).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/diwinters/tradewind-backend/pkg/enums"
	"github.com/diwinters/tradewind-backend/pkg/types"
)

// CreateOrderInput carries everything Create needs. FeePercent is passed in
// by the caller from platform configuration; the service never reads ambient
// fee state, so later configuration changes cannot leak into existing orders.
type CreateOrderInput struct {
	BuyerID    uuid.UUID
	ListingID  uuid.UUID
	Quantity   int64
	FeePercent decimal.Decimal
	Metadata   types.JSONMap
}

// ActionInput identifies an order operation and the user attempting it.
type ActionInput struct {
	OrderID uuid.UUID
	ActorID uuid.UUID
}

// RejectInput carries the optional seller-side rejection reason.
type RejectInput struct {
	OrderID  uuid.UUID
	SellerID uuid.UUID
	Reason   *string
}

// ShipInput carries the optional tracking payload recorded in metadata.
type ShipInput struct {
	OrderID      uuid.UUID
	SellerID     uuid.UUID
	TrackingInfo *string
}

// CompleteInput finalizes a delivered order; Rating, when present, must be
// between 1 and 5 and folds into the seller's running average.
type CompleteInput struct {
	OrderID uuid.UUID
	BuyerID uuid.UUID
	Rating  *int64
}

// CancelInput carries the optional cancellation reason.
type CancelInput struct {
	OrderID uuid.UUID
	ActorID uuid.UUID
	Reason  *string
}

// OpenDisputeInput opens the one-and-only dispute on an order.
type OpenDisputeInput struct {
	OrderID     uuid.UUID
	ActorID     uuid.UUID
	Reason      string
	Description *string
}

// ResolveDisputeInput is the tagged-variant admin resolution: RefundCents is
// required for partial_refund and ignored otherwise.
type ResolveDisputeInput struct {
	OrderID     uuid.UUID
	AdminID     uuid.UUID
	Resolution  enums.DisputeResolution
	RefundCents *int64
}

// ListInput filters and pages the buyer/seller order lists.
type ListInput struct {
	Status *enums.OrderStatus
	Limit  int
	Offset int
}

// OrderEvent is the payload carried by every order outbox event.
type OrderEvent struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	BuyerID     uuid.UUID         `json:"buyer_id"`
	SellerID    uuid.UUID         `json:"seller_id"`
	Status      enums.OrderStatus `json:"status"`
	TotalCents  int64             `json:"total_cents"`
	Reason      *string           `json:"reason,omitempty"`
}

// DisputeEvent is the payload carried by dispute outbox events.
type DisputeEvent struct {
	OrderID     uuid.UUID                `json:"order_id"`
	DisputeID   uuid.UUID                `json:"dispute_id"`
	BuyerID     uuid.UUID                `json:"buyer_id"`
	SellerID    uuid.UUID                `json:"seller_id"`
	OpenedByID  uuid.UUID                `json:"opened_by_id"`
	Reason      string                   `json:"reason"`
	Resolution  *enums.DisputeResolution `json:"resolution,omitempty"`
	RefundCents *int64                   `json:"refund_cents,omitempty"`
}

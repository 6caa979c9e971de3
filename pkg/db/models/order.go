package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/diwinters/tradewind-backend/pkg/enums"
	"github.com/diwinters/tradewind-backend/pkg/types"
)

// Order captures a buyer's purchase of a listing. Commercial terms are
// snapshotted at creation and never change afterwards; only status, escrow,
// timestamps and metadata mutate, and exclusively through the lifecycle
// transition table.
type Order struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber string    `gorm:"column:order_number;type:text;not null;uniqueIndex" json:"order_number"`
	ListingID   uuid.UUID `gorm:"column:listing_id;type:uuid;not null" json:"listing_id"`
	BuyerID     uuid.UUID `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyer_id"`
	SellerID    uuid.UUID `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`

	Quantity           int64           `gorm:"column:quantity;not null" json:"quantity"`
	UnitPriceCents     int64           `gorm:"column:unit_price_cents;not null" json:"unit_price_cents"`
	TotalCents         int64           `gorm:"column:total_cents;not null" json:"total_cents"`
	PlatformFeePercent decimal.Decimal `gorm:"column:platform_fee_percent;type:numeric;not null" json:"platform_fee_percent"`
	PlatformFeeCents   int64           `gorm:"column:platform_fee_cents;not null" json:"platform_fee_cents"`
	SellerAmountCents  int64           `gorm:"column:seller_amount_cents;not null" json:"seller_amount_cents"`

	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'created'" json:"status"`
	EscrowCents int64             `gorm:"column:escrow_cents;not null;default:0" json:"escrow_cents"`

	PaidAt      *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
	AcceptedAt  *time.Time `gorm:"column:accepted_at" json:"accepted_at,omitempty"`
	ShippedAt   *time.Time `gorm:"column:shipped_at" json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `gorm:"column:delivered_at" json:"delivered_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CancelledAt *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	DisputedAt  *time.Time `gorm:"column:disputed_at" json:"disputed_at,omitempty"`

	Metadata types.JSONMap `gorm:"column:metadata;type:jsonb;serializer:json" json:"metadata,omitempty"`
	Dispute  *Dispute      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"dispute,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

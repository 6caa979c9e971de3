package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/diwinters/tradewind-backend/pkg/enums"
)

// Dispute is owned one-to-one by its order; the unique index on order_id
// guarantees no duplicate dispute can be created even under concurrent opens.
type Dispute struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID               `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ux_disputes_order_id" json:"order_id"`
	OpenedByID  uuid.UUID               `gorm:"column:opened_by_id;type:uuid;not null" json:"opened_by_id"`
	Reason      string                  `gorm:"column:reason;type:text;not null" json:"reason"`
	Description *string                 `gorm:"column:description;type:text" json:"description,omitempty"`
	Resolution  *enums.DisputeResolution `gorm:"column:resolution;type:text" json:"resolution,omitempty"`
	RefundCents *int64                  `gorm:"column:refund_cents" json:"refund_cents,omitempty"`
	ResolvedBy  *uuid.UUID              `gorm:"column:resolved_by;type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time              `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

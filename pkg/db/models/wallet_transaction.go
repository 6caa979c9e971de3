package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/diwinters/tradewind-backend/pkg/enums"
	"github.com/diwinters/tradewind-backend/pkg/types"
)

// WalletTransaction is an immutable audit record of a single balance- or
// escrow-affecting event. AmountCents is signed for balance-moving entries
// (deposit, withdrawal, release); hold and refund entries carry the escrow
// magnitude while BalanceBeforeCents == BalanceAfterCents, documenting that
// only held funds moved. Commission entries have no user wallet at all; they
// report platform revenue.
type WalletTransaction struct {
	ID                 uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID             *uuid.UUID              `gorm:"column:user_id;type:uuid;index" json:"user_id,omitempty"`
	OrderID            *uuid.UUID              `gorm:"column:order_id;type:uuid;index" json:"order_id,omitempty"`
	Type               enums.TransactionType   `gorm:"column:type;type:text;not null" json:"type"`
	AmountCents        int64                   `gorm:"column:amount_cents;not null" json:"amount_cents"`
	BalanceBeforeCents int64                   `gorm:"column:balance_before_cents;not null" json:"balance_before_cents"`
	BalanceAfterCents  int64                   `gorm:"column:balance_after_cents;not null" json:"balance_after_cents"`
	Status             enums.TransactionStatus `gorm:"column:status;type:text;not null;default:'completed'" json:"status"`
	Reference          *string                 `gorm:"column:reference;type:text" json:"reference,omitempty"`
	Description        string                  `gorm:"column:description;type:text;not null" json:"description"`
	Metadata           types.JSONMap           `gorm:"column:metadata;type:jsonb;serializer:json" json:"metadata,omitempty"`
	CreatedAt          time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

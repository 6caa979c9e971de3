package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/diwinters/tradewind-backend/pkg/enums"
)

// Listing is the read model the order lifecycle consults at creation time.
// Catalog CRUD lives outside this service.
type Listing struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID        uuid.UUID           `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	Title          string              `gorm:"column:title;type:text;not null" json:"title"`
	UnitPriceCents int64               `gorm:"column:unit_price_cents;not null" json:"unit_price_cents"`
	Status         enums.ListingStatus `gorm:"column:status;type:text;not null;default:'active'" json:"status"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// IsPurchasable reports whether orders may be created against the listing.
func (l *Listing) IsPurchasable() bool {
	return l.Status == enums.ListingStatusActive
}

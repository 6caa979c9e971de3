package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the wallet-bearing identity entity. Balance and held amounts are
// stored in the smallest currency unit; 0 <= held <= balance at all times.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	DisplayName  string     `gorm:"column:display_name;type:text;not null" json:"display_name"`
	BalanceCents int64      `gorm:"column:balance_cents;not null;default:0" json:"balance_cents"`
	HeldCents    int64      `gorm:"column:held_cents;not null;default:0" json:"held_cents"`
	RatingAvg    float64    `gorm:"column:rating_avg;type:numeric;not null;default:0" json:"rating_avg"`
	RatingCount  int64      `gorm:"column:rating_count;not null;default:0" json:"rating_count"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastSeenAt   *time.Time `gorm:"column:last_seen_at" json:"last_seen_at,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// AvailableCents is the portion of the balance not locked in escrow.
func (u *User) AvailableCents() int64 {
	return u.BalanceCents - u.HeldCents
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/diwinters/tradewind-backend/pkg/enums"
	"github.com/diwinters/tradewind-backend/pkg/types"
)

// Notification stores in-app notification payloads scoped to users.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Type      enums.NotificationType `gorm:"column:type;type:text;not null" json:"type"`
	Title     string                 `gorm:"column:title;type:text;not null" json:"title"`
	Message   string                 `gorm:"column:message;type:text;not null" json:"message"`
	Data      types.JSONMap          `gorm:"column:data;type:jsonb;serializer:json" json:"data,omitempty"`
	ReadAt    *time.Time             `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

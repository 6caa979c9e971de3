package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diwinters/tradewind-backend/pkg/db/models"
	"github.com/diwinters/tradewind-backend/pkg/enums"
	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
	"github.com/diwinters/tradewind-backend/pkg/logger"
)

// publisher is the slice of the redis client the tracking service uses.
type publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
	TrackingChannel(orderID string) string
}

type orderSource interface {
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

// Update is the location telemetry payload published per order. It is
// advisory: subscribers may miss updates and no history is kept.
type Update struct {
	OrderID    uuid.UUID `json:"order_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	EtaMinutes *int      `json:"eta_minutes,omitempty"`
	ReportedAt time.Time `json:"reported_at"`
}

// PublishInput carries a seller-reported location fix for an order.
type PublishInput struct {
	OrderID    uuid.UUID
	ActorID    uuid.UUID
	Lat        float64
	Lng        float64
	EtaMinutes *int
}

// Service publishes location telemetry for in-flight orders.
type Service interface {
	Publish(ctx context.Context, input PublishInput) error
	ChannelFor(ctx context.Context, orderID, actorID uuid.UUID) (string, error)
}

type service struct {
	orders orderSource
	pub    publisher
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds the tracking publisher.
func NewService(orders orderSource, pub publisher, logg *logger.Logger) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order source required")
	}
	if pub == nil {
		return nil, fmt.Errorf("publisher required")
	}
	return &service{orders: orders, pub: pub, logg: logg, now: time.Now}, nil
}

// Publish validates the fix and fans it out on the order's channel. Only the
// seller may report, and only while the order is actually moving.
func (s *service) Publish(ctx context.Context, input PublishInput) error {
	if input.OrderID == uuid.Nil {
		return apperrors.New(apperrors.CodeValidation, "order id required")
	}
	if input.Lat < -90 || input.Lat > 90 || input.Lng < -180 || input.Lng > 180 {
		return apperrors.New(apperrors.CodeValidation, "coordinates out of range")
	}
	if input.EtaMinutes != nil && *input.EtaMinutes < 0 {
		return apperrors.New(apperrors.CodeValidation, "eta must be non-negative")
	}

	order, err := s.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		return err
	}
	if order.SellerID != input.ActorID {
		return apperrors.New(apperrors.CodeNotAuthorized, "only the seller can report location")
	}
	if !trackableStatus(order.Status) {
		return apperrors.New(apperrors.CodeInvalidTransition, "order is not in a trackable status")
	}

	update := Update{
		OrderID:    order.ID,
		Lat:        input.Lat,
		Lng:        input.Lng,
		EtaMinutes: input.EtaMinutes,
		ReportedAt: s.now().UTC(),
	}
	payload, err := json.Marshal(update)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "encode tracking update")
	}

	channel := s.pub.TrackingChannel(order.ID.String())
	if err := s.pub.Publish(ctx, channel, payload); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "publish tracking update")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "tracking update published")
	}
	return nil
}

// ChannelFor returns the subscription channel for a party on the order.
func (s *service) ChannelFor(ctx context.Context, orderID, actorID uuid.UUID) (string, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.BuyerID != actorID && order.SellerID != actorID {
		return "", apperrors.New(apperrors.CodeNotAuthorized, "not authorized for this order")
	}
	return s.pub.TrackingChannel(order.ID.String()), nil
}

func trackableStatus(status enums.OrderStatus) bool {
	switch status {
	case enums.OrderStatusInProgress, enums.OrderStatusShipped:
		return true
	default:
		return false
	}
}

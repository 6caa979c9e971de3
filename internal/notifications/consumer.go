package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/diwinters/tradewind-backend/pkg/db/models"
	"github.com/diwinters/tradewind-backend/pkg/enums"
	"github.com/diwinters/tradewind-backend/pkg/logger"
	"github.com/diwinters/tradewind-backend/pkg/outbox"
	"github.com/diwinters/tradewind-backend/pkg/outbox/idempotency"
	"github.com/diwinters/tradewind-backend/pkg/types"
)

const orderNotificationConsumer = "order-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches domain events and fans them out as in-app notifications for
// the order party that did not trigger the event.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds an order notification consumer.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg.Attributes["event_type"], msg.ID, msg.Data)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, eventType, messageID string, data []byte) processResult {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": messageID,
		"event_type": eventType,
	})

	handler, ok := handlers[enums.OutboxEventType(eventType)]
	if !ok {
		c.logg.Info(logCtx, "skipping unhandled event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, orderNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if err := handler(c, logCtx, envelope.Data); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, orderNotificationConsumer, eventID)
		return processResult{nack: true}
	}
	return processResult{ack: true}
}

type orderEventPayload struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	BuyerID     uuid.UUID         `json:"buyer_id"`
	SellerID    uuid.UUID         `json:"seller_id"`
	Status      enums.OrderStatus `json:"status"`
	TotalCents  int64             `json:"total_cents"`
	Reason      *string           `json:"reason,omitempty"`
}

type disputeEventPayload struct {
	OrderID     uuid.UUID                `json:"order_id"`
	DisputeID   uuid.UUID                `json:"dispute_id"`
	BuyerID     uuid.UUID                `json:"buyer_id"`
	SellerID    uuid.UUID                `json:"seller_id"`
	OpenedByID  uuid.UUID                `json:"opened_by_id"`
	Reason      string                   `json:"reason"`
	Resolution  *enums.DisputeResolution `json:"resolution,omitempty"`
	RefundCents *int64                   `json:"refund_cents,omitempty"`
}

type eventHandler func(c *Consumer, ctx context.Context, data json.RawMessage) error

var handlers = map[enums.OutboxEventType]eventHandler{
	enums.EventOrderPaid:       orderHandler("New order", "Order %s has been paid and awaits your review.", recipientSeller),
	enums.EventOrderAccepted:   orderHandler("Order accepted", "The seller accepted order %s.", recipientBuyer),
	enums.EventOrderRejected:   orderHandler("Order rejected", "The seller rejected order %s and your payment was refunded.", recipientBuyer),
	enums.EventOrderInProgress: orderHandler("Order in progress", "The seller started preparing order %s.", recipientBuyer),
	enums.EventOrderShipped:    orderHandler("Order shipped", "Order %s is on its way.", recipientBuyer),
	enums.EventOrderDelivered:  orderHandler("Order delivered", "Order %s was marked as delivered.", recipientBuyer),
	enums.EventOrderCompleted:  orderHandler("Order completed", "The buyer confirmed order %s. Funds were released to your wallet.", recipientSeller),
	enums.EventOrderCancelled:  orderHandler("Order cancelled", "Order %s was cancelled.", recipientBoth),
	enums.EventPaymentReceived: paymentHandler,
	enums.EventDisputeOpened:   disputeOpenedHandler,
	enums.EventDisputeResolved: disputeResolvedHandler,
}

type recipientRule int

const (
	recipientBuyer recipientRule = iota
	recipientSeller
	recipientBoth
)

func orderHandler(title, messageFormat string, rule recipientRule) eventHandler {
	return func(c *Consumer, ctx context.Context, data json.RawMessage) error {
		var payload orderEventPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse order payload: %w", err)
		}

		message := fmt.Sprintf(messageFormat, payload.OrderNumber)
		if payload.Reason != nil && *payload.Reason != "" {
			message = fmt.Sprintf("%s Reason: %s", message, *payload.Reason)
		}

		recipients := []uuid.UUID{payload.BuyerID}
		switch rule {
		case recipientSeller:
			recipients = []uuid.UUID{payload.SellerID}
		case recipientBoth:
			recipients = []uuid.UUID{payload.BuyerID, payload.SellerID}
		}

		for _, userID := range recipients {
			notification := &models.Notification{
				UserID:  userID,
				Type:    enums.NotificationTypeOrder,
				Title:   title,
				Message: message,
				Data: types.JSONMap{
					"order_id":     payload.OrderID.String(),
					"order_number": payload.OrderNumber,
					"status":       string(payload.Status),
				},
			}
			if err := c.repo.Create(ctx, notification); err != nil {
				return err
			}
		}
		c.logg.Info(ctx, "order notification created")
		return nil
	}
}

func paymentHandler(c *Consumer, ctx context.Context, data json.RawMessage) error {
	var payload orderEventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse payment payload: %w", err)
	}

	notification := &models.Notification{
		UserID:  payload.SellerID,
		Type:    enums.NotificationTypePayment,
		Title:   "Payment received",
		Message: fmt.Sprintf("Payment for order %s is held in escrow.", payload.OrderNumber),
		Data: types.JSONMap{
			"order_id":    payload.OrderID.String(),
			"total_cents": payload.TotalCents,
		},
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(ctx, "payment notification created")
	return nil
}

func disputeOpenedHandler(c *Consumer, ctx context.Context, data json.RawMessage) error {
	var payload disputeEventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse dispute payload: %w", err)
	}

	// Notify the party that did not open the dispute.
	recipient := payload.SellerID
	if payload.OpenedByID == payload.SellerID {
		recipient = payload.BuyerID
	}

	notification := &models.Notification{
		UserID:  recipient,
		Type:    enums.NotificationTypeDispute,
		Title:   "Dispute opened",
		Message: fmt.Sprintf("A dispute was opened on one of your orders. Reason: %s", payload.Reason),
		Data: types.JSONMap{
			"order_id":   payload.OrderID.String(),
			"dispute_id": payload.DisputeID.String(),
		},
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(ctx, "dispute notification created")
	return nil
}

func disputeResolvedHandler(c *Consumer, ctx context.Context, data json.RawMessage) error {
	var payload disputeEventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse dispute payload: %w", err)
	}

	message := "The dispute on your order has been resolved."
	if payload.Resolution != nil {
		message = fmt.Sprintf("The dispute on your order was resolved: %s.", *payload.Resolution)
	}

	for _, userID := range []uuid.UUID{payload.BuyerID, payload.SellerID} {
		notification := &models.Notification{
			UserID:  userID,
			Type:    enums.NotificationTypeDispute,
			Title:   "Dispute resolved",
			Message: message,
			Data: types.JSONMap{
				"order_id":   payload.OrderID.String(),
				"dispute_id": payload.DisputeID.String(),
			},
		}
		if err := c.repo.Create(ctx, notification); err != nil {
			return err
		}
	}
	c.logg.Info(ctx, "dispute resolution notifications created")
	return nil
}

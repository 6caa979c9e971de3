package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/diwinters/tradewind-backend/api/responses"
	"github.com/diwinters/tradewind-backend/api/validators"
	"github.com/diwinters/tradewind-backend/internal/orders"
	"github.com/diwinters/tradewind-backend/pkg/db/models"
	"github.com/diwinters/tradewind-backend/pkg/config"
	"github.com/diwinters/tradewind-backend/pkg/enums"
	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
	"github.com/diwinters/tradewind-backend/pkg/logger"
	"github.com/diwinters/tradewind-backend/pkg/pagination"
	"github.com/diwinters/tradewind-backend/pkg/types"
)

type createOrderRequest struct {
	ListingID string        `json:"listing_id" validate:"required,uuid"`
	Quantity  int64         `json:"quantity" validate:"required,min=1"`
	Metadata  types.JSONMap `json:"metadata,omitempty"`
}

type reasonRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=512"`
}

type shipRequest struct {
	TrackingInfo *string `json:"tracking_info,omitempty" validate:"omitempty,max=256"`
}

type completeRequest struct {
	Rating *int64 `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

type openDisputeRequest struct {
	Reason      string  `json:"reason" validate:"required,max=512"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2048"`
}

// CreateOrder snapshots the listing's commercial terms into a new order. The
// platform fee percent comes from configuration, never from the client.
func CreateOrder(svc orders.Service, platform config.PlatformConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listingID, err := uuid.Parse(req.ListingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeValidation, "invalid listing id"))
			return
		}

		order, err := svc.Create(r.Context(), orders.CreateOrderInput{
			BuyerID:    buyerID,
			ListingID:  listingID,
			Quantity:   req.Quantity,
			FeePercent: platform.FeePercentDecimal(),
			Metadata:   req.Metadata,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ListOrders pages the caller's orders on either side of the marketplace.
// The role query selects the buyer view (default) or the seller view.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.ListInput{Limit: limit, Offset: offset}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					apperrors.New(apperrors.CodeValidation, "invalid order status").WithDetails(map[string]any{"field": "status"}))
				return
			}
			input.Status = &status
		}

		switch role := strings.TrimSpace(r.URL.Query().Get("role")); role {
		case "", "buyer":
			result, err := svc.ListForBuyer(r.Context(), userID, input)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, result)
		case "seller":
			result, err := svc.ListForSeller(r.Context(), userID, input)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, result)
		default:
			responses.WriteError(r.Context(), logg, w,
				apperrors.New(apperrors.CodeValidation, "role must be buyer or seller").WithDetails(map[string]any{"field": "role"}))
		}
	}
}

// OrderDetail returns one order to either of its parties.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := orderAction(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// PayOrder escrows the order total from the buyer.
func PayOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return actionHandler(svc.Pay, logg)
}

// AcceptOrder is the seller's commitment to fulfil.
func AcceptOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return actionHandler(svc.Accept, logg)
}

// RejectOrder refunds the buyer and closes the order.
func RejectOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := orderAction(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req reasonRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Reject(r.Context(), orders.RejectInput{
			OrderID:  input.OrderID,
			SellerID: input.ActorID,
			Reason:   req.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// StartOrderProgress marks fulfilment as underway.
func StartOrderProgress(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return actionHandler(svc.StartProgress, logg)
}

// ShipOrder records dispatch, optionally with tracking details.
func ShipOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := orderAction(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req shipRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Ship(r.Context(), orders.ShipInput{
			OrderID:      input.OrderID,
			SellerID:     input.ActorID,
			TrackingInfo: req.TrackingInfo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// DeliverOrder records physical delivery.
func DeliverOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return actionHandler(svc.MarkDelivered, logg)
}

// CompleteOrder releases the escrow to the seller, optionally rating them.
func CompleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := orderAction(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req completeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Complete(r.Context(), orders.CompleteInput{
			OrderID: input.OrderID,
			BuyerID: input.ActorID,
			Rating:  req.Rating,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// CancelOrder closes the order and refunds any held escrow.
func CancelOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := orderAction(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req reasonRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Cancel(r.Context(), orders.CancelInput{
			OrderID: input.OrderID,
			ActorID: input.ActorID,
			Reason:  req.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OpenOrderDispute freezes the order in disputed until an admin resolves it.
func OpenOrderDispute(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := orderAction(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req openDisputeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dispute, err := svc.OpenDispute(r.Context(), orders.OpenDisputeInput{
			OrderID:     input.OrderID,
			ActorID:     input.ActorID,
			Reason:      strings.TrimSpace(req.Reason),
			Description: req.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dispute)
	}
}

func orderAction(r *http.Request) (orders.ActionInput, error) {
	userID, err := actorID(r)
	if err != nil {
		return orders.ActionInput{}, err
	}
	orderID, err := pathUUID(r, "orderId")
	if err != nil {
		return orders.ActionInput{}, err
	}
	return orders.ActionInput{OrderID: orderID, ActorID: userID}, nil
}

// actionHandler wraps the bodyless order transitions that differ only in the
// service method they call.
func actionHandler(action func(ctx context.Context, input orders.ActionInput) (*models.Order, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := orderAction(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := action(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

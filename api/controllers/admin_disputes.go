package controllers

import (
	"net/http"

	"github.com/diwinters/tradewind-backend/api/responses"
	"github.com/diwinters/tradewind-backend/api/validators"
	"github.com/diwinters/tradewind-backend/internal/orders"
	"github.com/diwinters/tradewind-backend/pkg/enums"
	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
	"github.com/diwinters/tradewind-backend/pkg/logger"
)

type resolveDisputeRequest struct {
	Resolution  string `json:"resolution" validate:"required,oneof=refund_buyer release_to_seller partial_refund"`
	RefundCents *int64 `json:"refund_cents,omitempty" validate:"omitempty,min=0"`
}

// ResolveDispute settles a disputed order's escrow. Partial settlements
// require an explicit refund amount; the service validates it against the
// escrowed total.
func ResolveDispute(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req resolveDisputeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resolution, err := enums.ParseDisputeResolution(req.Resolution)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				apperrors.New(apperrors.CodeValidation, "invalid resolution").WithDetails(map[string]any{"field": "resolution"}))
			return
		}

		order, err := svc.ResolveDispute(r.Context(), orders.ResolveDisputeInput{
			OrderID:     orderID,
			AdminID:     adminID,
			Resolution:  resolution,
			RefundCents: req.RefundCents,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

package controllers

import (
	"net/http"

	"github.com/diwinters/tradewind-backend/api/responses"
	"github.com/diwinters/tradewind-backend/api/validators"
	"github.com/diwinters/tradewind-backend/internal/tracking"
	"github.com/diwinters/tradewind-backend/pkg/logger"
)

type trackingUpdateRequest struct {
	Lat        float64 `json:"lat" validate:"min=-90,max=90"`
	Lng        float64 `json:"lng" validate:"min=-180,max=180"`
	EtaMinutes *int    `json:"eta_minutes,omitempty" validate:"omitempty,min=0"`
}

// PublishTracking fans a seller's location report out to the order's
// tracking channel. Only orders in flight accept telemetry.
func PublishTracking(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req trackingUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Publish(r.Context(), tracking.PublishInput{
			OrderID:    orderID,
			ActorID:    userID,
			Lat:        req.Lat,
			Lng:        req.Lng,
			EtaMinutes: req.EtaMinutes,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]any{"published": true})
	}
}

// TrackingChannel hands either party the channel name to subscribe on for
// live location updates.
func TrackingChannel(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		channel, err := svc.ChannelFor(r.Context(), orderID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"channel": channel})
	}
}

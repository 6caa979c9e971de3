package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/diwinters/tradewind-backend/internal/orders"
	"github.com/diwinters/tradewind-backend/pkg/db/models"
	"github.com/diwinters/tradewind-backend/pkg/enums"
	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
)

func TestResolveDisputePartialRefund(t *testing.T) {
	orderID := uuid.New()
	adminID := uuid.New()
	var captured orders.ResolveDisputeInput
	svc := &testOrdersService{
		resolveDisputeFn: func(ctx context.Context, input orders.ResolveDisputeInput) (*models.Order, error) {
			captured = input
			return &models.Order{ID: input.OrderID}, nil
		},
	}
	req := authedRequest(t, http.MethodPost, "/api/admin/v1/disputes/"+orderID.String()+"/resolve", adminID, map[string]any{
		"resolution":   "partial_refund",
		"refund_cents": 2500,
	})
	req = addRouteParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	ResolveDispute(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.OrderID != orderID || captured.AdminID != adminID {
		t.Fatal("identity fields not forwarded")
	}
	if captured.Resolution != enums.DisputeResolutionPartialRefund {
		t.Fatalf("unexpected resolution %s", captured.Resolution)
	}
	if captured.RefundCents == nil || *captured.RefundCents != 2500 {
		t.Fatal("refund amount not forwarded")
	}
}

func TestResolveDisputeRejectsUnknownResolution(t *testing.T) {
	orderID := uuid.New()
	req := authedRequest(t, http.MethodPost, "/api/admin/v1/disputes/"+orderID.String()+"/resolve", uuid.New(), map[string]any{
		"resolution": "split_the_difference",
	})
	req = addRouteParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	ResolveDispute(&testOrdersService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestResolveDisputeMapsTransitionError(t *testing.T) {
	orderID := uuid.New()
	svc := &testOrdersService{
		resolveDisputeFn: func(ctx context.Context, input orders.ResolveDisputeInput) (*models.Order, error) {
			return nil, apperrors.New(apperrors.CodeInvalidTransition, "order is not disputed")
		},
	}
	req := authedRequest(t, http.MethodPost, "/api/admin/v1/disputes/"+orderID.String()+"/resolve", uuid.New(), map[string]any{
		"resolution": "refund_buyer",
	})
	req = addRouteParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	ResolveDispute(svc, testLogger())(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != "INVALID_STATUS_TRANSITION" {
		t.Fatalf("unexpected code %s", code)
	}
}

package responses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
	"github.com/diwinters/tradewind-backend/pkg/types"
)

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var envelope types.SuccessEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["status"] != "ok" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestWriteErrorTypedCode(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperrors.New(apperrors.CodeInsufficientBalance, "available balance below order total")
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Error.Code != "INSUFFICIENT_BALANCE" {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
	if envelope.Error.Message != "available balance below order total" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestWriteErrorHidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperrors.New(apperrors.CodeInternal, "pq: relation users does not exist")
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Error.Message != "internal server error" {
		t.Fatalf("internal detail leaked: %q", envelope.Error.Message)
	}
}

func TestWriteErrorUntypedDefaultsToInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, context.DeadlineExceeded)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestWriteErrorIncludesDetailsWhenAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperrors.New(apperrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"amount_cents": "must be at least 1"})
	WriteError(context.Background(), nil, rec, err)

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	details, ok := envelope.Error.Details.(map[string]any)
	if !ok || details["amount_cents"] != "must be at least 1" {
		t.Fatalf("expected details, got %+v", envelope.Error.Details)
	}
}

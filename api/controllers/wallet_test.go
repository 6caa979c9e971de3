package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diwinters/tradewind-backend/internal/wallet"
	"github.com/diwinters/tradewind-backend/pkg/db/models"
	"github.com/diwinters/tradewind-backend/pkg/enums"
	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
	"github.com/diwinters/tradewind-backend/pkg/pagination"
)

type testWalletService struct {
	getBalanceFn func(ctx context.Context, userID uuid.UUID) (*wallet.Balance, error)
	depositFn    func(ctx context.Context, input wallet.DepositInput) (*models.WalletTransaction, error)
	withdrawFn   func(ctx context.Context, input wallet.WithdrawInput) (*models.WalletTransaction, error)
	listFn       func(ctx context.Context, userID uuid.UUID, input wallet.ListTransactionsInput) (*pagination.Page[models.WalletTransaction], error)
}

func (s *testWalletService) GetBalance(ctx context.Context, userID uuid.UUID) (*wallet.Balance, error) {
	if s.getBalanceFn != nil {
		return s.getBalanceFn(ctx, userID)
	}
	return &wallet.Balance{}, nil
}

func (s *testWalletService) Deposit(ctx context.Context, input wallet.DepositInput) (*models.WalletTransaction, error) {
	if s.depositFn != nil {
		return s.depositFn(ctx, input)
	}
	return &models.WalletTransaction{ID: uuid.New()}, nil
}

func (s *testWalletService) Withdraw(ctx context.Context, input wallet.WithdrawInput) (*models.WalletTransaction, error) {
	if s.withdrawFn != nil {
		return s.withdrawFn(ctx, input)
	}
	return &models.WalletTransaction{ID: uuid.New()}, nil
}

func (s *testWalletService) Hold(ctx context.Context, tx *gorm.DB, input wallet.HoldInput) error {
	return nil
}

func (s *testWalletService) Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*wallet.ReleaseResult, error) {
	return nil, nil
}

func (s *testWalletService) Refund(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*wallet.RefundResult, error) {
	return nil, nil
}

func (s *testWalletService) ResolveSplit(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, refundCents int64) (*wallet.SplitResult, error) {
	return nil, nil
}

func (s *testWalletService) ListTransactions(ctx context.Context, userID uuid.UUID, input wallet.ListTransactionsInput) (*pagination.Page[models.WalletTransaction], error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID, input)
	}
	return &pagination.Page[models.WalletTransaction]{}, nil
}

func TestWalletBalance(t *testing.T) {
	userID := uuid.New()
	svc := &testWalletService{
		getBalanceFn: func(ctx context.Context, id uuid.UUID) (*wallet.Balance, error) {
			if id != userID {
				t.Fatalf("unexpected user %s", id)
			}
			return &wallet.Balance{TotalCents: 10000, HeldCents: 2500, AvailableCents: 7500}, nil
		},
	}
	req := authedRequest(t, http.MethodGet, "/api/v1/wallet/balance", userID, nil)
	resp := httptest.NewRecorder()
	WalletBalance(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestWalletDeposit(t *testing.T) {
	userID := uuid.New()
	var captured wallet.DepositInput
	svc := &testWalletService{
		depositFn: func(ctx context.Context, input wallet.DepositInput) (*models.WalletTransaction, error) {
			captured = input
			return &models.WalletTransaction{ID: uuid.New()}, nil
		},
	}
	req := authedRequest(t, http.MethodPost, "/api/v1/wallet/deposit", userID, map[string]any{
		"amount_cents": 5000,
		"reference":    "bank-xfer-42",
		"description":  "  top up  ",
	})
	resp := httptest.NewRecorder()
	WalletDeposit(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.UserID != userID || captured.AmountCents != 5000 {
		t.Fatal("deposit fields not forwarded")
	}
	if captured.Reference == nil || *captured.Reference != "bank-xfer-42" {
		t.Fatal("reference not forwarded")
	}
	if captured.Description != "top up" {
		t.Fatalf("description not trimmed: %q", captured.Description)
	}
}

func TestWalletDepositRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []int64{0, -100} {
		req := authedRequest(t, http.MethodPost, "/api/v1/wallet/deposit", uuid.New(), map[string]any{
			"amount_cents": amount,
		})
		resp := httptest.NewRecorder()
		WalletDeposit(&testWalletService{}, testLogger())(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("amount %d: expected 400 got %d", amount, resp.Code)
		}
	}
}

func TestWalletWithdrawMapsInsufficientBalance(t *testing.T) {
	svc := &testWalletService{
		withdrawFn: func(ctx context.Context, input wallet.WithdrawInput) (*models.WalletTransaction, error) {
			return nil, apperrors.New(apperrors.CodeInsufficientBalance, "available balance too low")
		},
	}
	req := authedRequest(t, http.MethodPost, "/api/v1/wallet/withdraw", uuid.New(), map[string]any{
		"amount_cents": 999999,
	})
	resp := httptest.NewRecorder()
	WalletWithdraw(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != "INSUFFICIENT_BALANCE" {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestWalletTransactionsForwardsFilter(t *testing.T) {
	userID := uuid.New()
	var captured wallet.ListTransactionsInput
	svc := &testWalletService{
		listFn: func(ctx context.Context, id uuid.UUID, input wallet.ListTransactionsInput) (*pagination.Page[models.WalletTransaction], error) {
			captured = input
			return &pagination.Page[models.WalletTransaction]{}, nil
		},
	}
	req := authedRequest(t, http.MethodGet, "/api/v1/wallet/transactions?type=hold&limit=5&offset=10", userID, nil)
	resp := httptest.NewRecorder()
	WalletTransactions(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.Type == nil || *captured.Type != enums.TransactionTypeHold {
		t.Fatal("type filter not forwarded")
	}
	if captured.Pagination.Limit != 5 || captured.Pagination.Offset != 10 {
		t.Fatalf("unexpected paging %d/%d", captured.Pagination.Limit, captured.Pagination.Offset)
	}
}

func TestWalletTransactionsRejectsBadType(t *testing.T) {
	req := authedRequest(t, http.MethodGet, "/api/v1/wallet/transactions?type=wire", uuid.New(), nil)
	resp := httptest.NewRecorder()
	WalletTransactions(&testWalletService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

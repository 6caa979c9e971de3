package controllers

import (
	"net/http"
	"strings"

	"github.com/diwinters/tradewind-backend/api/responses"
	"github.com/diwinters/tradewind-backend/api/validators"
	"github.com/diwinters/tradewind-backend/internal/wallet"
	"github.com/diwinters/tradewind-backend/pkg/enums"
	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
	"github.com/diwinters/tradewind-backend/pkg/logger"
	"github.com/diwinters/tradewind-backend/pkg/pagination"
)

type depositRequest struct {
	AmountCents int64   `json:"amount_cents" validate:"required,min=1"`
	Reference   *string `json:"reference,omitempty" validate:"omitempty,max=128"`
	Description string  `json:"description,omitempty" validate:"max=256"`
}

type withdrawRequest struct {
	AmountCents int64   `json:"amount_cents" validate:"required,min=1"`
	Reference   *string `json:"reference,omitempty" validate:"omitempty,max=128"`
}

// WalletBalance returns the caller's balance snapshot.
func WalletBalance(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		balance, err := svc.GetBalance(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, balance)
	}
}

// WalletDeposit credits the caller's wallet.
func WalletDeposit(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req depositRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Deposit(r.Context(), wallet.DepositInput{
			UserID:      userID,
			AmountCents: req.AmountCents,
			Reference:   req.Reference,
			Description: strings.TrimSpace(req.Description),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// WalletWithdraw debits the caller's available balance.
func WalletWithdraw(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req withdrawRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Withdraw(r.Context(), wallet.WithdrawInput{
			UserID:      userID,
			AmountCents: req.AmountCents,
			Reference:   req.Reference,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// WalletTransactions lists the caller's ledger history, newest first.
func WalletTransactions(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
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

		input := wallet.ListTransactionsInput{
			Pagination: pagination.Params{Limit: limit, Offset: offset},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			txType, err := enums.ParseTransactionType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					apperrors.New(apperrors.CodeValidation, "invalid transaction type").WithDetails(map[string]any{"field": "type"}))
				return
			}
			input.Type = &txType
		}

		page, err := svc.ListTransactions(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

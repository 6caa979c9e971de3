package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/diwinters/tradewind-backend/api/middleware"
	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
)

func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, apperrors.New(apperrors.CodeUnauthorized, "missing actor identity")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.CodeUnauthorized, err, "invalid actor identity")
	}
	return id, nil
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.New(apperrors.CodeValidation, "invalid "+param).WithDetails(map[string]any{"field": param})
	}
	return id, nil
}

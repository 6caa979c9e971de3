package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/diwinters/tradewind-backend/internal/notifications"
	"github.com/diwinters/tradewind-backend/pkg/db/models"
	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
	"github.com/diwinters/tradewind-backend/pkg/pagination"
)

type testNotificationsService struct {
	listFn        func(ctx context.Context, params notifications.ListParams) (*pagination.Page[models.Notification], error)
	markReadFn    func(ctx context.Context, userID, notificationID uuid.UUID) error
	markAllReadFn func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (s *testNotificationsService) List(ctx context.Context, params notifications.ListParams) (*pagination.Page[models.Notification], error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &pagination.Page[models.Notification]{}, nil
}

func (s *testNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, userID, notificationID)
	}
	return nil
}

func (s *testNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.markAllReadFn != nil {
		return s.markAllReadFn(ctx, userID)
	}
	return 0, nil
}

func TestListNotificationsForwardsParams(t *testing.T) {
	userID := uuid.New()
	var captured notifications.ListParams
	svc := &testNotificationsService{
		listFn: func(ctx context.Context, params notifications.ListParams) (*pagination.Page[models.Notification], error) {
			captured = params
			return &pagination.Page[models.Notification]{Total: 1, Items: []models.Notification{{ID: uuid.New()}}}, nil
		},
	}
	req := authedRequest(t, http.MethodGet, "/api/v1/notifications?unread_only=true&limit=10&offset=5", userID, nil)
	resp := httptest.NewRecorder()
	ListNotifications(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.UserID != userID {
		t.Fatal("user not forwarded")
	}
	if !captured.UnreadOnly {
		t.Fatal("unread filter not forwarded")
	}
	if captured.Limit != 10 || captured.Offset != 5 {
		t.Fatalf("unexpected paging %d/%d", captured.Limit, captured.Offset)
	}
}

func TestListNotificationsRejectsOversizedLimit(t *testing.T) {
	req := authedRequest(t, http.MethodGet, "/api/v1/notifications?limit=5000", uuid.New(), nil)
	resp := httptest.NewRecorder()
	ListNotifications(&testNotificationsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	userID := uuid.New()
	notificationID := uuid.New()
	called := false
	svc := &testNotificationsService{
		markReadFn: func(ctx context.Context, uid, nid uuid.UUID) error {
			called = true
			if uid != userID || nid != notificationID {
				t.Fatal("identity fields not forwarded")
			}
			return nil
		},
	}
	req := authedRequest(t, http.MethodPost, "/api/v1/notifications/"+notificationID.String()+"/read", userID, nil)
	req = addRouteParam(req, "notificationId", notificationID.String())
	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data["read"] {
		t.Fatal("response missing read flag")
	}
}

func TestMarkNotificationReadUnknown(t *testing.T) {
	svc := &testNotificationsService{
		markReadFn: func(ctx context.Context, uid, nid uuid.UUID) error {
			return apperrors.New(apperrors.CodeNotificationNotFound, "notification not found")
		},
	}
	notificationID := uuid.NewString()
	req := authedRequest(t, http.MethodPost, "/api/v1/notifications/"+notificationID+"/read", uuid.New(), nil)
	req = addRouteParam(req, "notificationId", notificationID)
	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	userID := uuid.New()
	svc := &testNotificationsService{
		markAllReadFn: func(ctx context.Context, uid uuid.UUID) (int64, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			return 4, nil
		},
	}
	req := authedRequest(t, http.MethodPost, "/api/v1/notifications/read-all", userID, nil)
	resp := httptest.NewRecorder()
	MarkAllNotificationsRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["updated"] != 4 {
		t.Fatalf("unexpected count %d", envelope.Data["updated"])
	}
}

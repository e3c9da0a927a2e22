package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fridgehero-server/internal/domain"
)

func authedJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	user := &domain.SupabaseUser{ID: "user-1", Email: "user@example.com"}
	ctx := context.WithValue(req.Context(), userContextKey, user)
	ctx = context.WithValue(ctx, tokenContextKey, "token")
	return req.WithContext(ctx)
}

func TestGetPending_NoneDetected(t *testing.T) {
	service := NewMockEntitlementService()
	h := NewDowngradeHandler(NewMockRegistry(service), NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.GetPending(rr, authedRequest(http.MethodGet, "/api/v1/downgrade/pending"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var body struct {
		Pending *domain.PendingDowngrade `json:"pending"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Pending != nil {
		t.Fatalf("expected no pending choice, got %+v", body.Pending)
	}
}

func TestGetPending_ChoiceRequired(t *testing.T) {
	service := NewMockEntitlementService()
	service.snapshot = domain.EntitlementState{
		PendingDowngrade: &domain.PendingDowngrade{
			UserID:       "user-1",
			HouseholdIDs: []string{"h-1", "h-2"},
			DetectedAt:   time.Now(),
		},
	}
	h := NewDowngradeHandler(NewMockRegistry(service), NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.GetPending(rr, authedRequest(http.MethodGet, "/api/v1/downgrade/pending"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var body struct {
		Pending *domain.PendingDowngrade `json:"pending"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Pending == nil || len(body.Pending.HouseholdIDs) != 2 {
		t.Fatalf("expected two candidate households, got %+v", body.Pending)
	}
}

func TestChoose_MissingHouseholdID(t *testing.T) {
	service := NewMockEntitlementService()
	h := NewDowngradeHandler(NewMockRegistry(service), NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.Choose(rr, authedJSONRequest(http.MethodPost, "/api/v1/downgrade/choose", `{}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestChoose_NoPendingChoice(t *testing.T) {
	service := NewMockEntitlementService()
	service.resolveErr = domain.ErrNoPendingDowngrade
	h := NewDowngradeHandler(NewMockRegistry(service), NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.Choose(rr, authedJSONRequest(http.MethodPost, "/api/v1/downgrade/choose", `{"household_id":"h-1"}`))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, rr.Code)
	}
}

func TestChoose_NonCandidate(t *testing.T) {
	service := NewMockEntitlementService()
	service.resolveErr = domain.ErrNotAChoiceCandidate
	h := NewDowngradeHandler(NewMockRegistry(service), NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.Choose(rr, authedJSONRequest(http.MethodPost, "/api/v1/downgrade/choose", `{"household_id":"h-9"}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestChoose_Success(t *testing.T) {
	service := NewMockEntitlementService()
	h := NewDowngradeHandler(NewMockRegistry(service), NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.Choose(rr, authedJSONRequest(http.MethodPost, "/api/v1/downgrade/choose", `{"household_id":"h-1"}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if len(service.resolved) != 1 || service.resolved[0] != "h-1" {
		t.Fatalf("expected choice h-1 to be applied, got %v", service.resolved)
	}
}

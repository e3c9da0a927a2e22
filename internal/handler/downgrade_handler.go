package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"fridgehero-server/internal/domain"
	apperrors "fridgehero-server/pkg/errors"
)

// DowngradeHandler handles downgrade reconciliation requests
type DowngradeHandler struct {
	stores domain.EntitlementRegistry
	logger domain.Logger
}

// NewDowngradeHandler creates a new downgrade handler
func NewDowngradeHandler(stores domain.EntitlementRegistry, logger domain.Logger) *DowngradeHandler {
	return &DowngradeHandler{
		stores: stores,
		logger: logger,
	}
}

// GetPending returns the pending household choice, if any
func (h *DowngradeHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	store := h.stores.GetOrCreate(user.ID)
	snap := store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pending": snap.PendingDowngrade,
	})
}

// Choose resolves the pending downgrade by keeping one household active
func (h *DowngradeHandler) Choose(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var body struct {
		HouseholdID string `json:"household_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.HouseholdID == "" {
		writeAppError(w, apperrors.NewValidationError("A household_id is required"))
		return
	}

	store := h.stores.GetOrCreate(user.ID)
	if err := store.ResolveDowngradeChoice(body.HouseholdID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNoPendingDowngrade):
			writeAppError(w, apperrors.NewConflictError("No downgrade choice is pending"))
		case errors.Is(err, domain.ErrNotAChoiceCandidate):
			writeAppError(w, apperrors.NewValidationError("Household is not part of the pending choice"))
		default:
			h.logger.Error("Failed to resolve downgrade choice", err, "user_id", user.ID)
			writeAppError(w, apperrors.NewNetworkError("Failed to apply the household choice", err))
		}
		return
	}

	writeJSON(w, http.StatusOK, store.Snapshot())
}

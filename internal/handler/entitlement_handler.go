package handler

import (
	"net/http"
	"strconv"

	"fridgehero-server/internal/domain"

	"github.com/gorilla/mux"
)

// EntitlementHandler handles entitlement-related HTTP requests
type EntitlementHandler struct {
	stores     domain.EntitlementRegistry
	households domain.HouseholdRepository
	logger     domain.Logger
}

// NewEntitlementHandler creates a new entitlement handler
func NewEntitlementHandler(
	stores domain.EntitlementRegistry,
	households domain.HouseholdRepository,
	logger domain.Logger,
) *EntitlementHandler {
	return &EntitlementHandler{
		stores:     stores,
		households: households,
		logger:     logger,
	}
}

// GetEntitlements returns the current entitlement snapshot
func (h *EntitlementHandler) GetEntitlements(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	store := h.stores.GetOrCreate(user.ID)
	writeJSON(w, http.StatusOK, store.Snapshot())
}

// Refresh triggers a manual status refresh and returns the updated snapshot
func (h *EntitlementHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	store := h.stores.GetOrCreate(user.ID)
	store.Refresh()
	writeJSON(w, http.StatusOK, store.Snapshot())
}

// Foreground signals an app-foreground transition
func (h *EntitlementHandler) Foreground(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	store := h.stores.GetOrCreate(user.ID)
	store.Foreground()
	writeJSON(w, http.StatusOK, store.Snapshot())
}

// Logout resets the user's entitlement state to the free-tier default
func (h *EntitlementHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	store := h.stores.GetOrCreate(user.ID)
	store.Logout()
	h.stores.Remove(user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CheckFeature answers whether the user may use a named feature
func (h *EntitlementHandler) CheckFeature(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	vars := mux.Vars(r)
	feature := vars["feature"]
	if feature == "" {
		writeError(w, http.StatusBadRequest, "Feature name is required")
		return
	}

	store := h.stores.GetOrCreate(user.ID)
	allowed := store.CheckFeatureAccess(feature, h.ownerHasPremium(r))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"feature": feature,
		"allowed": allowed,
	})
}

// CheckItemLimit evaluates an item count against the household's item limit
func (h *EntitlementHandler) CheckItemLimit(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	countParam := r.URL.Query().Get("count")
	count, err := strconv.Atoi(countParam)
	if err != nil || count < 0 {
		writeError(w, http.StatusBadRequest, "A non-negative count is required")
		return
	}

	store := h.stores.GetOrCreate(user.ID)
	check := store.CheckItemLimit(count, h.ownerHasPremium(r))
	writeJSON(w, http.StatusOK, check)
}

// HouseholdAllowance answers whether the user may create another household
func (h *EntitlementHandler) HouseholdAllowance(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	store := h.stores.GetOrCreate(user.ID)
	writeJSON(w, http.StatusOK, map[string]bool{
		"can_create": store.CanCreateNewHousehold(),
	})
}

// ownerHasPremium resolves the optional household_id query parameter to the
// household owner's Premium flag. Lookup failures degrade to false so gated
// checks keep answering from the user's own tier.
func (h *EntitlementHandler) ownerHasPremium(r *http.Request) bool {
	householdID := r.URL.Query().Get("household_id")
	if householdID == "" {
		return false
	}

	premium, err := h.households.OwnerHasPremium(householdID)
	if err != nil {
		h.logger.Warn("Owner premium lookup failed", "household_id", householdID, "error", err)
		return false
	}
	return premium
}

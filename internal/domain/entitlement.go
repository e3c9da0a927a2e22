package domain

import "time"

// EntitlementState is the resolved entitlement snapshot for one user.
//
// HasLoaded transitions false to true exactly once per session and never
// reverts. Loading is true only during the very first fetch; background
// refreshes update Status and Limits in place so the UI never flickers back
// into a loading state.
type EntitlementState struct {
	Status           SubscriptionStatus `json:"status"`
	Limits           Limits             `json:"limits"`
	Loading          bool               `json:"loading"`
	HasLoaded        bool               `json:"has_loaded"`
	ActiveHouseholds int                `json:"active_households"`
	LastFetchAt      time.Time          `json:"last_fetch_at"`
	PendingDowngrade *PendingDowngrade  `json:"pending_downgrade,omitempty"`
}

// EntitlementService owns one user's entitlement state machine.
//
// Snapshot and the gate predicates are synchronous and never touch the
// network; Refresh, Foreground and the interval tick are the only paths that
// fetch.
type EntitlementService interface {
	// Snapshot returns a copy of the current state.
	Snapshot() EntitlementState

	// Refresh fetches the subscription status now unless a fetch is already
	// in flight, in which case the request is dropped (the in-flight result
	// satisfies it).
	Refresh()

	// Foreground signals an app-foreground transition. It refreshes only if
	// enough time has elapsed since the last successful fetch.
	Foreground()

	// Logout resets the store to a ready Free-tier default. The state is
	// immediately served as loaded so a logged-out UI never blocks.
	Logout()

	// CheckFeatureAccess reports whether the named feature is available
	// given the selected household owner's Premium flag. Unknown feature
	// names resolve open.
	CheckFeatureAccess(feature string, householdOwnerHasPremium bool) bool

	// CanCreateNewHousehold reports whether the user may create another
	// household under the current limits.
	CanCreateNewHousehold() bool

	// CheckItemLimit evaluates an item count against the effective item
	// limit for a household whose owner's Premium flag is given.
	CheckItemLimit(currentCount int, householdOwnerHasPremium bool) ItemLimitCheck

	// ResolveDowngradeChoice completes a pending downgrade by keeping the
	// chosen household active.
	ResolveDowngradeChoice(keepHouseholdID string) error
}

// EntitlementRegistry hands out per-user entitlement stores.
type EntitlementRegistry interface {
	// GetOrCreate returns the user's store, creating it and running the
	// initial fetch on first use.
	GetOrCreate(userID string) EntitlementService

	// Remove drops a user's store, typically after logout.
	Remove(userID string)
}

// DowngradeEnforcer brings a user's household memberships into compliance
// with Free-tier limits after a Premium to Free transition.
type DowngradeEnforcer interface {
	// Enforce runs the reconciliation. When the user is active in more than
	// one household it returns a PendingDowngrade describing the required
	// choice; member capping on owned households still runs. Running it
	// against already-compliant households performs zero writes.
	Enforce(userID string) (*PendingDowngrade, error)

	// ResolveChoice keeps the chosen household active and deactivates the
	// user's other active memberships.
	ResolveChoice(userID, keepHouseholdID string) error
}

package service

import (
	"sync"
	"time"

	"fridgehero-server/internal/domain"
)

// EntitlementStore owns one user's entitlement state.
//
// It is the only writer of its state; every other component reads through
// Snapshot or the gate predicates. The state machine is
// uninitialized -> loading -> ready: loading is visited exactly once, on the
// first fetch of a session, and later refreshes update status and limits in
// place so subscribers never see a loading flicker.
type EntitlementStore struct {
	userID        string
	subscriptions domain.SubscriptionRepository
	households    domain.HouseholdRepository
	enforcer      domain.DowngradeEnforcer
	clock         domain.Clock
	logger        domain.Logger
	debounce      time.Duration

	mu               sync.Mutex
	status           domain.SubscriptionStatus
	limits           domain.Limits
	activeHouseholds int
	loading          bool
	hasLoaded        bool
	fetching         bool
	session          uint64
	lastFetchAt      time.Time
	pending          *domain.PendingDowngrade
	enforcementDue   bool
}

// NewEntitlementStore creates a store for one user session. The store starts
// in the loading state; call Refresh to perform the initial fetch.
func NewEntitlementStore(
	userID string,
	subscriptions domain.SubscriptionRepository,
	households domain.HouseholdRepository,
	enforcer domain.DowngradeEnforcer,
	clock domain.Clock,
	logger domain.Logger,
	debounce time.Duration,
) *EntitlementStore {
	return &EntitlementStore{
		userID:        userID,
		subscriptions: subscriptions,
		households:    households,
		enforcer:      enforcer,
		clock:         clock,
		logger:        logger,
		debounce:      debounce,
		status:        domain.DefaultFreeStatus(),
		limits:        domain.ComputeLimits(false, false),
		loading:       true,
	}
}

// Snapshot returns a copy of the current entitlement state.
func (s *EntitlementStore) Snapshot() domain.EntitlementState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.EntitlementState{
		Status:           s.status,
		Limits:           s.limits,
		Loading:          s.loading,
		HasLoaded:        s.hasLoaded,
		ActiveHouseholds: s.activeHouseholds,
		LastFetchAt:      s.lastFetchAt,
	}
	if s.pending != nil {
		pending := *s.pending
		snap.PendingDowngrade = &pending
	}
	return snap
}

// Refresh fetches the subscription status now. A call arriving while a fetch
// is already in flight is dropped, not queued: the in-flight result will
// satisfy it.
func (s *EntitlementStore) Refresh() {
	s.refresh(false)
}

// Foreground signals an app-foreground transition. The fetch is skipped when
// the last successful one is recent enough.
func (s *EntitlementStore) Foreground() {
	s.refresh(true)
}

// Logout resets the store to a ready Free-tier default. The snapshot is
// marked loaded immediately so a logged-out UI never blocks, and any fetch
// still in flight has its result discarded.
func (s *EntitlementStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session++
	s.status = domain.DefaultFreeStatus()
	s.limits = domain.ComputeLimits(false, false)
	s.activeHouseholds = 0
	s.loading = false
	s.hasLoaded = true
	s.lastFetchAt = time.Time{}
	s.pending = nil
	s.enforcementDue = false
}

// CheckFeatureAccess answers "may the user use this feature" from current
// state, without a network call. Unknown feature names resolve open so
// features shipped ahead of classification are never locked out.
func (s *EntitlementStore) CheckFeatureAccess(feature string, householdOwnerHasPremium bool) bool {
	s.mu.Lock()
	isPremium := s.status.IsActive
	households := s.activeHouseholds
	s.mu.Unlock()

	if !domain.IsKnownFeature(feature) {
		return true
	}

	// Multiple households is a per-user feature; the owner's tier is
	// irrelevant to how many households this user may belong to.
	if feature == domain.FeatureMultipleHouseholds {
		return isPremium || households <= 1
	}

	return isPremium || householdOwnerHasPremium
}

// CanCreateNewHousehold reports whether the user may create another
// household under the current limits.
func (s *EntitlementStore) CanCreateNewHousehold() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.activeHouseholds < s.limits.MaxHouseholds
}

// CheckItemLimit evaluates an item count against the effective item limit
// for a household whose owner's Premium flag is given.
func (s *EntitlementStore) CheckItemLimit(currentCount int, householdOwnerHasPremium bool) domain.ItemLimitCheck {
	s.mu.Lock()
	isPremium := s.status.IsActive
	s.mu.Unlock()

	limits := domain.ComputeLimits(isPremium, householdOwnerHasPremium)
	return domain.CheckItemLimit(limits.MaxItemsPerHousehold, currentCount)
}

// ResolveDowngradeChoice completes a pending downgrade by keeping the chosen
// household active and deactivating the user's other memberships.
func (s *EntitlementStore) ResolveDowngradeChoice(keepHouseholdID string) error {
	s.mu.Lock()
	pending := s.pending
	session := s.session
	s.mu.Unlock()

	if pending == nil {
		return domain.ErrNoPendingDowngrade
	}

	candidate := false
	for _, id := range pending.HouseholdIDs {
		if id == keepHouseholdID {
			candidate = true
			break
		}
	}
	if !candidate {
		return domain.ErrNotAChoiceCandidate
	}

	if err := s.enforcer.ResolveChoice(s.userID, keepHouseholdID); err != nil {
		return err
	}

	s.mu.Lock()
	if s.session == session {
		s.pending = nil
		s.activeHouseholds = 1
	}
	s.mu.Unlock()

	s.logger.Info("Downgrade choice resolved", "user_id", s.userID, "kept_household", keepHouseholdID)
	return nil
}

// refresh performs a status fetch and applies the result. debounced marks
// foreground-triggered calls, which are skipped when the last successful
// fetch is newer than the debounce window.
func (s *EntitlementStore) refresh(debounced bool) {
	s.mu.Lock()
	if s.fetching {
		s.mu.Unlock()
		return
	}
	if debounced && !s.lastFetchAt.IsZero() && s.clock.Now().Sub(s.lastFetchAt) < s.debounce {
		s.mu.Unlock()
		return
	}
	s.fetching = true
	session := s.session
	s.mu.Unlock()

	status, err := s.subscriptions.GetStatus(s.userID)

	var activeHouseholds int
	var countErr error
	if err == nil {
		activeHouseholds, countErr = s.households.CountActiveHouseholds(s.userID)
	}

	s.mu.Lock()
	s.fetching = false
	if s.session != session {
		// The user logged out while the fetch was in flight; the result
		// belongs to a dead session.
		s.mu.Unlock()
		return
	}

	// The first resolution, success or failure, moves the store to ready.
	s.loading = false
	s.hasLoaded = true

	if err != nil {
		// Keep serving the last known status rather than blocking callers.
		s.mu.Unlock()
		s.logger.Warn("Status fetch failed, serving last known state", "user_id", s.userID, "error", err)
		return
	}

	wasActive := s.status.IsActive
	s.status = *status
	s.limits = domain.ComputeLimits(status.IsActive, false)
	s.lastFetchAt = s.clock.Now()
	if countErr != nil {
		s.logger.Warn("Household count fetch failed", "user_id", s.userID, "error", countErr)
	} else {
		s.activeHouseholds = activeHouseholds
	}

	if wasActive && !status.IsActive {
		// Premium -> Free edge. Level stays untouched: two consecutive Free
		// fetches never re-arm enforcement.
		s.enforcementDue = true
	}
	runEnforcement := s.enforcementDue
	s.mu.Unlock()

	if runEnforcement {
		s.enforce(session)
	}
}

// enforce runs the downgrade enforcer once for the current edge. A failed
// run leaves enforcement armed so the next refresh retries it; enforcement
// is idempotent, so retries are safe.
func (s *EntitlementStore) enforce(session uint64) {
	pending, err := s.enforcer.Enforce(s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != session {
		return
	}
	if err != nil {
		s.logger.Warn("Downgrade enforcement failed, will retry on next refresh", "user_id", s.userID, "error", err)
		return
	}
	s.enforcementDue = false
	s.pending = pending
}

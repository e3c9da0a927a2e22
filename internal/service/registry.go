package service

import (
	"sync"
	"time"

	"fridgehero-server/internal/domain"
)

// StoreRegistry keys entitlement stores by user id. Each store is the single
// writer of its own state; the registry only hands them out.
type StoreRegistry struct {
	subscriptions domain.SubscriptionRepository
	households    domain.HouseholdRepository
	enforcer      domain.DowngradeEnforcer
	clock         domain.Clock
	logger        domain.Logger
	debounce      time.Duration

	mu     sync.RWMutex
	stores map[string]*EntitlementStore
}

// NewStoreRegistry creates a new registry.
func NewStoreRegistry(
	subscriptions domain.SubscriptionRepository,
	households domain.HouseholdRepository,
	enforcer domain.DowngradeEnforcer,
	clock domain.Clock,
	logger domain.Logger,
	debounce time.Duration,
) *StoreRegistry {
	return &StoreRegistry{
		subscriptions: subscriptions,
		households:    households,
		enforcer:      enforcer,
		clock:         clock,
		logger:        logger,
		debounce:      debounce,
		stores:        make(map[string]*EntitlementStore),
	}
}

// GetOrCreate returns the user's store, creating it and running the initial
// fetch on first use.
func (r *StoreRegistry) GetOrCreate(userID string) domain.EntitlementService {
	r.mu.RLock()
	store, ok := r.stores[userID]
	r.mu.RUnlock()
	if ok {
		return store
	}

	r.mu.Lock()
	store, ok = r.stores[userID]
	if !ok {
		store = NewEntitlementStore(userID, r.subscriptions, r.households, r.enforcer, r.clock, r.logger, r.debounce)
		r.stores[userID] = store
		r.logger.Debug("Entitlement store created", "user_id", userID)
	}
	r.mu.Unlock()

	if !ok {
		// Initial fetch runs outside the registry lock.
		store.Refresh()
	}
	return store
}

// Remove drops a user's store, typically after logout.
func (r *StoreRegistry) Remove(userID string) {
	r.mu.Lock()
	delete(r.stores, userID)
	r.mu.Unlock()
}

// RefreshAll refreshes every live store. Used by the interval scheduler.
func (r *StoreRegistry) RefreshAll() {
	r.mu.RLock()
	stores := make([]*EntitlementStore, 0, len(r.stores))
	for _, store := range r.stores {
		stores = append(stores, store)
	}
	r.mu.RUnlock()

	for _, store := range stores {
		store.Refresh()
	}
}

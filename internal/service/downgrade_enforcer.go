package service

import (
	"fmt"
	"sort"

	"fridgehero-server/internal/domain"

	"github.com/google/uuid"
)

// downgradeEnforcer brings a user's household memberships into compliance
// with Free-tier limits after a Premium to Free transition.
//
// Memberships are only ever deactivated, never deleted, so a later
// re-upgrade can offer reactivation. Every run is idempotent: a household
// already inside the limits produces zero writes.
type downgradeEnforcer struct {
	households domain.HouseholdRepository
	clock      domain.Clock
	logger     domain.Logger
}

// NewDowngradeEnforcer creates a new downgrade enforcer
func NewDowngradeEnforcer(households domain.HouseholdRepository, clock domain.Clock, logger domain.Logger) domain.DowngradeEnforcer {
	return &downgradeEnforcer{
		households: households,
		clock:      clock,
		logger:     logger,
	}
}

// Enforce reconciles the user's memberships with Free-tier limits.
//
// When the user is active in more than one household the choice of which
// one survives belongs to the user, so a PendingDowngrade is returned
// instead of picking one automatically. Member capping on owned households
// runs regardless.
func (e *downgradeEnforcer) Enforce(userID string) (*domain.PendingDowngrade, error) {
	memberships, err := e.households.ListActiveMemberships(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	var pending *domain.PendingDowngrade
	if len(memberships) > domain.FreeMaxHouseholds {
		ids := make([]string, 0, len(memberships))
		for _, m := range memberships {
			ids = append(ids, m.HouseholdID)
		}
		pending = &domain.PendingDowngrade{
			UserID:       userID,
			HouseholdIDs: ids,
			DetectedAt:   e.clock.Now(),
		}
		e.logger.Info("Downgrade needs household choice", "user_id", userID, "active_households", len(ids))
	}

	var firstErr error
	for _, m := range memberships {
		if m.Role != domain.RoleOwner {
			continue
		}
		if err := e.capMembers(m.HouseholdID, userID); err != nil {
			e.logger.Error("Failed to cap household members", err, "household_id", m.HouseholdID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return pending, firstErr
}

// ResolveChoice keeps the chosen household active and deactivates the user's
// other active memberships.
func (e *downgradeEnforcer) ResolveChoice(userID, keepHouseholdID string) error {
	memberships, err := e.households.ListActiveMemberships(userID)
	if err != nil {
		return fmt.Errorf("failed to list memberships: %w", err)
	}

	found := false
	for _, m := range memberships {
		if m.HouseholdID == keepHouseholdID {
			found = true
			break
		}
	}
	if !found {
		return domain.ErrNotAChoiceCandidate
	}

	meta := domain.MembershipMetadata{
		Reason:    domain.ReasonDowngrade,
		RemovedAt: e.clock.Now(),
		ActionID:  uuid.NewString(),
	}
	for _, m := range memberships {
		if m.HouseholdID == keepHouseholdID {
			continue
		}
		if err := e.households.DeactivateMembership(m.HouseholdID, userID, meta); err != nil {
			return fmt.Errorf("failed to deactivate membership in %s: %w", m.HouseholdID, err)
		}
	}

	return nil
}

// capMembers deactivates members beyond the Free-tier cap on a household the
// user owns, keeping the owner and the most recently active members.
func (e *downgradeEnforcer) capMembers(householdID, ownerID string) error {
	members, err := e.households.ListMembers(householdID)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	active := make([]domain.HouseholdMembership, 0, len(members))
	for _, m := range members {
		if m.IsActive {
			active = append(active, m)
		}
	}
	if len(active) <= domain.FreeMaxMembers {
		return nil
	}

	// Owner first, then most recently active. Everyone past the cap goes.
	sort.SliceStable(active, func(i, j int) bool {
		if (active[i].UserID == ownerID) != (active[j].UserID == ownerID) {
			return active[i].UserID == ownerID
		}
		return active[i].LastActiveAt.After(active[j].LastActiveAt)
	})

	meta := domain.MembershipMetadata{
		Reason:    domain.ReasonDowngrade,
		RemovedAt: e.clock.Now(),
		ActionID:  uuid.NewString(),
	}
	for _, m := range active[domain.FreeMaxMembers:] {
		if err := e.households.DeactivateMembership(m.HouseholdID, m.UserID, meta); err != nil {
			return fmt.Errorf("failed to deactivate member %s: %w", m.UserID, err)
		}
	}

	e.logger.Info("Household members capped after downgrade",
		"household_id", householdID, "deactivated", len(active)-domain.FreeMaxMembers)
	return nil
}

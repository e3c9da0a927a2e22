package service

import (
	"errors"
	"testing"
	"time"

	"fridgehero-server/internal/domain"
)

func member(householdID, userID, role string, active bool, lastActive time.Time) domain.HouseholdMembership {
	return domain.HouseholdMembership{
		HouseholdID:  householdID,
		UserID:       userID,
		Role:         role,
		IsActive:     active,
		LastActiveAt: lastActive,
	}
}

func TestEnforce_CompliantUserIsNoOp(t *testing.T) {
	repo := &fakeHouseholdRepo{memberships: []domain.HouseholdMembership{
		member("h-1", "user-1", domain.RoleOwner, true, time.Now()),
		member("h-1", "user-2", domain.RoleMember, true, time.Now()),
	}}
	enforcer := NewDowngradeEnforcer(repo, newFakeClock(), NewMockLogger())

	pending, err := enforcer.Enforce("user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pending != nil {
		t.Fatalf("expected no pending choice for a single household")
	}
	if repo.writeCount() != 0 {
		t.Fatalf("expected zero writes for a compliant user, got %d", repo.writeCount())
	}
}

func TestEnforce_Idempotent(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeHouseholdRepo{memberships: []domain.HouseholdMembership{
		member("h-1", "user-1", domain.RoleOwner, true, base),
		member("h-1", "user-2", domain.RoleMember, true, base.Add(1*time.Hour)),
		member("h-1", "user-3", domain.RoleMember, true, base.Add(2*time.Hour)),
		member("h-1", "user-4", domain.RoleMember, true, base.Add(3*time.Hour)),
		member("h-1", "user-5", domain.RoleMember, true, base.Add(4*time.Hour)),
		member("h-1", "user-6", domain.RoleMember, true, base.Add(5*time.Hour)),
		member("h-1", "user-7", domain.RoleMember, true, base.Add(6*time.Hour)),
	}}
	enforcer := NewDowngradeEnforcer(repo, newFakeClock(), NewMockLogger())

	if _, err := enforcer.Enforce("user-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	writesAfterFirst := repo.writeCount()
	if writesAfterFirst != 2 {
		t.Fatalf("expected 2 deactivations (7 active, cap 5), got %d", writesAfterFirst)
	}

	// Second run against the now-compliant household must not write.
	if _, err := enforcer.Enforce("user-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.writeCount() != writesAfterFirst {
		t.Fatalf("expected no additional writes, got %d", repo.writeCount()-writesAfterFirst)
	}
}

func TestEnforce_CapKeepsOwnerAndMostRecentlyActive(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeHouseholdRepo{memberships: []domain.HouseholdMembership{
		// The owner is the least recently active but must survive.
		member("h-1", "owner", domain.RoleOwner, true, base),
		member("h-1", "user-2", domain.RoleMember, true, base.Add(6*time.Hour)),
		member("h-1", "user-3", domain.RoleMember, true, base.Add(5*time.Hour)),
		member("h-1", "user-4", domain.RoleMember, true, base.Add(4*time.Hour)),
		member("h-1", "user-5", domain.RoleMember, true, base.Add(3*time.Hour)),
		member("h-1", "user-6", domain.RoleMember, true, base.Add(2*time.Hour)),
		member("h-1", "user-7", domain.RoleMember, true, base.Add(1*time.Hour)),
	}}
	enforcer := NewDowngradeEnforcer(repo, newFakeClock(), NewMockLogger())

	if _, err := enforcer.Enforce("owner"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if repo.writeCount() != 2 {
		t.Fatalf("expected 2 deactivations, got %d", repo.writeCount())
	}
	deactivated := map[string]bool{}
	for _, d := range repo.deactivated {
		deactivated[d.userID] = true
		if d.meta.Reason != domain.ReasonDowngrade {
			t.Fatalf("expected downgrade reason, got %q", d.meta.Reason)
		}
		if d.meta.ActionID == "" {
			t.Fatalf("expected an action id on the metadata")
		}
		if d.meta.RemovedAt.IsZero() {
			t.Fatalf("expected a removal timestamp on the metadata")
		}
	}
	// The two least recently active members go; the owner stays.
	if !deactivated["user-6"] || !deactivated["user-7"] {
		t.Fatalf("expected the least recently active members to be deactivated, got %v", deactivated)
	}
	if deactivated["owner"] {
		t.Fatalf("expected the owner to be preserved")
	}
}

func TestEnforce_MultipleHouseholdsNeedsChoice(t *testing.T) {
	repo := &fakeHouseholdRepo{memberships: []domain.HouseholdMembership{
		member("h-1", "user-1", domain.RoleOwner, true, time.Now()),
		member("h-2", "user-1", domain.RoleMember, true, time.Now()),
	}}
	enforcer := NewDowngradeEnforcer(repo, newFakeClock(), NewMockLogger())

	pending, err := enforcer.Enforce("user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pending == nil {
		t.Fatalf("expected a pending choice for two active households")
	}
	if len(pending.HouseholdIDs) != 2 {
		t.Fatalf("expected both households as candidates, got %v", pending.HouseholdIDs)
	}
	// The choice is the user's to make: no memberships are touched yet.
	if repo.writeCount() != 0 {
		t.Fatalf("expected no writes before the choice, got %d", repo.writeCount())
	}
}

func TestResolveChoice_LeavesExactlyOneActive(t *testing.T) {
	repo := &fakeHouseholdRepo{memberships: []domain.HouseholdMembership{
		member("h-1", "user-1", domain.RoleOwner, true, time.Now()),
		member("h-2", "user-1", domain.RoleMember, true, time.Now()),
	}}
	enforcer := NewDowngradeEnforcer(repo, newFakeClock(), NewMockLogger())

	if err := enforcer.ResolveChoice("user-1", "h-2"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	active, err := repo.ListActiveMemberships("user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected exactly one active membership after choice, got %d", len(active))
	}
	if active[0].HouseholdID != "h-2" {
		t.Fatalf("expected h-2 to stay active, got %s", active[0].HouseholdID)
	}
}

func TestResolveChoice_RejectsNonCandidate(t *testing.T) {
	repo := &fakeHouseholdRepo{memberships: []domain.HouseholdMembership{
		member("h-1", "user-1", domain.RoleOwner, true, time.Now()),
	}}
	enforcer := NewDowngradeEnforcer(repo, newFakeClock(), NewMockLogger())

	if err := enforcer.ResolveChoice("user-1", "h-9"); err != domain.ErrNotAChoiceCandidate {
		t.Fatalf("expected ErrNotAChoiceCandidate, got %v", err)
	}
}

func TestEnforce_WriteFailureIsReturnedForRetry(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	memberships := []domain.HouseholdMembership{
		member("h-1", "user-1", domain.RoleOwner, true, base),
	}
	for i := 2; i <= 7; i++ {
		memberships = append(memberships,
			member("h-1", "user-"+string(rune('0'+i)), domain.RoleMember, true, base.Add(time.Duration(i)*time.Hour)))
	}
	repo := &fakeHouseholdRepo{memberships: memberships, deactivateErr: errors.New("write failed")}
	enforcer := NewDowngradeEnforcer(repo, newFakeClock(), NewMockLogger())

	if _, err := enforcer.Enforce("user-1"); err == nil {
		t.Fatalf("expected the write failure to surface to the caller for retry")
	}
}

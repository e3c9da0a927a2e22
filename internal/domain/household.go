package domain

import "time"

// Membership roles within a household.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// ReasonDowngrade marks memberships deactivated by the downgrade enforcer so
// they can be distinguished from voluntary removals and offered reactivation
// if the owner re-upgrades.
const ReasonDowngrade = "removed_due_to_downgrade"

// Household represents a shared food inventory.
type Household struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HouseholdMembership links a user to a household. The enforcer only ever
// flips IsActive and attaches metadata; rows are never deleted.
type HouseholdMembership struct {
	HouseholdID  string              `json:"household_id"`
	UserID       string              `json:"user_id"`
	Role         string              `json:"role"`
	IsActive     bool                `json:"is_active"`
	LastActiveAt time.Time           `json:"last_active_at"`
	Metadata     *MembershipMetadata `json:"metadata,omitempty"`
}

// MembershipMetadata records why and when a membership was deactivated.
type MembershipMetadata struct {
	Reason    string    `json:"reason"`
	RemovedAt time.Time `json:"removed_at"`
	ActionID  string    `json:"action_id"`
}

// PendingDowngrade is returned when downgrade enforcement needs the user to
// choose which of several active households stays active. Until the choice is
// made the over-limit state persists; Free-tier UI already hides the inactive
// households, so nothing is lost in the interim.
type PendingDowngrade struct {
	UserID       string    `json:"user_id"`
	HouseholdIDs []string  `json:"household_ids"`
	DetectedAt   time.Time `json:"detected_at"`
}

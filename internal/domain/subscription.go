package domain

import "time"

// Subscription plan identifiers as synced from the billing provider.
const (
	PlanPremiumMonthly = "premium_monthly"
	PlanPremiumYearly  = "premium_yearly"
)

// SubscriptionStatus is an immutable snapshot of the user's subscription,
// replaced wholesale on every refresh. There are no partial updates.
type SubscriptionStatus struct {
	IsActive        bool       `json:"is_active"`
	PlanID          string     `json:"plan_id,omitempty"`
	IsTrialing      bool       `json:"is_trialing"`
	DaysLeftInTrial int        `json:"days_left_in_trial"`
	TrialEnd        *time.Time `json:"trial_end,omitempty"`
}

// DefaultFreeStatus returns the status served before any fetch has succeeded
// and after logout.
func DefaultFreeStatus() SubscriptionStatus {
	return SubscriptionStatus{}
}

// IsPremiumPlan returns whether the plan grants Premium entitlements.
func IsPremiumPlan(plan string) bool {
	switch plan {
	case PlanPremiumMonthly, PlanPremiumYearly:
		return true
	default:
		return false
	}
}

// TrialDaysLeft computes whole days remaining until trialEnd, floored at zero.
func TrialDaysLeft(trialEnd time.Time, now time.Time) int {
	if !trialEnd.After(now) {
		return 0
	}
	return int(trialEnd.Sub(now).Hours() / 24)
}

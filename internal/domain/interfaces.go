package domain

import "time"

// SubscriptionRepository is the status-fetcher boundary: one read, "what is
// this user's subscription right now". Callers treat a failure as "keep
// serving the last known status", never as a user-facing error.
type SubscriptionRepository interface {
	GetStatus(userID string) (*SubscriptionStatus, error)
}

// HouseholdRepository covers the household reads the evaluator needs and the
// membership writes the downgrade enforcer performs.
type HouseholdRepository interface {
	ListActiveMemberships(userID string) ([]HouseholdMembership, error)
	ListMembers(householdID string) ([]HouseholdMembership, error)
	CountActiveHouseholds(userID string) (int, error)
	OwnerHasPremium(householdID string) (bool, error)
	DeactivateMembership(householdID, userID string, meta MembershipMetadata) error
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetRefreshInterval() time.Duration
	GetForegroundDebounce() time.Duration
}

// Clock abstracts time so the refresh schedule and the foreground debounce
// can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of time.Ticker the scheduler uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// AuthService validates client tokens against Supabase Auth.
type AuthService interface {
	ValidateToken(token string) (*SupabaseUser, error)
}

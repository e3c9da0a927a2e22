package domain

import "errors"

// Domain errors
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrHouseholdNotFound    = errors.New("household not found")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidToken         = errors.New("invalid token")
	ErrNoPendingDowngrade   = errors.New("no pending downgrade choice")
	ErrNotAChoiceCandidate  = errors.New("household is not part of the pending choice")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

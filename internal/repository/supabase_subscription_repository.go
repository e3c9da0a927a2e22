package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"fridgehero-server/internal/domain"
)

// Billing-provider statuses that count as an active subscription.
const (
	subscriptionStatusActive   = "active"
	subscriptionStatusTrialing = "trialing"
)

// SupabaseSubscriptionRepository implements the domain.SubscriptionRepository
// interface. The user_subscriptions table is written by the billing
// provider's webhook sync; this repository only ever reads it.
type SupabaseSubscriptionRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseSubscriptionRepository creates a new Supabase subscription repository
func NewSupabaseSubscriptionRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.SubscriptionRepository {
	return &SupabaseSubscriptionRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// GetStatus retrieves the user's subscription status from Supabase.
// A user without a subscription row is a Free user, not an error.
func (r *SupabaseSubscriptionRepository) GetStatus(userID string) (*domain.SubscriptionStatus, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("user_subscriptions").
		Select("status,plan_id,trial_end", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription status: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(rows) == 0 {
		status := domain.DefaultFreeStatus()
		return &status, nil
	}

	return r.mapToStatus(rows[0]), nil
}

// mapToStatus converts a user_subscriptions row into a domain status snapshot.
func (r *SupabaseSubscriptionRepository) mapToStatus(row map[string]interface{}) *domain.SubscriptionStatus {
	status := domain.DefaultFreeStatus()

	rawStatus, _ := row["status"].(string)
	if plan, ok := row["plan_id"].(string); ok {
		status.PlanID = plan
	}

	switch rawStatus {
	case subscriptionStatusActive:
		status.IsActive = true
	case subscriptionStatusTrialing:
		status.IsActive = true
		status.IsTrialing = true
	}

	if trialEndStr, ok := row["trial_end"].(string); ok && trialEndStr != "" {
		trialEnd, err := time.Parse(time.RFC3339, trialEndStr)
		if err != nil {
			r.logger.Warn("Failed to parse trial end", "value", trialEndStr, "error", err)
		} else {
			status.TrialEnd = &trialEnd
			status.DaysLeftInTrial = domain.TrialDaysLeft(trialEnd, time.Now())
		}
	}

	return &status
}

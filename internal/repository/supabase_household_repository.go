package repository

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"fridgehero-server/internal/domain"
)

// ownerPremiumCacheTTL bounds how long a household owner's Premium flag is
// served from memory before being re-read. Feature checks hit this on every
// gated action, so the read has to stay cheap.
const ownerPremiumCacheTTL = 30 * time.Second

type ownerPremiumCacheEntry struct {
	premium   bool
	expiresAt time.Time
}

// SupabaseHouseholdRepository implements the domain.HouseholdRepository interface
type SupabaseHouseholdRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger

	ownerPremiumCacheMu sync.RWMutex
	ownerPremiumCache   map[string]ownerPremiumCacheEntry
}

// NewSupabaseHouseholdRepository creates a new Supabase household repository
func NewSupabaseHouseholdRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.HouseholdRepository {
	return &SupabaseHouseholdRepository{
		supabaseClient:    supabaseClient,
		logger:            logger,
		ownerPremiumCache: make(map[string]ownerPremiumCacheEntry),
	}
}

// ListActiveMemberships retrieves all active memberships for a user.
func (r *SupabaseHouseholdRepository) ListActiveMemberships(userID string) ([]domain.HouseholdMembership, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("household_members").
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("is_active", "true").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list active memberships: %w", err)
	}

	return r.unmarshalMemberships(data)
}

// ListMembers retrieves all memberships of a household, active or not.
func (r *SupabaseHouseholdRepository) ListMembers(householdID string) ([]domain.HouseholdMembership, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("household_members").
		Select("*", "", false).
		Eq("household_id", householdID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list household members: %w", err)
	}

	return r.unmarshalMemberships(data)
}

// CountActiveHouseholds returns how many households the user is active in.
func (r *SupabaseHouseholdRepository) CountActiveHouseholds(userID string) (int, error) {
	memberships, err := r.ListActiveMemberships(userID)
	if err != nil {
		return 0, err
	}
	return len(memberships), nil
}

// OwnerHasPremium reports whether the household's owner has an active
// Premium subscription. Results are cached briefly.
func (r *SupabaseHouseholdRepository) OwnerHasPremium(householdID string) (bool, error) {
	now := time.Now()
	r.ownerPremiumCacheMu.RLock()
	entry, ok := r.ownerPremiumCache[householdID]
	r.ownerPremiumCacheMu.RUnlock()
	if ok && now.Before(entry.expiresAt) {
		return entry.premium, nil
	}

	client := r.supabaseClient.DB()
	if client == nil {
		return false, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("households").
		Select("owner_id", "", false).
		Eq("id", householdID).
		Execute()
	if err != nil {
		return false, fmt.Errorf("failed to get household: %w", err)
	}

	var households []map[string]interface{}
	if err := json.Unmarshal(data, &households); err != nil {
		return false, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(households) == 0 {
		return false, domain.ErrHouseholdNotFound
	}

	ownerID, _ := households[0]["owner_id"].(string)
	if ownerID == "" {
		return false, domain.ErrHouseholdNotFound
	}

	data, _, err = client.From("user_subscriptions").
		Select("status,plan_id", "", false).
		Eq("user_id", ownerID).
		Execute()
	if err != nil {
		return false, fmt.Errorf("failed to get owner subscription: %w", err)
	}

	var subs []map[string]interface{}
	if err := json.Unmarshal(data, &subs); err != nil {
		return false, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	premium := false
	if len(subs) > 0 {
		rawStatus, _ := subs[0]["status"].(string)
		plan, _ := subs[0]["plan_id"].(string)
		active := rawStatus == subscriptionStatusActive || rawStatus == subscriptionStatusTrialing
		premium = active && domain.IsPremiumPlan(plan)
	}

	r.ownerPremiumCacheMu.Lock()
	r.ownerPremiumCache[householdID] = ownerPremiumCacheEntry{premium: premium, expiresAt: now.Add(ownerPremiumCacheTTL)}
	r.ownerPremiumCacheMu.Unlock()

	return premium, nil
}

// DeactivateMembership flips is_active to false and records why. Membership
// rows are never deleted so history survives and reactivation stays possible.
func (r *SupabaseHouseholdRepository) DeactivateMembership(householdID, userID string, meta domain.MembershipMetadata) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	update := map[string]interface{}{
		"is_active": false,
		"metadata": map[string]interface{}{
			"reason":     meta.Reason,
			"removed_at": meta.RemovedAt.Format(time.RFC3339),
			"action_id":  meta.ActionID,
		},
	}

	_, _, err := client.From("household_members").
		Update(update, "", "").
		Eq("household_id", householdID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to deactivate membership: %w", err)
	}

	r.logger.Info("Membership deactivated", "household_id", householdID, "user_id", userID, "reason", meta.Reason)
	return nil
}

// unmarshalMemberships converts a postgrest response into domain memberships.
func (r *SupabaseHouseholdRepository) unmarshalMemberships(data []byte) ([]domain.HouseholdMembership, error) {
	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	memberships := make([]domain.HouseholdMembership, 0, len(rows))
	for _, row := range rows {
		memberships = append(memberships, r.mapToMembership(row))
	}
	return memberships, nil
}

// mapToMembership converts a household_members row into a domain membership.
func (r *SupabaseHouseholdRepository) mapToMembership(row map[string]interface{}) domain.HouseholdMembership {
	membership := domain.HouseholdMembership{}

	if v, ok := row["household_id"].(string); ok {
		membership.HouseholdID = v
	}
	if v, ok := row["user_id"].(string); ok {
		membership.UserID = v
	}
	if v, ok := row["role"].(string); ok {
		membership.Role = v
	}
	if v, ok := row["is_active"].(bool); ok {
		membership.IsActive = v
	}
	if v, ok := row["last_active_at"].(string); ok && v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			membership.LastActiveAt = ts
		} else {
			r.logger.Warn("Failed to parse last active timestamp", "value", v)
		}
	}
	if metaRaw, ok := row["metadata"].(map[string]interface{}); ok {
		meta := &domain.MembershipMetadata{}
		if v, ok := metaRaw["reason"].(string); ok {
			meta.Reason = v
		}
		if v, ok := metaRaw["action_id"].(string); ok {
			meta.ActionID = v
		}
		if v, ok := metaRaw["removed_at"].(string); ok && v != "" {
			if ts, err := time.Parse(time.RFC3339, v); err == nil {
				meta.RemovedAt = ts
			}
		}
		membership.Metadata = meta
	}

	return membership
}

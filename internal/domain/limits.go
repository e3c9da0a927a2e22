package domain

// Tier limits for household, item and member counts.
//
// UnlimitedItems (-1) means the item count is never capped. Premium users get
// a generous practical cap on household count rather than a true infinity so
// abuse stays bounded.
const (
	UnlimitedItems = -1

	FreeMaxHouseholds    = 1
	FreeMaxItems         = 20
	FreeMaxMembers       = 5
	PremiumMaxHouseholds = 100
	PremiumMaxMembers    = 20
)

// itemLimitWarningRatio is the fraction of the item limit at which the UI
// starts nudging toward an upgrade.
const itemLimitWarningRatio = 0.8

// Limits is derived state, never independently mutated. It is a pure function
// of (isPremium, householdOwnerHasPremium): two calls with the same inputs
// yield identical output.
type Limits struct {
	MaxHouseholds            int  `json:"max_households"`
	MaxItemsPerHousehold     int  `json:"max_items_per_household"`
	MaxHouseholdMembers      int  `json:"max_household_members"`
	CanAccessPremiumFeatures bool `json:"can_access_premium_features"`
	HouseholdOwnerHasPremium bool `json:"household_owner_has_premium"`
}

// ComputeLimits maps the user's own Premium flag and the selected household
// owner's Premium flag to the effective limits.
//
// An owner with Premium lifts the item/member limits for that household even
// when the querying user is Free; it never lifts the user's own
// household-count cap, which always follows the user's tier.
func ComputeLimits(isPremium, householdOwnerHasPremium bool) Limits {
	limits := Limits{
		MaxHouseholds:            FreeMaxHouseholds,
		MaxItemsPerHousehold:     FreeMaxItems,
		MaxHouseholdMembers:      FreeMaxMembers,
		HouseholdOwnerHasPremium: householdOwnerHasPremium,
	}

	if isPremium {
		limits.MaxHouseholds = PremiumMaxHouseholds
	}

	if isPremium || householdOwnerHasPremium {
		limits.MaxItemsPerHousehold = UnlimitedItems
		limits.MaxHouseholdMembers = PremiumMaxMembers
		limits.CanAccessPremiumFeatures = true
	}

	return limits
}

// ItemLimitCheck is the result of checking an item count against the
// household's item limit.
type ItemLimitCheck struct {
	CanAdd      bool `json:"can_add"`
	IsAtLimit   bool `json:"is_at_limit"`
	IsNearLimit bool `json:"is_near_limit"`
}

// CheckItemLimit evaluates currentCount against maxItems. A limit of
// UnlimitedItems always allows adding, regardless of the count.
func CheckItemLimit(maxItems, currentCount int) ItemLimitCheck {
	if maxItems == UnlimitedItems {
		return ItemLimitCheck{CanAdd: true}
	}

	atLimit := currentCount >= maxItems
	return ItemLimitCheck{
		CanAdd:      !atLimit,
		IsAtLimit:   atLimit,
		IsNearLimit: float64(currentCount) >= float64(maxItems)*itemLimitWarningRatio,
	}
}

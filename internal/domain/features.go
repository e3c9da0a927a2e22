package domain

// Gated feature names as referenced by client call sites.
const (
	FeatureMultipleHouseholds    = "multiple_households"
	FeatureUnlimitedItems        = "unlimited_items"
	FeatureBarcodeScanning       = "barcode_scanning"
	FeatureAdvancedNotifications = "advanced_notifications"
	FeatureWasteAnalytics        = "waste_analytics"
	FeatureRecipeExport          = "recipe_export"
)

// knownFeatures lists every feature name the gate classifies. Names outside
// this set resolve open (allowed) so features shipped ahead of classification
// are never locked out by accident.
var knownFeatures = map[string]bool{
	FeatureMultipleHouseholds:    true,
	FeatureUnlimitedItems:        true,
	FeatureBarcodeScanning:       true,
	FeatureAdvancedNotifications: true,
	FeatureWasteAnalytics:        true,
	FeatureRecipeExport:          true,
}

// IsKnownFeature returns whether the gate has a classification for name.
func IsKnownFeature(name string) bool {
	return knownFeatures[name]
}

package enums

import "strings"

// FeatureKey is the stable identifier of a gated product feature.
//
// The catalog lives in the features table; these constants only name the keys
// the service checks directly. Unknown keys are valid values that resolve to disabled.
type FeatureKey string

const (
	FeatureOrdering      FeatureKey = "ORDERING"
	FeaturePromos        FeatureKey = "PROMOS"
	FeatureThemes        FeatureKey = "THEMES"
	FeatureMultiLanguage FeatureKey = "MULTI_LANGUAGE"
	FeatureAnalytics     FeatureKey = "ANALYTICS"
)

// String implements fmt.Stringer.
func (k FeatureKey) String() string {
	return string(k)
}

// NormalizeFeatureKey trims and upper-cases raw input.
func NormalizeFeatureKey(value string) FeatureKey {
	return FeatureKey(strings.ToUpper(strings.TrimSpace(value)))
}

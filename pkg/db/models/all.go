package models

// All lists every persisted model, in dependency order. Used by sqlite bootstrapping and tests.
func All() []any {
	return []any{
		&Restaurant{},
		&User{},
		&Category{},
		&Item{},
		&DiningTable{},
		&Order{},
		&OrderItem{},
		&Feature{},
		&Plan{},
		&PlanFeature{},
		&Subscription{},
		&FeatureOverride{},
	}
}

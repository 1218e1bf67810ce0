package entitlements

import (
	"context"
	"fmt"

	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

type catalogPlan struct {
	key      string
	name     string
	price    string
	features []enums.FeatureKey
}

var catalogFeatures = []struct {
	key         enums.FeatureKey
	description string
}{
	{enums.FeatureThemes, "Custom menu themes"},
	{enums.FeatureMultiLanguage, "Menu translations"},
	{enums.FeaturePromos, "Time-boxed promotional prices"},
	{enums.FeatureOrdering, "Online ordering from the public menu"},
	{enums.FeatureAnalytics, "Order analytics"},
}

var catalogPlans = []catalogPlan{
	{
		key:      "BASIC",
		name:     "Basic",
		price:    "19.00",
		features: []enums.FeatureKey{enums.FeaturePromos, enums.FeatureOrdering},
	},
	{
		key:   "PRO",
		name:  "Pro",
		price: "49.00",
		features: []enums.FeatureKey{
			enums.FeatureThemes,
			enums.FeatureMultiLanguage,
			enums.FeaturePromos,
			enums.FeatureOrdering,
			enums.FeatureAnalytics,
		},
	},
}

// SeedCatalog upserts the feature catalog and the standard plans. Safe to rerun.
func SeedCatalog(ctx context.Context, repo Repository) error {
	ids := make(map[enums.FeatureKey]*models.Feature, len(catalogFeatures))
	for _, f := range catalogFeatures {
		description := f.description
		feature, err := repo.UpsertFeature(ctx, f.key, &description)
		if err != nil {
			return fmt.Errorf("seed feature %s: %w", f.key, err)
		}
		ids[f.key] = feature
	}

	for _, p := range catalogPlans {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return fmt.Errorf("plan %s price: %w", p.key, err)
		}
		plan, err := repo.UpsertPlan(ctx, &models.Plan{Key: p.key, Name: p.name, MonthlyPrice: price})
		if err != nil {
			return fmt.Errorf("seed plan %s: %w", p.key, err)
		}
		for _, key := range p.features {
			if err := repo.GrantPlanFeature(ctx, plan.ID, ids[key].ID); err != nil {
				return fmt.Errorf("grant %s to %s: %w", key, p.key, err)
			}
		}
	}
	return nil
}

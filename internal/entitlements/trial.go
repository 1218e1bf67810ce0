package entitlements

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StartTrial makes sure the trial plan grants ordering and attaches a TRIAL
// subscription of the given length starting at now. Callers run it inside the
// transaction that creates the restaurant.
func StartTrial(ctx context.Context, repo Repository, restaurantID uuid.UUID, now time.Time, period time.Duration) (*models.Subscription, error) {
	template := trialPlanTemplate()
	price, err := decimal.NewFromString(template.price)
	if err != nil {
		return nil, fmt.Errorf("trial plan price: %w", err)
	}
	plan, err := repo.UpsertPlan(ctx, &models.Plan{
		Key:          template.key,
		Name:         template.name,
		MonthlyPrice: price,
	})
	if err != nil {
		return nil, fmt.Errorf("ensure trial plan: %w", err)
	}
	feature, err := repo.UpsertFeature(ctx, trialFeature, nil)
	if err != nil {
		return nil, fmt.Errorf("ensure trial feature: %w", err)
	}
	if err := repo.GrantPlanFeature(ctx, plan.ID, feature.ID); err != nil {
		return nil, fmt.Errorf("grant trial feature: %w", err)
	}

	start := now.UTC()
	sub := &models.Subscription{
		RestaurantID: restaurantID,
		PlanID:       plan.ID,
		Status:       enums.SubscriptionStatusTrial,
		StartsAt:     start,
		EndsAt:       start.Add(period),
	}
	if err := repo.CreateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("create trial subscription: %w", err)
	}
	return sub, nil
}

func trialPlanTemplate() catalogPlan {
	for _, p := range catalogPlans {
		if p.key == TrialPlanKey {
			return p
		}
	}
	return catalogPlan{key: TrialPlanKey, name: "Basic", price: "0"}
}

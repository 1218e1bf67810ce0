package restaurants

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/menuflow-backend/internal/availability"
	"github.com/angelmondragon/menuflow-backend/internal/entitlements"
	"github.com/angelmondragon/menuflow-backend/internal/pricing"
	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
)

// publicFeatures are the flags exposed to anonymous clients.
var publicFeatures = []enums.FeatureKey{enums.FeatureOrdering}

// Presenter composes the public restaurant block from the currency,
// availability and entitlement resolvers at one instant.
type Presenter struct {
	checker   entitlements.Checker
	scheduler *availability.Scheduler
}

// NewPresenter builds a Presenter.
func NewPresenter(checker entitlements.Checker, scheduler *availability.Scheduler) (*Presenter, error) {
	if checker == nil {
		return nil, fmt.Errorf("entitlement checker required")
	}
	if scheduler == nil {
		scheduler = availability.NewScheduler(availability.DefaultTimezone)
	}
	return &Presenter{checker: checker, scheduler: scheduler}, nil
}

// Present renders the restaurant as of now.
func (p *Presenter) Present(ctx context.Context, r models.Restaurant, now time.Time) (*PublicRestaurant, error) {
	features := make(map[enums.FeatureKey]bool, len(publicFeatures))
	for _, key := range publicFeatures {
		enabled, err := p.checker.IsFeatureEnabled(ctx, r.ID, key, now)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", key, err)
		}
		features[key] = enabled
	}

	schedule := availability.FromStored(r.OrderingSchedule)
	open := p.scheduler.Compute(now, r.OrderingTimezone, schedule)

	return &PublicRestaurant{
		ID:            r.ID,
		Name:          r.Name,
		Slug:          r.Slug,
		LogoURL:       r.LogoURL,
		CoverImageURL: r.CoverImageURL,
		PhoneNumber:   r.PhoneNumber,
		Address:       r.Address,
		Currency: CurrencyBlock{
			Primary:          r.CurrencyPrimary,
			SecondaryEnabled: r.CurrencySecondaryEnabled,
			BGNDisabledAt:    r.BGNDisabledAt,
			BGNActiveNow:     pricing.IsSecondaryCurrencyActive(pricing.CurrencyConfigFor(r), now),
		},
		Features: features,
		Ordering: OrderingBlock{
			Visible:      r.OrderingVisible,
			Timezone:     r.OrderingTimezone,
			Schedule:     schedule,
			AvailableNow: open.AvailableNow,
			NextOpenAt:   open.NextOpenAt,
		},
	}, nil
}

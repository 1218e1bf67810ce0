// Package entitlements decides whether a restaurant may use a gated feature,
// and manages the catalog, plans, subscriptions and overrides behind that decision.
package entitlements

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	"github.com/google/uuid"
)

// Checker is the single question other packages ask.
type Checker interface {
	IsFeatureEnabled(ctx context.Context, restaurantID uuid.UUID, key enums.FeatureKey, now time.Time) (bool, error)
}

// Resolver evaluates entitlement as an ordered chain of steps. The first step
// returning a decision wins. Nothing is cached; every call re-reads the store
// against the supplied now.
type Resolver struct {
	store Store
	steps []step
}

type query struct {
	restaurantID uuid.UUID
	key          enums.FeatureKey
	now          time.Time

	feature      *models.Feature
	subscription *models.Subscription
}

type step func(ctx context.Context, q *query) (*bool, error)

// NewResolver builds a Resolver over store.
func NewResolver(store Store) (*Resolver, error) {
	if store == nil {
		return nil, fmt.Errorf("entitlement store required")
	}
	r := &Resolver{store: store}
	r.steps = []step{
		r.catalog,
		r.override,
		r.activeSubscription,
		r.planGrant,
	}
	return r, nil
}

// IsFeatureEnabled resolves key for restaurantID at now.
func (r *Resolver) IsFeatureEnabled(ctx context.Context, restaurantID uuid.UUID, key enums.FeatureKey, now time.Time) (bool, error) {
	q := &query{restaurantID: restaurantID, key: key, now: now}
	for _, s := range r.steps {
		decided, err := s(ctx, q)
		if err != nil {
			return false, err
		}
		if decided != nil {
			return *decided, nil
		}
	}
	return false, nil
}

// catalog fails closed on keys missing from the feature catalog.
func (r *Resolver) catalog(ctx context.Context, q *query) (*bool, error) {
	feature, err := r.store.FindFeatureByKey(ctx, q.key)
	if err != nil {
		return nil, fmt.Errorf("find feature %s: %w", q.key, err)
	}
	if feature == nil {
		return decision(false), nil
	}
	q.feature = feature
	return nil, nil
}

func (r *Resolver) override(ctx context.Context, q *query) (*bool, error) {
	override, err := r.store.FindOverride(ctx, q.restaurantID, q.feature.ID)
	if err != nil {
		return nil, fmt.Errorf("find override: %w", err)
	}
	if override == nil {
		return nil, nil
	}
	return decision(override.Enabled), nil
}

func (r *Resolver) activeSubscription(ctx context.Context, q *query) (*bool, error) {
	sub, err := r.store.FindActiveSubscription(ctx, q.restaurantID, q.now)
	if err != nil {
		return nil, fmt.Errorf("find active subscription: %w", err)
	}
	if sub == nil {
		return decision(false), nil
	}
	q.subscription = sub
	return nil, nil
}

func (r *Resolver) planGrant(ctx context.Context, q *query) (*bool, error) {
	granted, err := r.store.IsPlanFeatureGranted(ctx, q.subscription.PlanID, q.feature.ID)
	if err != nil {
		return nil, fmt.Errorf("check plan grant: %w", err)
	}
	return decision(granted), nil
}

func decision(v bool) *bool {
	return &v
}

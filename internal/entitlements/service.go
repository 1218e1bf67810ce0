package entitlements

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Trial plan and feature every new restaurant starts with.
const (
	TrialPlanKey = "BASIC"
	trialFeature = enums.FeatureOrdering
)

// Service is the superadmin billing surface plus the resolved feature listing.
type Service interface {
	ResolveAll(ctx context.Context, restaurantID uuid.UUID, now time.Time) ([]ResolvedFeature, error)
	ListPlans(ctx context.Context) ([]PlanDTO, error)
	CreateSubscription(ctx context.Context, restaurantID uuid.UUID, input CreateSubscriptionInput) (*SubscriptionDTO, error)
	ListSubscriptions(ctx context.Context, restaurantID uuid.UUID) ([]SubscriptionDTO, error)
	SetOverride(ctx context.Context, restaurantID uuid.UUID, key enums.FeatureKey, enabled bool) (*OverrideDTO, error)
	ClearOverride(ctx context.Context, restaurantID uuid.UUID, key enums.FeatureKey) error
	ListOverrides(ctx context.Context, restaurantID uuid.UUID) ([]OverrideDTO, error)
}

type service struct {
	repo    Repository
	checker Checker
	workers int
}

// NewService builds the entitlements service.
func NewService(repo Repository, checker Checker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("entitlements repository required")
	}
	if checker == nil {
		return nil, fmt.Errorf("entitlement checker required")
	}
	return &service{repo: repo, checker: checker, workers: 4}, nil
}

// ResolveAll resolves every catalog feature for the restaurant, sorted by key.
func (s *service) ResolveAll(ctx context.Context, restaurantID uuid.UUID, now time.Time) ([]ResolvedFeature, error) {
	features, err := s.repo.ListFeatures(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list features")
	}

	resolved := make([]ResolvedFeature, len(features))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)
	for i, feature := range features {
		i, key := i, feature.Key
		group.Go(func() error {
			enabled, err := s.checker.IsFeatureEnabled(gctx, restaurantID, key, now)
			if err != nil {
				return err
			}
			resolved[i] = ResolvedFeature{Key: key, Enabled: enabled}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve features")
	}

	sort.Slice(resolved, func(a, b int) bool { return resolved[a].Key < resolved[b].Key })
	return resolved, nil
}

func (s *service) ListPlans(ctx context.Context) ([]PlanDTO, error) {
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list plans")
	}
	grants, err := s.repo.ListPlanFeatureKeys(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list plan features")
	}

	out := make([]PlanDTO, 0, len(plans))
	for _, plan := range plans {
		keys := grants[plan.ID]
		if keys == nil {
			keys = []enums.FeatureKey{}
		}
		out = append(out, PlanDTO{
			ID:           plan.ID,
			Key:          plan.Key,
			Name:         plan.Name,
			Status:       plan.Status,
			MonthlyPrice: plan.MonthlyPrice,
			Currency:     plan.Currency,
			Features:     keys,
		})
	}
	return out, nil
}

func (s *service) CreateSubscription(ctx context.Context, restaurantID uuid.UUID, input CreateSubscriptionInput) (*SubscriptionDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.Invalid("status", "invalid subscription status")
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, pkgerrors.Invalid("endsAt", "endsAt must be after startsAt")
	}
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}

	plan, err := s.repo.FindPlanByKey(ctx, strings.TrimSpace(input.PlanKey))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find plan")
	}
	if plan == nil {
		return nil, pkgerrors.NotFound("plan")
	}
	if !plan.Status.Assignable() {
		return nil, pkgerrors.Invalid("planKey", "plan is not available for new subscriptions")
	}

	sub := &models.Subscription{
		RestaurantID: restaurantID,
		PlanID:       plan.ID,
		Status:       input.Status,
		StartsAt:     input.StartsAt.UTC(),
		EndsAt:       input.EndsAt.UTC(),
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription")
	}
	sub.Plan = plan
	dto := toSubscriptionDTO(*sub)
	return &dto, nil
}

func (s *service) ListSubscriptions(ctx context.Context, restaurantID uuid.UUID) ([]SubscriptionDTO, error) {
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	subs, err := s.repo.ListSubscriptions(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
	}
	out := make([]SubscriptionDTO, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubscriptionDTO(sub))
	}
	return out, nil
}

// SetOverride replaces the override boolean; it never toggles.
func (s *service) SetOverride(ctx context.Context, restaurantID uuid.UUID, key enums.FeatureKey, enabled bool) (*OverrideDTO, error) {
	feature, err := s.requireRestaurantFeature(ctx, restaurantID, key)
	if err != nil {
		return nil, err
	}

	override := &models.FeatureOverride{
		RestaurantID: restaurantID,
		FeatureID:    feature.ID,
		Enabled:      enabled,
	}
	if err := s.repo.UpsertOverride(ctx, override); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert override")
	}
	return &OverrideDTO{
		RestaurantID: restaurantID,
		FeatureKey:   feature.Key,
		Enabled:      enabled,
		UpdatedAt:    override.UpdatedAt,
	}, nil
}

func (s *service) ClearOverride(ctx context.Context, restaurantID uuid.UUID, key enums.FeatureKey) error {
	feature, err := s.requireRestaurantFeature(ctx, restaurantID, key)
	if err != nil {
		return err
	}
	removed, err := s.repo.DeleteOverride(ctx, restaurantID, feature.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete override")
	}
	if !removed {
		return pkgerrors.NotFound("override")
	}
	return nil
}

func (s *service) ListOverrides(ctx context.Context, restaurantID uuid.UUID) ([]OverrideDTO, error) {
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListOverrides(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list overrides")
	}
	out := make([]OverrideDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, OverrideDTO{
			RestaurantID: restaurantID,
			FeatureKey:   row.FeatureKey,
			Enabled:      row.Enabled,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	return out, nil
}

func (s *service) requireRestaurant(ctx context.Context, restaurantID uuid.UUID) error {
	exists, err := s.repo.RestaurantExists(ctx, restaurantID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find restaurant")
	}
	if !exists {
		return pkgerrors.NotFound("restaurant")
	}
	return nil
}

func (s *service) requireRestaurantFeature(ctx context.Context, restaurantID uuid.UUID, key enums.FeatureKey) (*models.Feature, error) {
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	feature, err := s.repo.FindFeatureByKey(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find feature")
	}
	if feature == nil {
		return nil, pkgerrors.NotFound("feature")
	}
	return feature, nil
}

func toSubscriptionDTO(sub models.Subscription) SubscriptionDTO {
	dto := SubscriptionDTO{
		ID:           sub.ID,
		RestaurantID: sub.RestaurantID,
		Status:       sub.Status,
		StartsAt:     sub.StartsAt,
		EndsAt:       sub.EndsAt,
		CreatedAt:    sub.CreatedAt,
	}
	if sub.Plan != nil {
		dto.PlanKey = sub.Plan.Key
	}
	return dto
}

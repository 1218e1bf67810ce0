package entitlements

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, f *fixture) Service {
	t.Helper()
	resolver, err := NewResolver(f.repo)
	require.NoError(t, err)
	svc, err := NewService(f.repo, resolver)
	require.NoError(t, err)
	return svc
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code())
}

func TestResolveAllSortedByKey(t *testing.T) {
	f := newFixture(t)
	svc := newTestService(t, f)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	f.subscribe(t, "BASIC", enums.SubscriptionStatusTrial, now.AddDate(0, 0, -1), now.AddDate(0, 0, 13))

	resolved, err := svc.ResolveAll(context.Background(), f.restaurant.ID, now)
	require.NoError(t, err)
	require.Len(t, resolved, 5)

	got := map[enums.FeatureKey]bool{}
	for i, feature := range resolved {
		if i > 0 {
			require.Less(t, string(resolved[i-1].Key), string(feature.Key))
		}
		got[feature.Key] = feature.Enabled
	}
	require.True(t, got[enums.FeatureOrdering])
	require.True(t, got[enums.FeaturePromos])
	require.False(t, got[enums.FeatureThemes])
	require.False(t, got[enums.FeatureAnalytics])
}

func TestCreateSubscriptionValidation(t *testing.T) {
	f := newFixture(t)
	svc := newTestService(t, f)
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateSubscription(ctx, f.restaurant.ID, CreateSubscriptionInput{PlanKey: "PRO", Status: enums.SubscriptionStatusActive, StartsAt: start, EndsAt: start})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateSubscription(ctx, f.restaurant.ID, CreateSubscriptionInput{PlanKey: "GOLD", Status: enums.SubscriptionStatusActive, StartsAt: start, EndsAt: start.AddDate(0, 1, 0)})
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.CreateSubscription(ctx, uuid.New(), CreateSubscriptionInput{PlanKey: "PRO", Status: enums.SubscriptionStatusActive, StartsAt: start, EndsAt: start.AddDate(0, 1, 0)})
	requireCode(t, err, pkgerrors.CodeNotFound)

	hidden := &models.Plan{Key: "LEGACY", Name: "Legacy", Status: enums.PlanStatusHidden}
	require.NoError(t, f.db.Create(hidden).Error)
	_, err = svc.CreateSubscription(ctx, f.restaurant.ID, CreateSubscriptionInput{PlanKey: "LEGACY", Status: enums.SubscriptionStatusActive, StartsAt: start, EndsAt: start.AddDate(0, 1, 0)})
	requireCode(t, err, pkgerrors.CodeValidation)

	sub, err := svc.CreateSubscription(ctx, f.restaurant.ID, CreateSubscriptionInput{PlanKey: "PRO", Status: enums.SubscriptionStatusActive, StartsAt: start, EndsAt: start.AddDate(0, 1, 0)})
	require.NoError(t, err)
	require.Equal(t, "PRO", sub.PlanKey)

	subs, err := svc.ListSubscriptions(ctx, f.restaurant.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Equal(t, "PRO", subs[0].PlanKey)
}

func TestSetAndClearOverride(t *testing.T) {
	f := newFixture(t)
	svc := newTestService(t, f)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	_, err := svc.SetOverride(ctx, f.restaurant.ID, "UNKNOWN", true)
	requireCode(t, err, pkgerrors.CodeNotFound)

	override, err := svc.SetOverride(ctx, f.restaurant.ID, enums.FeatureThemes, true)
	require.NoError(t, err)
	require.True(t, override.Enabled)

	resolved, err := svc.ResolveAll(ctx, f.restaurant.ID, now)
	require.NoError(t, err)
	for _, feature := range resolved {
		require.Equal(t, feature.Key == enums.FeatureThemes, feature.Enabled, "feature %s", feature.Key)
	}

	overrides, err := svc.ListOverrides(ctx, f.restaurant.ID)
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	require.Equal(t, enums.FeatureThemes, overrides[0].FeatureKey)

	require.NoError(t, svc.ClearOverride(ctx, f.restaurant.ID, enums.FeatureThemes))
	requireCode(t, svc.ClearOverride(ctx, f.restaurant.ID, enums.FeatureThemes), pkgerrors.CodeNotFound)
}

func TestListPlansIncludesGrants(t *testing.T) {
	f := newFixture(t)
	svc := newTestService(t, f)

	plans, err := svc.ListPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)
	require.Equal(t, "BASIC", plans[0].Key)
	require.Equal(t, "19", plans[0].MonthlyPrice.String())
	require.ElementsMatch(t, []enums.FeatureKey{enums.FeatureOrdering, enums.FeaturePromos}, plans[0].Features)
}

func TestStartTrial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	sub, err := StartTrial(ctx, f.repo, f.restaurant.ID, now, 14*24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, enums.SubscriptionStatusTrial, sub.Status)
	require.Equal(t, now.AddDate(0, 0, 14), sub.EndsAt)

	resolver, err := NewResolver(f.repo)
	require.NoError(t, err)
	enabled, err := resolver.IsFeatureEnabled(ctx, f.restaurant.ID, enums.FeatureOrdering, now.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, enabled)
}

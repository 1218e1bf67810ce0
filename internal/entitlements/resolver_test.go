package entitlements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	"github.com/google/uuid"
)

type stubStore struct {
	features      map[enums.FeatureKey]*models.Feature
	overrides     map[uuid.UUID]*models.FeatureOverride
	subscription  *models.Subscription
	grants        map[uuid.UUID]bool
	subErr        error
	overrideCalls int
	subCalls      int
	lastNow       time.Time
}

func (s *stubStore) FindFeatureByKey(_ context.Context, key enums.FeatureKey) (*models.Feature, error) {
	return s.features[key], nil
}

func (s *stubStore) FindOverride(_ context.Context, _ uuid.UUID, featureID uuid.UUID) (*models.FeatureOverride, error) {
	s.overrideCalls++
	return s.overrides[featureID], nil
}

func (s *stubStore) FindActiveSubscription(_ context.Context, _ uuid.UUID, now time.Time) (*models.Subscription, error) {
	s.subCalls++
	s.lastNow = now
	return s.subscription, s.subErr
}

func (s *stubStore) IsPlanFeatureGranted(_ context.Context, _ uuid.UUID, featureID uuid.UUID) (bool, error) {
	return s.grants[featureID], nil
}

func newStub() (*stubStore, *models.Feature) {
	ordering := &models.Feature{ID: uuid.New(), Key: enums.FeatureOrdering}
	planID := uuid.New()
	return &stubStore{
		features:     map[enums.FeatureKey]*models.Feature{enums.FeatureOrdering: ordering},
		overrides:    map[uuid.UUID]*models.FeatureOverride{},
		subscription: &models.Subscription{ID: uuid.New(), PlanID: planID, Status: enums.SubscriptionStatusActive},
		grants:       map[uuid.UUID]bool{ordering.ID: true},
	}, ordering
}

func mustResolver(t *testing.T, store Store) *Resolver {
	t.Helper()
	r, err := NewResolver(store)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return r
}

func TestResolverUnknownFeatureFailsClosed(t *testing.T) {
	t.Parallel()

	store, _ := newStub()
	enabled, err := mustResolver(t, store).IsFeatureEnabled(context.Background(), uuid.New(), "TELEPORT", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enabled {
		t.Fatal("unknown features must resolve false")
	}
	if store.overrideCalls != 0 || store.subCalls != 0 {
		t.Fatal("unknown feature must short-circuit before overrides and subscriptions")
	}
}

func TestResolverOverrideWins(t *testing.T) {
	t.Parallel()

	store, ordering := newStub()
	store.overrides[ordering.ID] = &models.FeatureOverride{FeatureID: ordering.ID, Enabled: false}

	enabled, err := mustResolver(t, store).IsFeatureEnabled(context.Background(), uuid.New(), enums.FeatureOrdering, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enabled {
		t.Fatal("override false must win over a granting plan")
	}
	if store.subCalls != 0 {
		t.Fatal("override must short-circuit the subscription lookup")
	}

	store.overrides[ordering.ID].Enabled = true
	store.subscription = nil
	enabled, err = mustResolver(t, store).IsFeatureEnabled(context.Background(), uuid.New(), enums.FeatureOrdering, time.Now())
	if err != nil || !enabled {
		t.Fatalf("override true must win without a subscription, got %v %v", enabled, err)
	}
}

func TestResolverWithoutSubscription(t *testing.T) {
	t.Parallel()

	store, _ := newStub()
	store.subscription = nil

	enabled, err := mustResolver(t, store).IsFeatureEnabled(context.Background(), uuid.New(), enums.FeatureOrdering, time.Now())
	if err != nil || enabled {
		t.Fatalf("expected false without subscription, got %v %v", enabled, err)
	}
}

func TestResolverPlanGrant(t *testing.T) {
	t.Parallel()

	store, ordering := newStub()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	enabled, err := mustResolver(t, store).IsFeatureEnabled(context.Background(), uuid.New(), enums.FeatureOrdering, now)
	if err != nil || !enabled {
		t.Fatalf("expected plan grant to enable, got %v %v", enabled, err)
	}
	if !store.lastNow.Equal(now) {
		t.Fatalf("resolver must pass now through, got %v", store.lastNow)
	}

	store.grants[ordering.ID] = false
	enabled, err = mustResolver(t, store).IsFeatureEnabled(context.Background(), uuid.New(), enums.FeatureOrdering, now)
	if err != nil || enabled {
		t.Fatalf("expected plan without grant to disable, got %v %v", enabled, err)
	}
}

func TestResolverPropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	store, _ := newStub()
	boom := errors.New("db down")
	store.subErr = boom

	_, err := mustResolver(t, store).IsFeatureEnabled(context.Background(), uuid.New(), enums.FeatureOrdering, time.Now())
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestNewResolverRequiresStore(t *testing.T) {
	if _, err := NewResolver(nil); err == nil {
		t.Fatal("expected error for nil store")
	}
}

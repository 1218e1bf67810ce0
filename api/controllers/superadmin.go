package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/menuflow-backend/api/validators"
	"github.com/angelmondragon/menuflow-backend/internal/entitlements"
	"github.com/angelmondragon/menuflow-backend/internal/restaurants"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
)

type createSubscriptionRequest struct {
	PlanKey  string     `json:"planKey" validate:"required,max=40"`
	Status   string     `json:"status" validate:"omitempty,oneof=TRIAL ACTIVE PAST_DUE CANCELED EXPIRED"`
	StartsAt *time.Time `json:"startsAt"`
	EndsAt   time.Time  `json:"endsAt" validate:"required"`
}

// input applies the defaults: ACTIVE, starting now.
func (req createSubscriptionRequest) input(now time.Time) entitlements.CreateSubscriptionInput {
	in := entitlements.CreateSubscriptionInput{
		PlanKey:  strings.ToUpper(strings.TrimSpace(req.PlanKey)),
		Status:   enums.SubscriptionStatusActive,
		StartsAt: now,
		EndsAt:   req.EndsAt.UTC(),
	}
	if req.Status != "" {
		in.Status = enums.SubscriptionStatus(req.Status)
	}
	if req.StartsAt != nil {
		in.StartsAt = req.StartsAt.UTC()
	}
	return in
}

type overrideRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// SuperadminCreateRestaurant provisions a restaurant, its owner and a trial
// subscription in one transaction.
func SuperadminCreateRestaurant(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(restaurantsService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		body, err := decode[restaurants.CreateWithOwnerInput](r)
		if err != nil {
			return 0, nil, err
		}
		return created(svc.CreateWithOwner(r.Context(), body))
	})
}

func SuperadminListRestaurants(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(restaurantsService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		return ok(svc.List(r.Context()))
	})
}

func SuperadminUpdateRestaurant(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(restaurantsService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		id, err := validators.ParseURLUUID(r, "restaurantId")
		if err != nil {
			return 0, nil, err
		}
		body, err := decode[restaurants.UpdateRestaurantInput](r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.Update(r.Context(), id, body))
	})
}

func SuperadminListOwners(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(restaurantsService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		id, err := validators.ParseURLUUID(r, "restaurantId")
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.ListOwners(r.Context(), id))
	})
}

func SuperadminResetOwnerPassword(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(restaurantsService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		ownerID, err := validators.ParseURLUUID(r, "ownerId")
		if err != nil {
			return 0, nil, err
		}
		body, err := decode[resetPasswordRequest](r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.ResetOwnerPassword(r.Context(), ownerID, body.Password))
	})
}

// SuperadminCreateSubscription attaches a plan to a restaurant. Status
// defaults to ACTIVE and startsAt to now.
func SuperadminCreateSubscription(svc entitlements.Service, clock Clock, logg *logger.Logger) http.HandlerFunc {
	return serve(billingService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		restaurantID, err := validators.ParseURLUUID(r, "restaurantId")
		if err != nil {
			return 0, nil, err
		}
		body, err := decode[createSubscriptionRequest](r)
		if err != nil {
			return 0, nil, err
		}
		return created(svc.CreateSubscription(r.Context(), restaurantID, body.input(clock.now())))
	})
}

func SuperadminListSubscriptions(svc entitlements.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(billingService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		restaurantID, err := validators.ParseURLUUID(r, "restaurantId")
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.ListSubscriptions(r.Context(), restaurantID))
	})
}

func SuperadminListOverrides(svc entitlements.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(billingService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		restaurantID, err := validators.ParseURLUUID(r, "restaurantId")
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.ListOverrides(r.Context(), restaurantID))
	})
}

// SuperadminSetOverride upserts the per-restaurant feature override.
func SuperadminSetOverride(svc entitlements.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(billingService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		restaurantID, key, err := overrideTarget(r)
		if err != nil {
			return 0, nil, err
		}
		body, err := decode[overrideRequest](r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.SetOverride(r.Context(), restaurantID, key, *body.Enabled))
	})
}

// SuperadminClearOverride drops the override so the plan decides again.
func SuperadminClearOverride(svc entitlements.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(billingService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		restaurantID, key, err := overrideTarget(r)
		if err != nil {
			return 0, nil, err
		}
		return noContent(svc.ClearOverride(r.Context(), restaurantID, key))
	})
}

func SuperadminListPlans(svc entitlements.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(billingService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		return ok(svc.ListPlans(r.Context()))
	})
}

func overrideTarget(r *http.Request) (uuid.UUID, enums.FeatureKey, error) {
	restaurantID, err := validators.ParseURLUUID(r, "restaurantId")
	if err != nil {
		return uuid.Nil, "", err
	}
	raw := strings.ToUpper(validators.SanitizeString(chi.URLParam(r, "featureKey"), 40))
	if raw == "" {
		return uuid.Nil, "", pkgerrors.Invalid("featureKey", "featureKey is required")
	}
	return restaurantID, enums.FeatureKey(raw), nil
}

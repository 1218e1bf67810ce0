package controllers

import (
	"net/http"

	"github.com/angelmondragon/menuflow-backend/internal/entitlements"
	"github.com/angelmondragon/menuflow-backend/internal/restaurants"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
)

const (
	restaurantsService = "restaurants service"
	billingService     = "billing service"
)

func AdminGetSettings(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(restaurantsService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		restaurantID, err := scopedRestaurant(r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.GetSettings(r.Context(), restaurantID))
	})
}

// AdminUpdateSettings patches ordering visibility, timezone, schedule and the
// currency configuration.
func AdminUpdateSettings(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(restaurantsService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		restaurantID, err := scopedRestaurant(r)
		if err != nil {
			return 0, nil, err
		}
		body, err := decode[restaurants.UpdateSettingsInput](r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.UpdateSettings(r.Context(), restaurantID, body))
	})
}

// AdminBillingFeatures resolves every catalog feature for the scoped restaurant.
func AdminBillingFeatures(svc entitlements.Service, clock Clock, logg *logger.Logger) http.HandlerFunc {
	return serve(billingService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		restaurantID, err := scopedRestaurant(r)
		if err != nil {
			return 0, nil, err
		}
		features, err := svc.ResolveAll(r.Context(), restaurantID, clock.now())
		return ok(map[string]any{"restaurantId": restaurantID, "features": features}, err)
	})
}

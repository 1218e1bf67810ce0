package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/menuflow-backend/api/validators"
	"github.com/angelmondragon/menuflow-backend/internal/menu"
	"github.com/angelmondragon/menuflow-backend/internal/orders"
	"github.com/angelmondragon/menuflow-backend/internal/restaurants"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
)

// slugParam answers 404 for a malformed slug without touching the database.
func slugParam(r *http.Request) (string, error) {
	slug := validators.NormalizeSlug(chi.URLParam(r, "slug"))
	if !validators.IsSlug(slug) {
		return "", pkgerrors.NotFound("restaurant")
	}
	return slug, nil
}

// PublicRestaurant returns the restaurant block shown above the menu.
func PublicRestaurant(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(restaurantsService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		slug, err := slugParam(r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.GetPublic(r.Context(), slug))
	})
}

// PublicMenu returns categories and items with resolved pricing.
func PublicMenu(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(menuService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		slug, err := slugParam(r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.GetPublicMenu(r.Context(), slug))
	})
}

// PublicCreateOrder places an anonymous order against the restaurant.
func PublicCreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(ordersService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		slug, err := slugParam(r)
		if err != nil {
			return 0, nil, err
		}
		body, err := decode[orders.CreateOrderInput](r)
		if err != nil {
			return 0, nil, err
		}
		return created(svc.CreatePublicOrder(r.Context(), slug, body))
	})
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/menuflow-backend/api/validators"
	"github.com/angelmondragon/menuflow-backend/internal/orders"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
	"github.com/angelmondragon/menuflow-backend/pkg/pagination"
)

const ordersService = "orders service"

// AdminListOrders returns a newest-first page of the scoped restaurant's
// orders. ?status narrows it, ?cursor continues from a previous page.
func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(ordersService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, requested, err := adminScope(r)
		if err != nil {
			return 0, nil, err
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			return 0, nil, err
		}
		filters, err := orderFilters(r)
		if err != nil {
			return 0, nil, err
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		return ok(svc.List(r.Context(), actor, requested, filters, params))
	})
}

func orderFilters(r *http.Request) (orders.ListFilters, error) {
	var filters orders.ListFilters
	raw := validators.SanitizeString(r.URL.Query().Get("status"), 32)
	if raw == "" {
		return filters, nil
	}
	status, err := enums.ParseOrderStatus(strings.ToUpper(raw))
	if err != nil {
		return filters, pkgerrors.Invalid("status", "unknown order status")
	}
	filters.Status = &status
	return filters, nil
}

// AdminOrderDetail returns an order with its snapshot lines.
func AdminOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(ordersService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, id, err := actorAndID(r, "orderId")
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.Get(r.Context(), actor, id))
	})
}

func AdminUpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(ordersService, svc != nil, logg, func(r *http.Request) (int, any, error) {
		actor, id, err := actorAndID(r, "orderId")
		if err != nil {
			return 0, nil, err
		}
		body, err := decode[orders.UpdateStatusInput](r)
		if err != nil {
			return 0, nil, err
		}
		return ok(svc.UpdateStatus(r.Context(), actor, id, body.Status))
	})
}

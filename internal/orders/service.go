package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/menuflow-backend/internal/entitlements"
	"github.com/angelmondragon/menuflow-backend/internal/menu"
	"github.com/angelmondragon/menuflow-backend/internal/pricing"
	"github.com/angelmondragon/menuflow-backend/internal/restaurants"
	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/angelmondragon/menuflow-backend/pkg/logger"
	"github.com/angelmondragon/menuflow-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type restaurantResolver interface {
	Resolve(ctx context.Context, slug string) (*models.Restaurant, error)
}

type checkoutRecorder interface {
	ObserveCreated(orderType string, duration time.Duration)
	ObserveRejected(code string, duration time.Duration)
}

// Service covers public checkout and the admin order surface.
type Service interface {
	CreatePublicOrder(ctx context.Context, slug string, input CreateOrderInput) (*Summary, error)
	List(ctx context.Context, actor restaurants.Actor, requested *uuid.UUID, filters ListFilters, params pagination.Params) (*List, error)
	Get(ctx context.Context, actor restaurants.Actor, id uuid.UUID) (*Detail, error)
	UpdateStatus(ctx context.Context, actor restaurants.Actor, id uuid.UUID, status enums.OrderStatus) (*Detail, error)
}

// ServiceParams wires the order service.
type ServiceParams struct {
	TX          txRunner
	Repo        Repository
	Menu        menu.Repository
	Restaurants restaurantResolver
	Checker     entitlements.Checker
	Metrics     checkoutRecorder
	Clock       func() time.Time
	Logger      *logger.Logger
}

type service struct {
	tx          txRunner
	repo        Repository
	menu        menu.Repository
	restaurants restaurantResolver
	checker     entitlements.Checker
	metrics     checkoutRecorder
	clock       func() time.Time
	logg        *logger.Logger
}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TX == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Menu == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	if params.Restaurants == nil {
		return nil, fmt.Errorf("restaurant resolver required")
	}
	if params.Checker == nil {
		return nil, fmt.Errorf("entitlement checker required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		tx:          params.TX,
		repo:        params.Repo,
		menu:        params.Menu,
		restaurants: params.Restaurants,
		checker:     params.Checker,
		metrics:     params.Metrics,
		clock:       clock,
		logg:        params.Logger,
	}, nil
}

// CreatePublicOrder prices the cart server-side and persists the order with
// its snapshot rows. The ordering entitlement is checked before any item or
// table lookup so a disabled restaurant reveals nothing about its catalog.
func (s *service) CreatePublicOrder(ctx context.Context, slug string, input CreateOrderInput) (*Summary, error) {
	started := time.Now()
	summary, err := s.createPublicOrder(ctx, slug, input)
	if s.metrics != nil {
		if err != nil {
			code := pkgerrors.CodeInternal
			if typed := pkgerrors.As(err); typed != nil {
				code = typed.Code()
			}
			s.metrics.ObserveRejected(string(code), time.Since(started))
		} else {
			s.metrics.ObserveCreated(string(summary.Type), time.Since(started))
		}
	}
	return summary, err
}

func (s *service) createPublicOrder(ctx context.Context, slug string, input CreateOrderInput) (*Summary, error) {
	if err := validateShape(input); err != nil {
		return nil, err
	}
	now := s.clock().UTC()

	restaurant, err := s.restaurants.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}

	enabled, err := s.checker.IsFeatureEnabled(ctx, restaurant.ID, enums.FeatureOrdering, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve ordering entitlement")
	}
	if !enabled {
		return nil, pkgerrors.FeatureDisabled(string(enums.FeatureOrdering))
	}

	secondaryActive := pricing.IsSecondaryCurrencyActive(pricing.CurrencyConfigFor(*restaurant), now)

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		menuRepo := s.menu.WithTx(tx)

		items, err := s.loadCartItems(ctx, menuRepo, restaurant.ID, input.Items)
		if err != nil {
			return err
		}

		order := &models.Order{
			RestaurantID: restaurant.ID,
			Type:         input.Type,
			Status:       enums.OrderStatusNew,
			Phone:        trimmed(input.Phone),
			CustomerName: trimmed(input.CustomerName),
			Note:         trimmed(input.Note),
		}
		switch input.Type {
		case enums.OrderTypeTable:
			table, err := menuRepo.FindTableByCode(ctx, restaurant.ID, strings.TrimSpace(*input.TableCode))
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find table")
			}
			if table == nil {
				return pkgerrors.Invalid("tableCode", "Table not found")
			}
			order.TableID = &table.ID
			order.Table = table
		case enums.OrderTypeDelivery:
			order.DeliveryAddress = trimmed(input.DeliveryAddress)
		}

		lines, totals := snapshotLines(input.Items, items, secondaryActive, now)
		order.TotalEURCents = totals.EUR.TotalCents
		if totals.BGN != nil {
			bgn := totals.BGN.TotalCents
			order.TotalBGNCents = &bgn
		}

		if err := s.repo.WithTx(tx).CreateOrder(ctx, order, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithRestaurantID(ctx, restaurant.ID)
		logCtx = s.logg.WithOrderID(logCtx, created.ID)
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"order_type": string(created.Type),
			"lines":      len(created.Items),
		})
		s.logg.Info(logCtx, "order created")
	}

	summary := toSummary(*created)
	return &summary, nil
}

func (s *service) loadCartItems(ctx context.Context, repo menu.Repository, restaurantID uuid.UUID, lines []CartLine) (map[uuid.UUID]models.Item, error) {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ItemID]; ok {
			continue
		}
		seen[line.ItemID] = struct{}{}
		ids = append(ids, line.ItemID)
	}

	rows, err := repo.FindItemsByIDs(ctx, restaurantID, ids, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart items")
	}
	if len(rows) != len(ids) {
		return nil, pkgerrors.Invalid("items", "Some items are invalid or unavailable")
	}

	byID := make(map[uuid.UUID]models.Item, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	return byID, nil
}

// snapshotLines prices every cart line at now. The BGN total exists only when
// every line resolved a BGN unit price.
func snapshotLines(lines []CartLine, items map[uuid.UUID]models.Item, secondaryActive bool, now time.Time) ([]models.OrderItem, Totals) {
	out := make([]models.OrderItem, 0, len(lines))
	var totalEUR, totalBGN int64
	allBGN := true

	for _, line := range lines {
		item := items[line.ItemID]
		resolved := pricing.ResolveItemPrice(pricing.FromItem(item), secondaryActive, now)
		qty := int64(line.Qty)

		itemID := item.ID
		row := models.OrderItem{
			ItemID:            &itemID,
			NameSnapshot:      item.Name,
			Qty:               line.Qty,
			UnitPriceEURCents: resolved.Prices.EUR.CurrentCents,
			Note:              trimmed(line.Note),
		}
		totalEUR += resolved.Prices.EUR.CurrentCents * qty

		if resolved.Prices.BGN != nil {
			unit := resolved.Prices.BGN.CurrentCents
			row.UnitPriceBGNCents = &unit
			totalBGN += unit * qty
		} else {
			allBGN = false
		}
		out = append(out, row)
	}

	totals := Totals{EUR: TotalBlock{TotalCents: totalEUR}}
	if allBGN && len(out) > 0 {
		totals.BGN = &TotalBlock{TotalCents: totalBGN}
	}
	return out, totals
}

func validateShape(input CreateOrderInput) error {
	if !input.Type.IsValid() {
		return pkgerrors.Invalid("type", "type must be one of TABLE, DELIVERY, TAKEAWAY")
	}
	if len(input.Items) == 0 {
		return pkgerrors.Invalid("items", "items must not be empty")
	}
	for _, line := range input.Items {
		if line.ItemID == uuid.Nil || line.Qty < 1 || line.Qty > 99 {
			return pkgerrors.Invalid("items", "each item needs an itemId and a qty between 1 and 99")
		}
	}
	switch input.Type {
	case enums.OrderTypeTable:
		if trimmed(input.TableCode) == nil {
			return pkgerrors.Invalid("tableCode", "tableCode is required for TABLE orders")
		}
	case enums.OrderTypeDelivery:
		if trimmed(input.DeliveryAddress) == nil {
			return pkgerrors.Invalid("deliveryAddress", "deliveryAddress is required for DELIVERY orders")
		}
	}
	return nil
}

func (s *service) List(ctx context.Context, actor restaurants.Actor, requested *uuid.UUID, filters ListFilters, params pagination.Params) (*List, error) {
	restaurantID, err := restaurants.ScopeRestaurant(actor, requested)
	if err != nil {
		return nil, err
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.Invalid("status", "unknown order status")
	}
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Invalid("cursor", "invalid cursor")
	}

	page, err := s.repo.ListOrders(ctx, restaurantID, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]Summary, 0, len(page.Orders))
	for _, order := range page.Orders {
		out = append(out, toSummary(order))
	}
	return &List{Orders: out, NextCursor: page.NextCursor}, nil
}

func (s *service) Get(ctx context.Context, actor restaurants.Actor, id uuid.UUID) (*Detail, error) {
	order, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	detail := toDetail(*order)
	return &detail, nil
}

// UpdateStatus accepts any known status. Moves other than one step forward
// are applied but logged.
func (s *service) UpdateStatus(ctx context.Context, actor restaurants.Actor, id uuid.UUID, status enums.OrderStatus) (*Detail, error) {
	if !status.IsValid() {
		return nil, pkgerrors.Invalid("status", "unknown order status")
	}
	order, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if order.Status != status && !order.Status.CanAdvanceTo(status) && s.logg != nil {
		logCtx := s.logg.WithRestaurantID(ctx, order.RestaurantID)
		logCtx = s.logg.WithOrderID(logCtx, order.ID)
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"from": string(order.Status),
			"to":   string(status),
		})
		s.logg.Warn(logCtx, "order status moved outside forward lifecycle")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return s.Get(ctx, actor, id)
}

func (s *service) owned(ctx context.Context, actor restaurants.Actor, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	if order == nil {
		return nil, pkgerrors.NotFound("order")
	}
	if err := restaurants.AssertOwnership(actor, order.RestaurantID); err != nil {
		return nil, err
	}
	return order, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}

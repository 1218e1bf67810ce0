package menu

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/menuflow-backend/internal/pricing"
	"github.com/angelmondragon/menuflow-backend/internal/restaurants"
	"github.com/angelmondragon/menuflow-backend/pkg/db"
	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/angelmondragon/menuflow-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type restaurantResolver interface {
	Resolve(ctx context.Context, slug string) (*models.Restaurant, error)
}

// Service serves the public menu and the admin catalog management.
type Service interface {
	GetPublicMenu(ctx context.Context, slug string) (*PublicMenu, error)

	ListCategories(ctx context.Context, actor restaurants.Actor, requested *uuid.UUID) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, actor restaurants.Actor, requested *uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, actor restaurants.Actor, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, actor restaurants.Actor, id uuid.UUID) error

	ListItems(ctx context.Context, actor restaurants.Actor, requested, categoryID *uuid.UUID) ([]ItemDTO, error)
	CreateItem(ctx context.Context, actor restaurants.Actor, requested *uuid.UUID, input CreateItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, actor restaurants.Actor, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, actor restaurants.Actor, id uuid.UUID) error

	ListTables(ctx context.Context, actor restaurants.Actor, requested *uuid.UUID) ([]TableDTO, error)
	CreateTable(ctx context.Context, actor restaurants.Actor, requested *uuid.UUID, input CreateTableInput) (*TableDTO, error)
	DeleteTable(ctx context.Context, actor restaurants.Actor, id uuid.UUID) error
}

type service struct {
	tx          txRunner
	repo        Repository
	restaurants restaurantResolver
	presenter   *restaurants.Presenter
	clock       func() time.Time
}

// NewService builds the menu service.
func NewService(tx txRunner, repo Repository, resolver restaurantResolver, presenter *restaurants.Presenter, clock func() time.Time) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("restaurant resolver required")
	}
	if presenter == nil {
		return nil, fmt.Errorf("presenter required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &service{tx: tx, repo: repo, restaurants: resolver, presenter: presenter, clock: clock}, nil
}

// GetPublicMenu composes currency activation, item pricing, availability
// and entitlements against a single captured instant.
func (s *service) GetPublicMenu(ctx context.Context, slug string) (*PublicMenu, error) {
	now := s.clock().UTC()

	restaurant, err := s.restaurants.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	view, err := s.presenter.Present(ctx, *restaurant, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compose restaurant")
	}

	categories, err := s.repo.ListCategories(ctx, restaurant.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	items, err := s.repo.ListItems(ctx, restaurant.ID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	byCategory := make(map[uuid.UUID][]PublicItem, len(categories))
	for _, item := range items {
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], PublicItem{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			ImageURL:    item.ImageURL,
			Allergens:   item.Allergens,
			IsAvailable: item.IsAvailable,
			SortOrder:   item.SortOrder,
			Pricing:     pricing.ResolveItemPrice(pricing.FromItem(item), view.Currency.BGNActiveNow, now),
		})
	}

	out := make([]PublicCategory, 0, len(categories))
	for _, category := range categories {
		categoryItems := byCategory[category.ID]
		if categoryItems == nil {
			categoryItems = []PublicItem{}
		}
		out = append(out, PublicCategory{
			ID:        category.ID,
			Name:      category.Name,
			ImageURL:  category.ImageURL,
			SortOrder: category.SortOrder,
			Items:     categoryItems,
		})
	}

	return &PublicMenu{Restaurant: *view, GeneratedAt: now, Categories: out}, nil
}

func (s *service) ListCategories(ctx context.Context, actor restaurants.Actor, requested *uuid.UUID) ([]CategoryDTO, error) {
	restaurantID, err := restaurants.ScopeRestaurant(actor, requested)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListCategories(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCategoryDTO(row))
	}
	return out, nil
}

func (s *service) CreateCategory(ctx context.Context, actor restaurants.Actor, requested *uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error) {
	restaurantID, err := restaurants.ScopeRestaurant(actor, requested)
	if err != nil {
		return nil, err
	}
	category := &models.Category{
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(input.Name),
		ImageURL:     input.ImageURL,
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	dto := toCategoryDTO(*category)
	return &dto, nil
}

func (s *service) UpdateCategory(ctx context.Context, actor restaurants.Actor, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	if _, err := s.ownedCategory(ctx, actor, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	input.ImageURL.Apply(updates, "image_url")
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}
	if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}

	category, err := s.ownedCategory(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	dto := toCategoryDTO(*category)
	return &dto, nil
}

// DeleteCategory removes the category and all of its items atomically.
func (s *service) DeleteCategory(ctx context.Context, actor restaurants.Actor, id uuid.UUID) error {
	if _, err := s.ownedCategory(ctx, actor, id); err != nil {
		return err
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteCategory(ctx, id)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) ListItems(ctx context.Context, actor restaurants.Actor, requested, categoryID *uuid.UUID) ([]ItemDTO, error) {
	var restaurantID uuid.UUID
	if categoryID != nil {
		category, err := s.ownedCategory(ctx, actor, *categoryID)
		if err != nil {
			return nil, err
		}
		restaurantID = category.RestaurantID
	} else {
		scoped, err := restaurants.ScopeRestaurant(actor, requested)
		if err != nil {
			return nil, err
		}
		restaurantID = scoped
	}

	rows, err := s.repo.ListItems(ctx, restaurantID, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	out := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toItemDTO(row))
	}
	return out, nil
}

func (s *service) CreateItem(ctx context.Context, actor restaurants.Actor, requested *uuid.UUID, input CreateItemInput) (*ItemDTO, error) {
	category, err := s.ownedCategory(ctx, actor, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if actor.IsSuperadmin() {
		if requested != nil && *requested != category.RestaurantID {
			return nil, errCategoryOutsideRestaurant()
		}
	} else {
		scoped, err := restaurants.ScopeRestaurant(actor, requested)
		if err != nil {
			return nil, err
		}
		if scoped != category.RestaurantID {
			return nil, errCategoryOutsideRestaurant()
		}
	}
	if input.Prices.PriceEURCents == nil {
		return nil, pkgerrors.Invalid("prices.priceEurCents", "priceEurCents is required")
	}

	item := &models.Item{
		RestaurantID:  category.RestaurantID,
		CategoryID:    category.ID,
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		ImageURL:      input.ImageURL,
		Allergens:     input.Allergens,
		IsAvailable:   true,
		PriceEURCents: *input.Prices.PriceEURCents,
		PriceBGNCents: input.Prices.PriceBGNCents,
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	if input.SortOrder != nil {
		item.SortOrder = *input.SortOrder
	}
	if input.Promo != nil {
		if err := applyPromo(item, *input.Promo); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	dto := toItemDTO(*item)
	return &dto, nil
}

func (s *service) UpdateItem(ctx context.Context, actor restaurants.Actor, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.ownedItem(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.CategoryID != nil {
		category, err := s.ownedCategory(ctx, actor, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category.RestaurantID != item.RestaurantID {
			return nil, pkgerrors.Invalid("categoryId", "categoryId does not belong to the item's restaurant")
		}
		updates["category_id"] = category.ID
	}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	input.Description.Apply(updates, "description")
	input.ImageURL.Apply(updates, "image_url")
	input.Allergens.Apply(updates, "allergens")
	if input.IsAvailable != nil {
		updates["is_available"] = *input.IsAvailable
	}
	if input.Prices != nil {
		if input.Prices.PriceEURCents != nil {
			updates["price_eur_cents"] = *input.Prices.PriceEURCents
		}
		if err := nonNegative(input.Prices.PriceBGNCents, "prices.priceBgnCents"); err != nil {
			return nil, err
		}
		input.Prices.PriceBGNCents.Apply(updates, "price_bgn_cents")
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}
	if input.Promo != nil {
		// validate the promo window against the merged result
		merged := *item
		if err := applyPromo(&merged, *input.Promo); err != nil {
			return nil, err
		}
		input.Promo.PromoPriceEURCents.Apply(updates, "promo_price_eur_cents")
		input.Promo.PromoPriceBGNCents.Apply(updates, "promo_price_bgn_cents")
		input.Promo.PromoStartsAt.Apply(updates, "promo_starts_at")
		input.Promo.PromoEndsAt.Apply(updates, "promo_ends_at")
	}

	if err := s.repo.UpdateItem(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}
	updated, err := s.ownedItem(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	dto := toItemDTO(*updated)
	return &dto, nil
}

func (s *service) DeleteItem(ctx context.Context, actor restaurants.Actor, id uuid.UUID) error {
	if _, err := s.ownedItem(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	return nil
}

func (s *service) ListTables(ctx context.Context, actor restaurants.Actor, requested *uuid.UUID) ([]TableDTO, error) {
	restaurantID, err := restaurants.ScopeRestaurant(actor, requested)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListTables(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tables")
	}
	out := make([]TableDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toTableDTO(row))
	}
	return out, nil
}

func (s *service) CreateTable(ctx context.Context, actor restaurants.Actor, requested *uuid.UUID, input CreateTableInput) (*TableDTO, error) {
	restaurantID, err := restaurants.ScopeRestaurant(actor, requested)
	if err != nil {
		return nil, err
	}
	table := &models.DiningTable{
		RestaurantID: restaurantID,
		Code:         strings.TrimSpace(input.Code),
		Name:         input.Name,
	}
	if err := s.repo.CreateTable(ctx, table); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "table code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create table")
	}
	dto := toTableDTO(*table)
	return &dto, nil
}

func (s *service) DeleteTable(ctx context.Context, actor restaurants.Actor, id uuid.UUID) error {
	table, err := s.repo.FindTable(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find table")
	}
	if table == nil {
		return pkgerrors.NotFound("table")
	}
	if err := restaurants.AssertOwnership(actor, table.RestaurantID); err != nil {
		return err
	}
	if err := s.repo.DeleteTable(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete table")
	}
	return nil
}

func (s *service) ownedCategory(ctx context.Context, actor restaurants.Actor, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find category")
	}
	if category == nil {
		return nil, pkgerrors.NotFound("category")
	}
	if err := restaurants.AssertOwnership(actor, category.RestaurantID); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *service) ownedItem(ctx context.Context, actor restaurants.Actor, id uuid.UUID) (*models.Item, error) {
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find item")
	}
	if item == nil {
		return nil, pkgerrors.NotFound("item")
	}
	if err := restaurants.AssertOwnership(actor, item.RestaurantID); err != nil {
		return nil, err
	}
	return item, nil
}

func errCategoryOutsideRestaurant() error {
	return pkgerrors.Invalid("restaurantId", "categoryId does not belong to restaurantId")
}

// applyPromo writes the promo patch onto item and checks the resulting window.
func applyPromo(item *models.Item, promo ItemPromoInput) error {
	if err := nonNegative(promo.PromoPriceEURCents, "promo.promoPriceEurCents"); err != nil {
		return err
	}
	if err := nonNegative(promo.PromoPriceBGNCents, "promo.promoPriceBgnCents"); err != nil {
		return err
	}
	if promo.PromoPriceEURCents.Set {
		item.PromoPriceEURCents = promo.PromoPriceEURCents.Value
	}
	if promo.PromoPriceBGNCents.Set {
		item.PromoPriceBGNCents = promo.PromoPriceBGNCents.Value
	}
	if promo.PromoStartsAt.Set {
		item.PromoStartsAt = utcPtr(promo.PromoStartsAt.Value)
	}
	if promo.PromoEndsAt.Set {
		item.PromoEndsAt = utcPtr(promo.PromoEndsAt.Value)
	}
	if item.PromoStartsAt != nil && item.PromoEndsAt != nil && !item.PromoEndsAt.After(*item.PromoStartsAt) {
		return pkgerrors.Invalid("promo.promoEndsAt", "promoEndsAt must be after promoStartsAt")
	}
	return nil
}

func nonNegative(value types.Nullable[int64], field string) error {
	if value.Value != nil && *value.Value < 0 {
		return pkgerrors.Invalid(field, field+" must be >= 0")
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

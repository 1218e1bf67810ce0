package menu

import (
	"time"

	"github.com/angelmondragon/menuflow-backend/internal/pricing"
	"github.com/angelmondragon/menuflow-backend/internal/restaurants"
	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/types"
	"github.com/google/uuid"
)

// PublicMenu is the anonymous menu of a restaurant at GeneratedAt.
type PublicMenu struct {
	Restaurant  restaurants.PublicRestaurant `json:"restaurant"`
	GeneratedAt time.Time                    `json:"generatedAt"`
	Categories  []PublicCategory             `json:"categories"`
}

type PublicCategory struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	ImageURL  *string      `json:"imageUrl"`
	SortOrder int          `json:"sortOrder"`
	Items     []PublicItem `json:"items"`
}

type PublicItem struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	ImageURL    *string        `json:"imageUrl"`
	Allergens   *string        `json:"allergens"`
	IsAvailable bool           `json:"isAvailable"`
	SortOrder   int            `json:"sortOrder"`
	Pricing     pricing.Result `json:"pricing"`
}

// CategoryDTO is the admin view of a category.
type CategoryDTO struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	Name         string    `json:"name"`
	ImageURL     *string   `json:"imageUrl"`
	SortOrder    int       `json:"sortOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ItemDTO is the admin view of an item with its raw stored prices.
type ItemDTO struct {
	ID                 uuid.UUID  `json:"id"`
	RestaurantID       uuid.UUID  `json:"restaurantId"`
	CategoryID         uuid.UUID  `json:"categoryId"`
	Name               string     `json:"name"`
	Description        *string    `json:"description"`
	ImageURL           *string    `json:"imageUrl"`
	Allergens          *string    `json:"allergens"`
	IsAvailable        bool       `json:"isAvailable"`
	PriceEURCents      int64      `json:"priceEurCents"`
	PriceBGNCents      *int64     `json:"priceBgnCents"`
	PromoPriceEURCents *int64     `json:"promoPriceEurCents"`
	PromoPriceBGNCents *int64     `json:"promoPriceBgnCents"`
	PromoStartsAt      *time.Time `json:"promoStartsAt"`
	PromoEndsAt        *time.Time `json:"promoEndsAt"`
	SortOrder          int        `json:"sortOrder"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// TableDTO is the admin view of a dining table.
type TableDTO struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	Code         string    `json:"code"`
	Name         *string   `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateCategoryInput struct {
	Name      string  `json:"name" validate:"required,max=120"`
	ImageURL  *string `json:"imageUrl" validate:"omitempty,max=2048"`
	SortOrder *int    `json:"sortOrder" validate:"omitempty,min=0"`
}

type UpdateCategoryInput struct {
	Name      *string                `json:"name" validate:"omitempty,min=1,max=120"`
	ImageURL  types.Nullable[string] `json:"imageUrl"`
	SortOrder *int                   `json:"sortOrder" validate:"omitempty,min=0"`
}

type ItemPricesInput struct {
	PriceEURCents *int64 `json:"priceEurCents" validate:"required,min=0"`
	PriceBGNCents *int64 `json:"priceBgnCents" validate:"omitempty,min=0"`
}

type ItemPricesPatch struct {
	PriceEURCents *int64                `json:"priceEurCents" validate:"omitempty,min=0"`
	PriceBGNCents types.Nullable[int64] `json:"priceBgnCents"`
}

// ItemPromoInput patches the promo block. Absent fields stay unchanged and
// explicit nulls clear them.
type ItemPromoInput struct {
	PromoPriceEURCents types.Nullable[int64]     `json:"promoPriceEurCents"`
	PromoPriceBGNCents types.Nullable[int64]     `json:"promoPriceBgnCents"`
	PromoStartsAt      types.Nullable[time.Time] `json:"promoStartsAt"`
	PromoEndsAt        types.Nullable[time.Time] `json:"promoEndsAt"`
}

type CreateItemInput struct {
	CategoryID  uuid.UUID       `json:"categoryId" validate:"required"`
	Name        string          `json:"name" validate:"required,max=160"`
	Description *string         `json:"description"`
	ImageURL    *string         `json:"imageUrl" validate:"omitempty,max=2048"`
	Allergens   *string         `json:"allergens"`
	IsAvailable *bool           `json:"isAvailable"`
	Prices      ItemPricesInput `json:"prices" validate:"required"`
	Promo       *ItemPromoInput `json:"promo"`
	SortOrder   *int            `json:"sortOrder" validate:"omitempty,min=0"`
}

type UpdateItemInput struct {
	CategoryID  *uuid.UUID             `json:"categoryId"`
	Name        *string                `json:"name" validate:"omitempty,min=1,max=160"`
	Description types.Nullable[string] `json:"description"`
	ImageURL    types.Nullable[string] `json:"imageUrl"`
	Allergens   types.Nullable[string] `json:"allergens"`
	IsAvailable *bool                  `json:"isAvailable"`
	Prices      *ItemPricesPatch       `json:"prices"`
	Promo       *ItemPromoInput        `json:"promo"`
	SortOrder   *int                   `json:"sortOrder" validate:"omitempty,min=0"`
}

type CreateTableInput struct {
	Code string  `json:"code" validate:"required,max=40"`
	Name *string `json:"name" validate:"omitempty,max=120"`
}

func toCategoryDTO(c models.Category) CategoryDTO {
	return CategoryDTO{
		ID:           c.ID,
		RestaurantID: c.RestaurantID,
		Name:         c.Name,
		ImageURL:     c.ImageURL,
		SortOrder:    c.SortOrder,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toItemDTO(i models.Item) ItemDTO {
	return ItemDTO{
		ID:                 i.ID,
		RestaurantID:       i.RestaurantID,
		CategoryID:         i.CategoryID,
		Name:               i.Name,
		Description:        i.Description,
		ImageURL:           i.ImageURL,
		Allergens:          i.Allergens,
		IsAvailable:        i.IsAvailable,
		PriceEURCents:      i.PriceEURCents,
		PriceBGNCents:      i.PriceBGNCents,
		PromoPriceEURCents: i.PromoPriceEURCents,
		PromoPriceBGNCents: i.PromoPriceBGNCents,
		PromoStartsAt:      i.PromoStartsAt,
		PromoEndsAt:        i.PromoEndsAt,
		SortOrder:          i.SortOrder,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
}

func toTableDTO(t models.DiningTable) TableDTO {
	return TableDTO{
		ID:           t.ID,
		RestaurantID: t.RestaurantID,
		Code:         t.Code,
		Name:         t.Name,
		CreatedAt:    t.CreatedAt,
	}
}

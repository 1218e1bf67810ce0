package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is a menu entry priced in EUR cents with optional BGN and promo prices.
type Item struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID       uuid.UUID  `gorm:"column:restaurant_id;type:uuid;not null;index"`
	CategoryID         uuid.UUID  `gorm:"column:category_id;type:uuid;not null;index"`
	Name               string     `gorm:"column:name;not null"`
	Description        *string    `gorm:"column:description"`
	ImageURL           *string    `gorm:"column:image_url"`
	Allergens          *string    `gorm:"column:allergens"`
	IsAvailable        bool       `gorm:"column:is_available;not null"`
	PriceEURCents      int64      `gorm:"column:price_eur_cents;not null"`
	PriceBGNCents      *int64     `gorm:"column:price_bgn_cents"`
	PromoPriceEURCents *int64     `gorm:"column:promo_price_eur_cents"`
	PromoPriceBGNCents *int64     `gorm:"column:promo_price_bgn_cents"`
	PromoStartsAt      *time.Time `gorm:"column:promo_starts_at"`
	PromoEndsAt        *time.Time `gorm:"column:promo_ends_at"`
	SortOrder          int        `gorm:"column:sort_order;not null"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *Item) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/menuflow-backend/pkg/enums"
)

// Order is created once by checkout. Only Status changes afterwards.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID    uuid.UUID         `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Type            enums.OrderType   `gorm:"column:type;type:text;not null"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null"`
	TableID         *uuid.UUID        `gorm:"column:table_id;type:uuid"`
	DeliveryAddress *string           `gorm:"column:delivery_address"`
	Phone           *string           `gorm:"column:phone"`
	CustomerName    *string           `gorm:"column:customer_name"`
	Note            *string           `gorm:"column:note"`
	TotalEURCents   int64             `gorm:"column:total_eur_cents;not null"`
	TotalBGNCents   *int64            `gorm:"column:total_bgn_cents"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Table *DiningTable `gorm:"foreignKey:TableID"`
	Items []OrderItem  `gorm:"foreignKey:OrderID"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// OrderItem is the immutable price snapshot of one cart line.
type OrderItem struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OrderID           uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ItemID            *uuid.UUID `gorm:"column:item_id;type:uuid"`
	Position          int        `gorm:"column:position;not null"`
	NameSnapshot      string     `gorm:"column:name_snapshot;not null"`
	Qty               int        `gorm:"column:qty;not null"`
	UnitPriceEURCents int64      `gorm:"column:unit_price_eur_cents;not null"`
	UnitPriceBGNCents *int64     `gorm:"column:unit_price_bgn_cents"`
	Note              *string    `gorm:"column:note"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (oi *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&oi.ID)
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiningTable is a physical table addressed by the code printed on its QR card.
type DiningTable struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;uniqueIndex:dining_tables_restaurant_code_key"`
	Code         string    `gorm:"column:code;not null;uniqueIndex:dining_tables_restaurant_code_key"`
	Name         *string   `gorm:"column:name"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (DiningTable) TableName() string { return "dining_tables" }

func (t *DiningTable) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

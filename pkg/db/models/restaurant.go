package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/angelmondragon/menuflow-backend/pkg/db/types"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
)

// Restaurant represents the tenant: the unit of data isolation and billing.
type Restaurant struct {
	ID                       uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Name                     string               `gorm:"column:name;not null"`
	Slug                     string               `gorm:"column:slug;not null;uniqueIndex"`
	LogoURL                  *string              `gorm:"column:logo_url"`
	CoverImageURL            *string              `gorm:"column:cover_image_url"`
	PhoneNumber              *string              `gorm:"column:phone_number"`
	Address                  *string              `gorm:"column:address"`
	CurrencyPrimary          enums.CurrencyCode   `gorm:"column:currency_primary;type:text;not null"`
	CurrencySecondaryEnabled bool                 `gorm:"column:currency_secondary_enabled;not null"`
	BGNDisabledAt            *time.Time           `gorm:"column:bgn_disabled_at"`
	OrderingVisible          bool                 `gorm:"column:ordering_visible;not null"`
	OrderingTimezone         string               `gorm:"column:ordering_timezone;not null"`
	OrderingSchedule         dbtypes.JSONDocument `gorm:"column:ordering_schedule"`
	CreatedAt                time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *Restaurant) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	if r.CurrencyPrimary == "" {
		r.CurrencyPrimary = enums.CurrencyEUR
	}
	return nil
}

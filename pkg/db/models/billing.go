package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/menuflow-backend/pkg/enums"
)

// Feature is an entry of the global feature catalog.
type Feature struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Key         enums.FeatureKey `gorm:"column:key;type:text;not null;uniqueIndex"`
	Description *string          `gorm:"column:description"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (f *Feature) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

// Plan is a named bundle of features.
type Plan struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Key          string             `gorm:"column:key;not null;uniqueIndex"`
	Name         string             `gorm:"column:name;not null"`
	Status       enums.PlanStatus   `gorm:"column:status;type:text;not null"`
	MonthlyPrice decimal.Decimal    `gorm:"column:monthly_price;type:numeric(10,2);not null"`
	Currency     enums.CurrencyCode `gorm:"column:currency;type:text;not null"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Plan) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	if p.Status == "" {
		p.Status = enums.PlanStatusActive
	}
	if p.Currency == "" {
		p.Currency = enums.CurrencyEUR
	}
	return nil
}

// PlanFeature links a plan to a granted feature.
type PlanFeature struct {
	PlanID    uuid.UUID `gorm:"column:plan_id;type:uuid;primaryKey"`
	FeatureID uuid.UUID `gorm:"column:feature_id;type:uuid;primaryKey"`
}

// Subscription entitles a restaurant to a plan within [StartsAt, EndsAt).
type Subscription struct {
	ID           uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID uuid.UUID                `gorm:"column:restaurant_id;type:uuid;not null;index"`
	PlanID       uuid.UUID                `gorm:"column:plan_id;type:uuid;not null"`
	Status       enums.SubscriptionStatus `gorm:"column:status;type:text;not null"`
	StartsAt     time.Time                `gorm:"column:starts_at;not null"`
	EndsAt       time.Time                `gorm:"column:ends_at;not null"`
	CreatedAt    time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                `gorm:"column:updated_at;autoUpdateTime"`

	Plan *Plan `gorm:"foreignKey:PlanID"`
}

func (s *Subscription) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// FeatureOverride is a manual entitlement decision that wins over subscriptions.
type FeatureOverride struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;uniqueIndex:restaurant_feature_overrides_restaurant_feature_key"`
	FeatureID    uuid.UUID `gorm:"column:feature_id;type:uuid;not null;uniqueIndex:restaurant_feature_overrides_restaurant_feature_key"`
	Enabled      bool      `gorm:"column:enabled;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (FeatureOverride) TableName() string { return "restaurant_feature_overrides" }

func (o *FeatureOverride) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

package entitlements

import (
	"time"

	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResolvedFeature is one catalog entry resolved for a restaurant.
type ResolvedFeature struct {
	Key     enums.FeatureKey `json:"key"`
	Enabled bool             `json:"enabled"`
}

// PlanDTO exposes a plan with the features it grants.
type PlanDTO struct {
	ID           uuid.UUID          `json:"id"`
	Key          string             `json:"key"`
	Name         string             `json:"name"`
	Status       enums.PlanStatus   `json:"status"`
	MonthlyPrice decimal.Decimal    `json:"monthlyPrice"`
	Currency     enums.CurrencyCode `json:"currency"`
	Features     []enums.FeatureKey `json:"features"`
}

// SubscriptionDTO exposes a restaurant subscription.
type SubscriptionDTO struct {
	ID           uuid.UUID                `json:"id"`
	RestaurantID uuid.UUID                `json:"restaurantId"`
	PlanKey      string                   `json:"planKey,omitempty"`
	Status       enums.SubscriptionStatus `json:"status"`
	StartsAt     time.Time                `json:"startsAt"`
	EndsAt       time.Time                `json:"endsAt"`
	CreatedAt    time.Time                `json:"createdAt"`
}

// OverrideDTO exposes a manual feature decision.
type OverrideDTO struct {
	RestaurantID uuid.UUID        `json:"restaurantId"`
	FeatureKey   enums.FeatureKey `json:"featureKey"`
	Enabled      bool             `json:"enabled"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// CreateSubscriptionInput captures the data required to attach a plan to a restaurant.
type CreateSubscriptionInput struct {
	PlanKey  string
	Status   enums.SubscriptionStatus
	StartsAt time.Time
	EndsAt   time.Time
}

package restaurants

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/menuflow-backend/internal/availability"
	"github.com/angelmondragon/menuflow-backend/internal/users"
	"github.com/angelmondragon/menuflow-backend/pkg/db/models"
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	"github.com/angelmondragon/menuflow-backend/pkg/types"
	"github.com/google/uuid"
)

// PublicRestaurant is the anonymous view of a restaurant.
type PublicRestaurant struct {
	ID            uuid.UUID                 `json:"id"`
	Name          string                    `json:"name"`
	Slug          string                    `json:"slug"`
	LogoURL       *string                   `json:"logoUrl"`
	CoverImageURL *string                   `json:"coverImageUrl"`
	PhoneNumber   *string                   `json:"phoneNumber"`
	Address       *string                   `json:"address"`
	Currency      CurrencyBlock             `json:"currency"`
	Features      map[enums.FeatureKey]bool `json:"features"`
	Ordering      OrderingBlock             `json:"ordering"`
}

// CurrencyBlock exposes the currency setup and whether BGN is shown right now.
type CurrencyBlock struct {
	Primary          enums.CurrencyCode `json:"primary"`
	SecondaryEnabled bool               `json:"secondaryEnabled"`
	BGNDisabledAt    *time.Time         `json:"bgnDisabledAt"`
	BGNActiveNow     bool               `json:"bgnActiveNow"`
}

// OrderingBlock exposes ordering visibility and the computed availability.
type OrderingBlock struct {
	Visible      bool                         `json:"visible"`
	Timezone     string                       `json:"timezone"`
	Schedule     *availability.WeeklySchedule `json:"schedule"`
	AvailableNow bool                         `json:"availableNow"`
	NextOpenAt   *time.Time                   `json:"nextOpenAt"`
}

// Settings is the owner-editable configuration of a restaurant.
type Settings struct {
	OrderingVisible  bool                         `json:"orderingVisible"`
	OrderingTimezone string                       `json:"orderingTimezone"`
	OrderingSchedule *availability.WeeklySchedule `json:"orderingSchedule"`
	Currency         CurrencySettings             `json:"currency"`
}

// CurrencySettings is the stored currency configuration.
type CurrencySettings struct {
	Primary          enums.CurrencyCode `json:"primary"`
	SecondaryEnabled bool               `json:"secondaryEnabled"`
	BGNDisabledAt    *time.Time         `json:"bgnDisabledAt"`
}

// UpdateSettingsInput carries a partial settings update. A nil
// OrderingSchedule leaves the schedule untouched; the literal null clears it.
type UpdateSettingsInput struct {
	OrderingVisible  *bool           `json:"orderingVisible"`
	OrderingTimezone *string         `json:"orderingTimezone"`
	OrderingSchedule json.RawMessage `json:"orderingSchedule"`
	SecondaryEnabled *bool           `json:"secondaryEnabled"`
	BGNDisabledAt    *time.Time      `json:"bgnDisabledAt"`
}

// Summary is the superadmin listing shape.
type Summary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	LogoURL       *string   `json:"logoUrl"`
	CoverImageURL *string   `json:"coverImageUrl"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UpdateRestaurantInput is the superadmin patch of a restaurant's identity.
type UpdateRestaurantInput struct {
	Name          *string                `json:"name" validate:"omitempty,min=2,max=120"`
	Slug          *string                `json:"slug" validate:"omitempty,min=3,max=80,slug"`
	LogoURL       types.Nullable[string] `json:"logoUrl"`
	CoverImageURL types.Nullable[string] `json:"coverImageUrl"`
}

// CreateWithOwnerInput provisions a restaurant and its first owner.
type CreateWithOwnerInput struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	RestaurantName string `json:"restaurantName" validate:"required,min=2,max=120"`
	Slug           string `json:"slug" validate:"required,min=3,max=80,slug"`
}

// CreateWithOwnerResult is returned after provisioning.
type CreateWithOwnerResult struct {
	Restaurant Summary       `json:"restaurant"`
	Owner      users.UserDTO `json:"owner"`
}

func toSummary(r models.Restaurant) Summary {
	return Summary{
		ID:            r.ID,
		Name:          r.Name,
		Slug:          r.Slug,
		LogoURL:       r.LogoURL,
		CoverImageURL: r.CoverImageURL,
		CreatedAt:     r.CreatedAt,
	}
}

func toSettings(r models.Restaurant) Settings {
	return Settings{
		OrderingVisible:  r.OrderingVisible,
		OrderingTimezone: r.OrderingTimezone,
		OrderingSchedule: availability.FromStored(r.OrderingSchedule),
		Currency: CurrencySettings{
			Primary:          r.CurrencyPrimary,
			SecondaryEnabled: r.CurrencySecondaryEnabled,
			BGNDisabledAt:    r.BGNDisabledAt,
		},
	}
}

package pricing

import "github.com/angelmondragon/menuflow-backend/pkg/db/models"

// FromItem extracts the pricing inputs of a stored menu item.
func FromItem(item models.Item) ItemPrices {
	return ItemPrices{
		PriceEURCents:      item.PriceEURCents,
		PriceBGNCents:      item.PriceBGNCents,
		PromoPriceEURCents: item.PromoPriceEURCents,
		PromoPriceBGNCents: item.PromoPriceBGNCents,
		Promo: PromoWindow{
			StartsAt: item.PromoStartsAt,
			EndsAt:   item.PromoEndsAt,
		},
	}
}

// CurrencyConfigFor extracts the currency setup of a stored restaurant.
func CurrencyConfigFor(restaurant models.Restaurant) CurrencyConfig {
	return CurrencyConfig{
		Primary:             restaurant.CurrencyPrimary,
		SecondaryEnabled:    restaurant.CurrencySecondaryEnabled,
		SecondaryDisabledAt: restaurant.BGNDisabledAt,
	}
}

// Package pricing resolves the price a customer pays for a menu item at a
// given instant, across the primary EUR price, the optional BGN price and a
// time-boxed promotion.
package pricing

import "time"

// PromoWindow is the half-open interval [StartsAt, EndsAt) during which promo
// prices are live. A nil bound is unbounded on that side.
type PromoWindow struct {
	StartsAt *time.Time
	EndsAt   *time.Time
}

// Contains reports whether now falls inside the window.
func (w PromoWindow) Contains(now time.Time) bool {
	if w.StartsAt != nil && now.Before(*w.StartsAt) {
		return false
	}
	if w.EndsAt != nil && !now.Before(*w.EndsAt) {
		return false
	}
	return true
}

// ItemPrices carries the stored prices of one menu item, in cents.
type ItemPrices struct {
	PriceEURCents      int64
	PriceBGNCents      *int64
	PromoPriceEURCents *int64
	PromoPriceBGNCents *int64
	Promo              PromoWindow
}

// Price is the effective unit price in one currency. OriginalCents is set only
// when a promotion replaced the base price.
type Price struct {
	CurrentCents  int64  `json:"currentCents"`
	OriginalCents *int64 `json:"originalCents"`
}

// Prices holds the EUR price and, when exposed, the BGN price.
type Prices struct {
	EUR Price  `json:"EUR"`
	BGN *Price `json:"BGN,omitempty"`
}

// Result is the resolved pricing of an item at one instant.
type Result struct {
	PromoApplied bool       `json:"promoApplied"`
	PromoEndsAt  *time.Time `json:"promoEndsAt"`
	Prices       Prices     `json:"prices"`
}

// ResolveItemPrice computes the effective prices of item at now. One promo
// window governs both currencies, but each currency applies its promo only
// when it has a promo price of its own.
func ResolveItemPrice(item ItemPrices, secondaryActive bool, now time.Time) Result {
	inWindow := item.Promo.Contains(now)

	eur, promoApplied := resolve(item.PriceEURCents, item.PromoPriceEURCents, inWindow)
	result := Result{
		PromoApplied: promoApplied,
		PromoEndsAt:  item.Promo.EndsAt,
		Prices:       Prices{EUR: eur},
	}

	if secondaryActive && item.PriceBGNCents != nil {
		bgn, _ := resolve(*item.PriceBGNCents, item.PromoPriceBGNCents, inWindow)
		result.Prices.BGN = &bgn
	}
	return result
}

func resolve(base int64, promo *int64, inWindow bool) (Price, bool) {
	if promo == nil || !inWindow {
		return Price{CurrentCents: base}, false
	}
	original := base
	return Price{CurrentCents: *promo, OriginalCents: &original}, true
}

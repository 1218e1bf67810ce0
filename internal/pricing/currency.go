package pricing

import (
	"time"

	"github.com/angelmondragon/menuflow-backend/pkg/enums"
)

// CurrencyConfig is a restaurant's currency setup.
type CurrencyConfig struct {
	Primary             enums.CurrencyCode
	SecondaryEnabled    bool
	SecondaryDisabledAt *time.Time
}

// IsSecondaryCurrencyActive reports whether BGN prices are exposed at now.
// SecondaryDisabledAt is a hard cutover: from that instant on the secondary
// currency is hidden even while still enabled.
func IsSecondaryCurrencyActive(cfg CurrencyConfig, now time.Time) bool {
	if !cfg.SecondaryEnabled {
		return false
	}
	return cfg.SecondaryDisabledAt == nil || now.Before(*cfg.SecondaryDisabledAt)
}

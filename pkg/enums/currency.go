package enums

// CurrencyCode identifies the currencies a restaurant can price its menu in.
// EUR is primary; BGN is the optional secondary display currency.
type CurrencyCode string

const (
	CurrencyEUR CurrencyCode = "EUR"
	CurrencyBGN CurrencyCode = "BGN"
)

var currencies = closedSet[CurrencyCode]{label: "currency", values: []CurrencyCode{CurrencyEUR, CurrencyBGN}}

func (c CurrencyCode) String() string { return string(c) }

func (c CurrencyCode) IsValid() bool { return currencies.contains(c) }

func ParseCurrencyCode(value string) (CurrencyCode, error) { return currencies.parse(value) }

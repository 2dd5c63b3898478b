package infobot

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LocalCurrency is the currency every feed rate is quoted in.
const LocalCurrency Currency = "RUB"

// Currency a currency code
type Currency string

// ParseCurrency upper-cases and trims a user supplied currency code.
func ParseCurrency(s string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(s)))
}

// Valute one quoted currency of the daily rates document.
// Value is the price of Nominal units in LocalCurrency.
type Valute struct {
	Code    Currency
	Name    string
	Nominal int64
	Value   decimal.Decimal
}

// UnitRate price of a single unit in LocalCurrency
func (v Valute) UnitRate() decimal.Decimal {
	return v.Value.Div(decimal.NewFromInt(v.Nominal))
}

// RateTable the daily rates document keyed by currency code.
// LocalCurrency is never part of Rates.
type RateTable struct {
	Date  time.Time
	Rates map[Currency]Valute
}

// Exchanged result of a conversion
type Exchanged struct {
	Amount    decimal.Decimal
	Source    Currency
	Target    Currency
	Converted decimal.Decimal
	// CrossRate is the price of one Source unit in Target units
	CrossRate decimal.Decimal
	// Date of the rate table the conversion used
	Date time.Time
}

// Article a news headline as shown to the user
type Article struct {
	Title       string
	URL         string
	SourceName  string
	PublishedAt time.Time
}

package exchange

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"go-infobot"
	"go-infobot/cbr"
)

// Service interface for converting from one currency to another
type Service interface {
	Convert(ctx context.Context, amount decimal.Decimal, from infobot.Currency, to infobot.Currency) (infobot.Exchanged, error)
}

// service converts at today's central bank rates
type service struct {
	// rates source of the daily rate table, fetched on every conversion
	rates cbr.Service
}

// NewService constructs a valid Service
func NewService(s cbr.Service) Service {
	return &service{
		rates: s,
	}
}

// Convert computes a conversion from one currency to another with the current rates.
// Rates are fetched on every call, nothing is cached.
func (s *service) Convert(ctx context.Context, amount decimal.Decimal, from infobot.Currency, to infobot.Currency) (infobot.Exchanged, error) {
	// checked again by Convert, here it saves fetching rates for nothing
	if err := CheckAmount(amount); err != nil {
		return infobot.Exchanged{}, fmt.Errorf("convert: %w", err)
	}

	table, err := s.rates.FetchRates(ctx)
	if err != nil {
		return infobot.Exchanged{}, fmt.Errorf("convert from [%v]: %w", from, err)
	}

	return Convert(amount, from, to, table)
}

// Convert converts amount of from into to using rates.
// LocalCurrency resolves to a unit rate of 1 without a lookup.
func Convert(amount decimal.Decimal, from infobot.Currency, to infobot.Currency, rates infobot.RateTable) (infobot.Exchanged, error) {
	if err := CheckAmount(amount); err != nil {
		return infobot.Exchanged{}, fmt.Errorf("convert: %w", err)
	}
	from = infobot.ParseCurrency(string(from))
	to = infobot.ParseCurrency(string(to))

	fromRate, err := UnitRate(from, rates)
	if err != nil {
		return infobot.Exchanged{}, fmt.Errorf("convert from: %w", err)
	}
	toRate, err := UnitRate(to, rates)
	if err != nil {
		return infobot.Exchanged{}, fmt.Errorf("convert to: %w", err)
	}

	// multiply before dividing so that converting back into a whole amount stays exact
	return infobot.Exchanged{
		Amount:    amount,
		Source:    from,
		Target:    to,
		Converted: amount.Mul(fromRate).Div(toRate),
		CrossRate: fromRate.Div(toRate),
		Date:      rates.Date,
	}, nil
}

// UnitRate returns the price of one unit of currency in LocalCurrency.
func UnitRate(currency infobot.Currency, rates infobot.RateTable) (decimal.Decimal, error) {
	if currency == infobot.LocalCurrency {
		return decimal.NewFromInt(1), nil
	}
	valute, ok := rates.Rates[currency]
	if !ok {
		return decimal.Decimal{}, &infobot.UnknownCurrencyError{Code: currency}
	}
	return valute.UnitRate(), nil
}

package infobot

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseCurrency(t *testing.T) {
	assert.Equal(t, Currency("USD"), ParseCurrency(" usd "))
	assert.Equal(t, Currency("CNY"), ParseCurrency("Cny"))
}

func TestValute_UnitRate(t *testing.T) {
	v := Valute{Code: "KZT", Nominal: 100, Value: decimal.RequireFromString("17.5432")}
	assert.True(t, decimal.RequireFromString("0.175432").Equal(v.UnitRate()))
}

func TestUnknownCurrencyError(t *testing.T) {
	err := fmt.Errorf("convert: %w", &UnknownCurrencyError{Code: "XYZ"})

	assert.True(t, errors.Is(err, ErrUnknownCurrency))
	assert.False(t, errors.Is(err, ErrInvalidAmount))

	var unknown *UnknownCurrencyError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, Currency("XYZ"), unknown.Code)
	assert.Equal(t, "convert: unknown currency: XYZ", err.Error())
}

package infobot

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable the upstream could not be reached or answered with a non-success status.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedDocument the upstream answered but the body could not be parsed.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrUnknownCurrency the currency is neither quoted nor LocalCurrency.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrNoResults the upstream answered with an empty or unsuccessful result set.
	ErrNoResults = errors.New("no results")
	// ErrInvalidAmount the amount is not a positive finite decimal.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidArity the command got the wrong number of arguments.
	ErrInvalidArity = errors.New("invalid number of arguments")
)

// UnknownCurrencyError carries the code that failed to resolve.
type UnknownCurrencyError struct {
	Code Currency
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("%v: %v", ErrUnknownCurrency, e.Code)
}

func (e *UnknownCurrencyError) Is(target error) bool {
	return target == ErrUnknownCurrency
}

package exchange

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"go-infobot"
)

// Request a conversion as typed after the convert command
type Request struct {
	Amount decimal.Decimal
	From   infobot.Currency
	To     infobot.Currency
}

// ParseRequest expects exactly: amount, source code, target code.
// Missing or extra tokens are rejected, never defaulted.
func ParseRequest(args []string) (Request, error) {
	if len(args) != 3 {
		return Request{}, fmt.Errorf("want 3 arguments, got %d: %w", len(args), infobot.ErrInvalidArity)
	}
	amount, err := ParseAmount(args[0])
	if err != nil {
		return Request{}, err
	}
	return Request{
		Amount: amount,
		From:   infobot.ParseCurrency(args[1]),
		To:     infobot.ParseCurrency(args[2]),
	}, nil
}

// Amounts beyond these bounds would make a single conversion allocate
// without limit or overflow inside decimal division.
const (
	maxAmountExponent = 64
	maxAmountDigits   = 64
)

// CheckAmount accepts positive amounts of a sane magnitude. The amount itself
// is never formatted into the error, its string form may be huge.
func CheckAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive: %w", infobot.ErrInvalidAmount)
	}
	exp := amount.Exponent()
	if exp > maxAmountExponent || exp < -maxAmountExponent || amount.NumDigits() > maxAmountDigits {
		return fmt.Errorf("amount out of range: %w", infobot.ErrInvalidAmount)
	}
	return nil
}

// ParseAmount parses a positive decimal, accepting "," as the decimal point.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount %q: %w", s, infobot.ErrInvalidAmount)
	}
	if err := CheckAmount(amount); err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount %q: %w", s, err)
	}
	return amount, nil
}

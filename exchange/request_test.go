package exchange

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-infobot"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]string{"100", "usd", "Rub"})

	require.NoError(t, err)
	assert.True(t, d("100").Equal(req.Amount))
	assert.Equal(t, infobot.Currency("USD"), req.From)
	assert.Equal(t, infobot.Currency("RUB"), req.To)
}

func TestParseRequest_Arity(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"none", nil},
		{"amount only", []string{"100"}},
		{"missing target", []string{"100", "USD"}},
		{"extra token", []string{"100", "USD", "RUB", "EUR"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(tt.args)
			assert.True(t, errors.Is(err, infobot.ErrInvalidArity))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"100", "100", false},
		{"12.5", "12.5", false},
		{"12,5", "12.5", false},
		{"1e3", "1000", false},
		{"0", "", true},
		{"-3", "", true},
		{"abc", "", true},
		{"inf", "", true},
		{"NaN", "", true},
		{"", "", true},
		{"1e64", "1e64", false},
		{"1e-64", "1e-64", false},
		{"1e65", "", true},
		{"1e-65", "", true},
		{"1e2147483600", "", true},
		{"1e2147483647", "", true},
		{strings.Repeat("9", 65), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, infobot.ErrInvalidAmount), "ParseAmount(%q) error = %v", tt.in, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "ParseAmount(%q) = %v", tt.in, got)
		})
	}
}

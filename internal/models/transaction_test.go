package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "plain", raw: "42.50", want: "42.50", ok: true},
		{name: "negative", raw: "-42.50", want: "-42.50", ok: true},
		{name: "surrounding whitespace", raw: "  10.00 ", want: "10.00", ok: true},
		{name: "trailing currency code", raw: "10.50 EUR", want: "10.50", ok: true},
		{name: "leading currency code", raw: "CHF 25.00", want: "25.00", ok: true},
		{name: "swiss thousands separator", raw: "1'234.56", want: "1234.56", ok: true},
		{name: "comma thousands separator", raw: "1,234.56", want: "1234.56", ok: true},
		{name: "integer", raw: "100", want: "100", ok: true},
		{name: "empty", raw: "", ok: false},
		{name: "garbage", raw: "not-a-number", ok: false},
		{name: "lone currency code", raw: "CHF", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				require.True(t, got.Equal(decimal.RequireFromString(tt.want)),
					"got %s want %s", got, tt.want)
			}
		})
	}
}

func TestIsCategorized(t *testing.T) {
	tx := Transaction{Date: "2024-03-01", Description: "MIGROS"}
	assert.False(t, tx.IsCategorized())

	tx.Category = "Groceries"
	assert.False(t, tx.IsCategorized())

	tx.MatchSource = MatchSourceDictionary
	assert.True(t, tx.IsCategorized())
}

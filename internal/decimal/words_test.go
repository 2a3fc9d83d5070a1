package decimal_test

import (
	"strings"
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rezonia/dte-emitter/internal/decimal"
)

func TestToWords(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"0", "CERO DOLARES CON 00/100"},
		{"1", "UN DOLAR CON 00/100"},
		{"1.5", "UN DOLAR CON 50/100"},
		{"15", "QUINCE DOLARES CON 00/100"},
		{"21", "VEINTIUN DOLARES CON 00/100"},
		{"22.60", "VEINTIDOS DOLARES CON 60/100"},
		{"35.07", "TREINTA Y CINCO DOLARES CON 07/100"},
		{"100", "CIEN DOLARES CON 00/100"},
		{"101", "CIENTO UN DOLARES CON 00/100"},
		{"999.99", "NOVECIENTOS NOVENTA Y NUEVE DOLARES CON 99/100"},
		{"1000", "MIL DOLARES CON 00/100"},
		{"1100", "MIL CIEN DOLARES CON 00/100"},
		{"21000", "VEINTIUN MIL DOLARES CON 00/100"},
		{"100000", "CIEN MIL DOLARES CON 00/100"},
		{"1000000", "UN MILLON DOLARES CON 00/100"},
		{"2500000.25", "DOS MILLONES QUINIENTOS MIL DOLARES CON 25/100"},
		{"0.999", "UN DOLAR CON 00/100"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, decimal.ToWords(dec.RequireFromString(tt.amount)))
		})
	}
}

func TestToWords_HundredNeverCiento(t *testing.T) {
	words := decimal.ToWords(dec.NewFromInt(100))
	assert.Contains(t, words, "CIEN")
	assert.NotContains(t, words, "CIENTO")
}

func TestToWords_MillionPrefix(t *testing.T) {
	assert.True(t, strings.HasPrefix(decimal.ToWords(dec.NewFromInt(1000000)), "UN MILLON"))
}

func TestToWords_CentsAlwaysTwoDigits(t *testing.T) {
	for cents := 0; cents < 100; cents++ {
		amount := dec.NewFromInt(7).Add(dec.NewFromInt(int64(cents)).Div(dec.NewFromInt(100)))
		words := decimal.ToWords(amount)
		suffix := words[strings.LastIndex(words, "CON ")+4:]
		assert.Len(t, suffix, len("00/100"), "amount %s rendered %q", amount, words)
	}
}

func TestToWordsWithCurrency(t *testing.T) {
	assert.Equal(t, "UN EURO CON 10/100", decimal.ToWordsWithCurrency(dec.RequireFromString("1.10"), "EURO", "EUROS"))
	assert.Equal(t, "DOS EUROS CON 00/100", decimal.ToWordsWithCurrency(dec.NewFromInt(2), "EURO", "EUROS"))
}

func TestToWords_Negative(t *testing.T) {
	assert.Equal(t, decimal.ToWords(dec.NewFromInt(5)), decimal.ToWords(dec.NewFromInt(-5)))
}

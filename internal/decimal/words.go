package decimal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency nouns used by ToWords
const (
	CurrencySingular = "DOLAR"
	CurrencyPlural   = "DOLARES"
)

var unitWords = [...]string{
	"", "UN", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE",
	"DIEZ", "ONCE", "DOCE", "TRECE", "CATORCE", "QUINCE",
	"DIECISEIS", "DIECISIETE", "DIECIOCHO", "DIECINUEVE", "VEINTE",
}

var tensWords = [...]string{
	"", "", "", "TREINTA", "CUARENTA", "CINCUENTA", "SESENTA", "SETENTA", "OCHENTA", "NOVENTA",
}

var hundredsWords = [...]string{
	"", "CIENTO", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS", "QUINIENTOS",
	"SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS",
}

// ToWords renders a monetary amount as Spanish prose, e.g.
// 22.60 -> "VEINTIDOS DOLARES CON 60/100".
// Negative amounts are rendered by absolute value.
func ToWords(amount decimal.Decimal) string {
	return ToWordsWithCurrency(amount, CurrencySingular, CurrencyPlural)
}

// ToWordsWithCurrency renders an amount with custom currency nouns
func ToWordsWithCurrency(amount decimal.Decimal, singular, plural string) string {
	amount = RoundAggregate(amount.Abs())

	integer := amount.Truncate(0)
	cents := amount.Sub(integer).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	n := integer.IntPart()

	noun := plural
	if n == 1 {
		noun = singular
	}

	return fmt.Sprintf("%s %s CON %02d/100", integerWords(n), noun, cents)
}

func integerWords(n int64) string {
	switch {
	case n == 0:
		return "CERO"
	case n >= 1_000_000:
		millions, rest := n/1_000_000, n%1_000_000
		var prefix string
		if millions == 1 {
			prefix = "UN MILLON"
		} else {
			prefix = integerWords(millions) + " MILLONES"
		}
		if rest == 0 {
			return prefix
		}
		return prefix + " " + integerWords(rest)
	case n >= 1000:
		thousands, rest := n/1000, n%1000
		var prefix string
		if thousands == 1 {
			prefix = "MIL"
		} else {
			prefix = hundreds(thousands) + " MIL"
		}
		if rest == 0 {
			return prefix
		}
		return prefix + " " + hundreds(rest)
	default:
		return hundreds(n)
	}
}

// hundreds renders 1..999
func hundreds(n int64) string {
	if n == 100 {
		return "CIEN"
	}

	parts := make([]string, 0, 2)
	if h := n / 100; h > 0 {
		parts = append(parts, hundredsWords[h])
	}
	if r := n % 100; r > 0 {
		parts = append(parts, tens(r))
	}
	return strings.Join(parts, " ")
}

// tens renders 1..99
func tens(n int64) string {
	switch {
	case n <= 20:
		return unitWords[n]
	case n < 30:
		return "VEINTI" + unitWords[n-20]
	}

	word := tensWords[n/10]
	if u := n % 10; u > 0 {
		return word + " Y " + unitWords[u]
	}
	return word
}

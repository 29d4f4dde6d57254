// Package format renders contract values for display: Brazilian real
// amounts, CPF/CNPJ document numbers and ISO date prefixes.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencySymbol = "R$"

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// Currency formats an optional amount. A nil amount renders as an empty cell.
func Currency(value *float64) string {
	if value == nil {
		return ""
	}
	return CurrencyValue(*value)
}

// CurrencyValue formats v as pt-BR money, e.g. "R$ 1.234,56".
// NaN and infinities render as an empty cell.
func CurrencyValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	sign := ""
	rounded := math.Round(v*100) / 100
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	return sign + currencySymbol + " " + brPrinter.Sprintf("%.2f", rounded)
}

package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brlPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatAmountBRL renders a value with Brazilian punctuation: dots as
// thousands separators, comma as the decimal mark (500000 -> "500.000,00").
func FormatAmountBRL(value float64) string {
	return brlPrinter.Sprintf("%.2f", value)
}

// FormatCurrencyBRL renders a value as Brazilian Real currency.
func FormatCurrencyBRL(value float64) string {
	return "R$ " + FormatAmountBRL(value)
}

// Package format turns raw numbers and timestamps into the display strings
// the dashboard renders.
package format

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is rendered wherever a value is missing or unusable.
const Placeholder = "—"

const (
	DefaultCurrency = "USD"
	DefaultLocale   = "en-US"
)

// Currency formats amount with the currency symbol and exactly two fraction
// digits, e.g. "$1,234.50". Grouping and decimal separators follow the
// locale. So does the symbol position: locales that write the symbol after
// the amount get "1.234,50 €" (no-break space). Unknown currency codes fall
// back to USD and an unusable locale falls back to en-US.
func Currency(amount *float64, code, locale string) string {
	if amount == nil || math.IsNaN(*amount) || math.IsInf(*amount, 0) {
		return Placeholder
	}

	unit, err := currency.ParseISO(code)
	if code == "" || err != nil {
		unit = currency.USD
	}

	tag := parseLocale(locale)
	p := message.NewPrinter(tag)

	v := *amount
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	sym := p.Sprint(currency.Symbol(unit))
	num := p.Sprint(number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	if symbolFollows(tag) {
		return sign + num + "\u00a0" + sym
	}
	return sign + sym + num
}

// symbolFollows reports whether tag's convention puts the currency symbol
// after the amount. x/text does not expose CLDR currency patterns, so this
// covers the common European locales.
func symbolFollows(tag language.Tag) bool {
	base, _ := tag.Base()
	region, _ := tag.Region()
	switch base.String() {
	case "de", "it":
		return region.String() != "CH" && region.String() != "LI"
	case "es":
		return region.String() == "ES"
	case "fr", "pl", "cs", "sk", "sv", "fi", "da", "nb", "ru", "uk", "hu", "ro":
		return true
	}
	return false
}

// CurrencyValue is Currency for a plain float64.
func CurrencyValue(amount float64, code, locale string) string {
	return Currency(&amount, code, locale)
}

func parseLocale(locale string) language.Tag {
	if locale == "" {
		return language.AmericanEnglish
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

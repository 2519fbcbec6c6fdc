package domain

import (
	"maps"
	"slices"
)

// supportedCurrencies is the fixed catalog of trackable currencies with their
// display names. Not every supported currency has to be enabled for tracking.
var supportedCurrencies = map[string]string{
	"AED": "UAE Dirham",
	"ARS": "Argentine Peso",
	"AUD": "Australian Dollar",
	"BGN": "Bulgarian Lev",
	"BRL": "Brazilian Real",
	"CAD": "Canadian Dollar",
	"CHF": "Swiss Franc",
	"CLP": "Chilean Peso",
	"CNY": "Chinese Yuan",
	"COP": "Colombian Peso",
	"CZK": "Czech Koruna",
	"DKK": "Danish Krone",
	"EGP": "Egyptian Pound",
	"EUR": "Euro",
	"GBP": "British Pound",
	"GEL": "Georgian Lari",
	"HKD": "Hong Kong Dollar",
	"HUF": "Hungarian Forint",
	"IDR": "Indonesian Rupiah",
	"ILS": "Israeli Shekel",
	"INR": "Indian Rupee",
	"ISK": "Icelandic Króna",
	"JPY": "Japanese Yen",
	"KRW": "South Korean Won",
	"MXN": "Mexican Peso",
	"MYR": "Malaysian Ringgit",
	"NOK": "Norwegian Krone",
	"NZD": "New Zealand Dollar",
	"PHP": "Philippine Peso",
	"PLN": "Polish Złoty",
	"RON": "Romanian Leu",
	"RUB": "Russian Ruble",
	"SAR": "Saudi Riyal",
	"SEK": "Swedish Krona",
	"SGD": "Singapore Dollar",
	"THB": "Thai Baht",
	"TRY": "Turkish Lira",
	"TWD": "Taiwan Dollar",
	"UAH": "Ukrainian Hryvnia",
	"USD": "US Dollar",
	"ZAR": "South African Rand",
}

// SupportedCurrencies returns a copy of the catalog (code -> display name).
func SupportedCurrencies() map[string]string {
	return maps.Clone(supportedCurrencies)
}

// SupportedCodes returns the catalog codes sorted ascending.
func SupportedCodes() []string {
	codes := slices.Collect(maps.Keys(supportedCurrencies))
	slices.Sort(codes)
	return codes
}

// IsSupported reports whether code belongs to the catalog.
func IsSupported(code string) bool {
	_, ok := supportedCurrencies[code]
	return ok
}

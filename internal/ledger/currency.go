package ledger

import "sort"

type CurrencyDef struct {
	Code string
	Name string
}

var Currencies = map[string]CurrencyDef{
	"LBP": {Code: "LBP", Name: "Lebanese Pound"},
	"USD": {Code: "USD", Name: "US Dollar"},
	"EUR": {Code: "EUR", Name: "Euro"},
	"GBP": {Code: "GBP", Name: "Pound Sterling"},
	"CHF": {Code: "CHF", Name: "Swiss Franc"},
	"AED": {Code: "AED", Name: "UAE Dirham"},
	"SAR": {Code: "SAR", Name: "Saudi Riyal"},
	"KWD": {Code: "KWD", Name: "Kuwaiti Dinar"},
	"QAR": {Code: "QAR", Name: "Qatari Riyal"},
	"EGP": {Code: "EGP", Name: "Egyptian Pound"},
	"JOD": {Code: "JOD", Name: "Jordanian Dinar"},
	"TRY": {Code: "TRY", Name: "Turkish Lira"},
	"CAD": {Code: "CAD", Name: "Canadian Dollar"},
	"AUD": {Code: "AUD", Name: "Australian Dollar"},
	"JPY": {Code: "JPY", Name: "Japanese Yen"},
}

// CurrencyName returns the display name of code, or code itself when unsupported.
func CurrencyName(code string) string {
	if c, ok := Currencies[code]; ok {
		return c.Name
	}
	return code
}

func ValidCurrency(code string) bool {
	_, ok := Currencies[code]
	return ok
}

// CurrencyCodes returns a sorted list of supported currency codes.
func CurrencyCodes() []string {
	codes := make([]string, 0, len(Currencies))
	for code := range Currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

package setup

import (
	"strings"
	"unicode"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/provision"
)

// Args are the answers collected by the setup wizard.
type Args struct {
	CompanyName     string `json:"company_name"`
	CompanyAbbr     string `json:"company_abbr,omitempty"`
	Country         string `json:"country,omitempty"`
	Currency        string `json:"currency,omitempty"`
	ChartOfAccounts string `json:"chart_of_accounts,omitempty"`
	Email           string `json:"email,omitempty"`
}

// Normalize fills the Lebanese defaults: a Lebanese chart forces the country to
// Lebanon and defaults the currency to LBP, and a missing country means Lebanon.
func (a *Args) Normalize() {
	a.CompanyName = strings.TrimSpace(a.CompanyName)
	if chart.IsLebaneseChart(a.ChartOfAccounts) {
		a.Country = provision.LebanonCountry
		if a.Currency == "" {
			a.Currency = provision.LebanonCurrency
		}
	}
	if a.Country == "" {
		a.Country = provision.LebanonCountry
	}
	if a.CompanyAbbr == "" {
		a.CompanyAbbr = Abbreviate(a.CompanyName)
	}
}

// Abbreviate builds a company abbreviation from the initials of its words.
func Abbreviate(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
	}
	return b.String()
}

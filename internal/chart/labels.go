package chart

import (
	"regexp"
	"strings"

	"github.com/simonvc/lbcoa/internal/ledger"
)

const (
	LangEnglish = "en"
	LangArabic  = "ar"
	LangFrench  = "fr"
)

// Labels holds the display names of one account number.
type Labels struct {
	En string `json:"en"`
	Ar string `json:"ar,omitempty"`
	Fr string `json:"fr,omitempty"`
}

// In returns the label for a normalised language code, empty when untranslated.
func (l Labels) In(lang string) string {
	switch lang {
	case LangArabic:
		return l.Ar
	case LangFrench:
		return l.Fr
	default:
		return l.En
	}
}

// LabelIndex maps account numbers to their multilingual labels.
type LabelIndex map[string]Labels

// BuildLabelIndex walks every node of the tree, groups included, and indexes each one
// that carries an account number.
func BuildLabelIndex(tree *Node) LabelIndex {
	idx := make(LabelIndex)
	tree.Walk(func(n, _ *Node) {
		if n.AccountNumber == "" {
			return
		}
		idx[n.AccountNumber] = Labels{
			En: n.EnglishName(),
			Ar: n.ArabicName,
			Fr: n.FrenchName,
		}
	})
	return idx
}

// NormalizeLanguage maps a locale such as "ar-LB" or "fr_FR" onto en, ar or fr.
func NormalizeLanguage(lang string) string {
	lower := strings.ToLower(strings.TrimSpace(lang))
	switch {
	case strings.HasPrefix(lower, LangArabic):
		return LangArabic
	case strings.HasPrefix(lower, LangFrench):
		return LangFrench
	default:
		return LangEnglish
	}
}

var leadingNumber = regexp.MustCompile(`^([\d.]+)\s*-`)

// RecoverAccountNumber returns the stored account number or, for records created before
// numbers were stored consistently, the leading "<number> -" token of the record name.
func RecoverAccountNumber(acct ledger.Account) string {
	if n := strings.TrimSpace(acct.AccountNumber); n != "" {
		return n
	}
	for _, name := range []string{acct.ID, acct.AccountName} {
		if m := leadingNumber.FindStringSubmatch(strings.TrimSpace(name)); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// Label is what the tree view shows for one account.
type Label struct {
	Label   string `json:"label"`
	English string `json:"english"`
}

// ResolveLabel translates an account through the index, falling back to English and then
// to the account's own stored name.
func ResolveLabel(acct ledger.Account, lang string, idx LabelIndex) Label {
	lang = NormalizeLanguage(lang)
	number := RecoverAccountNumber(acct)

	fallback := acct.AccountName
	if fallback == "" {
		fallback = acct.ID
	}

	var selected, english string
	if number != "" {
		if labels, ok := idx[number]; ok {
			selected = labels.In(lang)
			if selected == "" {
				selected = labels.En
			}
			english = labels.En
		}
	}
	if selected == "" {
		selected = fallback
	}
	if english == "" {
		english = fallback
	}

	return Label{
		Label:   ledger.DisplayNumber(number, selected),
		English: ledger.DisplayNumber(number, english),
	}
}

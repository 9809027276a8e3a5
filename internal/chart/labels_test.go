package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/lbcoa/internal/ledger"
)

func TestBuildLabelIndexIncludesGroups(t *testing.T) {
	c, err := Parse([]byte(sampleChart))
	require.NoError(t, err)

	idx := BuildLabelIndex(c.Tree)
	assert.Len(t, idx, 4)
	assert.Equal(t, Labels{En: "Assets"}, idx["1"])
	assert.Equal(t, Labels{En: "Receivables"}, idx["11"])
	assert.Equal(t, Labels{En: "Cash", Ar: "نقد"}, idx["1000.5"])
	assert.Equal(t, Labels{En: "Customers", Fr: "Clients"}, idx["111"])
}

func TestNormalizeLanguage(t *testing.T) {
	cases := map[string]string{
		"":      LangEnglish,
		"en":    LangEnglish,
		"ar":    LangArabic,
		"ar-LB": LangArabic,
		"AR":    LangArabic,
		"fr_FR": LangFrench,
		"de":    LangEnglish,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeLanguage(in), "language %q", in)
	}
}

func TestRecoverAccountNumber(t *testing.T) {
	assert.Equal(t, "4111", RecoverAccountNumber(ledger.Account{AccountNumber: " 4111 ", ID: "9 - X"}))
	assert.Equal(t, "1000.5", RecoverAccountNumber(ledger.Account{ID: "1000.5 - Cash"}))
	assert.Equal(t, "1000.5", RecoverAccountNumber(ledger.Account{ID: "acc-1", AccountName: "1000.5 - Cash"}))
	assert.Equal(t, "", RecoverAccountNumber(ledger.Account{ID: "Cash - LC", AccountName: "Cash"}))
}

func TestResolveLabel(t *testing.T) {
	c, err := Parse([]byte(sampleChart))
	require.NoError(t, err)
	idx := BuildLabelIndex(c.Tree)

	cash := ledger.Account{ID: "1000.5 - Cash - LC", AccountName: "Cash", AccountNumber: "1000.5"}

	got := ResolveLabel(cash, "ar", idx)
	assert.Equal(t, Label{Label: "1000.5 - نقد", English: "1000.5 - Cash"}, got)

	got = ResolveLabel(cash, "fr-FR", idx)
	assert.Equal(t, "1000.5 - Cash", got.Label, "untranslated falls back to English")

	recovered := ledger.Account{ID: "111 - Customers - LC", AccountName: "Customers"}
	got = ResolveLabel(recovered, "fr", idx)
	assert.Equal(t, "111 - Clients", got.Label)
	assert.Equal(t, "111 - Customers", got.English)

	unknown := ledger.Account{ID: "Misc - LC", AccountName: "Misc"}
	got = ResolveLabel(unknown, "ar", idx)
	assert.Equal(t, Label{Label: "Misc", English: "Misc"}, got)

	prefixed := ledger.Account{ID: "x", AccountName: "999 - Legacy", AccountNumber: "999"}
	got = ResolveLabel(prefixed, "en", idx)
	assert.Equal(t, "999 - Legacy", got.Label, "number prefix is not doubled")
}

func TestChildren(t *testing.T) {
	c, err := Parse([]byte(sampleChart))
	require.NoError(t, err)

	roots := Children(c.Tree, AllAccounts)
	require.Len(t, roots, 3)
	assert.Equal(t, TreeNode{Value: "1 - Assets", Expandable: true, Parent: ""}, roots[0])
	assert.Equal(t, TreeNode{Value: "Empty Group", Expandable: false, Parent: ""}, roots[2])

	kids := Children(c.Tree, "1 - Assets")
	require.Len(t, kids, 2)
	assert.Equal(t, TreeNode{Value: "1000.5 - Cash", Expandable: false, Parent: "1 - Assets"}, kids[0])
	assert.Equal(t, TreeNode{Value: "11 - Receivables", Expandable: true, Parent: "1 - Assets"}, kids[1])

	assert.Empty(t, Children(c.Tree, "1000.5 - Cash"))
	assert.Empty(t, Children(c.Tree, "nope"))
}

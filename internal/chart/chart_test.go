package chart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/lbcoa/internal/ledger"
)

const sampleChart = `{
	"name": "Sample",
	"country_code": "LB",
	"tree": {
		"Assets": {
			"root_type": "Asset",
			"account_number": "1",
			"Cash": {"account_number": "1000.5", "account_type": "Cash", "arabic_name": "نقد"},
			"Receivables": {
				"account_number": "11",
				"Customers": {"account_number": "111", "french_name": "Clients"}
			},
			"stray": 42
		},
		"Income": {
			"root_type": "income",
			"is_group": 1
		},
		"Empty Group": {
			"is_group": "0",
			"tax_rate": 11,
			"Ignored": "not an object"
		}
	}
}`

func TestParseKeepsOrderAndMetadata(t *testing.T) {
	c, err := Parse([]byte(sampleChart))
	require.NoError(t, err)

	assert.Equal(t, "Sample", c.Name)
	assert.Equal(t, "lb", c.CountryCode)
	assert.False(t, c.Disabled)

	require.Len(t, c.Tree.Children, 3)
	assert.Equal(t, "Assets", c.Tree.Children[0].Key)
	assert.Equal(t, "Income", c.Tree.Children[1].Key)
	assert.Equal(t, "Empty Group", c.Tree.Children[2].Key)

	assets := c.Tree.Children[0]
	assert.Equal(t, ledger.RootAsset, assets.RootType)
	require.Len(t, assets.Children, 2)
	assert.Equal(t, "Cash", assets.Children[0].Key)
	assert.Equal(t, ledger.TypeCash, assets.Children[0].AccountType)
	assert.Equal(t, "1000.5", assets.Children[0].AccountNumber)
	assert.Equal(t, []string{"stray"}, assets.Stray)

	assert.Equal(t, ledger.RootIncome, c.Tree.Children[1].RootType)
	require.NotNil(t, c.Tree.Children[2].TaxRate)
	assert.Equal(t, "11", c.Tree.Children[2].TaxRate.String())
}

func TestIsGroup(t *testing.T) {
	c, err := Parse([]byte(sampleChart))
	require.NoError(t, err)

	assets := c.Tree.Children[0]
	assert.True(t, assets.IsGroup())
	assert.False(t, assets.Children[0].IsGroup(), "leaf without children")
	assert.True(t, assets.Children[1].IsGroup())
	assert.True(t, c.Tree.Children[1].IsGroup(), "explicit flag without children")
	assert.False(t, c.Tree.Children[2].IsGroup(), "explicit flag wins over stray keys")

	stray := &Node{Key: "x", Stray: []string{"y"}}
	assert.True(t, stray.IsGroup(), "stray keys still make a group")
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte(`{"name": "broken", "tree": `))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)

	_, err = Parse([]byte(`{"name": "no tree"}`))
	assert.ErrorIs(t, err, ErrConfigNotFound)

	_, err = Parse([]byte(`{"tree": {"A": {"root_type": "Revenue"}}}`))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLebaneseChartShape(t *testing.T) {
	c, err := Lebanese.Load()
	require.NoError(t, err)
	assert.Equal(t, LebaneseChartName, c.Name)
	assert.Equal(t, LebaneseCountryCode, c.CountryCode)
	require.Len(t, c.Tree.Children, 8)

	var nodes, groups int
	c.Tree.Walk(func(n, _ *Node) {
		nodes++
		if n.IsGroup() {
			groups++
		}
	})
	assert.Equal(t, 101, nodes)
	assert.Equal(t, 48, groups)

	for _, root := range c.Tree.Children {
		assert.True(t, ledger.ValidRootType(root.RootType), "root %s needs a root type", root.Key)
	}

	idx := BuildLabelIndex(c.Tree)
	for _, number := range []string{"4111", "4011", "5121", "5300", "6263.9", "701", "4426", "4427", "2274", "7819"} {
		_, ok := idx[number]
		assert.True(t, ok, "account %s missing from chart", number)
	}
}

func TestLoaderCachesAndReportsMissing(t *testing.T) {
	calls := 0
	l := NewLoader("test-loader-cache", func() ([]byte, error) {
		calls++
		return []byte(sampleChart), nil
	})
	defer l.Forget()

	first, err := l.Load()
	require.NoError(t, err)
	second, err := l.Load()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)

	missing := NewLoader("test-loader-missing", func() ([]byte, error) {
		return nil, errors.New("no such file")
	})
	_, err = missing.Load()
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestFromEntries(t *testing.T) {
	c := FromEntries(ledger.StandardChartName, ledger.StandardChart)
	require.Len(t, c.Tree.Children, 5)

	assets := c.Tree.Children[0]
	assert.Equal(t, "1000", assets.AccountNumber)
	assert.True(t, assets.IsGroup())
	require.Len(t, assets.Children, 2)
	assert.Equal(t, "Current Assets", assets.Children[0].Key)
}

package chart

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/simonvc/lbcoa/internal/ledger"
)

//go:embed data/lebanese_standard.json
var lebaneseStandardJSON []byte

const (
	LebaneseChartName   = "Lebanese Standard Chart of Accounts"
	LebaneseCountryCode = "lb"
	LebaneseFileName    = "lb_lebanese_standard.json"
)

var ErrConfigNotFound = errors.New("chart configuration not found")

// Chart is a parsed chart-of-accounts document.
type Chart struct {
	Name        string
	CountryCode string
	Disabled    bool
	Tree        *Node
}

type document struct {
	Name        string          `json:"name"`
	CountryCode string          `json:"country_code"`
	Disabled    json.RawMessage `json:"disabled"`
	Tree        json.RawMessage `json:"tree"`
}

// Parse decodes a chart document with a root "tree" object.
func Parse(data []byte) (*Chart, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed chart: %v", ErrConfigNotFound, err)
	}
	if len(doc.Tree) == 0 {
		return nil, fmt.Errorf("%w: chart %q has no tree", ErrConfigNotFound, doc.Name)
	}

	root := &Node{}
	if err := json.Unmarshal(doc.Tree, root); err != nil {
		return nil, fmt.Errorf("%w: malformed tree: %v", ErrConfigNotFound, err)
	}

	disabled := false
	if text, isNull := scalarText(doc.Disabled); !isNull && len(doc.Disabled) > 0 {
		disabled, _ = parseFlag(text)
	}

	return &Chart{
		Name:        doc.Name,
		CountryCode: strings.ToLower(doc.CountryCode),
		Disabled:    disabled,
		Tree:        root,
	}, nil
}

// LebaneseResource returns the raw embedded Lebanese chart document.
func LebaneseResource() []byte {
	return lebaneseStandardJSON
}

// Loader parses a chart resource once and serves it from a process-wide cache.
// Re-population after eviction is harmless: parsing the same bytes yields the same tree.
type Loader struct {
	cache *cache.Cache
	key   string
	read  func() ([]byte, error)
}

var processCache = cache.New(cache.NoExpiration, 0)

// NewLoader builds a loader keyed on key. Loaders sharing a key share the cached tree.
func NewLoader(key string, read func() ([]byte, error)) *Loader {
	return &Loader{cache: processCache, key: key, read: read}
}

// Lebanese is the loader for the embedded Lebanese standard chart.
var Lebanese = NewLoader("lebanese_standard_chart_tree", func() ([]byte, error) {
	return lebaneseStandardJSON, nil
})

// Load returns the cached chart, parsing the resource on first use.
func (l *Loader) Load() (*Chart, error) {
	if cached, ok := l.cache.Get(l.key); ok {
		return cached.(*Chart), nil
	}

	data, err := l.read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigNotFound, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty resource", ErrConfigNotFound)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	l.cache.Set(l.key, c, cache.NoExpiration)
	return c, nil
}

// Forget drops the cached tree so the next Load re-reads the resource.
func (l *Loader) Forget() {
	l.cache.Delete(l.key)
}

// FromEntries builds a chart tree from a flat, parent-linked table.
func FromEntries(name string, entries []ledger.ChartEntry) *Chart {
	root := &Node{}
	byNumber := make(map[string]*Node, len(entries))
	for _, e := range entries {
		group := e.IsGroup
		n := &Node{
			Key:           e.Name,
			AccountNumber: e.Number,
			AccountType:   e.AccountType,
			RootType:      e.RootType,
			Group:         &group,
		}
		byNumber[e.Number] = n

		parent := root
		if p, ok := byNumber[e.Parent]; ok {
			parent = p
		}
		parent.Children = append(parent.Children, n)
	}
	return &Chart{Name: name, Tree: root}
}

package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/simonvc/lbcoa/internal/ledger"
)

// countryCodes maps the country names companies carry to chart country codes.
var countryCodes = map[string]string{
	"lebanon": LebaneseCountryCode,
}

// CountryCode returns the chart country code for a country name, or the lowercased
// input when it already looks like a code.
func CountryCode(country string) string {
	lower := strings.ToLower(strings.TrimSpace(country))
	if code, ok := countryCodes[lower]; ok {
		return code
	}
	return lower
}

// IsLebaneseChart reports whether a chart name denotes a Lebanese chart.
func IsLebaneseChart(name string) bool {
	return strings.Contains(strings.ToLower(name), "lebanese")
}

// Registry resolves chart names to trees. The standard chart is always visible. The
// Lebanese chart and any chart dropped into the unverified directory are only visible
// when the caller allows unverified charts.
type Registry struct {
	unverifiedDir string
	builtin       map[string]*Chart
	lebanese      *Loader
}

func NewRegistry(unverifiedDir string) *Registry {
	standard := FromEntries(ledger.StandardChartName, ledger.StandardChart)
	return &Registry{
		unverifiedDir: unverifiedDir,
		builtin:       map[string]*Chart{standard.Name: standard},
		lebanese:      Lebanese,
	}
}

// Get returns the named chart.
func (r *Registry) Get(name string, allowUnverified bool) (*Chart, error) {
	if c, ok := r.builtin[name]; ok {
		return c, nil
	}
	if allowUnverified {
		if name == LebaneseChartName {
			return r.lebanese.Load()
		}
		charts, err := r.unverified()
		if err != nil {
			return nil, err
		}
		for _, c := range charts {
			if c.Name == name {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ledger.ErrChartNotFound, name)
}

// Names lists the charts offered to a company in country. Charts without a country
// code apply everywhere.
func (r *Registry) Names(country string, allowUnverified bool) ([]string, error) {
	code := CountryCode(country)
	seen := map[string]bool{}
	var names []string
	add := func(c *Chart) {
		if c.Disabled || seen[c.Name] {
			return
		}
		if c.CountryCode != "" && code != "" && c.CountryCode != code {
			return
		}
		seen[c.Name] = true
		names = append(names, c.Name)
	}

	for _, c := range r.builtin {
		add(c)
	}
	if allowUnverified {
		leb, err := r.lebanese.Load()
		if err != nil {
			return nil, err
		}
		add(leb)

		charts, err := r.unverified()
		if err != nil {
			return nil, err
		}
		for _, c := range charts {
			add(c)
		}
	}

	sort.Strings(names)
	return names, nil
}

func (r *Registry) unverified() ([]*Chart, error) {
	if r.unverifiedDir == "" {
		return nil, nil
	}
	paths, err := filepath.Glob(filepath.Join(r.unverifiedDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan unverified charts: %w", err)
	}
	sort.Strings(paths)

	var charts []*Chart
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read chart %s: %w", filepath.Base(p), err)
		}
		c, err := Parse(data)
		if err != nil {
			// A broken file must not hide the others.
			continue
		}
		charts = append(charts, c)
	}
	return charts, nil
}

// PreferLebanese narrows names to the Lebanese charts, or returns names unchanged when
// none is Lebanese.
func PreferLebanese(names []string) []string {
	var lebanese []string
	for _, n := range names {
		if IsLebaneseChart(n) {
			lebanese = append(lebanese, n)
		}
	}
	if len(lebanese) == 0 {
		return names
	}
	return lebanese
}

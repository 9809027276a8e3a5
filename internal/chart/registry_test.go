package chart

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/lbcoa/internal/ledger"
)

func TestRegistryGatesUnverifiedCharts(t *testing.T) {
	r := NewRegistry(t.TempDir())

	_, err := r.Get(LebaneseChartName, false)
	assert.ErrorIs(t, err, ledger.ErrChartNotFound)

	c, err := r.Get(LebaneseChartName, true)
	require.NoError(t, err)
	assert.Equal(t, LebaneseChartName, c.Name)

	std, err := r.Get(ledger.StandardChartName, false)
	require.NoError(t, err)
	assert.Equal(t, ledger.StandardChartName, std.Name)
}

func TestRegistryNamesByCountry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr_plan.json"),
		[]byte(`{"name": "Plan Comptable", "country_code": "fr", "tree": {"A": {"root_type": "Asset"}}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{`), 0o644))
	r := NewRegistry(dir)

	names, err := r.Names("Lebanon", true)
	require.NoError(t, err)
	assert.Equal(t, []string{LebaneseChartName, ledger.StandardChartName}, names)

	names, err = r.Names("Lebanon", false)
	require.NoError(t, err)
	assert.Equal(t, []string{ledger.StandardChartName}, names)

	names, err = r.Names("fr", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Plan Comptable", ledger.StandardChartName}, names)

	c, err := r.Get("Plan Comptable", true)
	require.NoError(t, err)
	assert.Equal(t, "fr", c.CountryCode)
}

func TestInstallBackfillsFields(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "unverified")

	path, err := install(dir, []byte(`{"tree": {"Assets": {"root_type": "Asset", "Cash": {}, "Bank": {}}}}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, LebaneseFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, LebaneseChartName, doc["name"])
	assert.Equal(t, LebaneseCountryCode, doc["country_code"])
	assert.Equal(t, "No", doc["disabled"])

	c, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, c.Tree.Children[0].Children, 2)
	assert.Equal(t, "Cash", c.Tree.Children[0].Children[0].Key, "tree order survives the copy")
}

func TestInstallKeepsExistingFields(t *testing.T) {
	dir := t.TempDir()
	path, err := Install(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	c, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, LebaneseChartName, c.Name)
	assert.False(t, c.Disabled)

	r := NewRegistry(dir)
	names, err := r.Names("Lebanon", true)
	require.NoError(t, err)
	assert.Equal(t, []string{LebaneseChartName, ledger.StandardChartName}, names, "installed copy is not listed twice")
}

func TestPreferLebanese(t *testing.T) {
	assert.Equal(t, []string{LebaneseChartName}, PreferLebanese([]string{LebaneseChartName, "Standard"}))
	assert.Equal(t, []string{"Standard", "Plan Comptable"}, PreferLebanese([]string{"Standard", "Plan Comptable"}))
	assert.Empty(t, PreferLebanese(nil))
}

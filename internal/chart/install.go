package chart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Install copies the Lebanese chart into dir, the directory the host scans for unverified
// charts, back-filling name, country_code and disabled when the resource lacks them.
// It returns the written path.
func Install(dir string) (string, error) {
	return install(dir, lebaneseStandardJSON)
}

func install(dir string, resource []byte) (string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(resource, &doc); err != nil {
		return "", fmt.Errorf("%w: malformed chart: %v", ErrConfigNotFound, err)
	}

	backfill := func(key string, value string) {
		if text, isNull := scalarText(doc[key]); len(doc[key]) == 0 || isNull || text == "" {
			doc[key], _ = json.Marshal(value)
		}
	}
	backfill("name", LebaneseChartName)
	backfill("country_code", LebaneseCountryCode)
	if _, ok := doc["disabled"]; !ok || string(doc["disabled"]) == "null" {
		doc["disabled"], _ = json.Marshal("No")
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode chart: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(dir, LebaneseFileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write chart: %w", err)
	}
	return path, nil
}

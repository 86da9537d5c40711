package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"profitdash/internal/profit"
)

// Decode reads a product line in the format named by ext (".json", else
// YAML). JSON object keys are strings, so tiers go through encoding/json.
func Decode(data []byte, ext string) (profit.ProductLine, error) {
	var line profit.ProductLine
	var err error
	if strings.EqualFold(ext, ".json") {
		err = json.Unmarshal(data, &line)
	} else {
		err = yaml.Unmarshal(data, &line)
	}
	return line, err
}

// LoadFile reads one product line file. A missing name is taken from the
// file name.
func LoadFile(path string) (profit.ProductLine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return profit.ProductLine{}, fmt.Errorf("read %s: %w", path, err)
	}

	line, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return profit.ProductLine{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if line.Name == "" {
		base := filepath.Base(path)
		line.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := Validate(line); err != nil {
		return profit.ProductLine{}, fmt.Errorf("%s: %w", path, err)
	}
	return line, nil
}

var catalogExts = []string{"*.yaml", "*.yml", "*.json"}

// LoadDir loads every .yaml, .yml and .json file in dir.
func LoadDir(dir string) (Static, error) {
	var paths []string
	for _, pattern := range catalogExts {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	lines := make([]profit.ProductLine, 0, len(paths))
	for _, path := range paths {
		line, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return NewStatic(lines...), nil
}

// Marshal encodes a product line as YAML.
func Marshal(line profit.ProductLine) ([]byte, error) {
	data, err := yaml.Marshal(line)
	if err != nil {
		return nil, fmt.Errorf("marshal product line %q: %w", line.Name, err)
	}
	return data, nil
}

package catalog

import (
	"fmt"
	"os"

	"kaamsetu/internal/model"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Categories []model.Category `yaml:"categories"`
	Services   []model.Service  `yaml:"services"`
}

// LoadFile reads a catalog from a YAML file with top-level "categories" and
// "services" lists. Service ids must be unique and positive.
func LoadFile(path string) (Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document
func Parse(data []byte) (Provider, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[int]bool, len(f.Services))
	for _, s := range f.Services {
		if s.ID <= 0 {
			return nil, fmt.Errorf("catalog service %q has invalid id %d", s.Title, s.ID)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate catalog service id %d", s.ID)
		}
		seen[s.ID] = true
	}
	return New(f.Categories, f.Services), nil
}

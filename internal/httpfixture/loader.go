package httpfixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// LoadFile loads rules from a JSON or YAML file, chosen by extension
func LoadFile(path string) (*RuleBasedProvider, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}
	return NewRuleBasedProvider(rules), nil
}

// LoadDir loads every .json, .yaml and .yml file in dir, in name order
func LoadDir(dir string) (*RuleBasedProvider, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture directory: %w", err)
	}

	var all []Rule
	for _, entry := range entries {
		if entry.IsDir() || !isFixtureFile(entry.Name()) {
			continue
		}
		rules, err := loadRules(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		all = append(all, rules...)
	}

	return NewRuleBasedProvider(all), nil
}

// Load loads a fixtures file or directory
func Load(path string) (*RuleBasedProvider, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat fixtures %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

func loadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var set Set
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("failed to parse YAML fixtures %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("failed to parse JSON fixtures %s: %w", path, err)
		}
	}
	return set.Rules, nil
}

func isYAML(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

func isFixtureFile(name string) bool {
	return strings.HasSuffix(name, ".json") || isYAML(name)
}

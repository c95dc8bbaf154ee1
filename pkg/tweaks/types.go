// Package tweaks defines the immutable tweak catalog: named, reversible
// pairs of registry mutations with risk and category metadata.
package tweaks

import (
	"fmt"
	"strings"

	"github.com/ghostytools/wintweak/pkg/registry"
)

// Category classifies a tweak. The set is closed: an unrecognised category
// in a catalog file is a load error, never a silent string.
type Category string

const (
	CategoryPrivacy     Category = "privacy"
	CategoryPerformance Category = "performance"
	CategoryUI          Category = "ui"
	CategorySecurity    Category = "security"
	CategorySystem      Category = "system"
)

var categories = map[string]Category{
	string(CategoryPrivacy):     CategoryPrivacy,
	string(CategoryPerformance): CategoryPerformance,
	string(CategoryUI):          CategoryUI,
	string(CategorySecurity):    CategorySecurity,
	string(CategorySystem):      CategorySystem,
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	cat, ok := categories[strings.ToLower(strings.TrimSpace(string(text)))]
	if !ok {
		return fmt.Errorf("unknown tweak category %q", string(text))
	}
	*c = cat
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) { return []byte(c), nil }

// Display returns a human-readable category name.
func (c Category) Display() string {
	switch c {
	case CategoryUI:
		return "UI"
	default:
		return strings.ToUpper(string(c)[:1]) + string(c)[1:]
	}
}

// Risk is the closed set of risk levels.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

var risks = map[string]Risk{
	string(RiskLow):    RiskLow,
	string(RiskMedium): RiskMedium,
	string(RiskHigh):   RiskHigh,
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Risk) UnmarshalText(text []byte) error {
	risk, ok := risks[strings.ToLower(strings.TrimSpace(string(text)))]
	if !ok {
		return fmt.Errorf("unknown risk level %q", string(text))
	}
	*r = risk
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (r Risk) MarshalText() ([]byte, error) { return []byte(r), nil }

// Mutation is a single registry write: one (key, valueName, data, type)
// quadruple.
type Mutation struct {
	Key       string             `yaml:"key"`
	ValueName string             `yaml:"value_name"`
	Data      string             `yaml:"data"`
	Type      registry.ValueType `yaml:"type"`
}

// Tweak is one catalog entry. Forward and Reverse address the same
// (key, valueName) pairs, differing only in data.
type Tweak struct {
	ID              string     `yaml:"id"`
	Name            string     `yaml:"name"`
	Description     string     `yaml:"description"`
	Category        Category   `yaml:"category"`
	Risk            Risk       `yaml:"risk"`
	RequiresRestart bool       `yaml:"requires_restart"`
	Forward         []Mutation `yaml:"forward"`
	Reverse         []Mutation `yaml:"reverse"`
}

// Keys returns the distinct registry keys the tweak's forward mutations
// touch, in catalog order.
func (t Tweak) Keys() []string {
	seen := make(map[string]struct{}, len(t.Forward))
	var keys []string
	for _, m := range t.Forward {
		k := strings.ToLower(m.Key)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, m.Key)
	}
	return keys
}

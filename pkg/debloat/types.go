// Package debloat detects and removes preinstalled Windows components via
// PowerShell: store apps, OneDrive, telemetry services, optional features.
package debloat

import (
	"fmt"
	"strings"
)

// Category classifies a removable item. The set is closed.
type Category string

const (
	CategoryStoreApps          Category = "store_apps"
	CategoryFeatures           Category = "features"
	CategoryOneDrive           Category = "onedrive"
	CategoryTelemetry          Category = "telemetry"
	CategoryOEM                Category = "oem"
	CategoryServices           Category = "services"
	CategoryOptionalComponents Category = "optional_components"
)

var categories = map[string]Category{
	string(CategoryStoreApps):          CategoryStoreApps,
	string(CategoryFeatures):           CategoryFeatures,
	string(CategoryOneDrive):           CategoryOneDrive,
	string(CategoryTelemetry):          CategoryTelemetry,
	string(CategoryOEM):                CategoryOEM,
	string(CategoryServices):           CategoryServices,
	string(CategoryOptionalComponents): CategoryOptionalComponents,
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	cat, ok := categories[strings.ToLower(strings.TrimSpace(string(text)))]
	if !ok {
		return fmt.Errorf("unknown debloat category %q", string(text))
	}
	*c = cat
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) { return []byte(c), nil }

// Safety grades how risky a removal is.
type Safety string

const (
	SafetySafe     Safety = "safe"
	SafetyModerate Safety = "moderate"
	SafetyRisky    Safety = "risky"
)

var safeties = map[string]Safety{
	string(SafetySafe):     SafetySafe,
	string(SafetyModerate): SafetyModerate,
	string(SafetyRisky):    SafetyRisky,
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Safety) UnmarshalText(text []byte) error {
	level, ok := safeties[strings.ToLower(strings.TrimSpace(string(text)))]
	if !ok {
		return fmt.Errorf("unknown safety level %q", string(text))
	}
	*s = level
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Safety) MarshalText() ([]byte, error) { return []byte(s), nil }

// Item is one removable component. Commands run in order; CheckCommand is a
// PowerShell probe that prints True when the item is present.
type Item struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Category        Category `yaml:"category"`
	Safety          Safety   `yaml:"safety"`
	Commands        []string `yaml:"commands"`
	CheckCommand    string   `yaml:"check_command"`
	RequiresAdmin   bool     `yaml:"requires_admin"`
	RequiresRestart bool     `yaml:"requires_restart"`
}

package tweaks

import (
	_ "embed"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ghostytools/wintweak/pkg/errors"
)

//go:embed embedded/catalog.yaml
var embeddedCatalog []byte

// Catalog is a loaded-once, read-only collection of tweak definitions.
type Catalog struct {
	tweaks []Tweak
	byID   map[string]int
}

type catalogFile struct {
	Tweaks []Tweak `yaml:"tweaks"`
}

// Default loads the embedded catalog. The embedded file is validated at
// build time by the package tests, so a failure here is a programming error.
func Default() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// FromFile loads a user-supplied catalog, replacing the embedded one.
func FromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCatalogLoad, "cannot read catalog file %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, errors.ErrCatalogLoad, "malformed catalog yaml")
	}

	c := &Catalog{
		tweaks: file.Tweaks,
		byID:   make(map[string]int, len(file.Tweaks)),
	}

	for i, tw := range c.tweaks {
		if err := validate(tw); err != nil {
			return nil, err
		}
		if _, dup := c.byID[tw.ID]; dup {
			return nil, errors.Newf(errors.ErrCatalogInvalid, "duplicate tweak id %q", tw.ID)
		}
		c.byID[tw.ID] = i
	}

	return c, nil
}

func validate(tw Tweak) error {
	if tw.ID == "" {
		return errors.New(errors.ErrCatalogInvalid, "tweak with empty id")
	}
	if tw.Name == "" {
		return errors.Newf(errors.ErrCatalogInvalid, "tweak %q has no name", tw.ID)
	}
	if len(tw.Forward) == 0 {
		return errors.Newf(errors.ErrCatalogInvalid, "tweak %q has no forward mutation", tw.ID)
	}
	if len(tw.Reverse) != len(tw.Forward) {
		return errors.Newf(errors.ErrCatalogInvalid,
			"tweak %q has %d forward but %d reverse mutations", tw.ID, len(tw.Forward), len(tw.Reverse))
	}
	for i, fwd := range tw.Forward {
		if fwd.Key == "" {
			return errors.Newf(errors.ErrCatalogInvalid, "tweak %q forward mutation %d has no key", tw.ID, i)
		}
		rev := tw.Reverse[i]
		if !strings.EqualFold(fwd.Key, rev.Key) || !strings.EqualFold(fwd.ValueName, rev.ValueName) {
			return errors.Newf(errors.ErrCatalogInvalid,
				"tweak %q mutation %d: forward and reverse must address the same key and value", tw.ID, i)
		}
	}
	return nil
}

// Get looks up a tweak by id.
func (c *Catalog) Get(id string) (Tweak, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Tweak{}, false
	}
	return c.tweaks[i], true
}

// All returns the tweaks in catalog order. The returned slice is a copy.
func (c *Catalog) All() []Tweak {
	out := make([]Tweak, len(c.tweaks))
	copy(out, c.tweaks)
	return out
}

// Len returns the number of tweaks.
func (c *Catalog) Len() int {
	return len(c.tweaks)
}

package debloat

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ghostytools/wintweak/pkg/errors"
)

//go:embed embedded/catalog.yaml
var embeddedCatalog []byte

// Catalog is a read-only collection of removable items.
type Catalog struct {
	items []Item
	byID  map[string]int
}

type catalogFile struct {
	Items []Item `yaml:"items"`
}

// Default loads the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// FromFile loads a user-supplied catalog, replacing the embedded one.
func FromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCatalogLoad, "cannot read debloat catalog %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, errors.ErrCatalogLoad, "malformed debloat catalog yaml")
	}

	c := &Catalog{
		items: file.Items,
		byID:  make(map[string]int, len(file.Items)),
	}

	for i, item := range c.items {
		if item.ID == "" {
			return nil, errors.New(errors.ErrCatalogInvalid, "debloat item with empty id")
		}
		if item.Name == "" {
			return nil, errors.Newf(errors.ErrCatalogInvalid, "debloat item %q has no name", item.ID)
		}
		if len(item.Commands) == 0 {
			return nil, errors.Newf(errors.ErrCatalogInvalid, "debloat item %q has no commands", item.ID)
		}
		for j, cmd := range item.Commands {
			if cmd == "" {
				return nil, errors.Newf(errors.ErrCatalogInvalid, "debloat item %q command %d is empty", item.ID, j)
			}
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, errors.Newf(errors.ErrCatalogInvalid, "duplicate debloat item id %q", item.ID)
		}
		c.byID[item.ID] = i
	}

	return c, nil
}

// Get looks up an item by id.
func (c *Catalog) Get(id string) (Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// All returns the items in catalog order. The returned slice is a copy.
func (c *Catalog) All() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// ByCategory returns the items in one category, in catalog order.
func (c *Catalog) ByCategory(cat Category) []Item {
	var out []Item
	for _, item := range c.items {
		if item.Category == cat {
			out = append(out, item)
		}
	}
	return out
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

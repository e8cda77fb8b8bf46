package tool

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Catalog holds the tool descriptors keyed by name. It is built once and
// never mutated, so lookups need no locking.
type Catalog struct {
	byName map[string]Descriptor
	order  []Descriptor
}

// NewCatalog validates descs and indexes them by name. Advertised order is
// the order of descs.
func NewCatalog(descs []Descriptor) (*Catalog, error) {
	c := &Catalog{
		byName: make(map[string]Descriptor, len(descs)),
		order:  make([]Descriptor, 0, len(descs)),
	}
	for _, d := range descs {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, ErrEmptyToolName
		}
		if name != d.Name {
			return nil, fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidDescriptor, d.Name)
		}
		if err := checkDescriptor(d); err != nil {
			return nil, err
		}
		if _, exists := c.byName[name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, name)
		}
		c.byName[name] = d
		c.order = append(c.order, d)
	}
	return c, nil
}

func checkDescriptor(d Descriptor) error {
	if d.Endpoint.Method == "" || !strings.HasPrefix(d.Endpoint.Path, "/") {
		return fmt.Errorf("%w: %s: endpoint %s %q", ErrInvalidDescriptor, d.Name, d.Endpoint.Method, d.Endpoint.Path)
	}
	if len(d.InputSchema) == 0 {
		return fmt.Errorf("%w: %s: missing input schema", ErrInvalidDescriptor, d.Name)
	}
	if (d.Auth == AuthArgument) != (d.CredentialArg != "") {
		return fmt.Errorf("%w: %s: credential argument %q with auth mode %s", ErrInvalidDescriptor, d.Name, d.CredentialArg, d.Auth)
	}
	return nil
}

// Lookup returns the descriptor registered under name, or ErrToolNotFound.
func (c *Catalog) Lookup(name string) (Descriptor, error) {
	d, ok := c.byName[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return d, nil
}

// Len returns the number of tools in the catalog.
func (c *Catalog) Len() int { return len(c.order) }

// Descriptors returns the descriptors in advertised order.
func (c *Catalog) Descriptors() []Descriptor {
	return slices.Clone(c.order)
}

// Names returns all tool names sorted alphabetically.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.order))
	for _, d := range c.order {
		names = append(names, d.Name)
	}
	slices.Sort(names)
	return names
}

// Sorted returns the descriptors sorted by name.
func (c *Catalog) Sorted() []Descriptor {
	out := slices.Clone(c.order)
	slices.SortFunc(out, func(a, b Descriptor) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

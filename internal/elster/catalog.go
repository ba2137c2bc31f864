// internal/elster/catalog.go
package elster

import "fmt"

// Catalog is the read-only signal table. Built once at startup and
// shared by reference; lookups never fail, they return the sentinel
// unknown entry instead so pipeline code has no not-found branch.
type Catalog struct {
	byIndex map[uint16]SignalDefinition
	byName  map[string]SignalDefinition
	unknown SignalDefinition
}

// NewCatalog builds a catalog from the loaded definitions.
// Indexes must be unique.
func NewCatalog(defs []SignalDefinition) (*Catalog, error) {
	c := &Catalog{
		byIndex: make(map[uint16]SignalDefinition, len(defs)),
		byName:  make(map[string]SignalDefinition, 2*len(defs)),
		unknown: SignalDefinition{Index: 0, Name: "INDEX_NOT_FOUND", DisplayName: "INDEX_NOT_FOUND", Type: TypeNone},
	}
	for _, d := range defs {
		if d.Index > MaxIndex {
			return nil, fmt.Errorf("elster: signal %q index 0x%X out of range", d.Name, d.Index)
		}
		if prev, dup := c.byIndex[d.Index]; dup {
			return nil, fmt.Errorf("elster: duplicate signal index 0x%X (%q and %q)", d.Index, prev.Name, d.Name)
		}
		c.byIndex[d.Index] = d
		c.byName[d.Name] = d
		if d.DisplayName != "" {
			c.byName[d.DisplayName] = d
		}
	}
	return c, nil
}

// ByIndex returns the definition for an index, or the sentinel entry.
func (c *Catalog) ByIndex(index uint16) SignalDefinition {
	if d, ok := c.byIndex[index]; ok {
		return d
	}
	return c.unknown
}

// ByName looks a signal up by native or display name, or returns the
// sentinel entry.
func (c *Catalog) ByName(name string) SignalDefinition {
	if d, ok := c.byName[name]; ok {
		return d
	}
	return c.unknown
}

// Known reports whether an index has a real catalog entry.
func (c *Catalog) Known(index uint16) bool {
	_, ok := c.byIndex[index]
	return ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.byIndex) }

package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lynq-instruments/lynq-go/pkg/provider"
)

// Catalog errors.
var (
	ErrNotFound             = errors.New("node not found")
	ErrMalformedPath        = errors.New("malformed node path")
	ErrUnsupportedOperation = errors.New("unsupported catalog operation")
)

// Catalog is the flat table of leaf-node metadata, keyed by normalized
// path. Lookups preserve the listing order of the load.
//
// The table itself is not synchronized: Update/UpdateMany racing with
// lookups must be serialized by the caller. Per-entry caches carry their
// own synchronization.
type Catalog struct {
	entries map[string]*Entry
	order   []string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[string]*Entry)}
}

// Load builds a catalog from a provider metadata listing. Every path is
// normalized and reserved-identifier segments are escaped. Listing keys
// are sorted before insertion so the catalog order is reproducible.
func Load(listing map[string]provider.Metadata) (*Catalog, error) {
	c := New()
	for _, path := range sortedKeys(listing) {
		normalized, err := NormalizePath(path)
		if err != nil {
			return nil, err
		}
		entry, err := entryFromMetadata(normalized, listing[path])
		if err != nil {
			return nil, err
		}
		c.insert(entry)
	}
	return c, nil
}

func sortedKeys(listing map[string]provider.Metadata) []string {
	keys := make([]string, 0, len(listing))
	for k := range listing {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Catalog) insert(entry *Entry) {
	if _, exists := c.entries[entry.Path]; !exists {
		c.order = append(c.order, entry.Path)
	}
	c.entries[entry.Path] = entry
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Paths returns all entry paths in catalog order. The returned slice must
// not be modified.
func (c *Catalog) Paths() []string { return c.order }

// LookupExact returns the entry at path, which may be unnormalized.
func (c *Catalog) LookupExact(path string) (*Entry, error) {
	normalized, err := NormalizePath(path)
	if err != nil {
		return nil, err
	}
	entry, ok := c.entries[normalized]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, WirePath(normalized))
	}
	return entry, nil
}

// LookupPattern returns every entry denoted by pattern, in catalog order.
// An empty result is reported as ErrNotFound so callers can tell a missing
// node from a valid pattern with no matches only through that one error.
func (c *Catalog) LookupPattern(pattern string) ([]*Entry, error) {
	normalized, err := NormalizePath(pattern)
	if err != nil {
		return nil, err
	}

	var matches []*Entry
	for _, path := range c.order {
		if Match(normalized, path) {
			matches = append(matches, c.entries[path])
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, WirePath(normalized))
	}
	return matches, nil
}

// HasDescendants reports whether any entry lies strictly below path.
func (c *Catalog) HasDescendants(path string) bool {
	normalized, err := NormalizePath(path)
	if err != nil {
		return false
	}
	for _, key := range c.order {
		if IsDescendant(normalized, key) {
			return true
		}
	}
	return false
}

// Fields is a partial entry for Update. Nil fields are left untouched; a
// non-nil Options replaces the declared options wholesale and resets the
// cached keyword mapping.
type Fields struct {
	Description *string
	Type        *TypeTag
	Properties  *Properties
	Unit        *string
	Options     map[int64]string
	Parser      Parser
}

func (f Fields) apply(e *Entry) {
	if f.Description != nil {
		e.Description = *f.Description
	}
	if f.Type != nil {
		e.Type = *f.Type
	}
	if f.Properties != nil {
		e.Properties = *f.Properties
	}
	if f.Unit != nil {
		e.Unit = *f.Unit
	}
	if f.Options != nil {
		e.Options = f.Options
		e.resetEnum()
	}
	if f.Parser != nil {
		e.Parser = f.Parser
	}
}

// Update merges fields into every entry matched by pattern. When nothing
// matches and add is true, a new entry is inserted, but only for a
// wildcard-free pattern: insertion under a wildcard is disallowed and
// fails with ErrUnsupportedOperation. Without add, a matchless pattern
// fails with ErrNotFound.
func (c *Catalog) Update(pattern string, fields Fields, add bool) error {
	normalized, err := NormalizePath(pattern)
	if err != nil {
		return err
	}

	matches, err := c.LookupPattern(normalized)
	if errors.Is(err, ErrNotFound) {
		if !add {
			return err
		}
		if ContainsWildcard(normalized) {
			return fmt.Errorf("%w: cannot insert under wildcard pattern %s",
				ErrUnsupportedOperation, WirePath(normalized))
		}
		entry := &Entry{Path: normalized}
		fields.apply(entry)
		c.insert(entry)
		return nil
	}
	if err != nil {
		return err
	}

	for _, entry := range matches {
		fields.apply(entry)
	}
	return nil
}

// UpdateMany applies Update for every pattern in updates. Patterns are
// processed in sorted order so repeated calls behave deterministically.
func (c *Catalog) UpdateMany(updates map[string]Fields, add bool) error {
	patterns := make([]string, 0, len(updates))
	for p := range updates {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)

	for _, p := range patterns {
		if err := c.Update(p, updates[p], add); err != nil {
			return err
		}
	}
	return nil
}

// Package catalog holds the flat table of node metadata an instrument
// reports for its parameter tree.
//
// The catalog is loaded once from a provider listing and is read-mostly
// afterwards: the only mutations are the explicit Update/UpdateMany calls,
// which the caller must serialize against concurrent lookups. Paths are
// normalized to lowercase on load, and segments that collide with reserved
// identifiers of the addressing layer are suffixed with the escape marker
// '_'. The escape marker never reaches the wire; WirePath strips it.
//
// Pattern lookups use a segment-aware wildcard matcher: '*' matches exactly
// one path segment and never crosses a '/'. A key that extends below a fully
// matched pattern also counts as a match, so a node prefix resolves to its
// whole subtree.
package catalog

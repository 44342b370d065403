package nodetree

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lynq-instruments/lynq-go/pkg/catalog"
	"github.com/lynq-instruments/lynq-go/pkg/log"
	"github.com/lynq-instruments/lynq-go/pkg/provider"
)

// Tree is the root of the node tree: it owns the metadata catalog, the
// provider connection and the (at most one) active transaction. Nodes are
// lightweight handles into a Tree.
type Tree struct {
	provider provider.Provider
	catalog  *catalog.Catalog
	logger   log.Logger

	// Per-path classification cache. Nodes are ephemeral values, so the
	// call-once cache lives here, keyed by normalized path.
	classMu sync.Mutex
	class   map[string]*nodeInfo

	// At most one transaction may be active per tree.
	txMu sync.Mutex
	tx   *Transaction
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the operation event logger. The default discards events.
func WithLogger(l log.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.logger = l
		}
	}
}

// New connects a Tree to a provider, loading the full metadata catalog in
// one listing call.
func New(ctx context.Context, p provider.Provider, opts ...Option) (*Tree, error) {
	listing, err := p.ListMetadata(ctx, "/*")
	if err != nil {
		return nil, fmt.Errorf("listing node metadata: %w", err)
	}
	c, err := catalog.Load(listing)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return NewWithCatalog(p, c, opts...), nil
}

// NewWithCatalog builds a Tree over an already-loaded catalog.
func NewWithCatalog(p provider.Provider, c *catalog.Catalog, opts ...Option) *Tree {
	t := &Tree{
		provider: p,
		catalog:  c,
		logger:   log.NoopLogger{},
		class:    make(map[string]*nodeInfo),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Root returns the root node.
func (t *Tree) Root() Node {
	return Node{tree: t, path: catalog.Separator}
}

// Node builds a node from an absolute path without consulting the catalog.
// Fails only when the path lacks the leading separator.
func (t *Tree) Node(path string) (Node, error) {
	normalized, err := catalog.NormalizePath(path)
	if err != nil {
		return Node{}, err
	}
	return Node{tree: t, path: catalog.WirePath(normalized)}, nil
}

// Catalog returns the metadata catalog. Mutate it only through
// UpdateCatalog so cached classifications stay consistent.
func (t *Tree) Catalog() *catalog.Catalog { return t.catalog }

// UpdateCatalog merges fields into the entries matched by pattern (see
// catalog.Update) and drops cached node classifications, since an insert
// can turn a Missing node into a Leaf.
func (t *Tree) UpdateCatalog(pattern string, fields catalog.Fields, add bool) error {
	if err := t.catalog.Update(pattern, fields, add); err != nil {
		return err
	}
	t.invalidateClassifications()
	return nil
}

// UpdateCatalogMany applies UpdateCatalog for every pattern in updates.
func (t *Tree) UpdateCatalogMany(updates map[string]catalog.Fields, add bool) error {
	if err := t.catalog.UpdateMany(updates, add); err != nil {
		return err
	}
	t.invalidateClassifications()
	return nil
}

func (t *Tree) invalidateClassifications() {
	t.classMu.Lock()
	defer t.classMu.Unlock()
	t.class = make(map[string]*nodeInfo)
}

// classKind is the catalog classification of a path.
type classKind uint8

const (
	classMissing classKind = iota
	classLeaf
	classPartial
	classWildcard
)

// nodeInfo is the cached classification of one path.
type nodeInfo struct {
	kind    classKind
	entry   *catalog.Entry   // set for classLeaf
	matches []*catalog.Entry // set for classWildcard and classPartial
}

// classify resolves a path against the catalog, computing the result once
// per path.
func (t *Tree) classify(path string) *nodeInfo {
	t.classMu.Lock()
	defer t.classMu.Unlock()

	if info, ok := t.class[path]; ok {
		return info
	}
	info := t.classifyUncached(path)
	t.class[path] = info
	return info
}

func (t *Tree) classifyUncached(path string) *nodeInfo {
	if catalog.ContainsWildcard(path) {
		matches, err := t.catalog.LookupPattern(path)
		if err != nil {
			return &nodeInfo{kind: classMissing}
		}
		return &nodeInfo{kind: classWildcard, matches: matches}
	}

	if entry, err := t.catalog.LookupExact(path); err == nil {
		return &nodeInfo{kind: classLeaf, entry: entry}
	}

	if t.catalog.HasDescendants(path) {
		matches, err := t.catalog.LookupPattern(path)
		if err != nil {
			return &nodeInfo{kind: classMissing}
		}
		return &nodeInfo{kind: classPartial, matches: matches}
	}

	return &nodeInfo{kind: classMissing}
}

// activeTransaction returns the transaction writes must divert into, or
// nil.
func (t *Tree) activeTransaction() *Transaction {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	return t.tx
}

func (t *Tree) releaseTransaction(tx *Transaction) {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	if t.tx == tx {
		t.tx = nil
	}
}

// logEvent stamps and emits an operation event.
func (t *Tree) logEvent(e log.Event) {
	e.Timestamp = time.Now()
	t.logger.Log(e)
}

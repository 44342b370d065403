package nodetree

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lynq-instruments/lynq-go/pkg/catalog"
	"github.com/lynq-instruments/lynq-go/pkg/log"
	"github.com/lynq-instruments/lynq-go/pkg/provider"
)

// Node is an immutable handle on one path of the parameter tree. Nodes are
// built purely from path segments, without consulting the catalog, so a
// Node may denote a leaf, a subtree prefix, a wildcard pattern or nothing
// at all; the distinction is resolved lazily on first use and cached.
//
// Node is a comparable value type: two Nodes of the same Tree with equal
// escape-stripped paths compare equal and may be used as map keys.
type Node struct {
	tree *Tree
	path string
}

// Child appends one path segment. Pure append: no validation, no error.
// The segment is lowercased and escape markers are stripped, so
// Child("range") and Child("range_") denote the same node.
func (n Node) Child(name string) Node {
	seg := catalog.UnescapeSegment(strings.ToLower(name))
	if n.path == catalog.Separator {
		return Node{tree: n.tree, path: catalog.Separator + seg}
	}
	return Node{tree: n.tree, path: n.path + catalog.Separator + seg}
}

// Index appends a numeric segment, used for repeated sibling groups such
// as channels.
func (n Node) Index(i int) Node {
	return n.Child(strconv.Itoa(i))
}

// Wildcard appends the wildcard segment, matching any single sibling.
func (n Node) Wildcard() Node {
	return n.Child(catalog.Wildcard)
}

// Path returns the absolute wire path of the node.
func (n Node) Path() string { return n.path }

// String returns the node path.
func (n Node) String() string { return n.path }

// Tree returns the owning tree.
func (n Node) Tree() *Tree { return n.tree }

// IsValid reports whether the node denotes anything in the catalog: a
// leaf, a subtree prefix, or a wildcard with at least one match.
func (n Node) IsValid() bool {
	return n.tree.classify(n.path).kind != classMissing
}

// Entry returns the catalog entry of a leaf node.
func (n Node) Entry() (*catalog.Entry, error) {
	info := n.tree.classify(n.path)
	switch info.kind {
	case classLeaf:
		return info.entry, nil
	case classMissing:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, n.path)
	default:
		return nil, fmt.Errorf("%w: %s is not a single node", ErrUnsupportedOperation, n.path)
	}
}

// readConfig collects Read options.
type readConfig struct {
	deep        bool
	decodeEnum  bool
	applyParser bool
}

// ReadOption configures a Read.
type ReadOption func(*readConfig)

// Deep requests a synchronous device fetch instead of the session cache.
// For wildcard and partial reads, which are always synchronous, Deep only
// adds per-path timestamps to the result.
func Deep() ReadOption {
	return func(c *readConfig) { c.deep = true }
}

// WithoutEnumDecode leaves enum-valued integers undecoded.
func WithoutEnumDecode() ReadOption {
	return func(c *readConfig) { c.decodeEnum = false }
}

// WithoutParser skips the entry's parser hook.
func WithoutParser() ReadOption {
	return func(c *readConfig) { c.applyParser = false }
}

// Read fetches the node's value.
//
// A leaf read returns one sample: cached by default, synchronous and
// timestamped with Deep(). Wildcard and partial nodes are always fetched
// in one synchronous batched call and yield one sample per resolved node.
// Missing nodes fail with ErrNotFound.
func (n Node) Read(ctx context.Context, opts ...ReadOption) (*ReadResult, error) {
	cfg := readConfig{decodeEnum: true, applyParser: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	info := n.tree.classify(n.path)
	switch info.kind {
	case classMissing:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, n.path)
	case classLeaf:
		return n.readLeaf(ctx, info.entry, cfg)
	default:
		return n.readBatch(ctx, info, cfg)
	}
}

func (n Node) readLeaf(ctx context.Context, entry *catalog.Entry, cfg readConfig) (*ReadResult, error) {
	if !entry.Properties.CanRead() {
		return nil, fmt.Errorf("%w: %s", ErrNotReadable, n.path)
	}

	if cfg.deep {
		start := time.Now()
		samples, err := n.tree.provider.ReadDeep(ctx, n.path, provider.ReadOptions{})
		n.tree.logEvent(log.Event{
			Op: log.OpReadDeep, Path: n.path,
			Duration: time.Since(start), Error: errText(err),
		})
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", n.path, err)
		}
		if len(samples) == 0 {
			return nil, fmt.Errorf("%w: %s returned no sample", ErrNotFound, n.path)
		}
		v, err := valueFromRaw(entry.Type, samples[0].Value)
		if err != nil {
			return nil, err
		}
		v = finishValue(entry, v, cfg)
		return &ReadResult{samples: []Sample{{
			Path: n.path, Value: v, Timestamp: samples[0].Timestamp,
		}}}, nil
	}

	row, err := coercionFor(entry.Type)
	if err != nil {
		return nil, err
	}
	v, err := row.cachedRead(ctx, n.tree.provider, n.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", n.path, err)
	}
	v = finishValue(entry, v, cfg)
	return &ReadResult{samples: []Sample{{Path: n.path, Value: v}}}, nil
}

// readBatch performs the single synchronous fetch serving wildcard and
// partial reads. A partial node is redirected to all of its descendants.
func (n Node) readBatch(ctx context.Context, info *nodeInfo, cfg readConfig) (*ReadResult, error) {
	pattern := n.path
	if info.kind == classPartial {
		pattern = n.Wildcard().path
	}

	start := time.Now()
	raw, err := n.tree.provider.ReadDeep(ctx, pattern, provider.ReadOptions{})
	n.tree.logEvent(log.Event{
		Op: log.OpReadDeep, Path: pattern, Count: len(info.matches),
		Duration: time.Since(start), Error: errText(err),
	})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", resolvedPaths(info.matches), err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s returned no samples", ErrNotFound, resolvedPaths(info.matches))
	}

	samples := make([]Sample, 0, len(raw))
	for _, s := range raw {
		v, err := n.tree.coerceSample(s, cfg)
		if err != nil {
			return nil, err
		}
		sample := Sample{Path: s.Path, Value: v}
		if cfg.deep {
			sample.Timestamp = s.Timestamp
		}
		samples = append(samples, sample)
	}
	return &ReadResult{samples: samples}, nil
}

// coerceSample converts one raw sample by its catalog entry. Paths the
// catalog does not know are coerced by their runtime type so firmware
// nodes newer than the catalog still come through.
func (t *Tree) coerceSample(s provider.DeepSample, cfg readConfig) (Value, error) {
	entry, err := t.catalog.LookupExact(s.Path)
	if err != nil {
		return valueFromAny(s.Value), nil
	}
	v, err := valueFromRaw(entry.Type, s.Value)
	if err != nil {
		return Value{}, err
	}
	return finishValue(entry, v, cfg), nil
}

// finishValue runs the read pipeline tail: the parser hook first, then
// best-effort enum decoding. An integer outside the declared keyword map
// passes through unchanged; the firmware may report values the catalog
// does not document yet.
func finishValue(entry *catalog.Entry, v Value, cfg readConfig) Value {
	if cfg.applyParser && entry.Parser != nil {
		if parsed := valueFromAny(entry.Parser(v.raw())); !parsed.IsZero() {
			v = parsed
		}
	}
	if cfg.decodeEnum {
		if i, ok := v.Int(); ok {
			if kw, found := entry.Enum().Keyword(i); found {
				v = Str(kw)
			}
		}
	}
	return v
}

// Write sets the node's value through the session (no acknowledgement).
//
// Leaf writes require the Write property. A wildcard write fans out to
// every match; a partial node is redirected to all of its descendants,
// which can affect many nodes and should be used deliberately. When a
// transaction is active the write is buffered instead of executed.
// Enum-valued nodes accept the integer or a declared keyword.
func (n Node) Write(ctx context.Context, value Value) error {
	info := n.tree.classify(n.path)
	switch info.kind {
	case classMissing:
		return fmt.Errorf("%w: %s", ErrNotFound, n.path)
	case classLeaf:
		if !info.entry.Properties.CanWrite() {
			return fmt.Errorf("%w: %s", ErrNotWritable, n.path)
		}
		return n.writeEntries(ctx, []*catalog.Entry{info.entry}, value)
	default:
		return n.writeEntries(ctx, info.matches, value)
	}
}

func (n Node) writeEntries(ctx context.Context, entries []*catalog.Entry, value Value) error {
	tx := n.tree.activeTransaction()

	var batch []provider.WriteEntry
	var vectors []provider.WriteEntry
	for _, entry := range entries {
		v, err := encodeKeyword(entry, value)
		if err != nil {
			return err
		}
		wire := catalog.WirePath(entry.Path)
		if entry.Type == catalog.TypeVector {
			if tx != nil {
				return fmt.Errorf("%w: vector write to %s", ErrUnsupportedInTransaction, wire)
			}
			data, ok := v.Bytes()
			if !ok {
				return fmt.Errorf("%w: %s expects a vector, got %s", ErrInvalidValue, wire, v.Kind())
			}
			vectors = append(vectors, provider.WriteEntry{Path: wire, Value: data})
			continue
		}
		batch = append(batch, provider.WriteEntry{Path: wire, Value: v.raw()})
	}

	if tx != nil {
		for _, entry := range batch {
			if err := tx.add(entry); err != nil {
				return err
			}
		}
		n.tree.logEvent(log.Event{
			Op: log.OpWrite, Path: n.path, Kind: value.Kind().String(),
			Count: len(batch), Buffered: true,
		})
		return nil
	}

	for _, entry := range vectors {
		start := time.Now()
		err := n.tree.provider.WriteVector(ctx, entry.Path, entry.Value.([]byte))
		n.tree.logEvent(log.Event{
			Op: log.OpWriteVector, Path: entry.Path,
			Duration: time.Since(start), Error: errText(err),
		})
		if err != nil {
			return fmt.Errorf("writing %s: %w", entry.Path, err)
		}
	}

	if len(batch) == 0 {
		return nil
	}
	start := time.Now()
	err := n.tree.provider.Write(ctx, batch, provider.WriteOptions{})
	n.tree.logEvent(log.Event{
		Op: log.OpWrite, Path: n.path, Kind: value.Kind().String(),
		Value: value.String(), Count: len(batch),
		Duration: time.Since(start), Error: errText(err),
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", resolvedPaths(entries), err)
	}
	return nil
}

// WriteDeep sets a leaf's value synchronously and returns the value the
// instrument acknowledged, which can legitimately differ from the request
// when the hardware quantizes it.
//
// The wire variant is chosen by the runtime kind of value, not by the
// node's type tag: integers, doubles and strings only. Poll-only types
// (DemodSample, DIOSample, AdvisorWave) and vectors refuse before any
// provider call. With a transaction active the write is buffered like a
// plain write and the zero Value is returned; batched commits are always
// device-synchronous.
func (n Node) WriteDeep(ctx context.Context, value Value) (Value, error) {
	info := n.tree.classify(n.path)
	switch info.kind {
	case classMissing:
		return Value{}, fmt.Errorf("%w: %s", ErrNotFound, n.path)
	case classLeaf:
	default:
		return Value{}, fmt.Errorf("%w: synchronous write requires a single node, got %s",
			ErrUnsupportedOperation, n.path)
	}
	entry := info.entry

	if !entry.Properties.CanWrite() {
		return Value{}, fmt.Errorf("%w: %s", ErrNotWritable, n.path)
	}
	switch entry.Type {
	case catalog.TypeDemodSample, catalog.TypeDIOSample, catalog.TypeAdvisorWave:
		return Value{}, fmt.Errorf("%w: %s is poll-only (%s)", ErrUnsupportedForDeepWrite, n.path, entry.Type)
	case catalog.TypeVector:
		return Value{}, fmt.Errorf("%w: %s is a vector node, use Write", ErrUnsupportedForDeepWrite, n.path)
	}

	v, err := encodeKeyword(entry, value)
	if err != nil {
		return Value{}, err
	}

	if tx := n.tree.activeTransaction(); tx != nil {
		if err := tx.add(provider.WriteEntry{Path: n.path, Value: v.raw()}); err != nil {
			return Value{}, err
		}
		n.tree.logEvent(log.Event{
			Op: log.OpWriteDeep, Path: n.path, Kind: v.Kind().String(), Buffered: true,
		})
		return Value{}, nil
	}

	start := time.Now()
	var ack Value
	switch v.Kind() {
	case KindInt64:
		i, _ := v.Int()
		res, werr := n.tree.provider.WriteDeepInt(ctx, n.path, i)
		ack, err = Int(res), werr
	case KindFloat64:
		f, _ := v.Float()
		res, werr := n.tree.provider.WriteDeepDouble(ctx, n.path, f)
		ack, err = Float(res), werr
	case KindString:
		s, _ := v.Str()
		res, werr := n.tree.provider.WriteDeepString(ctx, n.path, s)
		ack, err = Str(res), werr
	default:
		return Value{}, fmt.Errorf("%w: %s value on %s", ErrUnsupportedForDeepWrite, v.Kind(), n.path)
	}

	n.tree.logEvent(log.Event{
		Op: log.OpWriteDeep, Path: n.path, Kind: v.Kind().String(),
		Value: v.String(), Duration: time.Since(start), Error: errText(err),
	})
	if err != nil {
		return Value{}, fmt.Errorf("writing %s: %w", n.path, err)
	}
	return ack, nil
}

// Subscribe registers the node (every match, for wildcard and partial
// nodes) for change notifications.
func (n Node) Subscribe(ctx context.Context) error {
	return n.forEachResolved(ctx, log.OpSubscribe, n.tree.provider.Subscribe)
}

// Unsubscribe removes the node's change subscriptions.
func (n Node) Unsubscribe(ctx context.Context) error {
	return n.forEachResolved(ctx, log.OpUnsubscribe, n.tree.provider.Unsubscribe)
}

func (n Node) forEachResolved(ctx context.Context, op log.Op, call func(context.Context, string) error) error {
	info := n.tree.classify(n.path)
	switch info.kind {
	case classMissing:
		return fmt.Errorf("%w: %s", ErrNotFound, n.path)
	case classLeaf:
		err := call(ctx, n.path)
		n.tree.logEvent(log.Event{Op: op, Path: n.path, Error: errText(err)})
		if err != nil {
			return fmt.Errorf("%s: %w", n.path, err)
		}
		return nil
	default:
		for _, entry := range info.matches {
			wire := catalog.WirePath(entry.Path)
			err := call(ctx, wire)
			n.tree.logEvent(log.Event{Op: op, Path: wire, Error: errText(err)})
			if err != nil {
				return fmt.Errorf("%s: %w", wire, err)
			}
		}
		return nil
	}
}

// ChildNodes enumerates children of the node. All filtering is delegated
// to the provider; this method only forwards the flags.
func (n Node) ChildNodes(ctx context.Context, flags provider.ChildFilter) ([]Node, error) {
	start := time.Now()
	paths, err := n.tree.provider.ListChildren(ctx, n.path, flags)
	n.tree.logEvent(log.Event{
		Op: log.OpListChildren, Path: n.path, Count: len(paths),
		Duration: time.Since(start), Error: errText(err),
	})
	if err != nil {
		return nil, fmt.Errorf("listing children of %s: %w", n.path, err)
	}

	nodes := make([]Node, 0, len(paths))
	for _, p := range paths {
		node, err := n.tree.Node(p)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// encodeKeyword translates a keyword written to an enum-valued node into
// its integer. Unknown keywords are rejected naming the allowed set;
// everything else passes through untouched.
func encodeKeyword(entry *catalog.Entry, v Value) (Value, error) {
	s, ok := v.Str()
	if !ok || entry.Type != catalog.TypeInteger || len(entry.Options) == 0 {
		return v, nil
	}
	if value, found := entry.Enum().Value(s); found {
		return Int(value), nil
	}
	return Value{}, fmt.Errorf("%w: %q is not one of [%s] for %s",
		ErrInvalidValue, s, strings.Join(entry.Enum().Keywords(), ", "), catalog.WirePath(entry.Path))
}

// resolvedPaths renders the concrete wire paths of entries for error
// messages, so wildcard failures name what they resolved to.
func resolvedPaths(entries []*catalog.Entry) string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = catalog.WirePath(e.Path)
	}
	return strings.Join(paths, ", ")
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

package sim

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/lynq-instruments/lynq-go/pkg/catalog"
	"github.com/lynq-instruments/lynq-go/pkg/provider"
)

// Simulator errors.
var (
	ErrNoSuchNode  = errors.New("sim: no such node")
	ErrNotWritable = errors.New("sim: node is not writable")
	ErrWrongType   = errors.New("sim: wrong value type for node")
)

// node is one simulated parameter.
type node struct {
	meta     provider.Metadata
	value    any
	quantize func(float64) float64
}

// Instrument is an in-memory device implementing provider.Provider.
// It is safe for concurrent use.
type Instrument struct {
	serial string

	mu    sync.RWMutex
	nodes map[string]*node
	order []string
	subs  map[string]bool

	tick atomic.Uint64
}

// New creates an empty simulated instrument. An empty serial gets a
// generated one.
func New(serial string) *Instrument {
	if serial == "" {
		serial = "sim-" + uuid.NewString()[:8]
	}
	return &Instrument{
		serial: serial,
		nodes:  make(map[string]*node),
		subs:   make(map[string]bool),
	}
}

// Serial returns the instrument serial.
func (i *Instrument) Serial() string { return i.serial }

// AddNode declares a parameter. The path is lowercased; initial may be
// nil, in which case the type's zero value is used.
func (i *Instrument) AddNode(meta provider.Metadata, initial any) error {
	path := strings.ToLower(meta.Node)
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("sim: path %q lacks leading separator", meta.Node)
	}
	if initial == nil {
		var err error
		initial, err = zeroValue(meta.Type)
		if err != nil {
			return err
		}
	}
	meta.Node = path

	i.mu.Lock()
	defer i.mu.Unlock()
	if _, exists := i.nodes[path]; !exists {
		i.order = append(i.order, path)
	}
	i.nodes[path] = &node{meta: meta, value: initial}
	return nil
}

// SetQuantizer installs a rounding function applied to synchronous double
// writes on path, simulating hardware resolution.
func (i *Instrument) SetQuantizer(path string, q func(float64) float64) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	n, ok := i.nodes[strings.ToLower(path)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchNode, path)
	}
	n.quantize = q
	return nil
}

// Value returns the current raw value of path, for test inspection.
func (i *Instrument) Value(path string) (any, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	n, ok := i.nodes[strings.ToLower(path)]
	if !ok {
		return nil, false
	}
	return n.value, true
}

func zeroValue(typeTag string) (any, error) {
	switch typeTag {
	case provider.TypeInteger:
		return int64(0), nil
	case provider.TypeDouble:
		return float64(0), nil
	case provider.TypeString:
		return "", nil
	case provider.TypeVector:
		return []byte(nil), nil
	case provider.TypeComplexDouble:
		return complex128(0), nil
	case provider.TypeDemodSample:
		return provider.DemodSample{}, nil
	case provider.TypeDIOSample:
		return provider.DIOSample{}, nil
	case provider.TypeAdvisorWave:
		return provider.AdvisorWave{}, nil
	default:
		return nil, fmt.Errorf("sim: unknown type tag %q", typeTag)
	}
}

func (i *Instrument) get(path string) (*node, error) {
	n, ok := i.nodes[strings.ToLower(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchNode, path)
	}
	return n, nil
}

// matching returns the paths denoted by pattern, in declaration order.
func (i *Instrument) matching(pattern string) []string {
	pattern = strings.ToLower(pattern)
	var out []string
	for _, path := range i.order {
		if catalog.Match(pattern, path) {
			out = append(out, path)
		}
	}
	return out
}

// ListMetadata implements provider.Provider.
func (i *Instrument) ListMetadata(_ context.Context, pattern string) (map[string]provider.Metadata, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make(map[string]provider.Metadata)
	for _, path := range i.matching(pattern) {
		out[path] = i.nodes[path].meta
	}
	return out, nil
}

// ReadCachedInt implements provider.Provider.
func (i *Instrument) ReadCachedInt(_ context.Context, path string) (int64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	n, err := i.get(path)
	if err != nil {
		return 0, err
	}
	v, ok := asInt64(n.value)
	if !ok {
		return 0, fmt.Errorf("%w: %s holds %T", ErrWrongType, path, n.value)
	}
	return v, nil
}

// ReadCachedDouble implements provider.Provider.
func (i *Instrument) ReadCachedDouble(_ context.Context, path string) (float64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	n, err := i.get(path)
	if err != nil {
		return 0, err
	}
	v, ok := asFloat64(n.value)
	if !ok {
		return 0, fmt.Errorf("%w: %s holds %T", ErrWrongType, path, n.value)
	}
	return v, nil
}

// ReadCachedString implements provider.Provider.
func (i *Instrument) ReadCachedString(_ context.Context, path string) (string, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	n, err := i.get(path)
	if err != nil {
		return "", err
	}
	v, ok := n.value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s holds %T", ErrWrongType, path, n.value)
	}
	return v, nil
}

// ReadCachedVector implements provider.Provider.
func (i *Instrument) ReadCachedVector(_ context.Context, path string) ([]byte, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	n, err := i.get(path)
	if err != nil {
		return nil, err
	}
	v, ok := n.value.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: %s holds %T", ErrWrongType, path, n.value)
	}
	return v, nil
}

// ReadDeep implements provider.Provider.
func (i *Instrument) ReadDeep(_ context.Context, path string, opts provider.ReadOptions) ([]provider.DeepSample, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	paths := i.matching(path)
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchNode, path)
	}

	samples := make([]provider.DeepSample, 0, len(paths))
	for _, p := range paths {
		n := i.nodes[p]
		if opts.ExcludeVectors && n.meta.Type == provider.TypeVector {
			continue
		}
		samples = append(samples, provider.DeepSample{
			Path:      p,
			Timestamp: i.tick.Add(1),
			Value:     n.value,
		})
	}
	return samples, nil
}

// Write implements provider.Provider. Entries are applied in order.
func (i *Instrument) Write(_ context.Context, entries []provider.WriteEntry, _ provider.WriteOptions) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, e := range entries {
		n, err := i.get(e.Path)
		if err != nil {
			return err
		}
		if !strings.Contains(n.meta.Properties, "Write") {
			return fmt.Errorf("%w: %s", ErrNotWritable, e.Path)
		}
		n.value = coerceStored(n.meta.Type, e.Value)
	}
	return nil
}

// WriteVector implements provider.Provider.
func (i *Instrument) WriteVector(_ context.Context, path string, data []byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	n, err := i.get(path)
	if err != nil {
		return err
	}
	if !strings.Contains(n.meta.Properties, "Write") {
		return fmt.Errorf("%w: %s", ErrNotWritable, path)
	}
	n.value = data
	return nil
}

// WriteDeepInt implements provider.Provider.
func (i *Instrument) WriteDeepInt(_ context.Context, path string, value int64) (int64, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	n, err := i.get(path)
	if err != nil {
		return 0, err
	}
	if !strings.Contains(n.meta.Properties, "Write") {
		return 0, fmt.Errorf("%w: %s", ErrNotWritable, path)
	}
	n.value = value
	return value, nil
}

// WriteDeepDouble implements provider.Provider. A quantizer installed on
// the path rounds the value the way hardware would; the acknowledged
// value is the rounded one.
func (i *Instrument) WriteDeepDouble(_ context.Context, path string, value float64) (float64, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	n, err := i.get(path)
	if err != nil {
		return 0, err
	}
	if !strings.Contains(n.meta.Properties, "Write") {
		return 0, fmt.Errorf("%w: %s", ErrNotWritable, path)
	}
	if n.quantize != nil {
		value = n.quantize(value)
	}
	n.value = value
	return value, nil
}

// WriteDeepString implements provider.Provider.
func (i *Instrument) WriteDeepString(_ context.Context, path string, value string) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	n, err := i.get(path)
	if err != nil {
		return "", err
	}
	if !strings.Contains(n.meta.Properties, "Write") {
		return "", fmt.Errorf("%w: %s", ErrNotWritable, path)
	}
	n.value = value
	return value, nil
}

// Subscribe implements provider.Provider.
func (i *Instrument) Subscribe(_ context.Context, path string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, err := i.get(path); err != nil {
		return err
	}
	i.subs[strings.ToLower(path)] = true
	return nil
}

// Unsubscribe implements provider.Provider.
func (i *Instrument) Unsubscribe(_ context.Context, path string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.subs, strings.ToLower(path))
	return nil
}

// Subscribed reports whether path has an active subscription, for test
// inspection.
func (i *Instrument) Subscribed(path string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.subs[strings.ToLower(path)]
}

// ListChildren implements provider.Provider.
func (i *Instrument) ListChildren(_ context.Context, path string, flags provider.ChildFilter) ([]string, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	prefix := strings.ToLower(strings.TrimSuffix(path, "/"))

	var out []string
	if flags&provider.FilterRecursive != 0 {
		for _, p := range i.order {
			if strings.HasPrefix(p, prefix+"/") || prefix == "" {
				out = append(out, p)
			}
		}
	} else {
		seen := make(map[string]bool)
		for _, p := range i.order {
			if !strings.HasPrefix(p, prefix+"/") {
				continue
			}
			rest := strings.TrimPrefix(p, prefix+"/")
			seg := strings.SplitN(rest, "/", 2)[0]
			child := prefix + "/" + seg
			if !seen[child] {
				seen[child] = true
				out = append(out, child)
			}
		}
	}

	filtered := out[:0]
	for _, p := range out {
		if i.keepChild(p, flags) {
			filtered = append(filtered, p)
		}
	}
	sort.Strings(filtered)
	return filtered, nil
}

func (i *Instrument) keepChild(path string, flags provider.ChildFilter) bool {
	n, ok := i.nodes[path]
	if flags&provider.FilterLeavesOnly != 0 && !ok {
		return false
	}
	if !ok {
		// Intermediate paths carry no metadata, so metadata-based
		// filters exclude them.
		return flags&(provider.FilterSettingsOnly|provider.FilterStreamingOnly|provider.FilterSubscribedOnly) == 0
	}

	streaming := isStreamingType(n.meta.Type)
	switch {
	case flags&provider.FilterSettingsOnly != 0 && !strings.Contains(n.meta.Properties, "Setting"):
		return false
	case flags&provider.FilterStreamingOnly != 0 && !streaming:
		return false
	case flags&provider.FilterExcludeStreaming != 0 && streaming:
		return false
	case flags&provider.FilterExcludeVectors != 0 && n.meta.Type == provider.TypeVector:
		return false
	case flags&provider.FilterSubscribedOnly != 0 && !i.subs[path]:
		return false
	case flags&provider.FilterBaseChannelOnly != 0 && !isBaseChannel(path):
		return false
	}
	return true
}

func isStreamingType(typeTag string) bool {
	switch typeTag {
	case provider.TypeDemodSample, provider.TypeDIOSample, provider.TypeAdvisorWave:
		return true
	default:
		return false
	}
}

// isBaseChannel reports whether every numeric segment of path is zero, so
// repeated sibling groups contribute only their first member.
func isBaseChannel(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if n, err := strconv.Atoi(seg); err == nil && n != 0 {
			return false
		}
	}
	return true
}

// coerceStored nudges written values toward the node's declared type so
// cached reads stay well-typed.
func coerceStored(typeTag string, v any) any {
	switch typeTag {
	case provider.TypeInteger:
		if i, ok := asInt64(v); ok {
			return i
		}
	case provider.TypeDouble:
		if f, ok := asFloat64(v); ok {
			return f
		}
	}
	return v
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		if i, ok := asInt64(v); ok {
			return float64(i), true
		}
		return 0, false
	}
}

// Compile-time interface satisfaction check.
var _ provider.Provider = (*Instrument)(nil)

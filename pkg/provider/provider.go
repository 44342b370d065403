package provider

import "context"

// WriteEntry is a single (path, value) pair in a write call. Paths are
// absolute wire paths (lowercase, no escape markers). Value holds the raw
// wire representation: int64, float64, string, []byte for vectors, or
// complex128.
type WriteEntry struct {
	Path  string
	Value any
}

// DeepSample is one entry of a synchronous read result. Timestamp is the
// instrument clock tick at which the value was captured.
type DeepSample struct {
	Path      string
	Timestamp uint64
	Value     any
}

// ReadOptions control a synchronous read.
type ReadOptions struct {
	// ExcludeVectors skips vector-typed nodes when the path is a pattern.
	ExcludeVectors bool
}

// WriteOptions control a plain write call.
type WriteOptions struct {
	// Synchronous requests that the call return only once the instrument
	// has applied every entry. Batched transaction commits set this.
	Synchronous bool
}

// ChildFilter is a bitmask of flags forwarded to ListChildren. The core
// performs no local filtering; the flags are interpreted by the provider.
type ChildFilter uint16

const (
	// FilterRecursive lists all descendants, not only immediate children.
	FilterRecursive ChildFilter = 1 << iota

	// FilterLeavesOnly lists only paths that carry a metadata entry.
	FilterLeavesOnly

	// FilterSettingsOnly lists only nodes with the Setting property.
	FilterSettingsOnly

	// FilterStreamingOnly lists only streaming (sample-typed) nodes.
	FilterStreamingOnly

	// FilterSubscribedOnly lists only nodes with an active subscription.
	FilterSubscribedOnly

	// FilterBaseChannelOnly lists only the first node of repeated
	// sibling groups.
	FilterBaseChannelOnly

	// FilterExcludeStreaming drops streaming (sample-typed) nodes.
	FilterExcludeStreaming

	// FilterExcludeVectors drops vector-typed nodes.
	FilterExcludeVectors
)

// Provider is the minimum contract the node tree core requires from the
// transport layer. All blocking calls accept a context for cancellation.
type Provider interface {
	// ListMetadata returns the metadata of every node matching pattern,
	// keyed by absolute wire path.
	ListMetadata(ctx context.Context, pattern string) (map[string]Metadata, error)

	// ReadCachedInt returns the session-cached integer value of path.
	ReadCachedInt(ctx context.Context, path string) (int64, error)

	// ReadCachedDouble returns the session-cached double value of path.
	ReadCachedDouble(ctx context.Context, path string) (float64, error)

	// ReadCachedString returns the session-cached string value of path.
	ReadCachedString(ctx context.Context, path string) (string, error)

	// ReadCachedVector returns the vector payload of path. Vector reads
	// always take the synchronous path internally.
	ReadCachedVector(ctx context.Context, path string) ([]byte, error)

	// ReadDeep performs a synchronous read of path, which may be a
	// pattern. The result preserves the instrument's ordering.
	ReadDeep(ctx context.Context, path string, opts ReadOptions) ([]DeepSample, error)

	// Write applies the entries in order. A transaction commit arrives
	// as a single Write call carrying the whole buffer.
	Write(ctx context.Context, entries []WriteEntry, opts WriteOptions) error

	// WriteVector transfers a vector payload to path.
	WriteVector(ctx context.Context, path string, data []byte) error

	// WriteDeepInt writes value synchronously and returns the value the
	// instrument acknowledged, which may differ from the requested one.
	WriteDeepInt(ctx context.Context, path string, value int64) (int64, error)

	// WriteDeepDouble writes value synchronously and returns the
	// acknowledged value.
	WriteDeepDouble(ctx context.Context, path string, value float64) (float64, error)

	// WriteDeepString writes value synchronously and returns the
	// acknowledged value.
	WriteDeepString(ctx context.Context, path string, value string) (string, error)

	// Subscribe registers path for change notifications.
	Subscribe(ctx context.Context, path string) error

	// Unsubscribe removes the subscription for path.
	Unsubscribe(ctx context.Context, path string) error

	// ListChildren enumerates child paths of path honoring flags.
	ListChildren(ctx context.Context, path string, flags ChildFilter) ([]string, error)
}

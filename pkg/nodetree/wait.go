package nodetree

import (
	"context"
	"fmt"
	"time"

	"github.com/lynq-instruments/lynq-go/pkg/catalog"
	"github.com/lynq-instruments/lynq-go/pkg/log"
)

// Wait defaults.
const (
	// DefaultWaitTimeout bounds a WaitForStateChange call.
	DefaultWaitTimeout = 2 * time.Second

	// DefaultPollInterval is the pause between cached polls.
	DefaultPollInterval = 5 * time.Millisecond
)

// waitConfig collects WaitForStateChange options.
type waitConfig struct {
	invert  bool
	timeout time.Duration
	poll    time.Duration
}

// WaitOption configures a WaitForStateChange.
type WaitOption func(*waitConfig)

// Invert waits for the value to become anything but the expected one.
func Invert() WaitOption {
	return func(c *waitConfig) { c.invert = true }
}

// WithTimeout overrides the default wait bound.
func WithTimeout(d time.Duration) WaitOption {
	return func(c *waitConfig) { c.timeout = d }
}

// WithPollInterval overrides the pause between polls.
func WithPollInterval(d time.Duration) WaitOption {
	return func(c *waitConfig) { c.poll = d }
}

// WaitForStateChange blocks until the node's value equals expected (or,
// with Invert, stops equaling it) or the timeout elapses.
//
// The first read is synchronous so a stale cached value cannot satisfy
// the wait; subsequent polls are cheap cached reads. expected may be a
// declared keyword, translated through the node's enum mapping before
// comparison. On a wildcard or partial node the wait fans out to every
// match, each bounded by the remaining time budget. Any error during
// polling propagates immediately; only expiry yields ErrTimeout, naming
// the resolved path and both values (as keywords where declared).
func (n Node) WaitForStateChange(ctx context.Context, expected Value, opts ...WaitOption) error {
	cfg := waitConfig{timeout: DefaultWaitTimeout, poll: DefaultPollInterval}
	for _, opt := range opts {
		opt(&cfg)
	}
	deadline := time.Now().Add(cfg.timeout)

	info := n.tree.classify(n.path)
	switch info.kind {
	case classMissing:
		return fmt.Errorf("%w: %s", ErrNotFound, n.path)
	case classLeaf:
		return n.waitLeaf(ctx, info.entry, expected, cfg, deadline)
	default:
		for _, entry := range info.matches {
			node := Node{tree: n.tree, path: catalog.WirePath(entry.Path)}
			if err := node.waitLeaf(ctx, entry, expected, cfg, deadline); err != nil {
				return err
			}
		}
		return nil
	}
}

func (n Node) waitLeaf(ctx context.Context, entry *catalog.Entry, expected Value, cfg waitConfig, deadline time.Time) error {
	want, err := encodeKeyword(entry, expected)
	if err != nil {
		return err
	}
	reached := func(v Value) bool { return v.Equal(want) != cfg.invert }

	start := time.Now()
	// One synchronous read first so the wait never acts on a stale
	// cached value.
	observed, err := n.readRaw(ctx, true)
	if err != nil {
		return err
	}

	for !reached(observed) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			n.tree.logEvent(log.Event{
				Op: log.OpWait, Path: n.path, Value: renderValue(entry, want),
				Duration: time.Since(start), Error: ErrTimeout.Error(),
			})
			not := ""
			if cfg.invert {
				not = "anything but "
			}
			return fmt.Errorf("%w: %s expected %s%s, last observed %s",
				ErrTimeout, n.path, not, renderValue(entry, want), renderValue(entry, observed))
		}

		pause := cfg.poll
		if pause > remaining {
			pause = remaining
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}

		observed, err = n.readRaw(ctx, false)
		if err != nil {
			return err
		}
	}

	n.tree.logEvent(log.Event{
		Op: log.OpWait, Path: n.path, Value: renderValue(entry, want),
		Duration: time.Since(start),
	})
	return nil
}

// readRaw reads the leaf without enum decoding so polls compare wire
// values directly.
func (n Node) readRaw(ctx context.Context, deep bool) (Value, error) {
	opts := []ReadOption{WithoutEnumDecode()}
	if deep {
		opts = append(opts, Deep())
	}
	res, err := n.Read(ctx, opts...)
	if err != nil {
		return Value{}, err
	}
	return res.Value(), nil
}

// renderValue shows a value as its declared keyword when one exists.
func renderValue(entry *catalog.Entry, v Value) string {
	if i, ok := v.Int(); ok {
		if kw, found := entry.Enum().Keyword(i); found {
			return kw
		}
	}
	return v.String()
}

package log

import "time"

// Event records one instrument-facing operation.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Op is the operation kind.
	Op Op `cbor:"2,keyasint"`

	// Path is the resolved node path or pattern the operation targeted.
	Path string `cbor:"3,keyasint"`

	// Kind names the value kind involved, if any.
	Kind string `cbor:"4,keyasint,omitempty"`

	// Value is the rendered value written or observed, if any.
	Value string `cbor:"5,keyasint,omitempty"`

	// Count is the number of matches or batch entries involved.
	Count int `cbor:"6,keyasint,omitempty"`

	// Duration is how long the operation took.
	Duration time.Duration `cbor:"7,keyasint,omitempty"`

	// Buffered indicates the write was diverted into a transaction
	// instead of being executed.
	Buffered bool `cbor:"8,keyasint,omitempty"`

	// Error is the error message when the operation failed.
	Error string `cbor:"9,keyasint,omitempty"`
}

// Op classifies the operation.
type Op uint8

const (
	// OpRead is a cached single-node read.
	OpRead Op = iota

	// OpReadDeep is a synchronous read, including batched pattern reads.
	OpReadDeep

	// OpWrite is a plain write.
	OpWrite

	// OpWriteDeep is a synchronous write returning the acknowledged value.
	OpWriteDeep

	// OpWriteVector is a bulk vector transfer.
	OpWriteVector

	// OpCommit is a transaction commit.
	OpCommit

	// OpWait is a wait-for-value poll loop.
	OpWait

	// OpSubscribe registers a change subscription.
	OpSubscribe

	// OpUnsubscribe removes a change subscription.
	OpUnsubscribe

	// OpListChildren enumerates child nodes.
	OpListChildren
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpRead:
		return "READ"
	case OpReadDeep:
		return "READ_DEEP"
	case OpWrite:
		return "WRITE"
	case OpWriteDeep:
		return "WRITE_DEEP"
	case OpWriteVector:
		return "WRITE_VECTOR"
	case OpCommit:
		return "COMMIT"
	case OpWait:
		return "WAIT"
	case OpSubscribe:
		return "SUBSCRIBE"
	case OpUnsubscribe:
		return "UNSUBSCRIBE"
	case OpListChildren:
		return "LIST_CHILDREN"
	default:
		return "UNKNOWN"
	}
}

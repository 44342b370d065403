package nodetree

import (
	"errors"

	"github.com/lynq-instruments/lynq-go/pkg/catalog"
)

// Errors shared with the catalog so errors.Is works across the module.
var (
	ErrNotFound             = catalog.ErrNotFound
	ErrMalformedPath        = catalog.ErrMalformedPath
	ErrUnsupportedOperation = catalog.ErrUnsupportedOperation
)

// Node operation errors.
var (
	// ErrNotReadable is returned when a node lacks the Read property.
	ErrNotReadable = errors.New("node is not readable")

	// ErrNotWritable is returned when a node lacks the Write property.
	ErrNotWritable = errors.New("node is not writable")

	// ErrInvalidValue is returned when a value falls outside a node's
	// declared keyword set.
	ErrInvalidValue = errors.New("invalid value for node")

	// ErrUnsupportedForDeepWrite is returned for poll-only node types
	// and non-scalar values under a synchronous write.
	ErrUnsupportedForDeepWrite = errors.New("synchronous write not supported")

	// ErrTimeout is returned when a wait exceeds its bound.
	ErrTimeout = errors.New("timeout waiting for node value")
)

// Transaction errors.
var (
	// ErrTransactionAlreadyActive is returned when a transaction is
	// begun while another is active on the same tree.
	ErrTransactionAlreadyActive = errors.New("transaction already active")

	// ErrNoActiveTransaction is returned when a buffered operation is
	// attempted without an active transaction.
	ErrNoActiveTransaction = errors.New("no active transaction")

	// ErrUnsupportedInTransaction is returned for writes that cannot be
	// buffered, e.g. vector transfers.
	ErrUnsupportedInTransaction = errors.New("operation not supported inside a transaction")
)

package nodetree

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lynq-instruments/lynq-go/pkg/log"
	"github.com/lynq-instruments/lynq-go/pkg/provider"
)

// Transaction buffers writes issued through Nodes and commits them as one
// ordered batch. At most one transaction is active per Tree; this is
// enforced, not merely documented.
//
// Entries are applied in insertion order on commit. Order matters:
// device-side parameter interactions, such as enabling a mode before
// configuring its children, depend on it.
type Transaction struct {
	tree *Tree

	mu     sync.Mutex
	active bool
	buffer []provider.WriteEntry
}

// BeginTransaction starts a transaction. Writes issued through this
// tree's nodes are buffered until Commit. Beginning a second transaction
// while one is active fails with ErrTransactionAlreadyActive and leaves
// the active one untouched.
func (t *Tree) BeginTransaction() (*Transaction, error) {
	t.txMu.Lock()
	defer t.txMu.Unlock()

	if t.tx != nil {
		return nil, ErrTransactionAlreadyActive
	}
	tx := &Transaction{tree: t, active: true}
	t.tx = tx
	return tx, nil
}

// Active reports whether the transaction still accepts writes.
func (tx *Transaction) Active() bool {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.active
}

// Len returns the number of buffered entries.
func (tx *Transaction) Len() int {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return len(tx.buffer)
}

// Entries returns a copy of the buffered entries in insertion order.
func (tx *Transaction) Entries() []provider.WriteEntry {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	out := make([]provider.WriteEntry, len(tx.buffer))
	copy(out, tx.buffer)
	return out
}

// add appends one entry. Values are buffered exactly as resolved by the
// issuing write; nothing is deduplicated or reordered.
func (tx *Transaction) add(entry provider.WriteEntry) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	if !tx.active {
		return ErrNoActiveTransaction
	}
	tx.buffer = append(tx.buffer, entry)
	return nil
}

// Commit sends the buffered entries as exactly one synchronous batched
// write and deactivates the transaction. Deactivation happens even when
// the write fails; a failed commit is not retried. Committing an already
// committed transaction fails with ErrNoActiveTransaction.
func (tx *Transaction) Commit(ctx context.Context) error {
	tx.mu.Lock()
	if !tx.active {
		tx.mu.Unlock()
		return ErrNoActiveTransaction
	}
	tx.active = false
	entries := tx.buffer
	tx.buffer = nil
	tx.mu.Unlock()

	// Release the tree's transaction slot before the provider call so a
	// failed commit cannot wedge future transactions.
	tx.tree.releaseTransaction(tx)

	if len(entries) == 0 {
		return nil
	}

	start := time.Now()
	err := tx.tree.provider.Write(ctx, entries, provider.WriteOptions{Synchronous: true})
	tx.tree.logEvent(log.Event{
		Op: log.OpCommit, Path: entries[0].Path, Count: len(entries),
		Duration: time.Since(start), Error: errText(err),
	})
	if err != nil {
		return fmt.Errorf("committing %d entries: %w", len(entries), err)
	}
	return nil
}

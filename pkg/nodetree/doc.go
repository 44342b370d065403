// Package nodetree is the client-side abstraction over an instrument's
// hierarchical parameter store.
//
// Every controllable or readable quantity on the instrument is a
// slash-delimited path. A Tree owns the metadata catalog and the provider
// connection; Nodes are cheap immutable handles built purely from path
// segments:
//
//	tree, _ := nodetree.New(ctx, p)
//	trigger := tree.Root().Child("dev").Child("demods").Index(0).Child("trigger")
//	_ = trigger.Write(ctx, nodetree.Str("edge"))
//	res, _ := trigger.Read(ctx)        // Str("edge")
//
// Building a Node never validates it. On first use the path is classified
// against the catalog as a leaf, a subtree prefix (partial node), a
// wildcard pattern, or missing; the classification is cached. Wildcard and
// partial reads and writes fan out to every resolved node.
//
// Values are a tagged union (Value) of the eight wire kinds. Enum-valued
// integer nodes decode to their declared keyword on read and accept either
// form on write; unrecognized integers pass through reads unchanged while
// unrecognized keywords fail a write.
//
// # Transactions
//
// A transaction diverts writes into an ordered buffer committed as one
// batched call:
//
//	tx, _ := tree.BeginTransaction()
//	_ = enable.Write(ctx, nodetree.Int(1))
//	_ = rate.Write(ctx, nodetree.Float(1674))
//	_ = tx.Commit(ctx)
//
// The core spawns no goroutines; blocking operations (synchronous reads
// and writes, batched fan-outs, WaitForStateChange) run on the caller's
// goroutine and honor the passed context.
package nodetree

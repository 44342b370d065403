// Package examples provides reference instrument profiles demonstrating
// how to drive the node tree against a simulated device.
//
// The profiles show:
//   - Fixture construction (node paths, type tags, properties, enums)
//   - Connecting a node tree to a provider
//   - Typical settings round trips (keywords, transactions, waits)
//
// Available profiles:
//   - LockInAmplifier: demodulators, oscillators and signal inputs
//   - Scope: acquisition channels with vector wave nodes
//
// These profiles can serve as templates for fixtures of real instruments.
package examples

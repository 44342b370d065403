// Package provider defines the boundary between the node tree core and the
// transport/session layer that talks to an instrument.
//
// The core never performs network I/O itself. Everything that crosses the
// wire goes through the Provider interface: metadata listings, cached and
// synchronous (deep) reads, plain and synchronous writes, vector transfers,
// subscriptions, and child enumeration. Implementations are expected to be
// safe for concurrent use.
//
// The package also carries the wire-level value structures (DemodSample,
// DIOSample, AdvisorWave) and the metadata JSON schema the instrument
// reports for each leaf node.
package provider

// Package sim provides an in-memory simulated instrument implementing the
// provider contract.
//
// The simulator backs tests, examples and offline development: it holds a
// flat node table (loadable from a YAML fixture), serves cached and
// synchronous reads with monotonically ticking timestamps, applies writes
// in order, and can quantize synchronous writes the way real hardware
// rounds requested values to its resolution. Vector payloads use a CBOR
// array encoding; see EncodeVector and DecodeVector.
package sim

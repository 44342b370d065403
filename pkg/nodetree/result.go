package nodetree

// Sample is one (path, value) element of a read result. Timestamp is the
// instrument clock tick of the capture and is zero for cached reads and
// for batched reads performed without Deep().
type Sample struct {
	Path      string
	Value     Value
	Timestamp uint64
}

// ReadResult holds the outcome of a Read. A leaf read yields exactly one
// sample; wildcard and partial reads yield one sample per resolved node,
// in the order the instrument reported them.
type ReadResult struct {
	samples []Sample
}

// Value returns the first (for a leaf read: the only) value.
func (r *ReadResult) Value() Value {
	if len(r.samples) == 0 {
		return Value{}
	}
	return r.samples[0].Value
}

// Timestamp returns the first sample's timestamp.
func (r *ReadResult) Timestamp() uint64 {
	if len(r.samples) == 0 {
		return 0
	}
	return r.samples[0].Timestamp
}

// Len returns the number of samples.
func (r *ReadResult) Len() int { return len(r.samples) }

// Samples returns all samples in instrument order. The returned slice must
// not be modified.
func (r *ReadResult) Samples() []Sample { return r.samples }

// At returns the value read for path.
func (r *ReadResult) At(path string) (Value, bool) {
	for _, s := range r.samples {
		if s.Path == path {
			return s.Value, true
		}
	}
	return Value{}, false
}

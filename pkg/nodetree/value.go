package nodetree

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"

	"github.com/lynq-instruments/lynq-go/pkg/catalog"
	"github.com/lynq-instruments/lynq-go/pkg/provider"
)

// Kind identifies the runtime payload of a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt64
	KindFloat64
	KindString
	KindVector
	KindComplex
	KindDemodSample
	KindDIOSample
	KindAdvisorWave
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInt64:
		return "Int64"
	case KindFloat64:
		return "Float64"
	case KindString:
		return "String"
	case KindVector:
		return "Vector"
	case KindComplex:
		return "Complex"
	case KindDemodSample:
		return "DemodSample"
	case KindDIOSample:
		return "DIOSample"
	case KindAdvisorWave:
		return "AdvisorWave"
	default:
		return "Invalid"
	}
}

// Value is the tagged union of everything a node can carry. The zero Value
// has KindInvalid. Values are immutable.
type Value struct {
	kind   Kind
	i      int64
	f      float64
	s      string
	b      []byte
	c      complex128
	sample any
}

// Int returns an integer Value.
func Int(v int64) Value { return Value{kind: KindInt64, i: v} }

// Float returns a double Value.
func Float(v float64) Value { return Value{kind: KindFloat64, f: v} }

// Str returns a string Value.
func Str(v string) Value { return Value{kind: KindString, s: v} }

// Vector returns a vector Value wrapping the raw payload bytes.
func Vector(data []byte) Value { return Value{kind: KindVector, b: data} }

// Complex returns a complex Value.
func Complex(v complex128) Value { return Value{kind: KindComplex, c: v} }

// Demod wraps a demodulator sample.
func Demod(s provider.DemodSample) Value { return Value{kind: KindDemodSample, sample: s} }

// DIO wraps a digital I/O sample.
func DIO(s provider.DIOSample) Value { return Value{kind: KindDIOSample, sample: s} }

// Wave wraps an advisor wave.
func Wave(w provider.AdvisorWave) Value { return Value{kind: KindAdvisorWave, sample: w} }

// Kind returns the runtime kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether the value is the invalid zero Value.
func (v Value) IsZero() bool { return v.kind == KindInvalid }

// Int returns the integer payload.
func (v Value) Int() (int64, bool) {
	if v.kind != KindInt64 {
		return 0, false
	}
	return v.i, true
}

// Float returns the double payload.
func (v Value) Float() (float64, bool) {
	if v.kind != KindFloat64 {
		return 0, false
	}
	return v.f, true
}

// Str returns the string payload.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Bytes returns the vector payload.
func (v Value) Bytes() ([]byte, bool) {
	if v.kind != KindVector {
		return nil, false
	}
	return v.b, true
}

// Complex returns the complex payload.
func (v Value) Complex() (complex128, bool) {
	if v.kind != KindComplex {
		return 0, false
	}
	return v.c, true
}

// DemodSample returns the demodulator sample payload.
func (v Value) DemodSample() (provider.DemodSample, bool) {
	s, ok := v.sample.(provider.DemodSample)
	return s, ok && v.kind == KindDemodSample
}

// DIOSample returns the digital I/O sample payload.
func (v Value) DIOSample() (provider.DIOSample, bool) {
	s, ok := v.sample.(provider.DIOSample)
	return s, ok && v.kind == KindDIOSample
}

// AdvisorWave returns the advisor wave payload.
func (v Value) AdvisorWave() (provider.AdvisorWave, bool) {
	s, ok := v.sample.(provider.AdvisorWave)
	return s, ok && v.kind == KindAdvisorWave
}

// Equal compares two values. Integers and doubles compare numerically
// across kinds; everything else requires matching kinds.
func (v Value) Equal(o Value) bool {
	switch {
	case v.kind == KindInt64 && o.kind == KindFloat64:
		return float64(v.i) == o.f
	case v.kind == KindFloat64 && o.kind == KindInt64:
		return v.f == float64(o.i)
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt64:
		return v.i == o.i
	case KindFloat64:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindVector:
		return bytes.Equal(v.b, o.b)
	case KindComplex:
		return v.c == o.c
	case KindDemodSample, KindDIOSample, KindAdvisorWave:
		return reflect.DeepEqual(v.sample, o.sample)
	default:
		return true
	}
}

// String renders the value for display and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindVector:
		return fmt.Sprintf("vector[%d bytes]", len(v.b))
	case KindComplex:
		return strconv.FormatComplex(v.c, 'g', -1, 128)
	case KindDemodSample, KindDIOSample, KindAdvisorWave:
		return v.kind.String()
	default:
		return "<invalid>"
	}
}

// raw unwraps the value into its wire representation.
func (v Value) raw() any {
	switch v.kind {
	case KindInt64:
		return v.i
	case KindFloat64:
		return v.f
	case KindString:
		return v.s
	case KindVector:
		return v.b
	case KindComplex:
		return v.c
	case KindDemodSample, KindDIOSample, KindAdvisorWave:
		return v.sample
	default:
		return nil
	}
}

// valueFromRaw converts a wire value into a Value according to the node's
// declared type tag.
func valueFromRaw(tag catalog.TypeTag, raw any) (Value, error) {
	switch tag {
	case catalog.TypeInteger:
		if i, ok := toInt64(raw); ok {
			return Int(i), nil
		}
	case catalog.TypeDouble:
		if f, ok := toFloat64(raw); ok {
			return Float(f), nil
		}
	case catalog.TypeString:
		if s, ok := raw.(string); ok {
			return Str(s), nil
		}
	case catalog.TypeVector:
		if b, ok := raw.([]byte); ok {
			return Vector(b), nil
		}
	case catalog.TypeComplexDouble:
		switch c := raw.(type) {
		case complex128:
			return Complex(c), nil
		case complex64:
			return Complex(complex128(c)), nil
		}
	case catalog.TypeDemodSample:
		switch s := raw.(type) {
		case provider.DemodSample:
			return Demod(s), nil
		case *provider.DemodSample:
			return Demod(*s), nil
		}
	case catalog.TypeDIOSample:
		switch s := raw.(type) {
		case provider.DIOSample:
			return DIO(s), nil
		case *provider.DIOSample:
			return DIO(*s), nil
		}
	case catalog.TypeAdvisorWave:
		switch s := raw.(type) {
		case provider.AdvisorWave:
			return Wave(s), nil
		case *provider.AdvisorWave:
			return Wave(*s), nil
		}
	}
	return Value{}, fmt.Errorf("unexpected wire value %T for %s node", raw, tag)
}

// valueFromAny converts a wire value into a Value by its runtime type.
// Used for parser output and for paths without a catalog entry.
func valueFromAny(raw any) Value {
	switch x := raw.(type) {
	case Value:
		return x
	case string:
		return Str(x)
	case []byte:
		return Vector(x)
	case complex128:
		return Complex(x)
	case complex64:
		return Complex(complex128(x))
	case float32, float64:
		f, _ := toFloat64(x)
		return Float(f)
	case provider.DemodSample:
		return Demod(x)
	case *provider.DemodSample:
		return Demod(*x)
	case provider.DIOSample:
		return DIO(x)
	case *provider.DIOSample:
		return DIO(*x)
	case provider.AdvisorWave:
		return Wave(x)
	case *provider.AdvisorWave:
		return Wave(*x)
	default:
		if i, ok := toInt64(raw); ok {
			return Int(i)
		}
		return Value{}
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

func toFloat64(v any) (float64, bool) {
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

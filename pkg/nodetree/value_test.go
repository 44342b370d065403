package nodetree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lynq-instruments/lynq-go/pkg/provider"
)

func TestValueKinds(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"int", Int(42), KindInt64},
		{"float", Float(1.5), KindFloat64},
		{"string", Str("edge"), KindString},
		{"vector", Vector([]byte{1, 2}), KindVector},
		{"complex", Complex(complex(1, 2)), KindComplex},
		{"demod", Demod(provider.DemodSample{X: 0.5}), KindDemodSample},
		{"dio", DIO(provider.DIOSample{Bits: 7}), KindDIOSample},
		{"wave", Wave(provider.AdvisorWave{Grid: []float64{0}}), KindAdvisorWave},
		{"zero", Value{}, KindInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.v.Kind())
		})
	}
}

func TestValueAccessors(t *testing.T) {
	t.Run("matching kind", func(t *testing.T) {
		i, ok := Int(42).Int()
		assert.True(t, ok)
		assert.Equal(t, int64(42), i)

		s, ok := Str("hi").Str()
		assert.True(t, ok)
		assert.Equal(t, "hi", s)

		d, ok := Demod(provider.DemodSample{X: 0.5}).DemodSample()
		assert.True(t, ok)
		assert.Equal(t, 0.5, d.X)
	})

	t.Run("mismatched kind", func(t *testing.T) {
		_, ok := Int(42).Float()
		assert.False(t, ok)
		_, ok = Str("hi").Int()
		assert.False(t, ok)
		_, ok = Value{}.Str()
		assert.False(t, ok)
	})

	t.Run("zero value", func(t *testing.T) {
		assert.True(t, Value{}.IsZero())
		assert.False(t, Int(0).IsZero())
	})
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same ints", Int(3), Int(3), true},
		{"different ints", Int(3), Int(4), false},
		{"int and equal float", Int(3), Float(3.0), true},
		{"float and equal int", Float(3.0), Int(3), true},
		{"int and close float", Int(3), Float(3.5), false},
		{"same strings", Str("a"), Str("a"), true},
		{"string and int", Str("3"), Int(3), false},
		{"same vectors", Vector([]byte{1, 2}), Vector([]byte{1, 2}), true},
		{"different vectors", Vector([]byte{1}), Vector([]byte{2}), false},
		{"same complex", Complex(complex(1, 2)), Complex(complex(1, 2)), true},
		{"same samples", Demod(provider.DemodSample{X: 1}), Demod(provider.DemodSample{X: 1}), true},
		{"different samples", Demod(provider.DemodSample{X: 1}), Demod(provider.DemodSample{X: 2}), false},
		{"both zero", Value{}, Value{}, true},
		{"zero and int", Value{}, Int(0), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Equal(tc.b))
			assert.Equal(t, tc.want, tc.b.Equal(tc.a))
		})
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "42", Int(42).String())
	assert.Equal(t, "1.5", Float(1.5).String())
	assert.Equal(t, "edge", Str("edge").String())
	assert.Equal(t, "vector[3 bytes]", Vector([]byte{1, 2, 3}).String())
	assert.Equal(t, "<invalid>", Value{}.String())
}

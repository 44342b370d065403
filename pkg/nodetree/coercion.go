package nodetree

import (
	"context"
	"fmt"

	"github.com/lynq-instruments/lynq-go/pkg/catalog"
	"github.com/lynq-instruments/lynq-go/pkg/provider"
)

// coercion is one row of the type dispatch table: how a node of a given
// type tag is read from the session cache and whether it participates in
// the scalar synchronous write path.
type coercion struct {
	// cachedRead fetches the session-cached value of path.
	cachedRead func(ctx context.Context, p provider.Provider, path string) (Value, error)

	// deepWrite marks the type eligible for the scalar synchronous
	// write variants. Poll-only types and vectors are not.
	deepWrite bool
}

// coercions is the fixed dispatch table, one row per type tag. Sample
// types have no dedicated cached call on the provider contract; their
// cached reads take the synchronous path and use the first sample, the
// same way vector reads do internally.
var coercions = map[catalog.TypeTag]coercion{
	catalog.TypeInteger: {
		cachedRead: func(ctx context.Context, p provider.Provider, path string) (Value, error) {
			v, err := p.ReadCachedInt(ctx, path)
			if err != nil {
				return Value{}, err
			}
			return Int(v), nil
		},
		deepWrite: true,
	},
	catalog.TypeDouble: {
		cachedRead: func(ctx context.Context, p provider.Provider, path string) (Value, error) {
			v, err := p.ReadCachedDouble(ctx, path)
			if err != nil {
				return Value{}, err
			}
			return Float(v), nil
		},
		deepWrite: true,
	},
	catalog.TypeString: {
		cachedRead: func(ctx context.Context, p provider.Provider, path string) (Value, error) {
			v, err := p.ReadCachedString(ctx, path)
			if err != nil {
				return Value{}, err
			}
			return Str(v), nil
		},
		deepWrite: true,
	},
	catalog.TypeVector: {
		cachedRead: func(ctx context.Context, p provider.Provider, path string) (Value, error) {
			v, err := p.ReadCachedVector(ctx, path)
			if err != nil {
				return Value{}, err
			}
			return Vector(v), nil
		},
	},
	catalog.TypeComplexDouble: {cachedRead: firstDeepSample(catalog.TypeComplexDouble)},
	catalog.TypeDemodSample:   {cachedRead: firstDeepSample(catalog.TypeDemodSample)},
	catalog.TypeDIOSample:     {cachedRead: firstDeepSample(catalog.TypeDIOSample)},
	catalog.TypeAdvisorWave:   {cachedRead: firstDeepSample(catalog.TypeAdvisorWave)},
}

// firstDeepSample reads path synchronously and coerces the first returned
// sample.
func firstDeepSample(tag catalog.TypeTag) func(context.Context, provider.Provider, string) (Value, error) {
	return func(ctx context.Context, p provider.Provider, path string) (Value, error) {
		samples, err := p.ReadDeep(ctx, path, provider.ReadOptions{})
		if err != nil {
			return Value{}, err
		}
		if len(samples) == 0 {
			return Value{}, fmt.Errorf("%w: %s returned no sample", ErrNotFound, path)
		}
		return valueFromRaw(tag, samples[0].Value)
	}
}

// coercionFor returns the dispatch row for tag.
func coercionFor(tag catalog.TypeTag) (coercion, error) {
	row, ok := coercions[tag]
	if !ok {
		return coercion{}, fmt.Errorf("%w: no dispatch for type tag %s", ErrUnsupportedOperation, tag)
	}
	return row, nil
}

package nodetree

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lynq-instruments/lynq-go/pkg/catalog"
	"github.com/lynq-instruments/lynq-go/pkg/provider"
)

func testListing() map[string]provider.Metadata {
	return map[string]provider.Metadata{
		"/dev/demods/0/rate": {
			Node: "/dev/demods/0/rate", Description: "Demodulator sampling rate.",
			Type: "Double", Properties: "Read, Write, Setting", Unit: "1/s",
		},
		"/dev/demods/0/trigger": {
			Node: "/dev/demods/0/trigger",
			Type: "Integer", Properties: "Read, Write, Setting",
			Options: map[string]string{
				"0": `"continuous": Continuous triggering.`,
				"1": `"edge", "edge_rising": Rising edge.`,
			},
		},
		"/dev/demods/0/sample": {
			Node: "/dev/demods/0/sample", Type: "DemodSample", Properties: "Read",
		},
		"/dev/demods/1/rate": {
			Node: "/dev/demods/1/rate", Type: "Double", Properties: "Read, Write, Setting", Unit: "1/s",
		},
		"/dev/scopes/0/wave": {
			Node: "/dev/scopes/0/wave", Type: "Vector", Properties: "Read, Write",
		},
		"/dev/features/serial": {
			Node: "/dev/features/serial", Type: "String", Properties: "Read",
		},
		"/dev/system/shutdown": {
			Node: "/dev/system/shutdown", Type: "Integer", Properties: "Write",
		},
		"/dev/oscs/0/range": {
			Node: "/dev/oscs/0/range", Type: "Double", Properties: "Read, Write, Setting", Unit: "V",
		},
	}
}

func newTestTree(t *testing.T, opts ...Option) (*Tree, *mockProvider) {
	t.Helper()
	c, err := catalog.Load(testListing())
	require.NoError(t, err)
	p := &mockProvider{}
	t.Cleanup(func() { p.AssertExpectations(t) })
	return NewWithCatalog(p, c, opts...), p
}

func TestNew(t *testing.T) {
	t.Run("loads the catalog in one listing call", func(t *testing.T) {
		p := &mockProvider{}
		p.On("ListMetadata", mock.Anything, "/*").Return(testListing(), nil).Once()

		tree, err := New(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, len(testListing()), tree.Catalog().Len())
		p.AssertExpectations(t)
	})

	t.Run("propagates listing failures", func(t *testing.T) {
		p := &mockProvider{}
		p.On("ListMetadata", mock.Anything, "/*").Return(nil, errors.New("connection lost")).Once()

		_, err := New(context.Background(), p)
		assert.ErrorContains(t, err, "connection lost")
	})
}

func TestNodeConstruction(t *testing.T) {
	tree, _ := newTestTree(t)
	root := tree.Root()

	t.Run("child appends segments", func(t *testing.T) {
		n := root.Child("dev").Child("demods").Index(0).Child("rate")
		assert.Equal(t, "/dev/demods/0/rate", n.Path())
	})

	t.Run("segments are lowercased", func(t *testing.T) {
		assert.Equal(t,
			root.Child("dev").Child("demods").Path(),
			root.Child("DEV").Child("Demods").Path())
	})

	t.Run("escape markers are stripped", func(t *testing.T) {
		plain := root.Child("dev").Child("oscs").Index(0).Child("range")
		escaped := root.Child("dev").Child("oscs").Index(0).Child("range_")
		assert.Equal(t, plain, escaped)
		assert.Equal(t, "/dev/oscs/0/range", plain.Path())
	})

	t.Run("nodes are map keys", func(t *testing.T) {
		seen := map[Node]int{}
		seen[root.Child("dev").Child("demods").Index(0)] = 1
		seen[root.Child("dev").Child("demods").Index(0)] = 2
		assert.Len(t, seen, 1)
	})

	t.Run("wildcard segment", func(t *testing.T) {
		n := root.Child("dev").Child("demods").Wildcard().Child("rate")
		assert.Equal(t, "/dev/demods/*/rate", n.Path())
	})

	t.Run("root path", func(t *testing.T) {
		assert.Equal(t, "/", root.Path())
	})
}

func TestTreeNode(t *testing.T) {
	tree, _ := newTestTree(t)

	n, err := tree.Node("/DEV/demods/0/rate")
	require.NoError(t, err)
	assert.Equal(t, "/dev/demods/0/rate", n.Path())

	_, err = tree.Node("dev/demods")
	assert.ErrorIs(t, err, ErrMalformedPath)
}

func TestClassification(t *testing.T) {
	tree, _ := newTestTree(t)
	root := tree.Root()

	t.Run("leaf", func(t *testing.T) {
		n := root.Child("dev").Child("demods").Index(0).Child("rate")
		assert.True(t, n.IsValid())
		entry, err := n.Entry()
		require.NoError(t, err)
		assert.Equal(t, catalog.TypeDouble, entry.Type)
		assert.Equal(t, "1/s", entry.Unit)
	})

	t.Run("partial", func(t *testing.T) {
		n := root.Child("dev").Child("demods").Index(0)
		assert.True(t, n.IsValid())
		_, err := n.Entry()
		assert.ErrorIs(t, err, ErrUnsupportedOperation)
	})

	t.Run("wildcard", func(t *testing.T) {
		n := root.Child("dev").Child("demods").Wildcard().Child("rate")
		assert.True(t, n.IsValid())
	})

	t.Run("missing", func(t *testing.T) {
		n := root.Child("dev").Child("nope")
		assert.False(t, n.IsValid())
		_, err := n.Entry()
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wildcard with no match is missing", func(t *testing.T) {
		n := root.Child("dev").Child("nope").Wildcard()
		assert.False(t, n.IsValid())
	})

	t.Run("catalog update revalidates", func(t *testing.T) {
		n := root.Child("dev").Child("aux").Index(0).Child("offset")
		assert.False(t, n.IsValid())

		typ := catalog.TypeDouble
		props := catalog.PropRead | catalog.PropWrite
		require.NoError(t, tree.UpdateCatalog("/dev/aux/0/offset",
			catalog.Fields{Type: &typ, Properties: &props}, true))
		assert.True(t, n.IsValid())
	})
}

func TestReadLeaf(t *testing.T) {
	ctx := context.Background()

	t.Run("cached double", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("ReadCachedDouble", mock.Anything, "/dev/demods/0/rate").Return(1674.0, nil).Once()

		res, err := tree.Root().Child("dev").Child("demods").Index(0).Child("rate").Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Len())
		assert.True(t, res.Value().Equal(Float(1674.0)))
		assert.Zero(t, res.Timestamp())
	})

	t.Run("cached string", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("ReadCachedString", mock.Anything, "/dev/features/serial").Return("dev1234", nil).Once()

		res, err := tree.Root().Child("dev").Child("features").Child("serial").Read(ctx)
		require.NoError(t, err)
		assert.True(t, res.Value().Equal(Str("dev1234")))
	})

	t.Run("deep read carries the timestamp", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("ReadDeep", mock.Anything, "/dev/demods/0/rate", provider.ReadOptions{}).
			Return([]provider.DeepSample{{Path: "/dev/demods/0/rate", Timestamp: 42, Value: 1674.0}}, nil).Once()

		res, err := tree.Root().Child("dev").Child("demods").Index(0).Child("rate").Read(ctx, Deep())
		require.NoError(t, err)
		assert.True(t, res.Value().Equal(Float(1674.0)))
		assert.Equal(t, uint64(42), res.Timestamp())
	})

	t.Run("sample nodes read synchronously", func(t *testing.T) {
		tree, p := newTestTree(t)
		sample := provider.DemodSample{Timestamp: 7, X: 0.5, Y: -0.5}
		p.On("ReadDeep", mock.Anything, "/dev/demods/0/sample", provider.ReadOptions{}).
			Return([]provider.DeepSample{{Path: "/dev/demods/0/sample", Timestamp: 7, Value: sample}}, nil).Once()

		res, err := tree.Root().Child("dev").Child("demods").Index(0).Child("sample").Read(ctx)
		require.NoError(t, err)
		got, ok := res.Value().DemodSample()
		require.True(t, ok)
		assert.Equal(t, sample, got)
	})

	t.Run("write-only node is not readable", func(t *testing.T) {
		tree, _ := newTestTree(t)
		_, err := tree.Root().Child("dev").Child("system").Child("shutdown").Read(ctx)
		assert.ErrorIs(t, err, ErrNotReadable)
	})

	t.Run("missing node", func(t *testing.T) {
		tree, _ := newTestTree(t)
		_, err := tree.Root().Child("dev").Child("nope").Read(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("provider errors name the path", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("ReadCachedDouble", mock.Anything, "/dev/demods/0/rate").
			Return(0.0, errors.New("timeout on socket")).Once()

		_, err := tree.Root().Child("dev").Child("demods").Index(0).Child("rate").Read(ctx)
		assert.ErrorContains(t, err, "/dev/demods/0/rate")
		assert.ErrorContains(t, err, "timeout on socket")
	})
}

func TestReadEnumDecoding(t *testing.T) {
	ctx := context.Background()

	t.Run("mapped integer decodes to its keyword", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("ReadCachedInt", mock.Anything, "/dev/demods/0/trigger").Return(int64(1), nil).Once()

		res, err := tree.Root().Child("dev").Child("demods").Index(0).Child("trigger").Read(ctx)
		require.NoError(t, err)
		assert.True(t, res.Value().Equal(Str("edge")))
	})

	t.Run("unmapped integer passes through", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("ReadCachedInt", mock.Anything, "/dev/demods/0/trigger").Return(int64(5), nil).Once()

		res, err := tree.Root().Child("dev").Child("demods").Index(0).Child("trigger").Read(ctx)
		require.NoError(t, err)
		assert.True(t, res.Value().Equal(Int(5)))
	})

	t.Run("decoding can be disabled", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("ReadCachedInt", mock.Anything, "/dev/demods/0/trigger").Return(int64(1), nil).Once()

		res, err := tree.Root().Child("dev").Child("demods").Index(0).Child("trigger").
			Read(ctx, WithoutEnumDecode())
		require.NoError(t, err)
		assert.True(t, res.Value().Equal(Int(1)))
	})
}

func TestReadParser(t *testing.T) {
	ctx := context.Background()
	tree, p := newTestTree(t)

	require.NoError(t, tree.UpdateCatalog("/dev/oscs/0/range", catalog.Fields{
		Parser: func(v any) any { return v.(float64) * 2 },
	}, false))

	p.On("ReadCachedDouble", mock.Anything, "/dev/oscs/0/range").Return(1.5, nil).Twice()

	n := tree.Root().Child("dev").Child("oscs").Index(0).Child("range")
	res, err := n.Read(ctx)
	require.NoError(t, err)
	assert.True(t, res.Value().Equal(Float(3.0)))

	res, err = n.Read(ctx, WithoutParser())
	require.NoError(t, err)
	assert.True(t, res.Value().Equal(Float(1.5)))
}

func TestReadBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("wildcard reads once and preserves order", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("ReadDeep", mock.Anything, "/dev/demods/*/rate", provider.ReadOptions{}).
			Return([]provider.DeepSample{
				{Path: "/dev/demods/0/rate", Timestamp: 10, Value: 1674.0},
				{Path: "/dev/demods/1/rate", Timestamp: 11, Value: 837.0},
			}, nil).Once()

		res, err := tree.Root().Child("dev").Child("demods").Wildcard().Child("rate").Read(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, res.Len())
		assert.Equal(t, "/dev/demods/0/rate", res.Samples()[0].Path)
		assert.Equal(t, "/dev/demods/1/rate", res.Samples()[1].Path)

		v, ok := res.At("/dev/demods/1/rate")
		require.True(t, ok)
		assert.True(t, v.Equal(Float(837.0)))

		// Timestamps are reported only for Deep reads.
		assert.Zero(t, res.Samples()[0].Timestamp)
	})

	t.Run("partial node redirects to its descendants", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("ReadDeep", mock.Anything, "/dev/demods/0/*", provider.ReadOptions{}).
			Return([]provider.DeepSample{
				{Path: "/dev/demods/0/rate", Value: 1674.0},
				{Path: "/dev/demods/0/trigger", Value: int64(1)},
			}, nil).Once()

		res, err := tree.Root().Child("dev").Child("demods").Index(0).Read(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, res.Len())

		v, ok := res.At("/dev/demods/0/trigger")
		require.True(t, ok)
		assert.True(t, v.Equal(Str("edge")))
	})

	t.Run("deep adds timestamps", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("ReadDeep", mock.Anything, "/dev/demods/*/rate", provider.ReadOptions{}).
			Return([]provider.DeepSample{
				{Path: "/dev/demods/0/rate", Timestamp: 10, Value: 1674.0},
			}, nil).Once()

		res, err := tree.Root().Child("dev").Child("demods").Wildcard().Child("rate").Read(ctx, Deep())
		require.NoError(t, err)
		assert.Equal(t, uint64(10), res.Samples()[0].Timestamp)
	})

	t.Run("unknown paths coerce by runtime type", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("ReadDeep", mock.Anything, "/dev/demods/0/*", provider.ReadOptions{}).
			Return([]provider.DeepSample{
				{Path: "/dev/demods/0/rate", Value: 1674.0},
				{Path: "/dev/demods/0/freq", Value: 50.0},
			}, nil).Once()

		res, err := tree.Root().Child("dev").Child("demods").Index(0).Read(ctx)
		require.NoError(t, err)
		v, ok := res.At("/dev/demods/0/freq")
		require.True(t, ok)
		assert.True(t, v.Equal(Float(50.0)))
	})
}

func TestWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("leaf write issues one call", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("Write", mock.Anything,
			[]provider.WriteEntry{{Path: "/dev/demods/0/rate", Value: 100.0}},
			provider.WriteOptions{}).Return(nil).Once()

		err := tree.Root().Child("dev").Child("demods").Index(0).Child("rate").Write(ctx, Float(100.0))
		require.NoError(t, err)
	})

	t.Run("keyword is encoded to its integer", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("Write", mock.Anything,
			[]provider.WriteEntry{{Path: "/dev/demods/0/trigger", Value: int64(1)}},
			provider.WriteOptions{}).Return(nil).Once()

		err := tree.Root().Child("dev").Child("demods").Index(0).Child("trigger").Write(ctx, Str("edge"))
		require.NoError(t, err)
	})

	t.Run("alias keywords encode too", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("Write", mock.Anything,
			[]provider.WriteEntry{{Path: "/dev/demods/0/trigger", Value: int64(1)}},
			provider.WriteOptions{}).Return(nil).Once()

		err := tree.Root().Child("dev").Child("demods").Index(0).Child("trigger").Write(ctx, Str("edge_rising"))
		require.NoError(t, err)
	})

	t.Run("unknown keyword fails naming the allowed set", func(t *testing.T) {
		tree, _ := newTestTree(t)
		err := tree.Root().Child("dev").Child("demods").Index(0).Child("trigger").Write(ctx, Str("bogus"))
		assert.ErrorIs(t, err, ErrInvalidValue)
		assert.ErrorContains(t, err, "continuous")
		assert.ErrorContains(t, err, "edge")
	})

	t.Run("read-only node rejects writes", func(t *testing.T) {
		tree, _ := newTestTree(t)
		err := tree.Root().Child("dev").Child("features").Child("serial").Write(ctx, Str("x"))
		assert.ErrorIs(t, err, ErrNotWritable)
	})

	t.Run("missing node", func(t *testing.T) {
		tree, _ := newTestTree(t)
		err := tree.Root().Child("dev").Child("nope").Write(ctx, Int(1))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wildcard fans out in one batched call", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("Write", mock.Anything,
			[]provider.WriteEntry{
				{Path: "/dev/demods/0/rate", Value: 500.0},
				{Path: "/dev/demods/1/rate", Value: 500.0},
			},
			provider.WriteOptions{}).Return(nil).Once()

		err := tree.Root().Child("dev").Child("demods").Wildcard().Child("rate").Write(ctx, Float(500.0))
		require.NoError(t, err)
	})

	t.Run("vector nodes go through the vector channel", func(t *testing.T) {
		tree, p := newTestTree(t)
		payload := []byte{1, 2, 3}
		p.On("WriteVector", mock.Anything, "/dev/scopes/0/wave", payload).Return(nil).Once()

		err := tree.Root().Child("dev").Child("scopes").Index(0).Child("wave").Write(ctx, Vector(payload))
		require.NoError(t, err)
	})

	t.Run("non-vector value on a vector node", func(t *testing.T) {
		tree, _ := newTestTree(t)
		err := tree.Root().Child("dev").Child("scopes").Index(0).Child("wave").Write(ctx, Int(1))
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestWriteDeep(t *testing.T) {
	ctx := context.Background()

	t.Run("integer variant", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("WriteDeepInt", mock.Anything, "/dev/demods/0/trigger", int64(1)).Return(int64(1), nil).Once()

		ack, err := tree.Root().Child("dev").Child("demods").Index(0).Child("trigger").WriteDeep(ctx, Int(1))
		require.NoError(t, err)
		assert.True(t, ack.Equal(Int(1)))
	})

	t.Run("keyword encodes before the call", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("WriteDeepInt", mock.Anything, "/dev/demods/0/trigger", int64(0)).Return(int64(0), nil).Once()

		ack, err := tree.Root().Child("dev").Child("demods").Index(0).Child("trigger").WriteDeep(ctx, Str("continuous"))
		require.NoError(t, err)
		assert.True(t, ack.Equal(Int(0)))
	})

	t.Run("acknowledged value may differ", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("WriteDeepDouble", mock.Anything, "/dev/demods/0/rate", 1677.3).Return(1680.0, nil).Once()

		ack, err := tree.Root().Child("dev").Child("demods").Index(0).Child("rate").WriteDeep(ctx, Float(1677.3))
		require.NoError(t, err)
		assert.True(t, ack.Equal(Float(1680.0)))
	})

	t.Run("read-only node refuses", func(t *testing.T) {
		tree, _ := newTestTree(t)
		_, err := tree.Root().Child("dev").Child("demods").Index(0).Child("sample").WriteDeep(ctx, Int(1))
		assert.ErrorIs(t, err, ErrNotWritable)
	})

	t.Run("poll-only node refuses before any call", func(t *testing.T) {
		tree, _ := newTestTree(t)
		typ := catalog.TypeDIOSample
		props := catalog.PropRead | catalog.PropWrite
		require.NoError(t, tree.UpdateCatalog("/dev/dios/0/drive",
			catalog.Fields{Type: &typ, Properties: &props}, true))

		_, err := tree.Root().Child("dev").Child("dios").Index(0).Child("drive").WriteDeep(ctx, Int(1))
		assert.ErrorIs(t, err, ErrUnsupportedForDeepWrite)
	})

	t.Run("vector node refuses", func(t *testing.T) {
		tree, _ := newTestTree(t)
		_, err := tree.Root().Child("dev").Child("scopes").Index(0).Child("wave").WriteDeep(ctx, Vector([]byte{1}))
		assert.ErrorIs(t, err, ErrUnsupportedForDeepWrite)
	})

	t.Run("wildcard node refuses", func(t *testing.T) {
		tree, _ := newTestTree(t)
		_, err := tree.Root().Child("dev").Child("demods").Wildcard().Child("rate").WriteDeep(ctx, Float(1.0))
		assert.ErrorIs(t, err, ErrUnsupportedOperation)
	})
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("leaf", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("Subscribe", mock.Anything, "/dev/demods/0/sample").Return(nil).Once()
		p.On("Unsubscribe", mock.Anything, "/dev/demods/0/sample").Return(nil).Once()

		n := tree.Root().Child("dev").Child("demods").Index(0).Child("sample")
		require.NoError(t, n.Subscribe(ctx))
		require.NoError(t, n.Unsubscribe(ctx))
	})

	t.Run("wildcard fans out per match", func(t *testing.T) {
		tree, p := newTestTree(t)
		p.On("Subscribe", mock.Anything, "/dev/demods/0/rate").Return(nil).Once()
		p.On("Subscribe", mock.Anything, "/dev/demods/1/rate").Return(nil).Once()

		err := tree.Root().Child("dev").Child("demods").Wildcard().Child("rate").Subscribe(ctx)
		require.NoError(t, err)
	})

	t.Run("missing node", func(t *testing.T) {
		tree, _ := newTestTree(t)
		err := tree.Root().Child("dev").Child("nope").Subscribe(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestChildNodes(t *testing.T) {
	ctx := context.Background()
	tree, p := newTestTree(t)

	flags := provider.FilterRecursive | provider.FilterLeavesOnly
	p.On("ListChildren", mock.Anything, "/dev/demods", flags).
		Return([]string{"/dev/demods/0/rate", "/dev/demods/1/rate"}, nil).Once()

	nodes, err := tree.Root().Child("dev").Child("demods").ChildNodes(ctx, flags)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "/dev/demods/0/rate", nodes[0].Path())
	assert.True(t, nodes[1].IsValid())
}

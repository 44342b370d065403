package nodetree

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lynq-instruments/lynq-go/pkg/provider"
)

// ---------------------------------------------------------------------------
// mockProvider
// ---------------------------------------------------------------------------

type mockProvider struct{ mock.Mock }

func (m *mockProvider) ListMetadata(ctx context.Context, pattern string) (map[string]provider.Metadata, error) {
	ret := m.Called(ctx, pattern)
	var metas map[string]provider.Metadata
	if ret.Get(0) != nil {
		metas = ret.Get(0).(map[string]provider.Metadata)
	}
	return metas, ret.Error(1)
}

func (m *mockProvider) ReadCachedInt(ctx context.Context, path string) (int64, error) {
	ret := m.Called(ctx, path)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *mockProvider) ReadCachedDouble(ctx context.Context, path string) (float64, error) {
	ret := m.Called(ctx, path)
	return ret.Get(0).(float64), ret.Error(1)
}

func (m *mockProvider) ReadCachedString(ctx context.Context, path string) (string, error) {
	ret := m.Called(ctx, path)
	return ret.String(0), ret.Error(1)
}

func (m *mockProvider) ReadCachedVector(ctx context.Context, path string) ([]byte, error) {
	ret := m.Called(ctx, path)
	var data []byte
	if ret.Get(0) != nil {
		data = ret.Get(0).([]byte)
	}
	return data, ret.Error(1)
}

func (m *mockProvider) ReadDeep(ctx context.Context, path string, opts provider.ReadOptions) ([]provider.DeepSample, error) {
	ret := m.Called(ctx, path, opts)
	var samples []provider.DeepSample
	if ret.Get(0) != nil {
		samples = ret.Get(0).([]provider.DeepSample)
	}
	return samples, ret.Error(1)
}

func (m *mockProvider) Write(ctx context.Context, entries []provider.WriteEntry, opts provider.WriteOptions) error {
	return m.Called(ctx, entries, opts).Error(0)
}

func (m *mockProvider) WriteVector(ctx context.Context, path string, data []byte) error {
	return m.Called(ctx, path, data).Error(0)
}

func (m *mockProvider) WriteDeepInt(ctx context.Context, path string, value int64) (int64, error) {
	ret := m.Called(ctx, path, value)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *mockProvider) WriteDeepDouble(ctx context.Context, path string, value float64) (float64, error) {
	ret := m.Called(ctx, path, value)
	return ret.Get(0).(float64), ret.Error(1)
}

func (m *mockProvider) WriteDeepString(ctx context.Context, path string, value string) (string, error) {
	ret := m.Called(ctx, path, value)
	return ret.String(0), ret.Error(1)
}

func (m *mockProvider) Subscribe(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *mockProvider) Unsubscribe(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *mockProvider) ListChildren(ctx context.Context, path string, flags provider.ChildFilter) ([]string, error) {
	ret := m.Called(ctx, path, flags)
	var children []string
	if ret.Get(0) != nil {
		children = ret.Get(0).([]string)
	}
	return children, ret.Error(1)
}

var _ provider.Provider = (*mockProvider)(nil)

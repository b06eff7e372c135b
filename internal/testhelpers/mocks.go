package testhelpers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockImageStore is a mock implementation of storage.ImageStore
type MockImageStore struct {
	mock.Mock
}

// NewImageStore returns a mock that accepts every upload and serves it
// under /media/
func NewImageStore() *MockImageStore {
	m := new(MockImageStore)
	m.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(func(key string) string { return "/media/" + key }, nil)
	m.On("Delete", mock.Anything, mock.Anything).Return(nil)
	return m
}

func (m *MockImageStore) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	if fn, ok := args.Get(0).(func(string) string); ok {
		return fn(key), args.Error(1)
	}
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// MockCache is a mock implementation of cache.Store
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

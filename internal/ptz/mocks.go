package ptz

import (
	"context"

	"github.com/stretchr/testify/mock"
)

var _ Channel = (*MockChannel)(nil)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Get(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *MockChannel) Put(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *MockChannel) Delete(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *MockChannel) Post(ctx context.Context, path string, body string) (string, error) {
	args := m.Called(ctx, path, body)
	return args.String(0), args.Error(1)
}

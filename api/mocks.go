package api

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"
)

type ClientMock struct {
	mock.Mock
}

func NewClientMock() *ClientMock {
	return &ClientMock{}
}

func (o *ClientMock) Get(ctx context.Context, path string, query url.Values) (Body, error) {
	args := o.Called(ctx, path, query)
	return mockBody(args), args.Error(1)
}

func (o *ClientMock) Post(ctx context.Context, path string, payload interface{}) (Body, error) {
	args := o.Called(ctx, path, payload)
	return mockBody(args), args.Error(1)
}

func (o *ClientMock) Put(ctx context.Context, path string, payload interface{}) (Body, error) {
	args := o.Called(ctx, path, payload)
	return mockBody(args), args.Error(1)
}

// mockBody accepts Return(nil, err) as well as a Body or raw bytes.
func mockBody(args mock.Arguments) Body {
	switch b := args.Get(0).(type) {
	case Body:
		return b
	case []byte:
		return b
	}
	return nil
}

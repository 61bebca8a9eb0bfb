package mocks

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// UserStore is a testify mock of store.UserStore for tests that need to
// assert on exact calls.
type UserStore struct {
	mock.Mock
}

var _ store.UserStore = (*UserStore)(nil)

func (m *UserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserStore) WithTx(*sqlx.Tx) store.UserStore {
	return m
}

package mocks

import (
	"context"

	"github.com/phrazzld/grammar-api/internal/store"
)

// MockTransactor runs functions directly with a nil transaction; the
// in-memory stores ignore WithTx. Err, when set, is returned instead of
// running fn.
type MockTransactor struct {
	Calls int
	Err   error
}

var _ store.Transactor = (*MockTransactor)(nil)

// WithinTx implements store.Transactor.
func (m *MockTransactor) WithinTx(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, nil)
}

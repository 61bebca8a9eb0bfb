package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestRunInTransaction(t *testing.T) {
	functionErr := errors.New("function failed")

	tests := []struct {
		name      string
		setup     func(mock sqlmock.Sqlmock)
		fn        TxFn
		wantErrIs error
		wantText  string
	}{
		{
			name: "commit on success",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE user_progress").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				_, err := tx.ExecContext(ctx, "UPDATE user_progress SET completed_sentences = 0")
				return err
			},
		},
		{
			name: "rollback on function error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:        func(context.Context, *sqlx.Tx) error { return functionErr },
			wantErrIs: functionErr,
		},
		{
			name: "begin fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
			},
			fn:        func(context.Context, *sqlx.Tx) error { return nil },
			wantErrIs: ErrTransactionFailed,
			wantText:  "connection refused",
		},
		{
			name: "commit fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("commit failed"))
			},
			fn:        func(context.Context, *sqlx.Tx) error { return nil },
			wantErrIs: ErrTransactionFailed,
			wantText:  "commit failed",
		},
		{
			name: "rollback fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(errors.New("rollback failed"))
			},
			fn:        func(context.Context, *sqlx.Tx) error { return functionErr },
			wantErrIs: functionErr,
			wantText:  "rollback failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setup(mock)

			err := RunInTransaction(context.Background(), db, tt.fn)
			if tt.wantErrIs == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErrIs)
				if tt.wantText != "" {
					assert.Contains(t, err.Error(), tt.wantText)
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransaction_Panic(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = RunInTransaction(context.Background(), db, func(context.Context, *sqlx.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBTransactor(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	called := false
	err := NewTransactor(db).WithinTx(context.Background(), func(_ context.Context, tx *sqlx.Tx) error {
		called = tx != nil
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

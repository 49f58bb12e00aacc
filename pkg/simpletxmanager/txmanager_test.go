package simpletxmanager

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*TransactionManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewTransactionManager(db), mock
}

func TestDoSerializable(t *testing.T) {
	t.Run("retries on serialization failure and surfaces the error", func(t *testing.T) {
		m, mock := newMockDB(t)

		// Конфликт сериализации всплывает на COMMIT каждой попытки
		for i := 0; i < serializationRetries; i++ {
			mock.ExpectBegin()
			mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})
		}

		attempts := 0
		err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
			attempts++
			return nil
		})

		assert.Equal(t, serializationRetries, attempts)
		assert.ErrorIs(t, err, ErrTransaction)

		var pqErr *pq.Error
		require.ErrorAs(t, err, &pqErr)
		assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("succeeds after transient conflict", func(t *testing.T) {
		m, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})
		mock.ExpectBegin()
		mock.ExpectCommit()

		attempts := 0
		err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
			attempts++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retries deadlock", func(t *testing.T) {
		m, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40P01"})
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
			return nil
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("business error rolls back without retry", func(t *testing.T) {
		m, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		errBoom := errors.New("boom")
		attempts := 0
		err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
			attempts++
			return errBoom
		})

		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 1, attempts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-serialization commit error is not retried", func(t *testing.T) {
		m, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(&pq.Error{Code: "53300"})

		attempts := 0
		err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
			attempts++
			return nil
		})

		assert.ErrorIs(t, err, ErrTransaction)
		assert.Equal(t, 1, attempts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

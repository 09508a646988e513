package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/a7mdelbanna/clients-plus-backend-sub000/internal/core/apperror"
)

func TestMapConflictError_RetryableCodes(t *testing.T) {
	cases := []struct {
		name string
		code string
	}{
		{"serialization failure", pgSerializationFailure},
		{"deadlock detected", pgDeadlockDetected},
		{"lock not available", pgLockNotAvailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: tc.code}
			mapped := mapConflictError(fmt.Errorf("commit transaction: %w", pgErr))

			assert.True(t, apperror.IsTransactionConflict(mapped))
			// The original store error stays reachable for diagnostics.
			var unwrapped *pgconn.PgError
			assert.True(t, errors.As(mapped, &unwrapped))
		})
	}
}

func TestMapConflictError_PassesThroughOtherErrors(t *testing.T) {
	uniqueViolation := &pgconn.PgError{Code: "23505"}
	assert.Equal(t, error(uniqueViolation), mapConflictError(uniqueViolation))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapConflictError(plain))

	assert.NoError(t, mapConflictError(nil))
}

package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	t.Run("nil is not retryable", func(t *testing.T) {
		retryable, _ := IsRetryableError(nil)
		assert.False(t, retryable)
	})

	t.Run("malformed payload is permanent", func(t *testing.T) {
		var target struct{ X int }
		err := json.Unmarshal([]byte("{not json"), &target)
		retryable, reason := IsRetryableError(err)
		assert.False(t, retryable)
		assert.NotEmpty(t, reason)
	})

	t.Run("missing row is permanent", func(t *testing.T) {
		retryable, _ := IsRetryableError(pgx.ErrNoRows)
		assert.False(t, retryable)
	})

	t.Run("duplicate key is permanent", func(t *testing.T) {
		err := errors.New(`ERROR: duplicate key value violates unique constraint "uq_work_orders_active_pm_per_plan" (SQLSTATE 23505)`)
		retryable, _ := IsRetryableError(err)
		assert.False(t, retryable)
	})

	t.Run("cancellation is permanent", func(t *testing.T) {
		retryable, _ := IsRetryableError(context.Canceled)
		assert.False(t, retryable)
	})

	t.Run("connection refused is retryable", func(t *testing.T) {
		err := fmt.Errorf("dial tcp 10.0.0.5:5432: connection refused")
		retryable, _ := IsRetryableError(err)
		assert.True(t, retryable)
	})

	t.Run("deadline exceeded is retryable", func(t *testing.T) {
		retryable, _ := IsRetryableError(context.DeadlineExceeded)
		assert.True(t, retryable)
	})
}

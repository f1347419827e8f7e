package utils_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skoushik/storefront-orders/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	cfg := utils.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		Multiplier:   2,
	}
	ctx := context.Background()

	t.Run("succeeds on first attempt", func(t *testing.T) {
		calls := 0
		err := utils.Retry(ctx, cfg, func() error {
			calls++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until success", func(t *testing.T) {
		calls := 0
		err := utils.Retry(ctx, cfg, func() error {
			calls++
			if calls < 3 {
				return errors.New("temporary")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when attempts run out", func(t *testing.T) {
		wantErr := errors.New("still broken")
		calls := 0
		err := utils.Retry(ctx, cfg, func() error {
			calls++
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, 3, calls)
	})

	t.Run("abort errors stop retrying immediately", func(t *testing.T) {
		fatal := errors.New("not found")
		calls := 0
		err := utils.Retry(ctx, cfg, func() error {
			calls++
			return fatal
		}, fatal)
		assert.ErrorIs(t, err, fatal)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops backoff between attempts", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		wantErr := errors.New("still broken")
		calls := 0
		err := utils.Retry(cancelled, utils.RetryConfig{
			MaxAttempts:  5,
			InitialDelay: time.Minute,
		}, func() error {
			calls++
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, 1, calls)
	})
}

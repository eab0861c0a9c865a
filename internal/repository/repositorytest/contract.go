// Package repositorytest holds the behaviour every KVRepository must share.
package repositorytest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/planmyevents/internal/repository"
)

// RunKVContract exercises repo against the KVRepository contract. The
// repository must start empty.
func RunKVContract(t *testing.T, repo repository.KVRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := repo.Get(ctx, "app_missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "app_events", []byte(`[{"id":"1"}]`)))

		got, err := repo.Get(ctx, "app_events")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"1"}]`, string(got))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "app_cart", []byte(`[]`)))
		require.NoError(t, repo.Set(ctx, "app_cart", []byte(`[{"dishId":"a"}]`)))

		got, err := repo.Get(ctx, "app_cart")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"dishId":"a"}]`, string(got))
	})

	t.Run("keys by prefix", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "other_settings", []byte(`{}`)))

		keys, err := repo.Keys(ctx, "app_")
		require.NoError(t, err)
		assert.Equal(t, []string{"app_cart", "app_events"}, keys)
	})

	t.Run("prefix wildcards are literal", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "a%b_x", []byte(`1`)))
		require.NoError(t, repo.Set(ctx, "aXb_y", []byte(`2`)))

		keys, err := repo.Keys(ctx, "a%b_")
		require.NoError(t, err)
		assert.Equal(t, []string{"a%b_x"}, keys)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "app_cart"))
		_, err := repo.Get(ctx, "app_cart")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		// deleting twice is fine
		assert.NoError(t, repo.Delete(ctx, "app_cart"))
	})
}

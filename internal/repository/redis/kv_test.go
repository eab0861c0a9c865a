package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/planmyevents/internal/repository/repositorytest"
)

func TestKVRepository(t *testing.T) {
	mr := miniredis.RunT(t)

	repo, err := NewKVRepository(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer repo.Close()

	repositorytest.RunKVContract(t, repo)
}

func TestNewKVRepository_BadURL(t *testing.T) {
	_, err := NewKVRepository(context.Background(), "not-a-url://")
	assert.Error(t, err)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `a\*b\?c\[d\]`, escapeGlob("a*b?c[d]"))
	assert.Equal(t, "plain_", escapeGlob("plain_"))
}

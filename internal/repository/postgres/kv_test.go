package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePrefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"planmyevents_", `planmyevents\_%`},
		{"50%", `50\%%`},
		{`a\b`, `a\\b%`},
		{"", "%"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			assert.Equal(t, tt.want, likePrefix(tt.prefix))
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := Migrations.ReadDir("migrations")
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}

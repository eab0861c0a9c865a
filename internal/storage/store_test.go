package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/planmyevents/internal/repository"
	"github.com/Kerhoff/planmyevents/internal/repository/memory"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// brokenRepository fails every call, like an unavailable backend
type brokenRepository struct{}

var errBroken = errors.New("backend down")

func (brokenRepository) Get(context.Context, string) ([]byte, error)   { return nil, errBroken }
func (brokenRepository) Set(context.Context, string, []byte) error     { return errBroken }
func (brokenRepository) Delete(context.Context, string) error          { return errBroken }
func (brokenRepository) Keys(context.Context, string) ([]string, error) { return nil, errBroken }
func (brokenRepository) Close() error                                  { return nil }

func newTestStore(t *testing.T) (*Store, repository.KVRepository, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	repo := memory.NewKVRepository()
	return New(repo, "", logger, nil), repo, hook
}

func TestStore_SetGet(t *testing.T) {
	s, repo, _ := newTestStore(t)
	ctx := context.Background()

	s.Set(ctx, KeyEvents, []item{{ID: "1", Name: "Shabbat dinner"}})

	var got []item
	require.True(t, s.Get(ctx, KeyEvents, &got))
	assert.Equal(t, []item{{ID: "1", Name: "Shabbat dinner"}}, got)

	raw, err := repo.Get(ctx, DefaultPrefix+KeyEvents)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","name":"Shabbat dinner"}]`, string(raw))
}

func TestStore_GetMissing(t *testing.T) {
	s, _, hook := newTestStore(t)

	var got []item
	assert.False(t, s.Get(context.Background(), KeyCart, &got))
	assert.Nil(t, got)
	assert.Empty(t, hook.AllEntries(), "a missing key is not an error")
}

func TestStore_GetCorrupt(t *testing.T) {
	s, repo, hook := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, DefaultPrefix+KeyCart, []byte("{not json")))

	var got []item
	assert.False(t, s.Get(ctx, KeyCart, &got))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestStore_GetWrongFieldTypeLeavesDestUntouched(t *testing.T) {
	s, repo, hook := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, DefaultPrefix+KeyEvents,
		[]byte(`[{"id":"a","name":7},{"id":"b","name":"Brunch"}]`)))

	got := []item{{ID: "keep", Name: "Existing"}}
	assert.False(t, s.Get(ctx, KeyEvents, &got))
	assert.Equal(t, []item{{ID: "keep", Name: "Existing"}}, got)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)

	var fresh []item
	assert.False(t, s.Get(ctx, KeyEvents, &fresh))
	assert.Nil(t, fresh)
}

func TestStore_GetKeepsFieldsMissingFromBlob(t *testing.T) {
	s, repo, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, DefaultPrefix+KeyAppSettings, []byte(`{"name":"Stored"}`)))

	got := item{ID: "default", Name: "Default"}
	require.True(t, s.Get(ctx, KeyAppSettings, &got))
	assert.Equal(t, item{ID: "default", Name: "Stored"}, got)
}

func TestStore_GetNull(t *testing.T) {
	s, repo, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, DefaultPrefix+KeyCurrentEventID, []byte("null")))

	var id string
	assert.False(t, s.Get(ctx, KeyCurrentEventID, &id))
}

func TestStore_Remove(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	s.Set(ctx, KeyCurrentEventID, "42")
	s.Remove(ctx, KeyCurrentEventID)

	var id string
	assert.False(t, s.Get(ctx, KeyCurrentEventID, &id))
}

func TestStore_ClearOnlyTouchesNamespace(t *testing.T) {
	s, repo, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "someone_else", []byte(`"keep me"`)))
	s.Set(ctx, KeyEvents, []item{})
	s.Set(ctx, KeyCart, []item{})
	s.Set(ctx, KeyAppSettings, map[string]string{"theme": "dark"})

	s.ClearExcept(ctx, KeyAppSettings)
	assert.Equal(t, []string{KeyAppSettings}, s.Keys(ctx))

	s.Clear(ctx)
	assert.Empty(t, s.Keys(ctx))

	raw, err := repo.Get(ctx, "someone_else")
	require.NoError(t, err)
	assert.Equal(t, `"keep me"`, string(raw))
}

func TestStore_BackendFailuresNeverPropagate(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := New(brokenRepository{}, "x_", logger, nil)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		s.Set(ctx, KeyEvents, []item{{ID: "1"}})
		s.Remove(ctx, KeyEvents)
		s.Clear(ctx)
	})

	var got []item
	assert.False(t, s.Get(ctx, KeyEvents, &got))
	assert.Nil(t, s.Keys(ctx))
	assert.NotEmpty(t, hook.AllEntries())
}

func TestStore_UnencodableValue(t *testing.T) {
	s, _, hook := newTestStore(t)

	s.Set(context.Background(), KeyEvents, make(chan int))

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "set", hook.LastEntry().Data["op"])
}

package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/psconsole/internal/dependencies/mocks"
	"github.com/mcoot/psconsole/internal/model"
)

func setupStorage(t *testing.T) (*Storage, *mocks.MockClock) {
	t.Helper()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s, err := Open(context.Background(), ":memory:", clk)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, clk
}

func TestSetAndGet_InsertThenGet(t *testing.T) {
	s, _ := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "origin-a", "k1", []byte{0x01, 0x02}))

	v, err := s.GetItem(ctx, "origin-a", "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, v)
}

func TestGet_NotExists(t *testing.T) {
	s, _ := setupStorage(t)

	_, err := s.GetItem(context.Background(), "origin-a", "absent")
	assert.ErrorIs(t, err, model.ErrItemNotFound)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	s, clk := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "origin-a", "k", []byte("old")))
	clk.Advance(time.Minute)
	require.NoError(t, s.SetItem(ctx, "origin-a", "k", []byte("new")))

	v, err := s.GetItem(ctx, "origin-a", "k")
	require.NoError(t, err)
	assert.Equal(t, "new", string(v))

	var ts int64
	require.NoError(t, s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM items WHERE origin = ? AND key = ?`, "origin-a", "k",
	).Scan(&ts))
	assert.Equal(t, clk.Now().UnixMilli(), ts)
}

func TestOriginsAreIsolated(t *testing.T) {
	s, _ := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "origin-a", "k", []byte("a")))
	require.NoError(t, s.SetItem(ctx, "origin-b", "k", []byte("b")))

	v, err := s.GetItem(ctx, "origin-a", "k")
	require.NoError(t, err)
	assert.Equal(t, "a", string(v))

	keys, err := s.Keys(ctx, "origin-c")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRemoveItem(t *testing.T) {
	s, _ := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "origin-a", "k", []byte("v")))
	require.NoError(t, s.RemoveItem(ctx, "origin-a", "k"))
	require.NoError(t, s.RemoveItem(ctx, "origin-a", "k"))

	_, err := s.GetItem(ctx, "origin-a", "k")
	assert.ErrorIs(t, err, model.ErrItemNotFound)
}

func TestKeys_Sorted(t *testing.T) {
	s, _ := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "origin-a", "b", []byte("1")))
	require.NoError(t, s.SetItem(ctx, "origin-a", "a", []byte("1")))

	keys, err := s.Keys(ctx, "origin-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.db")
	clk := mocks.NewMockClock(time.Now())
	ctx := context.Background()

	s, err := Open(ctx, path, clk)
	require.NoError(t, err)
	require.NoError(t, s.SetItem(ctx, "origin-a", model.ProfileStorageKey, []byte(`{"id":"guest_1"}`)))
	require.NoError(t, s.Close())

	// Reopening re-runs migrations without error
	s, err = Open(ctx, path, clk)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, err := s.GetItem(ctx, "origin-a", model.ProfileStorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"guest_1"}`, string(v))
}

func TestClosedDatabaseFails(t *testing.T) {
	s, _ := setupStorage(t)
	require.NoError(t, s.Close())

	err := s.SetItem(context.Background(), "origin-a", "k", []byte("v"))
	assert.Error(t, err)
}

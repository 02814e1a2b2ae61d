package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/psconsole/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.ItemTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestSetAndGetItem() {
	err := s.storage.SetItem(s.ctx, "origin-a", model.ProfileStorageKey, []byte(`{"id":"guest_1"}`))
	s.Require().NoError(err)

	value, err := s.storage.GetItem(s.ctx, "origin-a", model.ProfileStorageKey)
	s.Require().NoError(err)
	s.Equal(`{"id":"guest_1"}`, string(value))
}

func (s *StorageSuite) TestKeyLayout() {
	_ = s.storage.SetItem(s.ctx, "origin-a", "ps_console_user", []byte("v"))

	s.True(s.mini.Exists("psconsole:origin:origin-a:item:ps_console_user"))
}

func (s *StorageSuite) TestGetItemNotFound() {
	_, err := s.storage.GetItem(s.ctx, "origin-a", "missing")
	s.ErrorIs(err, model.ErrItemNotFound)
}

func (s *StorageSuite) TestOriginsAreIsolated() {
	_ = s.storage.SetItem(s.ctx, "origin-a", "key", []byte("a"))

	_, err := s.storage.GetItem(s.ctx, "origin-b", "key")
	s.ErrorIs(err, model.ErrItemNotFound)
}

func (s *StorageSuite) TestRemoveItem() {
	_ = s.storage.SetItem(s.ctx, "origin-a", "key", []byte("value"))

	err := s.storage.RemoveItem(s.ctx, "origin-a", "key")
	s.Require().NoError(err)

	_, err = s.storage.GetItem(s.ctx, "origin-a", "key")
	s.ErrorIs(err, model.ErrItemNotFound)

	keys, err := s.storage.Keys(s.ctx, "origin-a")
	s.Require().NoError(err)
	s.Empty(keys)
}

func (s *StorageSuite) TestRemoveMissingItem() {
	s.NoError(s.storage.RemoveItem(s.ctx, "origin-a", "missing"))
}

func (s *StorageSuite) TestKeys() {
	_ = s.storage.SetItem(s.ctx, "origin-a", "b", []byte("1"))
	_ = s.storage.SetItem(s.ctx, "origin-a", "a", []byte("1"))
	_ = s.storage.SetItem(s.ctx, "origin-b", "c", []byte("1"))

	keys, err := s.storage.Keys(s.ctx, "origin-a")
	s.Require().NoError(err)
	s.Equal([]string{"a", "b"}, keys)
}

func (s *StorageSuite) TestKeysSkipsExpiredItems() {
	_ = s.storage.SetItem(s.ctx, "origin-a", "key", []byte("1"))
	s.mini.Del(itemKey("origin-a", "key"))

	keys, err := s.storage.Keys(s.ctx, "origin-a")
	s.Require().NoError(err)
	s.Empty(keys)
}

func (s *StorageSuite) TestItemTTL() {
	_ = s.storage.SetItem(s.ctx, "origin-a", "key", []byte("1"))

	ttl := s.mini.TTL(itemKey("origin-a", "key"))
	s.True(ttl > 0, "User items should have TTL")

	s.mini.FastForward(2 * time.Hour)
	_, err := s.storage.GetItem(s.ctx, "origin-a", "key")
	s.ErrorIs(err, model.ErrItemNotFound)
}

func (s *StorageSuite) TestSystemOriginNoTTL() {
	_ = s.storage.SetItem(s.ctx, model.SystemOrigin, "catalog", []byte("[]"))

	ttl := s.mini.TTL(itemKey(model.SystemOrigin, "catalog"))
	s.Equal(time.Duration(0), ttl, "System items should not have TTL")
}

func (s *StorageSuite) TestUnavailable() {
	s.mini.Close()

	_, err := s.storage.GetItem(s.ctx, "origin-a", "key")
	s.Error(err)
	s.NotErrorIs(err, model.ErrItemNotFound)
}

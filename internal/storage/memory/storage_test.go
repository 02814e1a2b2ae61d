package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/mcoot/psconsole/internal/model"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSetAndGetItem() {
	err := s.storage.SetItem(s.ctx, "origin-a", "key", []byte(`{"a":1}`))
	s.Require().NoError(err)

	value, err := s.storage.GetItem(s.ctx, "origin-a", "key")
	s.Require().NoError(err)
	s.Equal(`{"a":1}`, string(value))
}

func (s *StorageSuite) TestGetItemNotFound() {
	_, err := s.storage.GetItem(s.ctx, "origin-a", "missing")
	s.ErrorIs(err, model.ErrItemNotFound)
}

func (s *StorageSuite) TestSetItemOverwrites() {
	_ = s.storage.SetItem(s.ctx, "origin-a", "key", []byte("one"))
	_ = s.storage.SetItem(s.ctx, "origin-a", "key", []byte("two"))

	value, err := s.storage.GetItem(s.ctx, "origin-a", "key")
	s.Require().NoError(err)
	s.Equal("two", string(value))
	s.Equal(len("key")+len("two"), s.storage.Used("origin-a"))
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
	s.Zero(s.storage.Used("origin-a"))
}

func (s *StorageSuite) TestRemoveMissingItem() {
	err := s.storage.RemoveItem(s.ctx, "origin-a", "missing")
	s.NoError(err)
}

func (s *StorageSuite) TestReturnedValueIsACopy() {
	_ = s.storage.SetItem(s.ctx, "origin-a", "key", []byte("abc"))

	value, _ := s.storage.GetItem(s.ctx, "origin-a", "key")
	value[0] = 'z'

	again, _ := s.storage.GetItem(s.ctx, "origin-a", "key")
	s.Equal("abc", string(again))
}

func (s *StorageSuite) TestKeys() {
	_ = s.storage.SetItem(s.ctx, "origin-a", "b", []byte("1"))
	_ = s.storage.SetItem(s.ctx, "origin-a", "a", []byte("1"))
	_ = s.storage.SetItem(s.ctx, "origin-b", "c", []byte("1"))

	keys, err := s.storage.Keys(s.ctx, "origin-a")
	s.Require().NoError(err)
	s.Equal([]string{"a", "b"}, keys)
}

func (s *StorageSuite) TestQuotaExceeded() {
	s.storage = New(WithQuota(16))

	err := s.storage.SetItem(s.ctx, "origin-a", "key", []byte(strings.Repeat("x", 13)))
	s.Require().NoError(err)

	err = s.storage.SetItem(s.ctx, "origin-a", "other", []byte("x"))
	s.ErrorIs(err, model.ErrQuotaExceeded)

	// Previous value is untouched
	value, err := s.storage.GetItem(s.ctx, "origin-a", "key")
	s.Require().NoError(err)
	s.Len(value, 13)

	// Replacing the existing value within the limit is fine
	err = s.storage.SetItem(s.ctx, "origin-a", "key", []byte("small"))
	s.NoError(err)
}

func (s *StorageSuite) TestQuotaIsPerOrigin() {
	s.storage = New(WithQuota(10))

	s.Require().NoError(s.storage.SetItem(s.ctx, "origin-a", "k", []byte("123456789")))
	s.NoError(s.storage.SetItem(s.ctx, "origin-b", "k", []byte("123456789")))
}

func (s *StorageSuite) TestQuotaDisabled() {
	s.storage = New(WithQuota(0))

	err := s.storage.SetItem(s.ctx, "origin-a", "key", make([]byte, DefaultQuotaBytes+1))
	s.NoError(err)
}

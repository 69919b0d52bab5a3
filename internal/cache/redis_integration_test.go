//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"exam-portal/internal/cache"
	"exam-portal/pkg/platform/sentinel"
	"exam-portal/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *cache.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = cache.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "formdata:base:R1", []byte(`{"studentName":"A"}`), time.Minute))

	got, err := s.store.Get(ctx, "formdata:base:R1")
	s.Require().NoError(err)
	s.Equal([]byte(`{"studentName":"A"}`), got)
}

func (s *RedisStoreSuite) TestMissReturnsSentinel() {
	_, err := s.store.Get(context.Background(), "absent")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestTTLExpiry() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "k", []byte("v"), time.Second))

	_, err := s.store.Get(ctx, "k")
	s.Require().NoError(err)

	time.Sleep(1500 * time.Millisecond)
	_, err = s.store.Get(ctx, "k")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "a", []byte("1"), time.Minute))
	s.Require().NoError(s.store.Delete(ctx, "a", "missing"))

	_, err := s.store.Get(ctx, "a")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestDeleteByPrefix() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "admitcard:theory:R1", []byte("1"), time.Minute))
	s.Require().NoError(s.store.Set(ctx, "admitcard:practical:R1", []byte("2"), time.Minute))
	s.Require().NoError(s.store.Set(ctx, "admitcard:theory:R2", []byte("3"), time.Minute))

	s.Require().NoError(s.store.DeleteByPrefix(ctx, "admitcard:theory:R1", "admitcard:practical:R1"))

	_, err := s.store.Get(ctx, "admitcard:theory:R1")
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.Get(ctx, "admitcard:practical:R1")
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.Get(ctx, "admitcard:theory:R2")
	s.NoError(err)
}

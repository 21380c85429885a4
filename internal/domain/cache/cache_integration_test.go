//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"domainpanel/internal/domain/models"
	"domainpanel/pkg/platform/sentinel"
	"domainpanel/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = NewRedisCache(s.redis.Client, time.Minute, time.Hour)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestCheckRoundTrip() {
	ctx := context.Background()
	res := models.NewCheckResult("example", "com", true)
	res.Resource = &models.Resource{Price: 9.5, Currency: "usd"}

	_, err := s.cache.GetCheck(ctx, "example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.cache.SetCheck(ctx, &res))
	got, err := s.cache.GetCheck(ctx, "EXAMPLE.com")
	s.Require().NoError(err)
	s.Equal(res, *got)

	ttl, err := s.redis.Client.TTL(ctx, checkKey("example.com")).Result()
	s.Require().NoError(err)
	s.LessOrEqual(ttl, time.Minute)
	s.Greater(ttl, time.Duration(0))

	s.Require().NoError(s.cache.Invalidate(ctx, "example.com"))
	_, err = s.cache.GetCheck(ctx, "example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCacheSuite) TestZones() {
	ctx := context.Background()

	_, err := s.cache.GetZones(ctx)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.cache.SetZones(ctx, []string{"com", "net"}))
	zones, err := s.cache.GetZones(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"com", "net"}, zones)
}

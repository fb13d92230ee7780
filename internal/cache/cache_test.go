package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/faredesk/internal/models"
)

func searchRequest() models.SearchRequest {
	return models.SearchRequest{
		Origin:        "ICN",
		Destination:   "HAN",
		DepartureDate: "2026-04-17",
		TripType:      models.OneWay,
		Adults:        1,
	}
}

func TestKey(t *testing.T) {
	req := searchRequest()

	k := Key("vna", req, true)
	assert.Equal(t, k, Key("vna", req, true))
	assert.True(t, strings.HasPrefix(k, "fares:vna:"))

	assert.NotEqual(t, k, Key("vna", req, false), "direct-only flag is part of the key")
	assert.NotEqual(t, k, Key("vietjet", req, true), "backend is part of the key")

	other := req
	other.Adults = 2
	assert.NotEqual(t, k, Key("vna", other, true))
}

func TestNoOpCache(t *testing.T) {
	c := NewNoOpCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "vna", searchRequest(), true, []models.FlightQuote{{Source: "vna"}}))
	_, ok := c.Get(ctx, "vna", searchRequest(), true)
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

func TestRedisCache_UnreachableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := newRedisCache(client, time.Minute)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, ok := c.Get(ctx, "vna", searchRequest(), true)
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, "vna", searchRequest(), true, nil))
}

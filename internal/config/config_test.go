package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/faredesk/internal/carrier"
	"github.com/dharmasatrya/faredesk/internal/models"
	"github.com/dharmasatrya/faredesk/internal/pricing"
	"github.com/dharmasatrya/faredesk/internal/ratelimit"
)

const sample = `
http:
  port: "9090"
redis:
  enabled: false
  addr: redis:6379
  ttl: 2m
kafka:
  brokers: [kafka-1:9092]
  email_topic: emails
ratelimit:
  default: {rps: 3, burst: 6}
  backends:
    vna: {rps: 1, burst: 2}
search:
  budget_airports: [ICN]
price_configs:
  live:
    one_way_fee: 30000
    round_trip_fee: {budget: 50000}
    discount_tiers:
      budget:
        - {}
        - {}
        - {threshold: 1500000, discount_round_trip: 100000}
        - {}
        - {}
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeFile(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, []string{"kafka-1:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "emails", cfg.Kafka.EmailTopic)
	assert.Equal(t, "faredesk.bookings", cfg.Kafka.BookingsTopic, "unset keys keep defaults")
	assert.Equal(t, ratelimit.Limit{RequestsPerSecond: 3, Burst: 6}, cfg.RateLimit.Default)
	assert.Equal(t, ratelimit.Limit{RequestsPerSecond: 1, Burst: 2}, cfg.RateLimit.Backends["vna"])
	assert.Equal(t, []string{"ICN"}, cfg.Search.BudgetAirports)
	assert.Equal(t, "https://thuhongtour.com", cfg.Backends.BaseURL)

	live := cfg.PriceConfigs[pricing.SegmentLive]
	assert.Equal(t, models.Money(30_000), live.OneWayFee)
	assert.Equal(t, models.Money(1_950_000), pricing.ComputeFinalPrice(2_000_000, models.RoundTrip, carrier.BudgetCarrier, live))
}

func TestLoad_ShortTierListDefaultsToZero(t *testing.T) {
	cfg, err := Load(writeFile(t, `
price_configs:
  page:
    discount_tiers:
      flag:
        - {threshold: 1000000, discount_one_way: 5000}
`))
	require.NoError(t, err)

	flag := cfg.PriceConfigs[pricing.SegmentPage].Tiers.Flag
	assert.Equal(t, pricing.Tier{Threshold: 1_000_000, DiscountOneWay: 5_000}, flag[0])
	for i := 1; i < pricing.TierCount; i++ {
		assert.Zero(t, flag[i], "tier %d", i+1)
	}
	assert.Equal(t, pricing.Tiers{}, cfg.PriceConfigs[pricing.SegmentPage].Tiers.Budget)
}

func TestLoad_TooManyTiers(t *testing.T) {
	_, err := Load(writeFile(t, `
price_configs:
  page:
    discount_tiers:
      other: [{}, {}, {}, {}, {}, {}]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 5 discount tiers")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("CACHE_ENABLED", "0")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_TTL", "90s")
	t.Setenv("DATABASE_DSN", "postgres://u:p@db/faredesk")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load(writeFile(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.HTTP.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "postgres://u:p@db/faredesk", cfg.Database.DSN)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeFile(t, "http: ["))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "price_configs:\n  vip: {one_way_fee: 1}\n"))
	assert.ErrorIs(t, err, pricing.ErrUnknownSegment)

	_, err = Load(writeFile(t, "price_configs:\n  page: {one_way_fee: -1}\n"))
	assert.Error(t, err)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("FAREDESK_BOOL", "yes")
	t.Setenv("FAREDESK_DURATION", "soon")
	assert.True(t, getEnvBool("FAREDESK_BOOL", false))
	assert.Equal(t, time.Second, getEnvDuration("FAREDESK_DURATION", time.Second))
	assert.Equal(t, "fallback", getEnv("FAREDESK_UNSET", "fallback"))
}

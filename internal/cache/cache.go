package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/faredesk/internal/models"
)

// Cache stores normalized backend results. Entries are per backend and per
// direct-only flag, so the connecting fallback never reads a direct-only hit.
type Cache interface {
	Get(ctx context.Context, backend string, req models.SearchRequest, directOnly bool) ([]models.FlightQuote, bool)
	Set(ctx context.Context, backend string, req models.SearchRequest, directOnly bool, quotes []models.FlightQuote) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr: "localhost:6379",
		TTL:  5 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	return newRedisCache(client, cfg.TTL), nil
}

func newRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, backend string, req models.SearchRequest, directOnly bool) ([]models.FlightQuote, bool) {
	data, err := c.client.Get(ctx, Key(backend, req, directOnly)).Bytes()
	if err != nil {
		return nil, false
	}

	var quotes []models.FlightQuote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, false
	}
	return quotes, true
}

func (c *RedisCache) Set(ctx context.Context, backend string, req models.SearchRequest, directOnly bool, quotes []models.FlightQuote) error {
	data, err := json.Marshal(quotes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(backend, req, directOnly), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, backend string, req models.SearchRequest, directOnly bool) ([]models.FlightQuote, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, backend string, req models.SearchRequest, directOnly bool, quotes []models.FlightQuote) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// Key derives the cache key of one backend call.
func Key(backend string, req models.SearchRequest, directOnly bool) string {
	keyData := struct {
		Backend       string
		Origin        string
		Destination   string
		DepartureDate string
		ReturnDate    string
		TripType      models.TripType
		Adults        int
		Children      int
		Infants       int
		DirectOnly    bool
	}{
		Backend:       backend,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		TripType:      req.TripType,
		Adults:        req.Adults,
		Children:      req.Children,
		Infants:       req.Infants,
		DirectOnly:    directOnly,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "fares:" + backend + ":" + hex.EncodeToString(hash[:])
}

var (
	_ Cache = (*RedisCache)(nil)
	_ Cache = (*NoOpCache)(nil)
)

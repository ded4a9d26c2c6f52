// Package cache wraps a market data provider with a Redis read-through cache
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bobmcallan/tickerscope/internal/common"
	"github.com/bobmcallan/tickerscope/internal/interfaces"
	"github.com/bobmcallan/tickerscope/internal/models"
)

const keyPrefix = "tickerscope"

// RedisClient is the subset of the go-redis client used by the cache
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

var _ interfaces.MarketDataProvider = (*CachedProvider)(nil)

// CachedProvider serves series and fundamentals from Redis when present.
// Provider errors are never cached. Cache failures fall through to the
// wrapped provider.
type CachedProvider struct {
	next   interfaces.MarketDataProvider
	client RedisClient
	ttl    time.Duration
	logger *common.Logger
	tracer trace.Tracer
}

// NewCachedProvider wraps next with a Redis cache
func NewCachedProvider(next interfaces.MarketDataProvider, client RedisClient, ttl time.Duration, logger *common.Logger) *CachedProvider {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &CachedProvider{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
		tracer: otel.Tracer("github.com/bobmcallan/tickerscope/internal/clients/cache"),
	}
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// SeriesKey is the cache key for a price series
func SeriesKey(symbol, period, interval string) string {
	p, err := models.NormalizePeriod(period)
	if err != nil {
		p = period
	}
	return fmt.Sprintf("%s:series:%s:%s:%s", keyPrefix, models.NormalizeSymbol(symbol), p, interval)
}

// FundamentalsKey is the cache key for fundamentals
func FundamentalsKey(symbol string) string {
	return fmt.Sprintf("%s:fundamentals:%s", keyPrefix, models.NormalizeSymbol(symbol))
}

// FetchSeries returns the cached series or fetches and caches it
func (p *CachedProvider) FetchSeries(ctx context.Context, symbol, period, interval string) (*models.SeriesResponse, error) {
	key := SeriesKey(symbol, period, interval)
	ctx, span := p.tracer.Start(ctx, "cache.fetch-series", trace.WithAttributes(attribute.String("key", key)))
	defer span.End()

	var cached models.SeriesResponse
	if p.read(ctx, key, &cached) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &cached, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	resp, err := p.next.FetchSeries(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}
	p.write(ctx, key, resp)
	return resp, nil
}

// FetchFundamentals returns cached fundamentals or fetches and caches them
func (p *CachedProvider) FetchFundamentals(ctx context.Context, symbol string) (*models.FundamentalMetrics, error) {
	key := FundamentalsKey(symbol)
	ctx, span := p.tracer.Start(ctx, "cache.fetch-fundamentals", trace.WithAttributes(attribute.String("key", key)))
	defer span.End()

	var cached models.FundamentalMetrics
	if p.read(ctx, key, &cached) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &cached, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	metrics, err := p.next.FetchFundamentals(ctx, symbol)
	if err != nil {
		return nil, err
	}
	p.write(ctx, key, metrics)
	return metrics, nil
}

func (p *CachedProvider) read(ctx context.Context, key string, dest interface{}) bool {
	raw, err := p.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return false
	}
	p.logger.Debug().Str("key", key).Msg("Cache hit")
	return true
}

func (p *CachedProvider) write(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("Cache encode failed")
		return
	}
	if err := p.client.Set(ctx, key, data, p.ttl).Err(); err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

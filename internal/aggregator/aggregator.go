package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dharmasatrya/faredesk/internal/cache"
	"github.com/dharmasatrya/faredesk/internal/models"
	"github.com/dharmasatrya/faredesk/internal/providers"
	"github.com/dharmasatrya/faredesk/internal/ratelimit"
)

type Status string

const (
	StatusOK          Status = "ok"
	StatusNotFound    Status = "not_found"
	StatusFailed      Status = "failed"
	StatusUnavailable Status = "unavailable"
)

const (
	FlightTypeDirect     = "direct"
	FlightTypeConnecting = "connecting"
)

// MessageBudgetDomestic is reported when the budget backend does not serve a
// route.
const MessageBudgetDomestic = "VIETJET CHƯA CẬP NHẬT CÁC CHUYẾN BAY NỘI ĐỊA"

// CarrierResult is delivered once per backend per search.
type CarrierResult struct {
	Carrier    string               `json:"carrier"`
	Backend    string               `json:"backend"`
	Status     Status               `json:"status"`
	FlightType string               `json:"flight_type,omitempty"`
	Quotes     []models.FlightQuote `json:"quotes"`
	Message    string               `json:"message,omitempty"`
	CacheHit   bool                 `json:"cache_hit"`
	Elapsed    time.Duration        `json:"-"`
	Err        error                `json:"-"`
}

// RouteRule reports whether a backend serves the requested route.
type RouteRule func(req models.SearchRequest) bool

// TouchesAirport serves routes whose origin or destination is in airports.
func TouchesAirport(airports []string) RouteRule {
	set := make(map[string]struct{}, len(airports))
	for _, a := range airports {
		set[strings.ToUpper(strings.TrimSpace(a))] = struct{}{}
	}
	return func(req models.SearchRequest) bool {
		_, from := set[strings.ToUpper(req.Origin)]
		_, to := set[strings.ToUpper(req.Destination)]
		return from || to
	}
}

type Backend struct {
	Provider providers.Provider
	// Carrier is the code reported in results, e.g. "VJ".
	Carrier string
	// Serves is optional; nil serves every route.
	Serves RouteRule
	// UnavailableMessage is reported when Serves rejects a route.
	UnavailableMessage string
}

type Config struct {
	RateLimiter *ratelimit.BackendLimiter
	Cache       cache.Cache
	Logger      *slog.Logger
}

// Aggregator fans a search out to every backend concurrently. Each backend
// is asked for direct itineraries first and, only if none come back or the
// backend answers with an error status_code, for connecting ones. Transport
// and HTTP failures are final. There is no other retry and no timeout beyond
// the caller's context.
type Aggregator struct {
	backends []Backend
	config   Config
}

func NewAggregator(backends []Backend, config Config) *Aggregator {
	if config.Cache == nil {
		config.Cache = cache.NewNoOpCache()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Aggregator{
		backends: backends,
		config:   config,
	}
}

// Carriers lists the carrier codes of the configured backends.
func (a *Aggregator) Carriers() []string {
	out := make([]string, len(a.backends))
	for i, b := range a.backends {
		out[i] = b.Carrier
	}
	return out
}

// SearchAll calls onResult once per backend as each finishes, in completion
// order. Calls to onResult are serialized. SearchAll returns after every
// backend has reported, with the caller's context error if the search was
// cut short by it.
func (a *Aggregator) SearchAll(ctx context.Context, req models.SearchRequest, onResult func(CarrierResult)) error {
	var (
		g  errgroup.Group
		mu sync.Mutex
	)

	for _, b := range a.backends {
		b := b
		g.Go(func() error {
			result := a.searchWithFallback(ctx, b, req)
			if onResult != nil {
				mu.Lock()
				onResult(result)
				mu.Unlock()
			}
			if result.Status == StatusFailed && ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}

	return g.Wait()
}

func (a *Aggregator) searchWithFallback(ctx context.Context, b Backend, req models.SearchRequest) CarrierResult {
	start := time.Now()
	result := CarrierResult{
		Carrier: b.Carrier,
		Backend: b.Provider.Name(),
		Quotes:  []models.FlightQuote{},
	}
	logger := a.config.Logger.With(
		slog.String("backend", result.Backend),
		slog.String("origin", req.Origin),
		slog.String("destination", req.Destination),
		slog.String("departure_date", req.DepartureDate),
	)

	if b.Serves != nil && !b.Serves(req) {
		result.Status = StatusUnavailable
		result.Message = b.UnavailableMessage
		logger.Info("backend does not serve route")
		return result
	}

	for _, directOnly := range []bool{true, false} {
		quotes, hit, err := a.fetch(ctx, b.Provider, req, directOnly)
		var status *providers.StatusError
		if err != nil && directOnly && errors.As(err, &status) {
			// The backend answered but refused the direct-only query.
			logger.Info("direct search rejected, searching connecting", slog.Int("status_code", status.Code))
			continue
		}
		if err != nil {
			logger.Warn("backend search failed", slog.Bool("direct_only", directOnly), slog.Any("error", err))
			result.Status = StatusFailed
			result.Message = "Lỗi API " + b.Carrier
			result.Err = err
			result.Elapsed = time.Since(start)
			return result
		}

		if len(quotes) > 0 {
			result.Status = StatusOK
			result.FlightType = FlightTypeConnecting
			if directOnly {
				result.FlightType = FlightTypeDirect
			}
			result.Quotes = quotes
			result.CacheHit = hit
			result.Elapsed = time.Since(start)
			return result
		}

		if directOnly {
			logger.Info("no direct flights, searching connecting")
		}
	}

	result.Status = StatusNotFound
	result.Message = "Không có chuyến bay " + b.Carrier
	result.Elapsed = time.Since(start)
	return result
}

func (a *Aggregator) fetch(ctx context.Context, p providers.Provider, req models.SearchRequest, directOnly bool) ([]models.FlightQuote, bool, error) {
	if quotes, ok := a.config.Cache.Get(ctx, p.Name(), req, directOnly); ok {
		return quotes, true, nil
	}

	if a.config.RateLimiter != nil {
		if err := a.config.RateLimiter.Wait(ctx, p.Name()); err != nil {
			return nil, false, err
		}
	}

	quotes, err := p.Search(ctx, req, directOnly)
	if err != nil {
		return nil, false, err
	}

	if len(quotes) > 0 {
		if err := a.config.Cache.Set(ctx, p.Name(), req, directOnly, quotes); err != nil {
			a.config.Logger.Warn("cache write failed", slog.String("backend", p.Name()), slog.Any("error", err))
		}
	}
	return quotes, false, nil
}

// Package priceconfig loads per-segment pricing parameters from the
// price_configs table.
package priceconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dharmasatrya/faredesk/internal/carrier"
	"github.com/dharmasatrya/faredesk/internal/models"
	"github.com/dharmasatrya/faredesk/internal/pricing"
)

// Store never fails: a missing record, a missing field or a backend error
// all read as zero.
type Store interface {
	GetConfig(ctx context.Context, segment pricing.Segment) pricing.PriceConfig
}

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGStore struct {
	db     Querier
	logger *slog.Logger
}

func NewPGStore(db Querier, logger *slog.Logger) *PGStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PGStore{db: db, logger: logger}
}

// groupPrefix maps carrier groups to their column prefix.
var groupPrefix = map[carrier.Group]string{
	carrier.FlagCarrier:   "vna",
	carrier.BudgetCarrier: "vietjet",
	carrier.Other:         "other",
}

// columns lists the table columns in scan order: the one-way fee, one
// round-trip fee per group, then per group five (threshold, one-way
// discount, round-trip discount) triples.
func columns() []string {
	cols := []string{"one_way_fee"}
	for _, g := range carrier.Groups {
		cols = append(cols, "round_trip_fee_"+groupPrefix[g])
	}
	for _, g := range carrier.Groups {
		p := groupPrefix[g]
		for i := 1; i <= pricing.TierCount; i++ {
			cols = append(cols,
				fmt.Sprintf("%s_threshold_%d", p, i),
				fmt.Sprintf("%s_discount_ow_%d", p, i),
				fmt.Sprintf("%s_discount_rt_%d", p, i),
			)
		}
	}
	return cols
}

var selectConfigSQL = func() string {
	cols := columns()
	exprs := make([]string, len(cols))
	for i, c := range cols {
		exprs[i] = c + "::bigint"
	}
	return "SELECT " + strings.Join(exprs, ", ") + " FROM price_configs WHERE customer_mode = $1 LIMIT 1"
}()

func (s *PGStore) GetConfig(ctx context.Context, segment pricing.Segment) pricing.PriceConfig {
	values := make([]*int64, len(columns()))
	dest := make([]any, len(values))
	for i := range values {
		dest[i] = &values[i]
	}

	err := s.db.QueryRow(ctx, selectConfigSQL, string(segment)).Scan(dest...)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		s.logger.Info("no price config stored, using zero config", slog.String("segment", string(segment)))
		return pricing.EmptyConfig(segment)
	case err != nil:
		s.logger.Warn("price config load failed, using zero config",
			slog.String("segment", string(segment)), slog.Any("error", err))
		return pricing.EmptyConfig(segment)
	}

	return fromColumns(segment, values)
}

// fromColumns builds a config from values in columns() order. Nil entries
// and a short slice default to zero.
func fromColumns(segment pricing.Segment, values []*int64) pricing.PriceConfig {
	pos := 0
	next := func() models.Money {
		defer func() { pos++ }()
		if pos >= len(values) || values[pos] == nil {
			return 0
		}
		return models.Money(*values[pos])
	}

	cfg := pricing.EmptyConfig(segment)
	cfg.OneWayFee = next()

	fees := map[carrier.Group]models.Money{}
	for _, g := range carrier.Groups {
		fees[g] = next()
	}
	cfg.RoundTripFee = pricing.GroupFees{
		Flag:   fees[carrier.FlagCarrier],
		Budget: fees[carrier.BudgetCarrier],
		Other:  fees[carrier.Other],
	}

	for _, g := range carrier.Groups {
		var tiers pricing.Tiers
		for i := range tiers {
			tiers[i] = pricing.Tier{
				Threshold:         next(),
				DiscountOneWay:    next(),
				DiscountRoundTrip: next(),
			}
		}
		cfg.Tiers.Set(g, tiers)
	}
	return cfg
}

// MemoryStore serves configs held in memory, e.g. from the service config
// file when no database is configured.
type MemoryStore struct {
	configs map[pricing.Segment]pricing.PriceConfig
}

func NewMemoryStore(configs map[pricing.Segment]pricing.PriceConfig) *MemoryStore {
	m := &MemoryStore{configs: make(map[pricing.Segment]pricing.PriceConfig, len(configs))}
	for seg, cfg := range configs {
		cfg.Segment = seg
		m.configs[seg] = cfg
	}
	return m
}

func (m *MemoryStore) GetConfig(_ context.Context, segment pricing.Segment) pricing.PriceConfig {
	if cfg, ok := m.configs[segment]; ok {
		return cfg
	}
	return pricing.EmptyConfig(segment)
}

// LoadAll reads every segment once, as done at operator session start.
func LoadAll(ctx context.Context, store Store) map[pricing.Segment]pricing.PriceConfig {
	out := make(map[pricing.Segment]pricing.PriceConfig, len(pricing.Segments))
	for _, seg := range pricing.Segments {
		out[seg] = store.GetConfig(ctx, seg)
	}
	return out
}

var (
	_ Store = (*PGStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

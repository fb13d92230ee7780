package priceconfig

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/faredesk/internal/carrier"
	"github.com/dharmasatrya/faredesk/internal/models"
	"github.com/dharmasatrya/faredesk/internal/pricing"
)

type fakeRow struct {
	values map[string]int64
	err    error
}

// Scan fills destinations in columns() order from the named values. Absent
// names stay NULL.
func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, col := range columns() {
		v, ok := r.values[col]
		if !ok {
			continue
		}
		p := dest[i].(**int64)
		*p = &v
	}
	return nil
}

type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	called := m.Called(ctx, sql, args)
	return called.Get(0).(pgx.Row)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestColumns(t *testing.T) {
	cols := columns()
	assert.Len(t, cols, 1+3+3*pricing.TierCount*3)
	assert.Equal(t, "one_way_fee", cols[0])
	assert.Contains(t, cols, "round_trip_fee_vna")
	assert.Contains(t, cols, "vietjet_discount_rt_5")
	assert.Contains(t, cols, "other_threshold_1")
	assert.True(t, strings.HasSuffix(selectConfigSQL, "FROM price_configs WHERE customer_mode = $1 LIMIT 1"))
}

func TestPGStore_GetConfig_PartialRecord(t *testing.T) {
	q := &MockQuerier{}
	q.On("QueryRow", mock.Anything, selectConfigSQL, []any{"live"}).Return(fakeRow{values: map[string]int64{
		"one_way_fee":            30_000,
		"round_trip_fee_vietjet": 50_000,
		"vietjet_threshold_3":    1_500_000,
		"vietjet_discount_rt_3":  100_000,
		"vna_threshold_5":        3_000_000,
		"other_discount_ow_2":    7_000,
	}})

	cfg := NewPGStore(q, quietLogger()).GetConfig(context.Background(), pricing.SegmentLive)

	assert.Equal(t, pricing.SegmentLive, cfg.Segment)
	assert.Equal(t, models.Money(30_000), cfg.OneWayFee)
	assert.Equal(t, models.Money(50_000), cfg.RoundTripFee.Budget)
	assert.Zero(t, cfg.RoundTripFee.Flag)
	assert.Zero(t, cfg.RoundTripFee.Other)

	assert.Equal(t, pricing.Tier{Threshold: 1_500_000, DiscountRoundTrip: 100_000}, cfg.Tiers.Budget[2])
	assert.Equal(t, models.Money(3_000_000), cfg.Tiers.Flag[4].Threshold)
	assert.Equal(t, models.Money(7_000), cfg.Tiers.Other[1].DiscountOneWay)
	assert.Zero(t, cfg.Tiers.Other[1].Threshold)

	// Loaded values feed straight into the engine.
	assert.Equal(t, models.Money(1_950_000), pricing.ComputeFinalPrice(2_000_000, models.RoundTrip, carrier.BudgetCarrier, cfg))
	q.AssertExpectations(t)
}

func TestPGStore_GetConfig_Defaults(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"no row", pgx.ErrNoRows},
		{"backend error", errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &MockQuerier{}
			q.On("QueryRow", mock.Anything, selectConfigSQL, []any{"page"}).Return(fakeRow{err: tt.err})

			cfg := NewPGStore(q, quietLogger()).GetConfig(context.Background(), pricing.SegmentPage)
			assert.Equal(t, pricing.EmptyConfig(pricing.SegmentPage), cfg)
		})
	}
}

func TestFromColumns_ShortSlice(t *testing.T) {
	fee := int64(10)
	cfg := fromColumns(pricing.SegmentCustom, []*int64{&fee})
	assert.Equal(t, models.Money(10), cfg.OneWayFee)
	assert.Zero(t, cfg.RoundTripFee.Flag)
}

func TestMemoryStoreAndLoadAll(t *testing.T) {
	store := NewMemoryStore(map[pricing.Segment]pricing.PriceConfig{
		pricing.SegmentPage: {OneWayFee: 20_000},
	})

	all := LoadAll(context.Background(), store)
	require.Len(t, all, len(pricing.Segments))
	assert.Equal(t, models.Money(20_000), all[pricing.SegmentPage].OneWayFee)
	assert.Equal(t, pricing.SegmentPage, all[pricing.SegmentPage].Segment)
	assert.Equal(t, pricing.EmptyConfig(pricing.SegmentLive), all[pricing.SegmentLive])
	assert.Equal(t, pricing.EmptyConfig(pricing.SegmentCustom), all[pricing.SegmentCustom])
}

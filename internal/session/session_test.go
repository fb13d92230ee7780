package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/faredesk/internal/aggregator"
	"github.com/dharmasatrya/faredesk/internal/filter"
	"github.com/dharmasatrya/faredesk/internal/models"
	"github.com/dharmasatrya/faredesk/internal/pricing"
)

func newState() State {
	return New("s1", pricing.SegmentPage, map[pricing.Segment]pricing.PriceConfig{
		pricing.SegmentPage: {OneWayFee: 10_000},
		pricing.SegmentLive: {OneWayFee: 20_000},
	})
}

func quote(code string, stops int, fare models.Money) models.FlightQuote {
	return models.FlightQuote{
		Outbound: models.FlightLeg{Carrier: code, Origin: "ICN", Destination: "HAN", Stops: stops, DepartureTime: "10:00", DepartureDate: "17/04/2026"},
		Fare:     models.FareInfo{RawFare: fare, BaggageTag: "ADT"},
	}
}

func TestNew_FillsMissingSegments(t *testing.T) {
	s := newState()
	require.Len(t, s.Configs, len(pricing.Segments))
	assert.Equal(t, pricing.EmptyConfig(pricing.SegmentCustom), s.Configs[pricing.SegmentCustom])
	assert.Equal(t, pricing.SegmentLive, s.Configs[pricing.SegmentLive].Segment)
	assert.Equal(t, filter.DefaultCriteria(), s.Criteria)
}

func TestReduce_SelectSegment(t *testing.T) {
	s := newState()

	next, err := Reduce(s, SelectSegment{Segment: "LIVE"})
	require.NoError(t, err)
	assert.Equal(t, pricing.SegmentLive, next.Segment)
	assert.Equal(t, models.Money(20_000), next.ActiveConfig().OneWayFee)
	assert.Equal(t, pricing.SegmentPage, s.Segment, "input state is not mutated")

	_, err = Reduce(s, SelectSegment{Segment: "vip"})
	assert.ErrorIs(t, err, pricing.ErrUnknownSegment)
}

func TestReduce_Filters(t *testing.T) {
	s, err := Reduce(newState(), SetAirlineFilter{Airline: "vna"})
	require.NoError(t, err)
	s, err = Reduce(s, SetFlightTypeFilter{FlightType: filter.FlightTypeDirect})
	require.NoError(t, err)
	s, err = Reduce(s, SetDepartureWindow{Min: "06:00", Max: "12:00"})
	require.NoError(t, err)

	assert.Equal(t, filter.Criteria{
		Airline:          filter.AirlineFlag,
		FlightType:       filter.FlightTypeDirect,
		DepartureTimeMin: "06:00",
		DepartureTimeMax: "12:00",
	}, s.Criteria)

	_, err = Reduce(s, SetAirlineFilter{Airline: "KE"})
	assert.Error(t, err)
	_, err = Reduce(s, SetDepartureWindow{Min: "6am"})
	assert.Error(t, err)
}

func TestReduce_EditCustomConfig(t *testing.T) {
	s := newState()

	cfg := pricing.PriceConfig{OneWayFee: 5_000}
	next, err := Reduce(s, EditCustomConfig{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, models.Money(5_000), next.Configs[pricing.SegmentCustom].OneWayFee)
	assert.Equal(t, pricing.SegmentCustom, next.Configs[pricing.SegmentCustom].Segment)
	assert.Zero(t, s.Configs[pricing.SegmentCustom].OneWayFee, "original map untouched")

	bad := pricing.PriceConfig{}
	bad.Tiers.Flag[0].Threshold = -1
	same, err := Reduce(next, EditCustomConfig{Config: bad})
	assert.Error(t, err)
	assert.Equal(t, next, same)
}

func TestReduce_SearchLifecycle(t *testing.T) {
	req := models.SearchRequest{Origin: "ICN", Destination: "HAN", TripType: models.OneWay}

	s, err := Reduce(newState(), SearchStarted{Request: req, Carriers: []string{"VJ", "VNA"}})
	require.NoError(t, err)
	assert.True(t, s.Searching)
	assert.Equal(t, SearchPending, s.Carriers["VJ"].Status)

	_, err = Reduce(s, SearchStarted{Request: req})
	assert.ErrorIs(t, err, ErrSearchInProgress)

	s, err = Reduce(s, CarrierResult{Result: aggregator.CarrierResult{
		Carrier: "VJ", Status: aggregator.StatusUnavailable, Message: aggregator.MessageBudgetDomestic,
		Quotes: []models.FlightQuote{quote("VJ", 0, 100)},
	}})
	require.NoError(t, err)
	assert.True(t, s.BudgetUnavailable)

	s, err = Reduce(s, CarrierResult{Result: aggregator.CarrierResult{
		Carrier: "VNA", Status: aggregator.StatusOK, FlightType: aggregator.FlightTypeDirect,
		Quotes: []models.FlightQuote{quote("VNA", 0, 900), quote("KE", 0, 500)},
	}})
	require.NoError(t, err)
	s, err = Reduce(s, SearchFinished{})
	require.NoError(t, err)
	assert.False(t, s.Searching)

	results := s.Results()
	assert.Empty(t, results.Budget)
	require.Len(t, results.Flag, 1)
	assert.Equal(t, models.Money(10_900), results.Flag[0].FinalPrice)
	require.NotNil(t, results.CheapestOther)
	assert.Equal(t, "KE", results.CheapestOther.Carrier())

	// Switching segment reprices without a new search.
	live, err := Reduce(s, SelectSegment{Segment: pricing.SegmentLive})
	require.NoError(t, err)
	assert.Equal(t, models.Money(20_900), live.Results().Flag[0].FinalPrice)
}

func TestReduce_CarrierResultWithoutSearch(t *testing.T) {
	_, err := Reduce(newState(), CarrierResult{Result: aggregator.CarrierResult{Carrier: "VJ"}})
	assert.ErrorIs(t, err, ErrNoSearch)
}

func TestStore(t *testing.T) {
	store := NewStore()
	st := store.Create(pricing.SegmentLive, nil)
	require.NotEmpty(t, st.ID)

	got, err := store.Get(st.ID)
	require.NoError(t, err)
	assert.Equal(t, pricing.SegmentLive, got.Segment)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Dispatch("missing", SearchFinished{})
	assert.ErrorIs(t, err, ErrNotFound)

	var wg sync.WaitGroup
	for _, a := range []filter.Airline{filter.AirlineBudget, filter.AirlineFlag, filter.AirlineAll} {
		a := a
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Dispatch(st.ID, SetAirlineFilter{Airline: a})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	store.Delete(st.ID)
	_, err = store.Get(st.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

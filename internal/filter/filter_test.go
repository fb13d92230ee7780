package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/faredesk/internal/models"
)

func leg(code, id string, stops int, dep string) models.FlightLeg {
	return models.FlightLeg{Carrier: code, FlightID: id, Stops: stops, DepartureTime: dep}
}

func sample() []models.FlightQuote {
	return []models.FlightQuote{
		{Outbound: leg("VJ", "vj-connecting", 1, "06:00"), Fare: models.FareInfo{RawFare: 300}},
		{Outbound: leg("VJ", "vj-direct", 0, "10:00"), Fare: models.FareInfo{RawFare: 400}},
		{Outbound: leg("VNA", "vna-connecting", 1, "08:00"), Fare: models.FareInfo{RawFare: 200}},
		{Outbound: leg("VNA", "vna-direct", 0, "23:30"), Fare: models.FareInfo{RawFare: 900}},
		{Outbound: leg("OZ", "oz", 0, "12:00"), Fare: models.FareInfo{RawFare: 700}},
		{Outbound: leg("KE", "ke", 1, "13:00"), Fare: models.FareInfo{RawFare: 500}},
	}
}

func flightIDs(quotes []models.FlightQuote) []string {
	var out []string
	for _, q := range quotes {
		out = append(out, q.Outbound.FlightID)
	}
	return out
}

func TestApply_AllAirlines(t *testing.T) {
	v := Apply(sample(), DefaultCriteria(), false)

	assert.Equal(t, []string{"vj-connecting", "vj-direct"}, flightIDs(v.Budget))
	assert.Equal(t, []string{"vna-direct", "vna-connecting"}, flightIDs(v.Flag))
	assert.Equal(t, []string{"ke", "oz"}, flightIDs(v.Other))
}

func TestApply_FlightTypeOnlyNarrowsFlag(t *testing.T) {
	v := Apply(sample(), Criteria{Airline: AirlineAll, FlightType: FlightTypeDirect}, false)
	assert.Equal(t, []string{"vna-direct"}, flightIDs(v.Flag))
	assert.Len(t, v.Budget, 2)
	assert.Len(t, v.Other, 2)

	v = Apply(sample(), Criteria{Airline: AirlineAll, FlightType: FlightTypeConnecting}, false)
	assert.Equal(t, []string{"vna-connecting"}, flightIDs(v.Flag))
}

func TestApply_AirlineSelection(t *testing.T) {
	budgetOnly := Apply(sample(), Criteria{Airline: AirlineBudget}, false)
	assert.Len(t, budgetOnly.Budget, 2)
	assert.Empty(t, budgetOnly.Flag)
	assert.Empty(t, budgetOnly.Other)

	flagOnly := Apply(sample(), Criteria{Airline: AirlineFlag}, false)
	assert.Empty(t, flagOnly.Budget)
	assert.Len(t, flagOnly.Flag, 2)
	assert.Len(t, flagOnly.Other, 2)
}

func TestApply_BudgetUnavailable(t *testing.T) {
	v := Apply(sample(), DefaultCriteria(), true)
	assert.Empty(t, v.Budget)
	assert.Len(t, v.Flag, 2)
}

func TestApply_DepartureWindow(t *testing.T) {
	v := Apply(sample(), Criteria{DepartureTimeMin: "07:00", DepartureTimeMax: "12:30"}, false)
	assert.Equal(t, []string{"vj-direct"}, flightIDs(v.Budget))
	assert.Equal(t, []string{"vna-connecting"}, flightIDs(v.Flag))
	assert.Equal(t, []string{"oz"}, flightIDs(v.Other))
}

func TestParseCriteria(t *testing.T) {
	a, err := ParseAirline("vj")
	require.NoError(t, err)
	assert.Equal(t, AirlineBudget, a)

	a, err = ParseAirline("")
	require.NoError(t, err)
	assert.Equal(t, AirlineAll, a)

	_, err = ParseAirline("KE")
	assert.Error(t, err)

	ft, err := ParseFlightType("Direct")
	require.NoError(t, err)
	assert.Equal(t, FlightTypeDirect, ft)

	_, err = ParseFlightType("red-eye")
	assert.Error(t, err)
}

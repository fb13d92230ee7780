package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/dharmasatrya/faredesk/internal/carrier"
	"github.com/dharmasatrya/faredesk/internal/classify"
	"github.com/dharmasatrya/faredesk/internal/models"
	"github.com/dharmasatrya/faredesk/internal/ranking"
)

// Airline selects which carrier's results are shown.
type Airline string

const (
	AirlineAll    Airline = "all"
	AirlineBudget Airline = carrier.CodeBudget
	AirlineFlag   Airline = carrier.CodeFlag
)

func ParseAirline(s string) (Airline, error) {
	switch a := Airline(strings.ToUpper(strings.TrimSpace(s))); a {
	case "", "ALL":
		return AirlineAll, nil
	case AirlineBudget, AirlineFlag:
		return a, nil
	}
	return "", fmt.Errorf("airline filter must be all, %s or %s", AirlineBudget, AirlineFlag)
}

// FlightType narrows flag-carrier results by itinerary shape.
type FlightType string

const (
	FlightTypeAll        FlightType = "all"
	FlightTypeDirect     FlightType = "direct"
	FlightTypeConnecting FlightType = "connecting"
)

func ParseFlightType(s string) (FlightType, error) {
	switch ft := FlightType(strings.ToLower(strings.TrimSpace(s))); ft {
	case "", FlightTypeAll:
		return FlightTypeAll, nil
	case FlightTypeDirect, FlightTypeConnecting:
		return ft, nil
	}
	return "", fmt.Errorf("flight type filter must be all, direct or connecting")
}

type Criteria struct {
	Airline    Airline    `json:"airline"`
	FlightType FlightType `json:"flight_type"`
	// DepartureTimeMin and DepartureTimeMax are optional HH:MM bounds on the
	// outbound departure.
	DepartureTimeMin string `json:"departure_time_min,omitempty"`
	DepartureTimeMax string `json:"departure_time_max,omitempty"`
}

func DefaultCriteria() Criteria {
	return Criteria{Airline: AirlineAll, FlightType: FlightTypeAll}
}

// Views is the filtered and display-sorted result set.
type Views struct {
	Budget []models.FlightQuote
	Flag   []models.FlightQuote
	Other  []models.FlightQuote
}

// Apply splits quotes by carrier group and filters each group. Budget results
// are dropped entirely when budgetUnavailable is set. The flight type filter
// only narrows the flag carrier group.
func Apply(quotes []models.FlightQuote, criteria Criteria, budgetUnavailable bool) Views {
	var v Views

	for _, q := range quotes {
		if !matchesDepartureWindow(q, criteria) {
			continue
		}

		switch carrier.GroupOf(q.Carrier()) {
		case carrier.BudgetCarrier:
			if budgetUnavailable || criteria.Airline == AirlineFlag {
				continue
			}
			v.Budget = append(v.Budget, q)
		case carrier.FlagCarrier:
			if criteria.Airline == AirlineBudget || !matchesFlightType(q, criteria.FlightType) {
				continue
			}
			v.Flag = append(v.Flag, q)
		default:
			if criteria.Airline == AirlineBudget {
				continue
			}
			v.Other = append(v.Other, q)
		}
	}

	v.Budget = ranking.SortForDisplay(v.Budget, carrier.BudgetCarrier)
	v.Flag = ranking.SortForDisplay(v.Flag, carrier.FlagCarrier)
	v.Other = ranking.SortForDisplay(v.Other, carrier.Other)
	return v
}

func matchesFlightType(q models.FlightQuote, ft FlightType) bool {
	switch ft {
	case FlightTypeDirect:
		return classify.IsDirect(q)
	case FlightTypeConnecting:
		return !classify.IsDirect(q)
	default:
		return true
	}
}

func matchesDepartureWindow(q models.FlightQuote, criteria Criteria) bool {
	if criteria.DepartureTimeMin == "" && criteria.DepartureTimeMax == "" {
		return true
	}

	dep, err := parseTimeOfDay(q.Outbound.DepartureTime)
	if err != nil {
		return true
	}

	if criteria.DepartureTimeMin != "" {
		if minTime, err := parseTimeOfDay(criteria.DepartureTimeMin); err == nil && dep < minTime {
			return false
		}
	}
	if criteria.DepartureTimeMax != "" {
		if maxTime, err := parseTimeOfDay(criteria.DepartureTimeMax); err == nil && dep > maxTime {
			return false
		}
	}
	return true
}

func parseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

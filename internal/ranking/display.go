package ranking

import (
	"sort"

	"github.com/dharmasatrya/faredesk/internal/carrier"
	"github.com/dharmasatrya/faredesk/internal/classify"
	"github.com/dharmasatrya/faredesk/internal/models"
)

// BaggagePriority orders flag-carrier fare bundles: VFR (46kg) before ADT
// (23kg) before anything else.
func BaggagePriority(tag string) int {
	switch tag {
	case "VFR":
		return 1
	case "ADT":
		return 2
	default:
		return 3
	}
}

// SortForDisplay returns a sorted copy of quotes. Flag-carrier results put
// direct itineraries first, then order by baggage priority and raw fare.
// Every other group is ordered by raw fare. Ties keep their input order.
func SortForDisplay(quotes []models.FlightQuote, group carrier.Group) []models.FlightQuote {
	sorted := make([]models.FlightQuote, len(quotes))
	copy(sorted, quotes)

	if group != carrier.FlagCarrier {
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Fare.RawFare < sorted[j].Fare.RawFare
		})
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		aDirect, bDirect := classify.IsDirect(a), classify.IsDirect(b)
		if aDirect != bDirect {
			return aDirect
		}

		ap, bp := BaggagePriority(a.Fare.BaggageTag), BaggagePriority(b.Fare.BaggageTag)
		if ap != bp {
			return ap < bp
		}

		return a.Fare.RawFare < b.Fare.RawFare
	})
	return sorted
}

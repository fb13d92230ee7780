package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dharmasatrya/faredesk/internal/carrier"
	"github.com/dharmasatrya/faredesk/internal/models"
)

func q(id string, stops int, fare models.Money, tag string) models.FlightQuote {
	return models.FlightQuote{
		Outbound: models.FlightLeg{Carrier: "VNA", FlightID: id, Stops: stops},
		Fare:     models.FareInfo{RawFare: fare, BaggageTag: tag},
	}
}

func ids(quotes []models.FlightQuote) []string {
	out := make([]string, len(quotes))
	for i, quote := range quotes {
		out[i] = quote.Outbound.FlightID
	}
	return out
}

func TestSortForDisplay_FlagDirectFirst(t *testing.T) {
	in := []models.FlightQuote{
		q("connecting-cheap", 1, 500_000, "ADT"),
		q("direct-expensive", 0, 900_000, "ADT"),
		q("direct-cheap", 0, 600_000, "ADT"),
	}

	got := SortForDisplay(in, carrier.FlagCarrier)
	assert.Equal(t, []string{"direct-cheap", "direct-expensive", "connecting-cheap"}, ids(got))
	assert.Equal(t, "connecting-cheap", in[0].Outbound.FlightID, "input is not modified")
}

func TestSortForDisplay_FlagBaggageBeforePrice(t *testing.T) {
	in := []models.FlightQuote{
		q("adt-cheap", 0, 400_000, "ADT"),
		q("other", 0, 100_000, "STU"),
		q("vfr-pricey", 0, 800_000, "VFR"),
		q("vfr-cheap", 0, 700_000, "VFR"),
	}

	got := SortForDisplay(in, carrier.FlagCarrier)
	assert.Equal(t, []string{"vfr-cheap", "vfr-pricey", "adt-cheap", "other"}, ids(got))
}

func TestSortForDisplay_Stable(t *testing.T) {
	in := []models.FlightQuote{
		q("a", 0, 500_000, "ADT"),
		q("b", 0, 500_000, "ADT"),
		q("c", 0, 500_000, "ADT"),
	}

	for _, g := range carrier.Groups {
		assert.Equal(t, []string{"a", "b", "c"}, ids(SortForDisplay(in, g)), string(g))
	}
}

func TestSortForDisplay_OtherGroupsByPriceOnly(t *testing.T) {
	in := []models.FlightQuote{
		q("direct-pricey", 0, 900_000, "VFR"),
		q("connecting-cheap", 1, 300_000, ""),
	}

	got := SortForDisplay(in, carrier.BudgetCarrier)
	assert.Equal(t, []string{"connecting-cheap", "direct-pricey"}, ids(got))
}

func TestBaggagePriority(t *testing.T) {
	assert.Equal(t, 1, BaggagePriority("VFR"))
	assert.Equal(t, 2, BaggagePriority("ADT"))
	assert.Equal(t, 3, BaggagePriority(""))
	assert.Equal(t, 3, BaggagePriority("STU"))
}

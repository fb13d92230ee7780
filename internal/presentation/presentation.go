// Package presentation prices classified quotes with the active config and
// prepares what the operator sees and copies to customers.
package presentation

import (
	"fmt"
	"strings"

	"github.com/dharmasatrya/faredesk/internal/carrier"
	"github.com/dharmasatrya/faredesk/internal/classify"
	"github.com/dharmasatrya/faredesk/internal/filter"
	"github.com/dharmasatrya/faredesk/internal/models"
	"github.com/dharmasatrya/faredesk/internal/pricing"
	"github.com/dharmasatrya/faredesk/internal/timezone"
	"github.com/dharmasatrya/faredesk/pkg/currency"
)

type PricedQuote struct {
	models.FlightQuote
	Classification classify.Classification `json:"classification"`
	CarrierInfo    carrier.Info            `json:"carrier_info"`
	Breakdown      pricing.Breakdown       `json:"breakdown"`
	FinalPrice     models.Money            `json:"final_price"`
	DisplayPrice   string                  `json:"display_price"`
	// CopyText is only filled for direct itineraries.
	CopyText string `json:"copy_text,omitempty"`
}

type Results struct {
	Budget        []PricedQuote `json:"budget"`
	Flag          []PricedQuote `json:"flag"`
	Other         []PricedQuote `json:"other"`
	CheapestOther *PricedQuote  `json:"cheapest_other,omitempty"`
}

// Price annotates one quote. The trip type is the searched one, not
// inferred from the legs.
func Price(q models.FlightQuote, tripType models.TripType, cfg pricing.PriceConfig) PricedQuote {
	c := classify.Classify(q)
	b := pricing.Explain(q.Fare.RawFare, tripType, c.Group, cfg)

	pq := PricedQuote{
		FlightQuote:    q,
		Classification: c,
		CarrierInfo:    carrier.Describe(q.Carrier()),
		Breakdown:      b,
		FinalPrice:     b.Final,
		DisplayPrice:   currency.FormatDisplay(int64(b.Final)),
	}
	if c.IsDirect {
		pq.CopyText = CopyText(q, b.Final)
	}
	return pq
}

// Build prices each filtered view. The views keep their display order.
func Build(v filter.Views, tripType models.TripType, cfg pricing.PriceConfig) Results {
	r := Results{
		Budget: priceAll(v.Budget, tripType, cfg),
		Flag:   priceAll(v.Flag, tripType, cfg),
		Other:  priceAll(v.Other, tripType, cfg),
	}
	if len(r.Other) > 0 {
		cheapest := r.Other[0]
		r.CheapestOther = &cheapest
	}
	return r
}

func priceAll(quotes []models.FlightQuote, tripType models.TripType, cfg pricing.PriceConfig) []PricedQuote {
	out := make([]PricedQuote, len(quotes))
	for i, q := range quotes {
		out[i] = Price(q, tripType, cfg)
	}
	return out
}

// CopyText renders the customer message: one line per flown segment, then
// the carrier baggage line with the display price.
func CopyText(q models.FlightQuote, finalPrice models.Money) string {
	lines := legLines(q.Outbound)
	if q.Inbound != nil {
		lines = append(lines, legLines(*q.Inbound)...)
	}
	lines = append(lines, baggageLine(q, finalPrice))
	return strings.Join(lines, "\n")
}

func legLines(l models.FlightLeg) []string {
	if l.Stops == 1 && l.FirstStop() != "" {
		return []string{
			segmentLine(l.Origin, l.FirstStop(), l.DepartureTime, l.DepartureDate),
			segmentLine(l.FirstStop(), l.Destination, l.ArrivalTime, l.ArrivalDate),
		}
	}
	return []string{segmentLine(l.Origin, l.Destination, l.DepartureTime, l.DepartureDate)}
}

func segmentLine(from, to, clock, date string) string {
	return fmt.Sprintf("%s-%s %s ngày %s", from, to, clock, timezone.FormatDayMonth(date))
}

func baggageLine(q models.FlightQuote, finalPrice models.Money) string {
	price := fmt.Sprintf("giá vé = %sw", currency.FormatDisplay(int64(finalPrice)))
	info := carrier.Describe(q.Carrier())

	switch info.Group {
	case carrier.FlagCarrier:
		switch q.Fare.BaggageTag {
		case "ADT":
			return fmt.Sprintf("%s %s xách tay, 23kg ký gửi, %s", info.Name, info.CarryOn, price)
		case "VFR":
			return fmt.Sprintf("%s %s xách tay, 46kg ký gửi, %s", info.Name, info.CarryOn, price)
		}
		// Flag fares outside the two bundles have no fixed allowance.
		return fmt.Sprintf("%s 10kg xách tay, %s", info.Code, price)
	case carrier.BudgetCarrier:
		return fmt.Sprintf("%s %s xách tay, %s ký gửi, %s", info.Name, info.CarryOn, info.Checked, price)
	}

	if !info.Known {
		return fmt.Sprintf("%s %s xách tay, %s", info.Code, info.CarryOn, price)
	}
	checked := ", ký gửi tuỳ gói"
	if info.Checked != "" {
		checked = ", " + info.Checked + " ký gửi"
	}
	return fmt.Sprintf("%s %s xách tay%s, %s", info.Name, info.CarryOn, checked, price)
}

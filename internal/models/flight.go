package models

import "time"

// Money is an amount in the agency's selling currency (KRW), in whole units.
type Money int64

type TripType string

const (
	OneWay    TripType = "OW"
	RoundTrip TripType = "RT"
)

// StopsUnknown marks a leg whose stop count could not be read from the backend.
const StopsUnknown = -1

// FlightLeg is one directional segment of an itinerary, normalized from
// whichever backend returned it.
type FlightLeg struct {
	Carrier       string    `json:"carrier"`
	FlightID      string    `json:"flight_id"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureDate string    `json:"departure_date"`
	DepartureTime string    `json:"departure_time"`
	ArrivalDate   string    `json:"arrival_date"`
	ArrivalTime   string    `json:"arrival_time"`
	Departure     time.Time `json:"departure,omitempty"`
	Arrival       time.Time `json:"arrival,omitempty"`
	FlightTime    string    `json:"flight_time,omitempty"`
	LayoverTime   string    `json:"layover_time,omitempty"`
	Stops         int       `json:"stops"`
	StopAirports  []string  `json:"stop_airports,omitempty"`
	FareClass     string    `json:"fare_class"`
	BookingKey    string    `json:"booking_key,omitempty"`
}

// FirstStop returns the first intermediate airport, or "" for a direct leg.
func (l FlightLeg) FirstStop() string {
	if len(l.StopAirports) == 0 {
		return ""
	}
	return l.StopAirports[0]
}

type FareInfo struct {
	RawFare       Money  `json:"raw_fare"`
	OriginalFare  Money  `json:"original_fare"`
	FuelSurcharge Money  `json:"fuel_surcharge"`
	TaxFee        Money  `json:"tax_fee"`
	SeatsLeft     int    `json:"seats_left"`
	BaggageTag    string `json:"baggage_tag,omitempty"`
}

// FlightQuote is a priced search result. Its carrier is the outbound leg's
// carrier; an inbound leg is assumed to share it.
type FlightQuote struct {
	Source   string     `json:"source"`
	Outbound FlightLeg  `json:"outbound"`
	Inbound  *FlightLeg `json:"inbound,omitempty"`
	Fare     FareInfo   `json:"fare"`
}

func (q FlightQuote) Carrier() string {
	return q.Outbound.Carrier
}

func (q FlightQuote) IsRoundTrip() bool {
	return q.Inbound != nil
}

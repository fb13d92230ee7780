package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dharmasatrya/faredesk/internal/models"
)

type LowFareRequest struct {
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	TripType      models.TripType `json:"trip_type"`
	DepartureDate string          `json:"departure_date"`
	ReturnDate    string          `json:"return_date,omitempty"`
}

type LowFareDay struct {
	Date      string       `json:"date"`
	RawFare   models.Money `json:"raw_fare"`
	FareClass string       `json:"fare_class"`
}

// LowFareCalendar lists the cheapest budget-carrier fare per day around the
// requested dates.
type LowFareCalendar struct {
	Outbound []LowFareDay `json:"outbound"`
	Inbound  []LowFareDay `json:"inbound"`
}

type lowFareWireRequest struct {
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	TripType      string `json:"sochieu"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`
}

type lowFareWireDay struct {
	Date      string      `json:"ngày"`
	RawFare   numericText `json:"giá_vé_gốc"`
	FareClass string      `json:"loại_vé"`
}

type lowFareWireBody struct {
	Outbound []lowFareWireDay `json:"chiều_đi"`
	Inbound  []lowFareWireDay `json:"chiều_về"`
}

type LowFareClient struct {
	client *http.Client
	cfg    Config
}

func NewLowFareClient(cfg Config) *LowFareClient {
	return &LowFareClient{client: cfg.client(), cfg: cfg}
}

func (c *LowFareClient) Calendar(ctx context.Context, req LowFareRequest) (LowFareCalendar, error) {
	body := lowFareWireRequest{
		Departure:     req.Origin,
		Arrival:       req.Destination,
		TripType:      string(req.TripType),
		DepartureDate: req.DepartureDate,
	}
	if req.TripType == models.RoundTrip {
		body.ReturnDate = req.ReturnDate
	}

	var env envelope
	if err := postJSON(ctx, c.client, c.cfg.url("/vj/lowfare-v2"), body, &env); err != nil {
		return LowFareCalendar{}, NewProviderError(VietjetName, err)
	}
	if env.StatusCode != http.StatusOK {
		return LowFareCalendar{}, NewProviderError(VietjetName, fmt.Errorf("%w: status_code %d %s", ErrUpstreamStatus, env.StatusCode, env.Message))
	}

	cal := LowFareCalendar{Outbound: []LowFareDay{}, Inbound: []LowFareDay{}}
	if env.emptyBody() {
		return cal, nil
	}

	var wire lowFareWireBody
	if err := json.Unmarshal(env.Body, &wire); err != nil {
		return LowFareCalendar{}, NewProviderError(VietjetName, fmt.Errorf("%w: %v", ErrBadPayload, err))
	}

	for _, d := range wire.Outbound {
		cal.Outbound = append(cal.Outbound, LowFareDay{Date: d.Date, RawFare: models.Money(d.RawFare.Int64()), FareClass: d.FareClass})
	}
	for _, d := range wire.Inbound {
		cal.Inbound = append(cal.Inbound, LowFareDay{Date: d.Date, RawFare: models.Money(d.RawFare.Int64()), FareClass: d.FareClass})
	}
	return cal, nil
}

package providers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dharmasatrya/faredesk/internal/models"
	"github.com/dharmasatrya/faredesk/internal/timezone"
)

// statusCode accepts both 200 and "200".
type statusCode int

func (s *statusCode) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || string(data) == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return err
	}
	*s = statusCode(n)
	return nil
}

// numericText holds a number the backends send as either a JSON number or a
// string. Grouping characters are ignored and unreadable values read as 0.
type numericText string

func (n *numericText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = numericText(s)
		return nil
	}
	*n = numericText(data)
	return nil
}

func (n numericText) Int64() int64 {
	s := strings.NewReplacer(",", "", " ", "").Replace(strings.TrimSpace(string(n)))
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

// envelope is the common response wrapper of both search backends.
type envelope struct {
	StatusCode statusCode      `json:"status_code"`
	Message    string          `json:"message,omitempty"`
	SessionKey string          `json:"session_key,omitempty"`
	Body       json.RawMessage `json:"body"`
}

// emptyBody reports a missing body, JSON null or the string "null".
func (e envelope) emptyBody() bool {
	b := bytes.TrimSpace(e.Body)
	return len(b) == 0 || string(b) == "null" || string(b) == `"null"`
}

type rawLeg struct {
	Carrier       string      `json:"hãng"`
	ID            string      `json:"id"`
	Origin        string      `json:"nơi_đi"`
	Destination   string      `json:"nơi_đến"`
	DepartureTime string      `json:"giờ_cất_cánh"`
	DepartureDate string      `json:"ngày_cất_cánh"`
	FlightTime    string      `json:"thời_gian_bay"`
	LayoverTime   string      `json:"thời_gian_chờ"`
	ArrivalTime   string      `json:"giờ_hạ_cánh"`
	ArrivalDate   string      `json:"ngày_hạ_cánh"`
	Stops         numericText `json:"số_điểm_dừng"`
	Stop1         string      `json:"điểm_dừng_1"`
	Stop2         string      `json:"điểm_dừng_2"`
	FareClass     string      `json:"loại_vé"`
	BookingKey    string      `json:"BookingKey"`
}

type rawFareInfo struct {
	Fare          numericText `json:"giá_vé"`
	OriginalFare  numericText `json:"giá_vé_gốc"`
	FuelSurcharge numericText `json:"phí_nhiên_liệu"`
	TaxFee        numericText `json:"thuế_phí_công_cộng"`
	SeatsLeft     numericText `json:"số_ghế_còn"`
	BaggageTag    string      `json:"hành_lý_vna"`
}

func (f rawFareInfo) toFare() models.FareInfo {
	return models.FareInfo{
		RawFare:       models.Money(f.Fare.Int64()),
		OriginalFare:  models.Money(f.OriginalFare.Int64()),
		FuelSurcharge: models.Money(f.FuelSurcharge.Int64()),
		TaxFee:        models.Money(f.TaxFee.Int64()),
		SeatsLeft:     int(f.SeatsLeft.Int64()),
		BaggageTag:    strings.ToUpper(strings.TrimSpace(f.BaggageTag)),
	}
}

func parseStops(s numericText) int {
	n, err := strconv.Atoi(strings.TrimSpace(string(s)))
	if err != nil || n < 0 {
		return models.StopsUnknown
	}
	return n
}

func (l rawLeg) toLeg() models.FlightLeg {
	leg := models.FlightLeg{
		Carrier:       strings.ToUpper(strings.TrimSpace(l.Carrier)),
		FlightID:      l.ID,
		Origin:        strings.ToUpper(strings.TrimSpace(l.Origin)),
		Destination:   strings.ToUpper(strings.TrimSpace(l.Destination)),
		DepartureDate: l.DepartureDate,
		DepartureTime: l.DepartureTime,
		ArrivalDate:   l.ArrivalDate,
		ArrivalTime:   l.ArrivalTime,
		FlightTime:    timezone.NormalizeDuration(l.FlightTime),
		LayoverTime:   timezone.NormalizeDuration(l.LayoverTime),
		Stops:         parseStops(l.Stops),
		FareClass:     l.FareClass,
		BookingKey:    l.BookingKey,
	}

	for _, stop := range []string{l.Stop1, l.Stop2} {
		if stop = strings.ToUpper(strings.TrimSpace(stop)); stop != "" {
			leg.StopAirports = append(leg.StopAirports, stop)
		}
	}

	if t, err := timezone.ParseLegTime(l.DepartureDate, l.DepartureTime, leg.Origin); err == nil {
		leg.Departure = t
	}
	if t, err := timezone.ParseLegTime(l.ArrivalDate, l.ArrivalTime, leg.Destination); err == nil {
		leg.Arrival = t
	}

	return leg
}

func buildQuote(source string, outbound, inbound *rawLeg, info rawFareInfo) (models.FlightQuote, bool) {
	if outbound == nil {
		return models.FlightQuote{}, false
	}

	q := models.FlightQuote{
		Source:   source,
		Outbound: outbound.toLeg(),
		Fare:     info.toFare(),
	}
	if inbound != nil {
		in := inbound.toLeg()
		q.Inbound = &in
	}
	return q, true
}

// decodeResults reads the body array leniently: elements that are not
// objects are skipped.
func decodeResults[T any](body json.RawMessage) ([]T, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func directOnlyFilter(quotes []models.FlightQuote) []models.FlightQuote {
	out := quotes[:0]
	for _, q := range quotes {
		if q.Outbound.Stops != 0 {
			continue
		}
		if q.Inbound != nil && q.Inbound.Stops != 0 {
			continue
		}
		out = append(out, q)
	}
	return out
}

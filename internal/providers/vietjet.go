package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dharmasatrya/faredesk/internal/models"
)

const VietjetName = "vietjet"

type vietjetRequest struct {
	Dep0     string `json:"dep0"`
	Arr0     string `json:"arr0"`
	DepDate0 string `json:"depdate0"`
	DepDate1 string `json:"depdate1,omitempty"`
	Adults   string `json:"adt"`
	Children string `json:"chd"`
	Infants  string `json:"inf"`
	TripType string `json:"sochieu"`
}

// vietjetResult carries legs under either spaced or underscored keys.
type vietjetResult struct {
	OutboundSpaced *rawLeg     `json:"chiều đi"`
	InboundSpaced  *rawLeg     `json:"chiều về"`
	Outbound       *rawLeg     `json:"chiều_đi"`
	Inbound        *rawLeg     `json:"chiều_về"`
	Info           rawFareInfo `json:"thông_tin_chung"`
}

func (r vietjetResult) legs() (*rawLeg, *rawLeg) {
	out, in := r.OutboundSpaced, r.InboundSpaced
	if out == nil {
		out = r.Outbound
	}
	if in == nil {
		in = r.Inbound
	}
	return out, in
}

// VietjetProvider searches the budget carrier. The backend has no stop
// filter, so direct-only searches are narrowed on the client.
type VietjetProvider struct {
	client *http.Client
	cfg    Config
}

func NewVietjetProvider(cfg Config) *VietjetProvider {
	return &VietjetProvider{client: cfg.client(), cfg: cfg}
}

func (p *VietjetProvider) Name() string {
	return VietjetName
}

func (p *VietjetProvider) Search(ctx context.Context, req models.SearchRequest, directOnly bool) ([]models.FlightQuote, error) {
	body := vietjetRequest{
		Dep0:     req.Origin,
		Arr0:     req.Destination,
		DepDate0: req.DepartureDate,
		Adults:   strconv.Itoa(req.Adults),
		Children: strconv.Itoa(req.Children),
		Infants:  strconv.Itoa(req.Infants),
		TripType: string(req.TripType),
	}
	if req.TripType == models.RoundTrip {
		body.DepDate1 = req.ReturnDate
	}

	var env envelope
	if err := postJSON(ctx, p.client, p.cfg.url("/vj/check-ve-v2"), body, &env); err != nil {
		return nil, NewProviderError(p.Name(), err)
	}

	if env.StatusCode == http.StatusNotFound || env.emptyBody() {
		return []models.FlightQuote{}, nil
	}
	if env.StatusCode != 0 && env.StatusCode != http.StatusOK {
		return nil, NewProviderError(p.Name(), &StatusError{Code: int(env.StatusCode)})
	}

	results, err := decodeResults[vietjetResult](env.Body)
	if err != nil {
		return nil, NewProviderError(p.Name(), fmt.Errorf("%w: %v", ErrBadPayload, err))
	}

	quotes := make([]models.FlightQuote, 0, len(results))
	for _, r := range results {
		out, in := r.legs()
		if q, ok := buildQuote(p.Name(), out, in, r.Info); ok {
			quotes = append(quotes, q)
		}
	}

	if directOnly {
		quotes = directOnlyFilter(quotes)
	}
	return quotes, nil
}

var _ Provider = (*VietjetProvider)(nil)

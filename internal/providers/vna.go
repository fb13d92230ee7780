package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dharmasatrya/faredesk/internal/models"
)

const VNAName = "vna"

const (
	viaDirect = "0"
	viaAll    = "0,1,2"
)

type vnaRequest struct {
	Dep0          string `json:"dep0"`
	Arr0          string `json:"arr0"`
	DepDate0      string `json:"depdate0"`
	DepDate1      string `json:"depdate1,omitempty"`
	ActivedVia    string `json:"activedVia"`
	ActivedIDT    string `json:"activedIDT"`
	Adults        string `json:"adt"`
	Children      string `json:"chd"`
	Infants       string `json:"inf"`
	Page          string `json:"page"`
	TripType      string `json:"sochieu"`
	TimeSlideMin0 string `json:"filterTimeSlideMin0"`
	TimeSlideMax0 string `json:"filterTimeSlideMax0"`
	TimeSlideMin1 string `json:"filterTimeSlideMin1"`
	TimeSlideMax1 string `json:"filterTimeSlideMax1"`
	SessionKey    string `json:"session_key"`
}

type vnaResult struct {
	Outbound *rawLeg     `json:"chiều_đi"`
	Inbound  *rawLeg     `json:"chiều_về"`
	Info     rawFareInfo `json:"thông_tin_chung"`
}

// VNAProvider searches the flag carrier. Its results also carry partner
// carriers, which classify into the Other group.
type VNAProvider struct {
	client *http.Client
	cfg    Config
	logger *slog.Logger
}

func NewVNAProvider(cfg Config, logger *slog.Logger) *VNAProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &VNAProvider{client: cfg.client(), cfg: cfg, logger: logger}
}

func (p *VNAProvider) Name() string {
	return VNAName
}

func (p *VNAProvider) Search(ctx context.Context, req models.SearchRequest, directOnly bool) ([]models.FlightQuote, error) {
	body := vnaRequest{
		Dep0:          req.Origin,
		Arr0:          req.Destination,
		DepDate0:      req.DepartureDate,
		ActivedVia:    viaAll,
		ActivedIDT:    "ADT,VFR",
		Adults:        strconv.Itoa(req.Adults),
		Children:      strconv.Itoa(req.Children),
		Infants:       strconv.Itoa(req.Infants),
		Page:          "1",
		TripType:      string(req.TripType),
		TimeSlideMin0: "5",
		TimeSlideMax0: "2355",
		TimeSlideMin1: "5",
		TimeSlideMax1: "2355",
	}
	if directOnly {
		body.ActivedVia = viaDirect
	}
	if req.TripType == models.RoundTrip {
		body.DepDate1 = req.ReturnDate
	}

	env, err := p.post(ctx, body)
	if err != nil {
		return nil, err
	}

	// A null body means the backend opened a session without results yet.
	// One follow-up with the session key and all connections is allowed.
	if env.emptyBody() {
		p.logger.Info("vna search returned null body, retrying with session key",
			slog.String("origin", req.Origin),
			slog.String("destination", req.Destination),
			slog.Bool("has_session_key", env.SessionKey != ""))

		body.SessionKey = env.SessionKey
		body.ActivedVia = viaAll
		if env, err = p.post(ctx, body); err != nil {
			return nil, err
		}
	}

	if env.StatusCode == http.StatusNotFound || env.emptyBody() {
		return []models.FlightQuote{}, nil
	}
	if env.StatusCode != 0 && env.StatusCode != http.StatusOK {
		return nil, NewProviderError(p.Name(), &StatusError{Code: int(env.StatusCode)})
	}

	results, err := decodeResults[vnaResult](env.Body)
	if err != nil {
		return nil, NewProviderError(p.Name(), fmt.Errorf("%w: %v", ErrBadPayload, err))
	}

	quotes := make([]models.FlightQuote, 0, len(results))
	for _, r := range results {
		if q, ok := buildQuote(p.Name(), r.Outbound, r.Inbound, r.Info); ok {
			quotes = append(quotes, q)
		}
	}
	return quotes, nil
}

func (p *VNAProvider) post(ctx context.Context, body vnaRequest) (envelope, error) {
	var env envelope
	if err := postJSON(ctx, p.client, p.cfg.url("/vna/check-ve-v3"), body, &env); err != nil {
		return envelope{}, NewProviderError(p.Name(), err)
	}
	return env, nil
}

var _ Provider = (*VNAProvider)(nil)

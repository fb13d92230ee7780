// Package session holds operator session state. State only changes through
// Reduce, which never mutates its input.
package session

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/dharmasatrya/faredesk/internal/aggregator"
	"github.com/dharmasatrya/faredesk/internal/carrier"
	"github.com/dharmasatrya/faredesk/internal/filter"
	"github.com/dharmasatrya/faredesk/internal/models"
	"github.com/dharmasatrya/faredesk/internal/presentation"
	"github.com/dharmasatrya/faredesk/internal/pricing"
)

// SearchStatus is the per-carrier progress of the current search.
type SearchStatus string

const (
	SearchPending SearchStatus = "searching"
)

var (
	ErrSearchInProgress = errors.New("a search is already running")
	ErrNoSearch         = errors.New("no search has been started")
)

type CarrierState struct {
	Status     SearchStatus         `json:"status"`
	FlightType string               `json:"flight_type,omitempty"`
	Message    string               `json:"message,omitempty"`
	Quotes     []models.FlightQuote `json:"-"`
}

type State struct {
	ID        string                                  `json:"id"`
	Segment   pricing.Segment                         `json:"segment"`
	Configs   map[pricing.Segment]pricing.PriceConfig `json:"configs"`
	Criteria  filter.Criteria                         `json:"criteria"`
	Request   *models.SearchRequest                   `json:"request,omitempty"`
	Searching bool                                    `json:"searching"`
	Carriers  map[string]CarrierState                 `json:"carriers,omitempty"`
	// BudgetUnavailable hides the budget group after the backend reported
	// the route as unserved.
	BudgetUnavailable bool      `json:"budget_unavailable"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// New starts a session on segment with the configs loaded for it.
func New(id string, segment pricing.Segment, configs map[pricing.Segment]pricing.PriceConfig) State {
	cfgs := make(map[pricing.Segment]pricing.PriceConfig, len(pricing.Segments))
	for _, seg := range pricing.Segments {
		cfg, ok := configs[seg]
		if !ok {
			cfg = pricing.EmptyConfig(seg)
		}
		cfg.Segment = seg
		cfgs[seg] = cfg
	}
	return State{
		ID:        id,
		Segment:   segment,
		Configs:   cfgs,
		Criteria:  filter.DefaultCriteria(),
		UpdatedAt: time.Now(),
	}
}

// ActiveConfig is the config of the selected segment.
func (s State) ActiveConfig() pricing.PriceConfig {
	if cfg, ok := s.Configs[s.Segment]; ok {
		return cfg
	}
	return pricing.EmptyConfig(s.Segment)
}

// Quotes collects every quote received so far.
func (s State) Quotes() []models.FlightQuote {
	var out []models.FlightQuote
	for _, c := range s.Carriers {
		out = append(out, c.Quotes...)
	}
	return out
}

// Results filters, sorts and prices the received quotes with the active
// config. It is recomputed on every call so segment or filter changes apply
// without searching again.
func (s State) Results() presentation.Results {
	tripType := models.OneWay
	if s.Request != nil {
		tripType = s.Request.TripType
	}
	views := filter.Apply(s.Quotes(), s.Criteria, s.BudgetUnavailable)
	return presentation.Build(views, tripType, s.ActiveConfig())
}

// Action is a state transition.
type Action interface {
	apply(s State) (State, error)
}

// Reduce returns the state after action. On error the returned state is the
// input, unchanged.
func Reduce(s State, action Action) (State, error) {
	next, err := action.apply(s.clone())
	if err != nil {
		return s, err
	}
	next.UpdatedAt = time.Now()
	return next, nil
}

func (s State) clone() State {
	s.Configs = maps.Clone(s.Configs)
	s.Carriers = maps.Clone(s.Carriers)
	if s.Request != nil {
		req := *s.Request
		s.Request = &req
	}
	return s
}

type SelectSegment struct {
	Segment pricing.Segment
}

func (a SelectSegment) apply(s State) (State, error) {
	seg, err := pricing.ParseSegment(string(a.Segment))
	if err != nil {
		return s, err
	}
	s.Segment = seg
	return s, nil
}

type SetAirlineFilter struct {
	Airline filter.Airline
}

func (a SetAirlineFilter) apply(s State) (State, error) {
	airline, err := filter.ParseAirline(string(a.Airline))
	if err != nil {
		return s, err
	}
	s.Criteria.Airline = airline
	return s, nil
}

type SetFlightTypeFilter struct {
	FlightType filter.FlightType
}

func (a SetFlightTypeFilter) apply(s State) (State, error) {
	ft, err := filter.ParseFlightType(string(a.FlightType))
	if err != nil {
		return s, err
	}
	s.Criteria.FlightType = ft
	return s, nil
}

// SetDepartureWindow bounds the outbound departure clock. Empty bounds are
// open.
type SetDepartureWindow struct {
	Min string
	Max string
}

func (a SetDepartureWindow) apply(s State) (State, error) {
	for _, v := range []string{a.Min, a.Max} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("15:04", v); err != nil {
			return s, fmt.Errorf("departure window bound %q must be HH:MM", v)
		}
	}
	s.Criteria.DepartureTimeMin = a.Min
	s.Criteria.DepartureTimeMax = a.Max
	return s, nil
}

// EditCustomConfig replaces the in-memory custom config. Nothing is
// persisted.
type EditCustomConfig struct {
	Config pricing.PriceConfig
}

func (a EditCustomConfig) apply(s State) (State, error) {
	if err := a.Config.Validate(); err != nil {
		return s, err
	}
	cfg := a.Config
	cfg.Segment = pricing.SegmentCustom
	s.Configs[pricing.SegmentCustom] = cfg
	return s, nil
}

// SearchStarted clears previous results and marks every carrier pending.
type SearchStarted struct {
	Request  models.SearchRequest
	Carriers []string
}

func (a SearchStarted) apply(s State) (State, error) {
	if s.Searching {
		return s, ErrSearchInProgress
	}
	req := a.Request
	s.Request = &req
	s.Searching = true
	s.BudgetUnavailable = false
	s.Carriers = make(map[string]CarrierState, len(a.Carriers))
	for _, c := range a.Carriers {
		s.Carriers[c] = CarrierState{Status: SearchPending}
	}
	return s, nil
}

// CarrierResult records one backend's outcome.
type CarrierResult struct {
	Result aggregator.CarrierResult
}

func (a CarrierResult) apply(s State) (State, error) {
	if s.Carriers == nil {
		return s, ErrNoSearch
	}
	r := a.Result
	s.Carriers[r.Carrier] = CarrierState{
		Status:     SearchStatus(r.Status),
		FlightType: r.FlightType,
		Message:    r.Message,
		Quotes:     r.Quotes,
	}
	if r.Status == aggregator.StatusUnavailable && carrier.GroupOf(r.Carrier) == carrier.BudgetCarrier {
		s.BudgetUnavailable = true
	}
	return s, nil
}

type SearchFinished struct{}

func (SearchFinished) apply(s State) (State, error) {
	s.Searching = false
	return s, nil
}

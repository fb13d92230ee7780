package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/faredesk/internal/filter"
	"github.com/dharmasatrya/faredesk/internal/presentation"
	"github.com/dharmasatrya/faredesk/internal/priceconfig"
	"github.com/dharmasatrya/faredesk/internal/pricing"
	"github.com/dharmasatrya/faredesk/internal/session"
)

type SessionHandler struct {
	sessions *session.Store
	configs  priceconfig.Store
	searcher Searcher
	logger   *slog.Logger
}

func NewSessionHandler(sessions *session.Store, configs priceconfig.Store, searcher Searcher, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		sessions: sessions,
		configs:  configs,
		searcher: searcher,
		logger:   logger,
	}
}

type SessionResponse struct {
	Session session.State        `json:"session"`
	Results presentation.Results `json:"results"`
}

func respond(st session.State) SessionResponse {
	return SessionResponse{Session: st, Results: st.Results()}
}

type createSessionRequest struct {
	Segment string `json:"segment"`
}

// Create starts a session. Every segment's config is read once here and
// kept for the session's lifetime.
func (h *SessionHandler) Create(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	if req.Segment == "" {
		req.Segment = string(pricing.SegmentPage)
	}
	segment, err := pricing.ParseSegment(req.Segment)
	if err != nil {
		return validationError(c, err)
	}

	configs := priceconfig.LoadAll(c.Request().Context(), h.configs)
	st := h.sessions.Create(segment, configs)
	h.logger.Info("session started", slog.String("session", st.ID), slog.String("segment", string(segment)))
	return c.JSON(http.StatusCreated, respond(st))
}

func (h *SessionHandler) Get(c echo.Context) error {
	st, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return fromError(c, err)
	}
	return c.JSON(http.StatusOK, respond(st))
}

// actionRequest is the wire form of a session action, selected by Type.
type actionRequest struct {
	Type       string               `json:"type"`
	Segment    string               `json:"segment"`
	Airline    string               `json:"airline"`
	FlightType string               `json:"flight_type"`
	Min        string               `json:"min"`
	Max        string               `json:"max"`
	Config     *pricing.PriceConfig `json:"config"`
}

func (r actionRequest) action() (session.Action, error) {
	switch r.Type {
	case "select_segment":
		return session.SelectSegment{Segment: pricing.Segment(r.Segment)}, nil
	case "set_airline":
		return session.SetAirlineFilter{Airline: filter.Airline(r.Airline)}, nil
	case "set_flight_type":
		return session.SetFlightTypeFilter{FlightType: filter.FlightType(r.FlightType)}, nil
	case "set_departure_window":
		return session.SetDepartureWindow{Min: r.Min, Max: r.Max}, nil
	case "edit_custom_config":
		if r.Config == nil {
			return nil, fmt.Errorf("edit_custom_config needs a config")
		}
		return session.EditCustomConfig{Config: *r.Config}, nil
	}
	return nil, fmt.Errorf("unknown action type %q", r.Type)
}

func (h *SessionHandler) Dispatch(c echo.Context) error {
	var req actionRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	action, err := req.action()
	if err != nil {
		return validationError(c, err)
	}

	st, err := h.sessions.Dispatch(c.Param("id"), action)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, respond(st))
	case errors.Is(err, session.ErrNotFound):
		return fromError(c, err)
	default:
		return validationError(c, err)
	}
}

// Delete ends a session. Unknown ids are not an error.
func (h *SessionHandler) Delete(c echo.Context) error {
	h.sessions.Delete(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

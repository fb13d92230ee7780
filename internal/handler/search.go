package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/faredesk/internal/aggregator"
	"github.com/dharmasatrya/faredesk/internal/models"
	"github.com/dharmasatrya/faredesk/internal/session"
)

// Searcher is the orchestrator as seen by the handlers.
type Searcher interface {
	Carriers() []string
	SearchAll(ctx context.Context, req models.SearchRequest, onResult func(aggregator.CarrierResult)) error
}

// CarrierEvent summarizes one backend's outcome.
type CarrierEvent struct {
	Carrier    string            `json:"carrier"`
	Status     aggregator.Status `json:"status"`
	FlightType string            `json:"flight_type,omitempty"`
	Message    string            `json:"message,omitempty"`
	Count      int               `json:"count"`
	CacheHit   bool              `json:"cache_hit"`
	ElapsedMs  int64             `json:"elapsed_ms"`
}

func carrierEvent(r aggregator.CarrierResult) CarrierEvent {
	return CarrierEvent{
		Carrier:    r.Carrier,
		Status:     r.Status,
		FlightType: r.FlightType,
		Message:    r.Message,
		Count:      len(r.Quotes),
		CacheHit:   r.CacheHit,
		ElapsedMs:  r.Elapsed.Milliseconds(),
	}
}

// Search runs a search for the session and answers once every backend has
// reported.
func (h *SessionHandler) Search(c echo.Context) error {
	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	st, err := h.runSearch(c.Request().Context(), c.Param("id"), req, nil)
	if err != nil {
		return fromError(c, err)
	}
	return c.JSON(http.StatusOK, respond(st))
}

// SearchStream runs the same search over Server-Sent Events: one "carrier"
// event per backend in completion order, then a "results" event with the
// priced results.
func (h *SessionHandler) SearchStream(c echo.Context) error {
	var req models.SearchRequest
	var tripType string
	err := echo.QueryParamsBinder(c).
		String("origin", &req.Origin).
		String("destination", &req.Destination).
		String("departure_date", &req.DepartureDate).
		String("return_date", &req.ReturnDate).
		String("trip_type", &tripType).
		Int("adults", &req.Adults).
		Int("children", &req.Children).
		Int("infants", &req.Infants).
		BindError()
	if err != nil {
		return bindError(c, err)
	}
	req.TripType = models.TripType(tripType)
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	id := c.Param("id")
	if _, err := h.sessions.Get(id); err != nil {
		return fromError(c, err)
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	st, err := h.runSearch(c.Request().Context(), id, req, func(r aggregator.CarrierResult) {
		if werr := writeEvent(w, "carrier", carrierEvent(r)); werr != nil {
			h.logger.Debug("stream write failed", slog.Any("error", werr))
		}
	})
	if err != nil {
		return writeEvent(w, "error", map[string]string{"message": err.Error()})
	}
	return writeEvent(w, "results", respond(st))
}

func (h *SessionHandler) runSearch(ctx context.Context, id string, req models.SearchRequest, notify func(aggregator.CarrierResult)) (session.State, error) {
	if _, err := h.sessions.Dispatch(id, session.SearchStarted{Request: req, Carriers: h.searcher.Carriers()}); err != nil {
		return session.State{}, err
	}

	searchErr := h.searcher.SearchAll(ctx, req, func(r aggregator.CarrierResult) {
		if r.Status == aggregator.StatusFailed {
			h.logger.Warn("carrier search failed",
				slog.String("session", id),
				slog.String("carrier", r.Carrier),
				slog.String("route", req.Origin+"-"+req.Destination),
				slog.Any("error", r.Err),
			)
		}
		if _, err := h.sessions.Dispatch(id, session.CarrierResult{Result: r}); err != nil {
			h.logger.Warn("dropping carrier result", slog.String("session", id), slog.Any("error", err))
		}
		if notify != nil {
			notify(r)
		}
	})

	st, err := h.sessions.Dispatch(id, session.SearchFinished{})
	if searchErr != nil {
		return st, searchErr
	}
	return st, err
}

func writeEvent(w *echo.Response, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	w.Flush()
	return nil
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

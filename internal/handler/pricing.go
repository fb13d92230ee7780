package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/faredesk/internal/carrier"
	"github.com/dharmasatrya/faredesk/internal/models"
	"github.com/dharmasatrya/faredesk/internal/priceconfig"
	"github.com/dharmasatrya/faredesk/internal/pricing"
	"github.com/dharmasatrya/faredesk/internal/providers"
	"github.com/dharmasatrya/faredesk/pkg/currency"
)

type LowFareSource interface {
	Calendar(ctx context.Context, req providers.LowFareRequest) (providers.LowFareCalendar, error)
}

type PricingHandler struct {
	configs priceconfig.Store
	lowFare LowFareSource
}

func NewPricingHandler(configs priceconfig.Store, lowFare LowFareSource) *PricingHandler {
	return &PricingHandler{configs: configs, lowFare: lowFare}
}

func (h *PricingHandler) GetConfig(c echo.Context) error {
	segment, err := pricing.ParseSegment(c.Param("segment"))
	if err != nil {
		return validationError(c, err)
	}
	return c.JSON(http.StatusOK, h.configs.GetConfig(c.Request().Context(), segment))
}

type QuoteRequest struct {
	Segment  string          `json:"segment"`
	TripType models.TripType `json:"trip_type"`
	Carrier  string          `json:"carrier"`
	RawFare  models.Money    `json:"raw_fare"`
}

type QuoteResponse struct {
	Segment      pricing.Segment   `json:"segment"`
	TripType     models.TripType   `json:"trip_type"`
	Group        carrier.Group     `json:"group"`
	Breakdown    pricing.Breakdown `json:"breakdown"`
	FinalPrice   models.Money      `json:"final_price"`
	DisplayPrice string            `json:"display_price"`
}

// Quote prices a single raw fare without searching.
func (h *PricingHandler) Quote(c echo.Context) error {
	var req QuoteRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	segment, err := pricing.ParseSegment(req.Segment)
	if err != nil {
		return validationError(c, err)
	}
	req.TripType = models.TripType(strings.ToUpper(string(req.TripType)))
	if req.TripType != models.OneWay && req.TripType != models.RoundTrip {
		return validationError(c, models.ErrInvalidTripType)
	}
	if strings.TrimSpace(req.Carrier) == "" {
		return validationError(c, errors.New("carrier is required"))
	}

	group := carrier.GroupOf(req.Carrier)
	b := pricing.Explain(req.RawFare, req.TripType, group, h.configs.GetConfig(c.Request().Context(), segment))
	return c.JSON(http.StatusOK, QuoteResponse{
		Segment:      segment,
		TripType:     req.TripType,
		Group:        group,
		Breakdown:    b,
		FinalPrice:   b.Final,
		DisplayPrice: currency.FormatDisplay(int64(b.Final)),
	})
}

// LowFare returns the budget carrier's cheapest fare per day.
func (h *PricingHandler) LowFare(c echo.Context) error {
	var req providers.LowFareRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	search := models.SearchRequest{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		TripType:      req.TripType,
	}
	if err := search.Validate(); err != nil {
		return validationError(c, err)
	}
	req.Origin, req.Destination, req.TripType = search.Origin, search.Destination, search.TripType

	cal, err := h.lowFare.Calendar(c.Request().Context(), req)
	if err != nil {
		return fromError(c, err)
	}
	return c.JSON(http.StatusOK, cal)
}

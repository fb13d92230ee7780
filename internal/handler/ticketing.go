package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/faredesk/internal/carrier"
	"github.com/dharmasatrya/faredesk/internal/events"
	"github.com/dharmasatrya/faredesk/internal/ticketing"
)

// Ticketing is the gateway client as seen by the handlers.
type Ticketing interface {
	HoldBudget(ctx context.Context, req ticketing.BudgetHoldRequest) (ticketing.BudgetHold, error)
	HoldFlag(ctx context.Context, req ticketing.FlagHoldRequest) (ticketing.FlagHold, error)
	LookupPNR(ctx context.Context, carrierCode, pnr string) (ticketing.PNRRecord, error)
	ListTicketFiles(ctx context.Context, pnr string) ([]ticketing.TicketFile, error)
	BeginReprice(ctx context.Context, pnr string) (ticketing.RepriceCheck, error)
	Reprice(ctx context.Context, pnr string, customer ticketing.FlagCustomerType) (ticketing.RepriceResult, error)
	SendTicketEmail(ctx context.Context, req ticketing.EmailTicketRequest) error
}

type Topics struct {
	Bookings string
	Emails   string
}

type TicketingHandler struct {
	client    Ticketing
	publisher events.Publisher
	topics    Topics
	logger    *slog.Logger
}

// NewTicketingHandler wires the ticketing routes. With a nil publisher
// e-ticket emails go straight to the relay and no booking events are sent.
func NewTicketingHandler(client Ticketing, publisher events.Publisher, topics Topics, logger *slog.Logger) *TicketingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TicketingHandler{
		client:    client,
		publisher: publisher,
		topics:    topics,
		logger:    logger,
	}
}

func (h *TicketingHandler) HoldBudget(c echo.Context) error {
	var req ticketing.BudgetHoldRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	hold, err := h.client.HoldBudget(c.Request().Context(), req)
	if err != nil {
		return fromError(c, err)
	}
	h.publishHold(c.Request().Context(), events.HoldCreated{
		Carrier:         carrier.CodeBudget,
		Code:            hold.Code,
		PaymentDeadline: hold.PaymentDeadline,
		Passengers:      len(req.Passengers),
	})
	return c.JSON(http.StatusCreated, hold)
}

func (h *TicketingHandler) HoldFlag(c echo.Context) error {
	var req ticketing.FlagHoldRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	hold, err := h.client.HoldFlag(c.Request().Context(), req)
	if err != nil {
		return fromError(c, err)
	}
	h.publishHold(c.Request().Context(), events.HoldCreated{
		Carrier:    carrier.CodeFlag,
		Code:       hold.PNR,
		Passengers: len(req.Passengers),
	})
	return c.JSON(http.StatusCreated, hold)
}

// publishHold never fails the request: the hold already exists upstream.
func (h *TicketingHandler) publishHold(ctx context.Context, payload events.HoldCreated) {
	if h.publisher == nil {
		return
	}
	e, err := events.New(events.TypeHoldCreated, payload)
	if err == nil {
		err = h.publisher.Publish(ctx, h.topics.Bookings, payload.Code, e)
	}
	if err != nil {
		h.logger.Warn("hold event not published",
			slog.String("carrier", payload.Carrier),
			slog.String("code", payload.Code),
			slog.Any("error", err),
		)
	}
}

func (h *TicketingHandler) LookupPNR(c echo.Context) error {
	rec, err := h.client.LookupPNR(c.Request().Context(), c.Param("carrier"), c.Param("pnr"))
	if err != nil {
		return fromError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *TicketingHandler) ListTicketFiles(c echo.Context) error {
	files, err := h.client.ListTicketFiles(c.Request().Context(), c.Param("pnr"))
	if err != nil {
		return fromError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"pnr": c.Param("pnr"), "files": files})
}

type RepriceCheckRequest struct {
	// PNRs is free text, e.g. "ABC123, XYZ789".
	PNRs string `json:"pnrs"`
}

type RepriceCheckItem struct {
	PNR            string                     `json:"pnr"`
	OK             bool                       `json:"ok"`
	CustomerType   ticketing.FlagCustomerType `json:"customer_type,omitempty"`
	OriginalPrices []ticketing.PassengerPrice `json:"original_prices,omitempty"`
	Error          string                     `json:"error,omitempty"`
}

// CheckReprice opens a reprice on every PNR in the input, one at a time.
// Failures are reported per PNR.
func (h *TicketingHandler) CheckReprice(c echo.Context) error {
	var req RepriceCheckRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	pnrs := ticketing.ParsePNRs(req.PNRs)
	if len(pnrs) == 0 {
		return errorJSON(c, http.StatusBadRequest, "validation_error", "at least one 6-character PNR is required")
	}

	ctx := c.Request().Context()
	items := make([]RepriceCheckItem, 0, len(pnrs))
	for _, pnr := range pnrs {
		check, err := h.client.BeginReprice(ctx, pnr)
		if err != nil {
			h.logger.Info("reprice check failed", slog.String("pnr", pnr), slog.Any("error", err))
			items = append(items, RepriceCheckItem{PNR: pnr, Error: err.Error()})
			continue
		}
		items = append(items, RepriceCheckItem{
			PNR:            pnr,
			OK:             true,
			CustomerType:   check.CustomerType,
			OriginalPrices: check.OriginalPrices,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"results": items})
}

type RepriceRequest struct {
	Items []struct {
		PNR          string                     `json:"pnr"`
		CustomerType ticketing.FlagCustomerType `json:"customer_type"`
	} `json:"items"`
}

type RepriceItem struct {
	PNR          string                     `json:"pnr"`
	OK           bool                       `json:"ok"`
	CustomerType ticketing.FlagCustomerType `json:"customer_type,omitempty"`
	Comparison   *ticketing.PriceComparison `json:"comparison,omitempty"`
	Error        string                     `json:"error,omitempty"`
}

func (h *TicketingHandler) Reprice(c echo.Context) error {
	var req RepriceRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}
	if len(req.Items) == 0 {
		return errorJSON(c, http.StatusBadRequest, "validation_error", "at least one item is required")
	}

	ctx := c.Request().Context()
	items := make([]RepriceItem, 0, len(req.Items))
	for _, it := range req.Items {
		res, err := h.client.Reprice(ctx, it.PNR, it.CustomerType)
		if err != nil {
			h.logger.Info("reprice failed", slog.String("pnr", it.PNR), slog.Any("error", err))
			items = append(items, RepriceItem{PNR: it.PNR, CustomerType: it.CustomerType, Error: err.Error()})
			continue
		}
		items = append(items, RepriceItem{
			PNR:          res.PNR,
			OK:           true,
			CustomerType: res.CustomerType,
			Comparison:   &res.Comparison,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"results": items})
}

type EmailTicketRequest struct {
	// PNRs is free text, e.g. "ABC123-XYZ789".
	PNRs         string             `json:"pnrs"`
	Email        string             `json:"email"`
	CustomerName string             `json:"customer_name"`
	Salutation   string             `json:"salutation"`
	Phone        string             `json:"phone"`
	SendTogether *bool              `json:"send_together"`
	NoteType     ticketing.NoteType `json:"note_type"`
}

// EmailTicket queues an e-ticket email. It answers 202 when the request was
// queued for the worker and 200 when it was handed to the relay directly.
func (h *TicketingHandler) EmailTicket(c echo.Context) error {
	var body EmailTicketRequest
	if err := c.Bind(&body); err != nil {
		return bindError(c, err)
	}

	req := ticketing.EmailTicketRequest{
		PNRs:         ticketing.ParseEmailPNRs(body.PNRs),
		Email:        body.Email,
		CustomerName: body.CustomerName,
		Salutation:   body.Salutation,
		Phone:        body.Phone,
		SendTogether: body.SendTogether == nil || *body.SendTogether,
		NoteType:     body.NoteType,
	}
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	ctx := c.Request().Context()
	if h.publisher == nil {
		if err := h.client.SendTicketEmail(ctx, req); err != nil {
			return fromError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"status": "sent", "pnrs": req.PNRs})
	}

	e, err := events.New(events.TypeEmailTicketRequested, events.EmailTicketRequested{Request: req})
	if err != nil {
		return fromError(c, err)
	}
	if err := h.publisher.Publish(ctx, h.topics.Emails, req.PNRs[0], e); err != nil {
		h.logger.Error("email event not published", slog.Any("pnrs", req.PNRs), slog.Any("error", err))
		return errorJSON(c, http.StatusServiceUnavailable, "queue_unavailable", "ticket email could not be queued")
	}
	return c.JSON(http.StatusAccepted, map[string]any{"status": "queued", "id": e.ID, "pnrs": req.PNRs})
}

package handler

import "github.com/labstack/echo/v4"

type Handlers struct {
	Sessions  *SessionHandler
	Pricing   *PricingHandler
	Ticketing *TicketingHandler
}

// Register mounts the API under /api/v1 plus /health. Nil handlers are
// skipped.
func Register(e *echo.Echo, h Handlers) {
	e.GET("/health", HealthHandler)

	api := e.Group("/api/v1")

	if s := h.Sessions; s != nil {
		api.POST("/sessions", s.Create)
		api.GET("/sessions/:id", s.Get)
		api.DELETE("/sessions/:id", s.Delete)
		api.POST("/sessions/:id/actions", s.Dispatch)
		api.POST("/sessions/:id/search", s.Search)
		api.GET("/sessions/:id/search/stream", s.SearchStream)
	}

	if p := h.Pricing; p != nil {
		api.GET("/price-configs/:segment", p.GetConfig)
		api.POST("/pricing/quote", p.Quote)
		api.POST("/lowfare", p.LowFare)
	}

	if t := h.Ticketing; t != nil {
		api.POST("/bookings/budget", t.HoldBudget)
		api.POST("/bookings/flag", t.HoldFlag)
		api.GET("/pnr/:carrier/:pnr", t.LookupPNR)
		api.GET("/tickets/:pnr/files", t.ListTicketFiles)
		api.POST("/reprice/check", t.CheckReprice)
		api.POST("/reprice", t.Reprice)
		api.POST("/tickets/email", t.EmailTicket)
	}
}

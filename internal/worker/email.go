// Package worker handles queued ticketing events.
package worker

import (
	"context"
	"log/slog"

	"github.com/dharmasatrya/faredesk/internal/events"
	"github.com/dharmasatrya/faredesk/internal/ticketing"
)

type TicketMailer interface {
	SendTicketEmail(ctx context.Context, req ticketing.EmailTicketRequest) error
}

// EmailDispatcher delivers email_ticket_requested events to the mail relay.
// Delivery failures are logged and the event is dropped; only a cancelled
// context stops the consumer.
type EmailDispatcher struct {
	mailer TicketMailer
	logger *slog.Logger
}

func NewEmailDispatcher(mailer TicketMailer, logger *slog.Logger) *EmailDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmailDispatcher{mailer: mailer, logger: logger}
}

func (d *EmailDispatcher) Handle(ctx context.Context, e events.Event) error {
	if e.Type != events.TypeEmailTicketRequested {
		return nil
	}

	var payload events.EmailTicketRequested
	if err := e.Unmarshal(&payload); err != nil {
		d.logger.Warn("dropping email event", slog.String("id", e.ID), slog.Any("error", err))
		return nil
	}

	if err := d.mailer.SendTicketEmail(ctx, payload.Request); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.logger.Error("ticket email failed",
			slog.String("id", e.ID),
			slog.Any("pnrs", payload.Request.PNRs),
			slog.Any("error", err),
		)
		return nil
	}

	d.logger.Info("ticket email queued", slog.String("id", e.ID), slog.Any("pnrs", payload.Request.PNRs))
	return nil
}

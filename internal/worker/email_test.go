package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/faredesk/internal/events"
	"github.com/dharmasatrya/faredesk/internal/ticketing"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendTicketEmail(ctx context.Context, req ticketing.EmailTicketRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func emailEvent(t *testing.T) (events.Event, ticketing.EmailTicketRequest) {
	req := ticketing.EmailTicketRequest{PNRs: []string{"ABC123"}, Email: "a@example.com", CustomerName: "An", Salutation: "anh"}
	e, err := events.New(events.TypeEmailTicketRequested, events.EmailTicketRequested{Request: req})
	require.NoError(t, err)
	return e, req
}

func TestEmailDispatcher_Delivers(t *testing.T) {
	e, req := emailEvent(t)
	m := &MockMailer{}
	m.On("SendTicketEmail", mock.Anything, req).Return(nil).Once()

	require.NoError(t, NewEmailDispatcher(m, quietLogger()).Handle(context.Background(), e))
	m.AssertExpectations(t)
}

func TestEmailDispatcher_FailureDoesNotStop(t *testing.T) {
	e, req := emailEvent(t)
	m := &MockMailer{}
	m.On("SendTicketEmail", mock.Anything, req).Return(errors.New("relay down"))

	assert.NoError(t, NewEmailDispatcher(m, quietLogger()).Handle(context.Background(), e))
}

func TestEmailDispatcher_CancelledContextStops(t *testing.T) {
	e, _ := emailEvent(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &MockMailer{}
	m.On("SendTicketEmail", mock.Anything, mock.Anything).Return(context.Canceled)

	assert.ErrorIs(t, NewEmailDispatcher(m, quietLogger()).Handle(ctx, e), context.Canceled)
}

func TestEmailDispatcher_IgnoresOtherEvents(t *testing.T) {
	e, err := events.New(events.TypeHoldCreated, events.HoldCreated{Code: "ABC123"})
	require.NoError(t, err)

	m := &MockMailer{}
	assert.NoError(t, NewEmailDispatcher(m, quietLogger()).Handle(context.Background(), e))
	m.AssertNotCalled(t, "SendTicketEmail", mock.Anything, mock.Anything)
}

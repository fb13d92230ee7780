package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dharmasatrya/faredesk/internal/models"
)

// Provider is one airline reservation backend. With directOnly set only
// itineraries without stops are requested or kept.
type Provider interface {
	Name() string
	Search(ctx context.Context, req models.SearchRequest, directOnly bool) ([]models.FlightQuote, error)
}

type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Err:      err,
	}
}

var (
	ErrUpstreamStatus = errors.New("upstream returned an error status")
	ErrBadPayload     = errors.New("upstream payload could not be decoded")
)

// StatusError is a non-OK status_code inside a well-formed response
// envelope. It matches ErrUpstreamStatus. Transport and HTTP failures are
// never a StatusError.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status_code %d", ErrUpstreamStatus, e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUpstreamStatus
}

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL: "https://thuhongtour.com",
		Timeout: 30 * time.Second,
	}
}

func (c Config) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.Timeout}
}

func (c Config) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

// postJSON sends body as JSON and decodes the response into out. Non-2xx
// transport statuses are errors; the body-level status is left to the caller.
func postJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: http %d", ErrUpstreamStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}

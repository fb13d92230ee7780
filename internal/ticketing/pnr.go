package ticketing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/dharmasatrya/faredesk/internal/carrier"
)

// PNRRecord is the summary shared by both carriers' lookups. Detail keeps
// the gateway document as returned.
type PNRRecord struct {
	PNR          string          `json:"pnr"`
	Carrier      string          `json:"carrier"`
	Status       string          `json:"status"`
	Paid         bool            `json:"paid"`
	TotalFare    int64           `json:"total_fare"`
	Currency     string          `json:"currency,omitempty"`
	PaymentDue   string          `json:"payment_due,omitempty"`
	CustomerType string          `json:"customer_type,omitempty"`
	Detail       json.RawMessage `json:"detail"`
}

type pnrSummary struct {
	PNR           string  `json:"pnr"`
	Status        string  `json:"status"`
	PaymentStatus bool    `json:"paymentstatus"`
	Total         float64 `json:"tongbillgiagoc"`
	Currency      string  `json:"currency"`
	PaymentDue    string  `json:"hanthanhtoan"`
	CustomerType  string  `json:"doituong"`
}

// LookupPNR fetches a booking from the carrier's reservation system.
func (c *Client) LookupPNR(ctx context.Context, carrierCode, pnr string) (PNRRecord, error) {
	pnr = strings.ToUpper(strings.TrimSpace(pnr))
	if pnr == "" {
		return PNRRecord{}, fmt.Errorf("%w: pnr is required", ErrInvalid)
	}

	var (
		method, target string
		code           = strings.ToUpper(strings.TrimSpace(carrierCode))
	)
	switch code {
	case carrier.CodeBudget:
		method, target = http.MethodPost, c.url("/vj/checkpnr", url.Values{"pnr": {pnr}})
	case carrier.CodeFlag:
		method, target = http.MethodGet, c.url("/checkvechoVNA", url.Values{"pnr": {pnr}})
	default:
		return PNRRecord{}, fmt.Errorf("%w: pnr lookup supports %s and %s only", ErrInvalid, carrier.CodeBudget, carrier.CodeFlag)
	}

	var raw json.RawMessage
	if err := c.do(ctx, method, target, nil, &raw); err != nil {
		return PNRRecord{}, fmt.Errorf("pnr lookup %s: %w", pnr, err)
	}
	var sum pnrSummary
	if err := json.Unmarshal(raw, &sum); err != nil {
		return PNRRecord{}, fmt.Errorf("pnr lookup %s: %w: %v", pnr, ErrBadPayload, err)
	}
	// Only the budget gateway reports a lookup status.
	if code == carrier.CodeBudget && sum.Status != "OK" {
		return PNRRecord{}, fmt.Errorf("pnr lookup %s: %w: status %q", pnr, ErrRejected, sum.Status)
	}

	if sum.PNR == "" {
		sum.PNR = pnr
	}
	return PNRRecord{
		PNR:          sum.PNR,
		Carrier:      code,
		Status:       sum.Status,
		Paid:         sum.PaymentStatus,
		TotalFare:    int64(sum.Total),
		Currency:     sum.Currency,
		PaymentDue:   sum.PaymentDue,
		CustomerType: sum.CustomerType,
		Detail:       raw,
	}, nil
}

type TicketFile struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// ListTicketFiles returns the ticket images stored for a PNR.
func (c *Client) ListTicketFiles(ctx context.Context, pnr string) ([]TicketFile, error) {
	pnr = strings.TrimSpace(pnr)
	if pnr == "" {
		return nil, fmt.Errorf("%w: pnr is required", ErrInvalid)
	}

	var resp struct {
		Files []string `json:"files"`
	}
	if err := c.do(ctx, http.MethodGet, c.url("/list-pnr/"+url.PathEscape(pnr), nil), nil, &resp); err != nil {
		return nil, fmt.Errorf("list ticket files %s: %w", pnr, err)
	}
	if resp.Files == nil {
		return nil, fmt.Errorf("list ticket files %s: %w: no files", pnr, ErrRejected)
	}

	files := make([]TicketFile, 0, len(resp.Files))
	for _, f := range resp.Files {
		name := "document.png"
		if u, err := url.Parse(f); err == nil && path.Base(u.Path) != "/" && path.Base(u.Path) != "." {
			name = path.Base(u.Path)
		}
		files = append(files, TicketFile{URL: f, Name: name})
	}
	return files, nil
}

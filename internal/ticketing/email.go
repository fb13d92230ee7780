package ticketing

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
)

var emailSeparators = regexp.MustCompile(`[\s\-;]+`)

// ParseEmailPNRs reads codes separated by whitespace, dashes or semicolons.
// Unlike ParsePNRs, repeated codes are kept.
func ParseEmailPNRs(input string) []string {
	return splitPNRs(input, emailSeparators, false)
}

// NoteType selects the fare note printed on the e-ticket.
type NoteType int

const (
	NoteDefault NoteType = 0
	NoteITFare  NoteType = 1
	NoteFull    NoteType = 2
	NoteBasic   NoteType = 3
)

var Salutations = []string{"anh", "chị", "bạn", "cô", "chú", "bác"}

type EmailTicketRequest struct {
	PNRs         []string `json:"pnrs"`
	Email        string   `json:"email"`
	CustomerName string   `json:"customer_name"`
	Salutation   string   `json:"salutation"`
	Phone        string   `json:"phone,omitempty"`
	// SendTogether sends one mail for all passengers instead of one each.
	SendTogether bool     `json:"send_together"`
	NoteType     NoteType `json:"note_type"`
}

func (r EmailTicketRequest) Validate() error {
	if len(r.PNRs) == 0 {
		return fmt.Errorf("%w: at least one %d-character pnr is required", ErrInvalid, PNRLength)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("%w: email address %q is invalid", ErrInvalid, r.Email)
	}
	if strings.TrimSpace(r.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalid)
	}
	valid := false
	for _, s := range Salutations {
		if r.Salutation == s {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: salutation must be one of %s", ErrInvalid, strings.Join(Salutations, ", "))
	}
	if r.NoteType < NoteDefault || r.NoteType > NoteBasic {
		return fmt.Errorf("%w: unknown note type %d", ErrInvalid, r.NoteType)
	}
	return nil
}

type emailCustomer struct {
	PNRs         []string `json:"pnrs"`
	Email        string   `json:"email"`
	CustomerName string   `json:"tenKhach"`
	Salutation   string   `json:"xungHo"`
	Phone        string   `json:"sdt"`
	SendTogether bool     `json:"guiChung"`
	Banner       string   `json:"banner"`
	NoteType     NoteType `json:"type"`
}

// SendTicketEmail hands the request to the mail relay, which queues the
// message and returns immediately.
func (c *Client) SendTicketEmail(ctx context.Context, req EmailTicketRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	body := struct {
		Customers []emailCustomer `json:"khachHang"`
	}{
		Customers: []emailCustomer{{
			PNRs:         req.PNRs,
			Email:        req.Email,
			CustomerName: req.CustomerName,
			Salutation:   req.Salutation,
			Phone:        req.Phone,
			SendTogether: req.SendTogether,
			NoteType:     req.NoteType,
		}},
	}

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, c.url("/proxy-gas", nil), body, &resp); err != nil {
		return fmt.Errorf("send ticket email: %w", err)
	}
	if resp.Status != "success" {
		return fmt.Errorf("send ticket email: %w: %s", ErrRejected, resp.Message)
	}
	return nil
}

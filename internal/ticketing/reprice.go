package ticketing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// PNRLength is the length of a reservation code.
const PNRLength = 6

var (
	repriceSeparators = regexp.MustCompile(`[\s,;]+`)

	grandTotalMarker  = regexp.MustCompile(`(?i)GRAND TOTAL KRW`)
	grandTotalAmount  = regexp.MustCompile(`(?i)GRAND TOTAL KRW\s+(\d+)`)
	grandTotalPaxName = regexp.MustCompile(`(?i)\d+\.\s*([A-Z/\s]+?\([A-Z/0-9]+\))`)
	paxPriceLine      = regexp.MustCompile(`^\s*\d+\s+\.?\d+\s*I?\s+([\w/\s()+\-]+?)\s+KRW\s+(\d+)`)
)

// ParsePNRs reads reservation codes separated by whitespace, commas or
// semicolons. Codes of the wrong length are dropped, duplicates collapse and
// input order is kept.
func ParsePNRs(input string) []string {
	return splitPNRs(input, repriceSeparators, true)
}

func splitPNRs(input string, sep *regexp.Regexp, dedupe bool) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range sep.Split(strings.ToUpper(input), -1) {
		p = strings.TrimSpace(p)
		if len(p) != PNRLength || (dedupe && seen[p]) {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

type PassengerPrice struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// ParsePriceText extracts per-passenger prices from a reservation system
// price display. With a GRAND TOTAL line every listed passenger carries the
// grand total; otherwise each priced line is read on its own.
func ParsePriceText(text string) []PassengerPrice {
	out := []PassengerPrice{}

	if grandTotalMarker.MatchString(text) {
		var total int64
		if m := grandTotalAmount.FindStringSubmatch(text); m != nil {
			total, _ = strconv.ParseInt(m[1], 10, 64)
		}
		for _, m := range grandTotalPaxName.FindAllStringSubmatch(text, -1) {
			out = append(out, PassengerPrice{Name: strings.TrimSpace(m[1]), Price: total})
		}
		return out
	}

	for _, line := range strings.Split(text, "\n") {
		m := paxPriceLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		price, _ := strconv.ParseInt(m[2], 10, 64)
		out = append(out, PassengerPrice{Name: strings.TrimSpace(m[1]), Price: price})
	}
	return out
}

type PassengerDelta struct {
	Name     string `json:"name"`
	OldPrice int64  `json:"old_price"`
	NewPrice int64  `json:"new_price"`
}

type PriceComparison struct {
	OldTotal   int64            `json:"old_total"`
	NewTotal   int64            `json:"new_total"`
	Passengers []PassengerDelta `json:"passengers"`
}

// ComparePrices lines up the old and new displays by passenger name. A
// passenger missing from the new display gets a zero new price.
func ComparePrices(oldText, newText string) PriceComparison {
	oldPax := ParsePriceText(oldText)
	newPax := ParsePriceText(newText)

	cmp := PriceComparison{Passengers: make([]PassengerDelta, 0, len(oldPax))}
	for _, p := range oldPax {
		cmp.OldTotal += p.Price
	}
	for _, p := range newPax {
		cmp.NewTotal += p.Price
	}
	for _, o := range oldPax {
		d := PassengerDelta{Name: o.Name, OldPrice: o.Price}
		for _, n := range newPax {
			if n.Name == o.Name {
				d.NewPrice = n.Price
				break
			}
		}
		cmp.Passengers = append(cmp.Passengers, d)
	}
	return cmp
}

type RepriceCheck struct {
	PNR            string           `json:"pnr"`
	CustomerType   FlagCustomerType `json:"customer_type"`
	OriginalPrices []PassengerPrice `json:"original_prices"`
}

type beginRepriceResponse struct {
	Model struct {
		Output struct {
			CrypticResponse struct {
				Response string `json:"response"`
			} `json:"crypticResponse"`
		} `json:"output"`
	} `json:"model"`
	OriginalPrice string `json:"pricegoc"`
}

// BeginReprice opens a reprice on a flag carrier PNR and reads its current
// prices. The customer type is STU when the stored fare is a student fare,
// VFR otherwise.
func (c *Client) BeginReprice(ctx context.Context, pnr string) (RepriceCheck, error) {
	var resp beginRepriceResponse
	if err := c.do(ctx, http.MethodGet, c.url("/beginReprice", url.Values{"pnr": {pnr}}), nil, &resp); err != nil {
		return RepriceCheck{}, fmt.Errorf("begin reprice %s: %w", pnr, err)
	}

	if !strings.Contains(resp.Model.Output.CrypticResponse.Response, "IGNORED - "+pnr) || resp.OriginalPrice == "" {
		return RepriceCheck{}, fmt.Errorf("begin reprice %s: %w", pnr, ErrRejected)
	}

	customer := CustomerVFR
	if strings.Contains(resp.OriginalPrice, "RSTU") {
		customer = CustomerStudent
	}
	return RepriceCheck{
		PNR:            pnr,
		CustomerType:   customer,
		OriginalPrices: ParsePriceText(resp.OriginalPrice),
	}, nil
}

type RepriceResult struct {
	PNR          string           `json:"pnr"`
	CustomerType FlagCustomerType `json:"customer_type"`
	Comparison   PriceComparison  `json:"comparison"`
}

// Reprice reissues the fare of pnr for the customer type and compares the
// prices before and after.
func (c *Client) Reprice(ctx context.Context, pnr string, customer FlagCustomerType) (RepriceResult, error) {
	if customer == "" {
		customer = CustomerVFR
	}

	var raw json.RawMessage
	query := url.Values{"pnr": {pnr}, "doituong": {string(customer)}}
	if err := c.do(ctx, http.MethodGet, c.url("/reprice", query), nil, &raw); err != nil {
		return RepriceResult{}, fmt.Errorf("reprice %s: %w", pnr, err)
	}

	var resp struct {
		OriginalPrice string `json:"pricegoc"`
		NewPrice      string `json:"pricemoi"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return RepriceResult{}, fmt.Errorf("reprice %s: %w: %v", pnr, ErrBadPayload, err)
	}

	complete := bytes.Contains(bytes.ToUpper(raw), []byte("TRANSACTION COMPLETE"))
	if !complete || resp.OriginalPrice == "" || resp.NewPrice == "" {
		return RepriceResult{}, fmt.Errorf("reprice %s: %w", pnr, ErrRejected)
	}
	return RepriceResult{
		PNR:          pnr,
		CustomerType: customer,
		Comparison:   ComparePrices(resp.OriginalPrice, resp.NewPrice),
	}, nil
}

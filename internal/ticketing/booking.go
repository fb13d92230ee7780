package ticketing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dharmasatrya/faredesk/internal/models"
	"github.com/dharmasatrya/faredesk/internal/timezone"
)

type Gender string

const (
	Male   Gender = "nam"
	Female Gender = "nữ"
)

func (g Gender) valid() bool {
	return g == Male || g == Female
}

// Traveler is one person on a budget carrier hold.
type Traveler struct {
	LastName    string `json:"last_name"`
	FirstName   string `json:"first_name"`
	Passport    string `json:"passport"`
	Gender      Gender `json:"gender"`
	Nationality string `json:"nationality"`
}

type BudgetPassenger struct {
	Traveler
	Child  bool      `json:"child"`
	Infant *Traveler `json:"infant,omitempty"`
}

type BudgetHoldRequest struct {
	Passengers       []BudgetPassenger `json:"passengers"`
	BookingKey       string            `json:"booking_key"`
	ReturnBookingKey string            `json:"return_booking_key,omitempty"`
	TripType         models.TripType   `json:"trip_type"`
	DepartureAirport string            `json:"departure_airport"`
	Phone            string            `json:"phone,omitempty"`
	// SeatsLeft caps the passenger count when positive.
	SeatsLeft int `json:"seats_left,omitempty"`
}

type BudgetHold struct {
	Code            string `json:"code"`
	PaymentDeadline string `json:"payment_deadline"`
}

type wireTraveler struct {
	LastName    string `json:"Họ"`
	FirstName   string `json:"Tên"`
	Passport    string `json:"Hộ_chiếu"`
	Gender      Gender `json:"Giới_tính"`
	Nationality string `json:"Quốc_tịch"`
}

type budgetHoldBody struct {
	Passengers struct {
		Adults   []wireTraveler `json:"người_lớn"`
		Children []wireTraveler `json:"trẻ_em"`
		Infants  []wireTraveler `json:"em_bé"`
	} `json:"ds_khach"`
	BookingKey       string `json:"bookingkey"`
	ReturnBookingKey string `json:"bookingkeychieuve"`
	TripType         string `json:"sochieu"`
	DepartureAirport string `json:"sanbaydi"`
	Phone            string `json:"phonekakao,omitempty"`
}

type budgetHoldResponse struct {
	Code            string `json:"mã_giữ_vé"`
	PaymentDeadline string `json:"hạn_thanh_toán"`
	Message         string `json:"message"`
}

// HoldBudget places an unpaid hold on the budget carrier.
func (c *Client) HoldBudget(ctx context.Context, req BudgetHoldRequest) (BudgetHold, error) {
	body, err := req.encode()
	if err != nil {
		return BudgetHold{}, err
	}

	var resp budgetHoldResponse
	if err := c.do(ctx, http.MethodPost, c.url("/vj/booking", nil), body, &resp); err != nil {
		return BudgetHold{}, fmt.Errorf("budget hold: %w", err)
	}
	if resp.Code == "" {
		return BudgetHold{}, fmt.Errorf("budget hold: %w: %s", ErrRejected, resp.Message)
	}
	return BudgetHold{Code: resp.Code, PaymentDeadline: resp.PaymentDeadline}, nil
}

func (r BudgetHoldRequest) encode() (budgetHoldBody, error) {
	var body budgetHoldBody

	if len(r.Passengers) == 0 {
		return body, fmt.Errorf("%w: at least one passenger is required", ErrInvalid)
	}
	if r.SeatsLeft > 0 && len(r.Passengers) > r.SeatsLeft {
		return body, fmt.Errorf("%w: %d passengers exceed the %d seats left", ErrInvalid, len(r.Passengers), r.SeatsLeft)
	}
	if strings.TrimSpace(r.BookingKey) == "" {
		return body, fmt.Errorf("%w: booking key is required", ErrInvalid)
	}
	if r.TripType == models.RoundTrip && strings.TrimSpace(r.ReturnBookingKey) == "" {
		return body, fmt.Errorf("%w: return booking key is required for round trips", ErrInvalid)
	}
	phone, err := NormalizePhone(r.Phone)
	if err != nil {
		return body, err
	}

	body.Passengers.Adults = []wireTraveler{}
	body.Passengers.Children = []wireTraveler{}
	body.Passengers.Infants = []wireTraveler{}
	for i, p := range r.Passengers {
		t, err := p.Traveler.wire()
		if err != nil {
			return body, fmt.Errorf("passenger %d: %w", i+1, err)
		}
		if p.Child {
			body.Passengers.Children = append(body.Passengers.Children, t)
		} else {
			body.Passengers.Adults = append(body.Passengers.Adults, t)
		}
		if p.Infant != nil {
			inf, err := p.Infant.wire()
			if err != nil {
				return body, fmt.Errorf("infant of passenger %d: %w", i+1, err)
			}
			body.Passengers.Infants = append(body.Passengers.Infants, inf)
		}
	}

	body.BookingKey = r.BookingKey
	if r.TripType == models.RoundTrip {
		body.ReturnBookingKey = r.ReturnBookingKey
	}
	body.TripType = string(r.TripType)
	body.DepartureAirport = strings.ToUpper(strings.TrimSpace(r.DepartureAirport))
	body.Phone = phone
	return body, nil
}

func (t Traveler) wire() (wireTraveler, error) {
	last := strings.Fields(t.LastName)
	if len(last) > 1 {
		return wireTraveler{}, fmt.Errorf("%w: last name must be a single word", ErrInvalid)
	}
	first := titleWords(t.FirstName)
	if len(last) == 0 || first == "" || strings.TrimSpace(t.Passport) == "" {
		return wireTraveler{}, fmt.Errorf("%w: last name, first name and passport are required", ErrInvalid)
	}

	gender := t.Gender
	if gender == "" {
		gender = Male
	}
	if !gender.valid() {
		return wireTraveler{}, fmt.Errorf("%w: gender must be %q or %q", ErrInvalid, Male, Female)
	}
	nationality := strings.ToUpper(strings.TrimSpace(t.Nationality))
	if nationality == "" {
		nationality = "VN"
	}

	return wireTraveler{
		LastName:    titleWord(last[0]),
		FirstName:   first,
		Passport:    strings.ToUpper(strings.TrimSpace(t.Passport)),
		Gender:      gender,
		Nationality: nationality,
	}, nil
}

// NormalizePhone strips spaces and dashes and adds the leading 0 the
// gateway expects. An empty number stays empty.
func NormalizePhone(phone string) (string, error) {
	phone = strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
	if phone == "" {
		return "", nil
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: phone number must contain digits only", ErrInvalid)
		}
	}
	if !strings.HasPrefix(phone, "0") {
		phone = "0" + phone
	}
	return phone, nil
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

// FlagCustomerType is the fare bundle requested on a flag carrier hold.
type FlagCustomerType string

const (
	CustomerVFR     FlagCustomerType = "VFR"
	CustomerAdult   FlagCustomerType = "ADT"
	CustomerStudent FlagCustomerType = "STU"
)

type FlagInfant struct {
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Gender    Gender `json:"gender"`
}

type FlagPassenger struct {
	LastName  string      `json:"last_name"`
	FirstName string      `json:"first_name"`
	Gender    Gender      `json:"gender"`
	Child     bool        `json:"child"`
	Infant    *FlagInfant `json:"infant,omitempty"`
}

// FlagHoldRequest dates are dd/mm/yyyy and clock times HH:MM, as printed on
// search results.
type FlagHoldRequest struct {
	Origin        string           `json:"origin"`
	Destination   string           `json:"destination"`
	DepartureDate string           `json:"departure_date"`
	DepartureTime string           `json:"departure_time"`
	TripType      models.TripType  `json:"trip_type"`
	ReturnDate    string           `json:"return_date,omitempty"`
	ReturnTime    string           `json:"return_time,omitempty"`
	CustomerType  FlagCustomerType `json:"customer_type"`
	Passengers    []FlagPassenger  `json:"passengers"`
	SeatsLeft     int              `json:"seats_left,omitempty"`
}

type FlagHold struct {
	PNR string `json:"pnr"`
}

type flagHoldResponse struct {
	Status  string `json:"status"`
	PNR     string `json:"pnr"`
	Message string `json:"message"`
}

// HoldFlag places a hold on the flag carrier. Passengers travel as repeated
// query parameters in reverse order.
func (c *Client) HoldFlag(ctx context.Context, req FlagHoldRequest) (FlagHold, error) {
	query, err := req.query()
	if err != nil {
		return FlagHold{}, err
	}

	var resp flagHoldResponse
	if err := c.do(ctx, http.MethodPost, c.url("/giuveVNAlive", query), nil, &resp); err != nil {
		return FlagHold{}, fmt.Errorf("flag hold: %w", err)
	}
	if resp.Status != "OK" || resp.PNR == "" {
		return FlagHold{}, fmt.Errorf("flag hold: %w: %s", ErrRejected, resp.Message)
	}
	return FlagHold{PNR: resp.PNR}, nil
}

func (r FlagHoldRequest) query() (url.Values, error) {
	if len(r.Passengers) == 0 {
		return nil, fmt.Errorf("%w: at least one passenger is required", ErrInvalid)
	}
	if r.SeatsLeft > 0 && len(r.Passengers) > r.SeatsLeft {
		return nil, fmt.Errorf("%w: %d passengers exceed the %d seats left", ErrInvalid, len(r.Passengers), r.SeatsLeft)
	}

	depDate, err := timezone.FormatDayMonthCode(r.DepartureDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	customer := r.CustomerType
	if customer == "" {
		customer = CustomerVFR
	}
	switch customer {
	case CustomerVFR, CustomerAdult, CustomerStudent:
	default:
		return nil, fmt.Errorf("%w: customer type must be VFR, ADT or STU", ErrInvalid)
	}

	q := url.Values{}
	q.Set("dep", strings.ToUpper(r.Origin))
	q.Set("arr", strings.ToUpper(r.Destination))
	q.Set("depdate", depDate)
	q.Set("deptime", strings.ReplaceAll(r.DepartureTime, ":", ""))
	if r.TripType == models.RoundTrip && r.ReturnDate != "" && r.ReturnTime != "" {
		retDate, err := timezone.FormatDayMonthCode(r.ReturnDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		q.Set("arrdate", retDate)
		q.Set("arrtime", strings.ReplaceAll(r.ReturnTime, ":", ""))
	}
	q.Set("doituong", string(customer))

	for i := len(r.Passengers) - 1; i >= 0; i-- {
		name, err := FormatFlagName(r.Passengers[i])
		if err != nil {
			return nil, fmt.Errorf("passenger %d: %w", i+1, err)
		}
		q.Add("hanhkhach", name)
	}
	return q, nil
}

// FormatFlagName renders a passenger as the reservation system expects,
// e.g. "TRAN/VAN AN MR(ADT)" or with an infant
// "TRAN/THI MAI MS(ADT)(INFTRAN/BAO MSTR)".
func FormatFlagName(p FlagPassenger) (string, error) {
	last := strings.ToUpper(strings.TrimSpace(p.LastName))
	first := strings.ToUpper(strings.Join(strings.Fields(p.FirstName), " "))
	if last == "" || first == "" {
		return "", fmt.Errorf("%w: last and first name are required", ErrInvalid)
	}

	title, age := "MR", "ADT"
	if p.Child {
		title, age = "MSTR", "CHD"
		if p.Gender == Female {
			title = "MISS"
		}
	} else if p.Gender == Female {
		title = "MS"
	}
	name := fmt.Sprintf("%s/%s %s(%s)", last, first, title, age)

	if p.Infant != nil && (p.Infant.LastName != "" || p.Infant.FirstName != "") {
		infLast := strings.ToUpper(strings.TrimSpace(p.Infant.LastName))
		infFirst := strings.ToUpper(strings.Join(strings.Fields(p.Infant.FirstName), " "))
		if infLast == "" || infFirst == "" {
			return "", fmt.Errorf("%w: infant last and first name are required", ErrInvalid)
		}
		infTitle := "MSTR"
		if p.Infant.Gender == Female {
			infTitle = "MISS"
		}
		name += fmt.Sprintf("(INF%s/%s %s)", infLast, infFirst, infTitle)
	}
	return name, nil
}

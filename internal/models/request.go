package models

import (
	"strings"
	"time"
)

type SearchRequest struct {
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	DepartureDate string   `json:"departure_date"`
	ReturnDate    string   `json:"return_date,omitempty"`
	TripType      TripType `json:"trip_type"`
	Adults        int      `json:"adults"`
	Children      int      `json:"children"`
	Infants       int      `json:"infants"`
}

func (r *SearchRequest) Validate() error {
	r.Origin = strings.ToUpper(strings.TrimSpace(r.Origin))
	r.Destination = strings.ToUpper(strings.TrimSpace(r.Destination))

	if r.Origin == "" {
		return ErrMissingOrigin
	}
	if r.Destination == "" {
		return ErrMissingDestination
	}
	if r.Origin == r.Destination {
		return ErrSameAirport
	}
	if r.DepartureDate == "" {
		return ErrMissingDepartureDate
	}
	if _, err := time.Parse("2006-01-02", r.DepartureDate); err != nil {
		return ErrInvalidDate
	}
	if r.TripType == "" {
		r.TripType = OneWay
		if r.ReturnDate != "" {
			r.TripType = RoundTrip
		}
	}
	switch r.TripType {
	case OneWay:
		r.ReturnDate = ""
	case RoundTrip:
		if r.ReturnDate == "" {
			return ErrMissingReturnDate
		}
		if _, err := time.Parse("2006-01-02", r.ReturnDate); err != nil {
			return ErrInvalidDate
		}
		if r.ReturnDate < r.DepartureDate {
			return ErrReturnBeforeDeparture
		}
	default:
		return ErrInvalidTripType
	}
	if r.Adults <= 0 {
		r.Adults = 1
	}
	if r.Children < 0 {
		r.Children = 0
	}
	if r.Infants < 0 {
		r.Infants = 0
	}
	if r.Infants > r.Adults {
		return ErrTooManyInfants
	}
	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin         ValidationError = "origin is required"
	ErrMissingDestination    ValidationError = "destination is required"
	ErrSameAirport           ValidationError = "origin and destination must differ"
	ErrMissingDepartureDate  ValidationError = "departure_date is required"
	ErrMissingReturnDate     ValidationError = "return_date is required for round trips"
	ErrInvalidDate           ValidationError = "dates must use the YYYY-MM-DD format"
	ErrReturnBeforeDeparture ValidationError = "return_date must not be before departure_date"
	ErrInvalidTripType       ValidationError = "trip_type must be OW or RT"
	ErrTooManyInfants        ValidationError = "each infant must travel with an adult"
)

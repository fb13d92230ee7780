// Package classify derives direct/connecting status and carrier group from
// normalized quotes. Everything here is pure.
package classify

import (
	"github.com/dharmasatrya/faredesk/internal/carrier"
	"github.com/dharmasatrya/faredesk/internal/models"
)

type Kind string

const (
	KindDirect     Kind = "direct"
	KindConnecting Kind = "connecting"
	// KindUnknown covers itineraries with a stop count other than 0 or 1 and
	// no leg with exactly one stop.
	KindUnknown Kind = "unknown"
)

const (
	LabelDirect     = "Bay thẳng"
	LabelConnecting = "Nối chuyến"
)

type Classification struct {
	IsDirect        bool          `json:"is_direct"`
	IsConnecting    bool          `json:"is_connecting"`
	Kind            Kind          `json:"kind"`
	Group           carrier.Group `json:"group"`
	FlightTypeLabel string        `json:"flight_type_label"`
}

// Classify never reports a quote as both direct and connecting.
func Classify(q models.FlightQuote) Classification {
	c := Classification{
		IsDirect:     IsDirect(q),
		IsConnecting: IsConnecting(q),
		Group:        carrier.GroupOf(q.Carrier()),
	}

	switch {
	case c.IsDirect:
		c.Kind = KindDirect
	case c.IsConnecting:
		c.Kind = KindConnecting
	default:
		c.Kind = KindUnknown
	}

	c.FlightTypeLabel = LabelConnecting
	if c.IsDirect {
		c.FlightTypeLabel = LabelDirect
	}

	return c
}

// IsDirect reports whether every present leg has zero stops.
func IsDirect(q models.FlightQuote) bool {
	if q.Outbound.Stops != 0 {
		return false
	}
	return q.Inbound == nil || q.Inbound.Stops == 0
}

// IsConnecting reports whether any present leg has exactly one stop.
func IsConnecting(q models.FlightQuote) bool {
	if q.Outbound.Stops == 1 {
		return true
	}
	return q.Inbound != nil && q.Inbound.Stops == 1
}

package pricing

import (
	"github.com/dharmasatrya/faredesk/internal/carrier"
	"github.com/dharmasatrya/faredesk/internal/models"
)

// ComputeFinalPrice turns an airline raw fare into the customer price: the
// trip fee is added, then at most one discount tier is subtracted. Tiers are
// tried from tier 5 down to tier 1 and compared against the unrounded raw
// fare. The result is not clamped and may be negative.
func ComputeFinalPrice(rawFare models.Money, tripType models.TripType, group carrier.Group, cfg PriceConfig) models.Money {
	final := rawFare + Fee(tripType, group, cfg)

	if tier, ok := MatchTier(rawFare, cfg.Tiers.For(group)); ok {
		final -= tier.Discount(tripType)
	}

	return final
}

// Fee is the flat amount added for a trip. One-way fees do not depend on the
// carrier group.
func Fee(tripType models.TripType, group carrier.Group, cfg PriceConfig) models.Money {
	if tripType == models.OneWay {
		return cfg.OneWayFee
	}
	return cfg.RoundTripFee.For(group)
}

// MatchTier returns the highest enabled tier whose threshold the raw fare
// strictly exceeds.
func MatchTier(rawFare models.Money, tiers Tiers) (Tier, bool) {
	for i := len(tiers) - 1; i >= 0; i-- {
		tier := tiers[i]
		if tier.Enabled() && rawFare > tier.Threshold {
			return tier, true
		}
	}
	return Tier{}, false
}

// Breakdown explains a final price. It satisfies
// Final == RawFare + Fee - Discount.
type Breakdown struct {
	RawFare  models.Money `json:"raw_fare"`
	Fee      models.Money `json:"fee"`
	Tier     int          `json:"tier,omitempty"`
	Discount models.Money `json:"discount"`
	Final    models.Money `json:"final"`
}

// Explain computes the same price as ComputeFinalPrice and reports which
// tier (1-based, 0 for none) applied.
func Explain(rawFare models.Money, tripType models.TripType, group carrier.Group, cfg PriceConfig) Breakdown {
	b := Breakdown{
		RawFare: rawFare,
		Fee:     Fee(tripType, group, cfg),
	}

	tiers := cfg.Tiers.For(group)
	for i := len(tiers) - 1; i >= 0; i-- {
		if tiers[i].Enabled() && rawFare > tiers[i].Threshold {
			b.Tier = i + 1
			b.Discount = tiers[i].Discount(tripType)
			break
		}
	}

	b.Final = b.RawFare + b.Fee - b.Discount
	return b
}

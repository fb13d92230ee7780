package pricing

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dharmasatrya/faredesk/internal/carrier"
	"github.com/dharmasatrya/faredesk/internal/models"
)

// Segment is the customer segment a price config belongs to.
type Segment string

const (
	SegmentPage   Segment = "page"
	SegmentLive   Segment = "live"
	SegmentCustom Segment = "custom"
)

var Segments = []Segment{SegmentPage, SegmentLive, SegmentCustom}

var ErrUnknownSegment = fmt.Errorf("segment must be one of %s, %s, %s", SegmentPage, SegmentLive, SegmentCustom)

func ParseSegment(s string) (Segment, error) {
	seg := Segment(strings.ToLower(strings.TrimSpace(s)))
	switch seg {
	case SegmentPage, SegmentLive, SegmentCustom:
		return seg, nil
	}
	return "", ErrUnknownSegment
}

// TierCount is the number of discount tiers per carrier group.
const TierCount = 5

// Tier is one threshold step. A zero Threshold disables the tier.
type Tier struct {
	Threshold         models.Money `json:"threshold" yaml:"threshold"`
	DiscountOneWay    models.Money `json:"discount_one_way" yaml:"discount_one_way"`
	DiscountRoundTrip models.Money `json:"discount_round_trip" yaml:"discount_round_trip"`
}

func (t Tier) Enabled() bool {
	return t.Threshold > 0
}

// Discount returns the amount this tier takes off for the given trip type.
func (t Tier) Discount(tripType models.TripType) models.Money {
	if tripType == models.OneWay {
		return t.DiscountOneWay
	}
	return t.DiscountRoundTrip
}

// Tiers holds tier 1 at index 0 through tier 5 at index 4.
type Tiers [TierCount]Tier

// UnmarshalYAML accepts up to TierCount entries, tier 1 first. Missing
// tiers stay zero and are disabled.
func (t *Tiers) UnmarshalYAML(value *yaml.Node) error {
	var list []Tier
	if err := value.Decode(&list); err != nil {
		return err
	}
	if len(list) > TierCount {
		return fmt.Errorf("line %d: at most %d discount tiers, got %d", value.Line, TierCount, len(list))
	}
	*t = Tiers{}
	copy(t[:], list)
	return nil
}

// GroupFees holds one amount per carrier group.
type GroupFees struct {
	Flag   models.Money `json:"flag" yaml:"flag"`
	Budget models.Money `json:"budget" yaml:"budget"`
	Other  models.Money `json:"other" yaml:"other"`
}

func (f GroupFees) For(g carrier.Group) models.Money {
	switch g {
	case carrier.FlagCarrier:
		return f.Flag
	case carrier.BudgetCarrier:
		return f.Budget
	default:
		return f.Other
	}
}

type GroupTiers struct {
	Flag   Tiers `json:"flag" yaml:"flag"`
	Budget Tiers `json:"budget" yaml:"budget"`
	Other  Tiers `json:"other" yaml:"other"`
}

func (t GroupTiers) For(g carrier.Group) Tiers {
	switch g {
	case carrier.FlagCarrier:
		return t.Flag
	case carrier.BudgetCarrier:
		return t.Budget
	default:
		return t.Other
	}
}

// Set replaces the tiers of one group.
func (t *GroupTiers) Set(g carrier.Group, tiers Tiers) {
	switch g {
	case carrier.FlagCarrier:
		t.Flag = tiers
	case carrier.BudgetCarrier:
		t.Budget = tiers
	default:
		t.Other = tiers
	}
}

// PriceConfig parameterizes the engine for one customer segment. The zero
// value is a valid config that adds nothing and discounts nothing.
type PriceConfig struct {
	Segment      Segment      `json:"segment" yaml:"segment"`
	OneWayFee    models.Money `json:"one_way_fee" yaml:"one_way_fee"`
	RoundTripFee GroupFees    `json:"round_trip_fee" yaml:"round_trip_fee"`
	Tiers        GroupTiers   `json:"discount_tiers" yaml:"discount_tiers"`
}

// EmptyConfig is the all-zero config of a segment.
func EmptyConfig(seg Segment) PriceConfig {
	return PriceConfig{Segment: seg}
}

// Validate rejects negative amounts. The engine itself accepts them, this is
// for operator edits of the custom segment.
func (c PriceConfig) Validate() error {
	if c.OneWayFee < 0 {
		return fmt.Errorf("one_way_fee must not be negative")
	}
	for _, g := range carrier.Groups {
		if c.RoundTripFee.For(g) < 0 {
			return fmt.Errorf("round_trip_fee.%s must not be negative", g)
		}
		for i, tier := range c.Tiers.For(g) {
			if tier.Threshold < 0 || tier.DiscountOneWay < 0 || tier.DiscountRoundTrip < 0 {
				return fmt.Errorf("discount_tiers.%s[%d] must not be negative", g, i+1)
			}
		}
	}
	return nil
}

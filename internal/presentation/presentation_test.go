package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/faredesk/internal/classify"
	"github.com/dharmasatrya/faredesk/internal/filter"
	"github.com/dharmasatrya/faredesk/internal/models"
	"github.com/dharmasatrya/faredesk/internal/pricing"
)

func directLeg(code, from, to, clock, date string) models.FlightLeg {
	return models.FlightLeg{Carrier: code, Origin: from, Destination: to, DepartureTime: clock, DepartureDate: date}
}

func TestCopyText_FlagCarrier(t *testing.T) {
	q := models.FlightQuote{
		Outbound: directLeg("VNA", "ICN", "HAN", "10:30", "17/04/2026"),
		Inbound:  &models.FlightLeg{Carrier: "VNA", Origin: "HAN", Destination: "ICN", DepartureTime: "23:55", DepartureDate: "25/04/2026"},
		Fare:     models.FareInfo{BaggageTag: "ADT"},
	}

	assert.Equal(t,
		"ICN-HAN 10:30 ngày 17/04\nHAN-ICN 23:55 ngày 25/04\nVNairlines 10kg xách tay, 23kg ký gửi, giá vé = 1.950.000w",
		CopyText(q, 1_949_950))

	q.Fare.BaggageTag = "VFR"
	assert.Contains(t, CopyText(q, 100), "VNairlines 10kg xách tay, 46kg ký gửi, giá vé = 100w")

	q.Fare.BaggageTag = "STU"
	assert.Contains(t, CopyText(q, 100), "\nVNA 10kg xách tay, giá vé = 100w")
}

func TestCopyText_Carriers(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"VJ", "Vietjet 7kg xách tay, 20kg ký gửi, giá vé = 1.234.600w"},
		{"OZ", "Asiana Airlines 10kg xách tay, 23kg ký gửi, giá vé = 1.234.600w"},
		{"TW", "Tway Air 10kg xách tay, ký gửi tuỳ gói, giá vé = 1.234.600w"},
		{"ZH", "ZH 10kg xách tay, giá vé = 1.234.600w"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			q := models.FlightQuote{Outbound: directLeg(tt.code, "ICN", "DAD", "07:05", "01/05/2026")}
			assert.Equal(t, "ICN-DAD 07:05 ngày 01/05\n"+tt.want, CopyText(q, 1_234_567))
		})
	}
}

func TestCopyText_ConnectingLegSplitsAtStop(t *testing.T) {
	q := models.FlightQuote{
		Outbound: models.FlightLeg{
			Carrier: "KE", Origin: "PUS", Destination: "SGN", Stops: 1, StopAirports: []string{"ICN"},
			DepartureTime: "08:00", DepartureDate: "03/06/2026", ArrivalTime: "14:20", ArrivalDate: "03/06/2026",
		},
	}

	assert.Equal(t,
		"PUS-ICN 08:00 ngày 03/06\nICN-SGN 14:20 ngày 03/06\nKorean Air 10kg xách tay, 23kg ký gửi, giá vé = 500w",
		CopyText(q, 500))
}

func TestPrice(t *testing.T) {
	cfg := pricing.PriceConfig{RoundTripFee: pricing.GroupFees{Budget: 50_000}}
	cfg.Tiers.Budget[2] = pricing.Tier{Threshold: 1_500_000, DiscountRoundTrip: 100_000}

	q := models.FlightQuote{
		Outbound: directLeg("VJ", "ICN", "HAN", "22:35", "17/04/2026"),
		Inbound:  &models.FlightLeg{Carrier: "VJ", Origin: "HAN", Destination: "ICN", DepartureTime: "01:50", DepartureDate: "24/04/2026"},
		Fare:     models.FareInfo{RawFare: 2_000_000},
	}

	pq := Price(q, models.RoundTrip, cfg)
	assert.Equal(t, models.Money(1_950_000), pq.FinalPrice)
	assert.Equal(t, "1.950.000", pq.DisplayPrice)
	assert.Equal(t, 3, pq.Breakdown.Tier)
	assert.Equal(t, classify.KindDirect, pq.Classification.Kind)
	assert.Equal(t, "Vietjet", pq.CarrierInfo.Name)
	assert.Contains(t, pq.CopyText, "giá vé = 1.950.000w")

	q.Outbound.Stops = 1
	assert.Empty(t, Price(q, models.RoundTrip, cfg).CopyText, "connecting itineraries get no copy text")
}

func TestBuild(t *testing.T) {
	views := filter.Views{
		Flag: []models.FlightQuote{{Outbound: directLeg("VNA", "ICN", "HAN", "10:00", "17/04/2026"), Fare: models.FareInfo{RawFare: 900}}},
		Other: []models.FlightQuote{
			{Outbound: directLeg("KE", "ICN", "HAN", "09:00", "17/04/2026"), Fare: models.FareInfo{RawFare: 500}},
			{Outbound: directLeg("OZ", "ICN", "HAN", "11:00", "17/04/2026"), Fare: models.FareInfo{RawFare: 700}},
		},
	}

	r := Build(views, models.OneWay, pricing.PriceConfig{OneWayFee: 10})
	assert.Empty(t, r.Budget)
	require.Len(t, r.Flag, 1)
	assert.Equal(t, models.Money(910), r.Flag[0].FinalPrice)

	require.NotNil(t, r.CheapestOther)
	assert.Equal(t, "KE", r.CheapestOther.Carrier())
	assert.Equal(t, models.Money(510), r.CheapestOther.FinalPrice)

	assert.Nil(t, Build(filter.Views{}, models.OneWay, pricing.PriceConfig{}).CheapestOther)
}

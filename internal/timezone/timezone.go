package timezone

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	KST *time.Location // UTC+9 - Korea
	ICT *time.Location // UTC+7 - Vietnam
)

func init() {
	KST = time.FixedZone("KST", 9*60*60)
	ICT = time.FixedZone("ICT", 7*60*60)
}

// Leg dates and clock times as the reservation backends print them.
const (
	LegDateLayout  = "02/01/2006"
	LegClockLayout = "15:04"
)

var airportTimezones = map[string]string{
	// KST (UTC+9) - Korea
	"ICN": "KST", // Seoul - Incheon
	"GMP": "KST", // Seoul - Gimpo
	"PUS": "KST", // Busan - Gimhae
	"CJU": "KST", // Jeju
	"TAE": "KST", // Daegu

	// ICT (UTC+7) - Vietnam
	"HAN": "ICT", // Hanoi - Noi Bai
	"SGN": "ICT", // Ho Chi Minh City - Tan Son Nhat
	"DAD": "ICT", // Da Nang
	"HPH": "ICT", // Hai Phong - Cat Bi
	"CXR": "ICT", // Nha Trang - Cam Ranh
	"HUI": "ICT", // Hue - Phu Bai
	"VDH": "ICT", // Dong Hoi
	"TBB": "ICT", // Tuy Hoa
	"UIH": "ICT", // Quy Nhon - Phu Cat
	"DLI": "ICT", // Da Lat - Lien Khuong
	"PQC": "ICT", // Phu Quoc
	"VCA": "ICT", // Can Tho
	"VII": "ICT", // Vinh
}

// GetTimezoneByAirport returns "KST", "ICT" or "UTC" for airports outside the
// table.
func GetTimezoneByAirport(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if tz, ok := airportTimezones[code]; ok {
		return tz
	}
	return "UTC"
}

// IsKnownAirport reports whether code is in the served airport table.
func IsKnownAirport(code string) bool {
	_, ok := airportTimezones[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

func GetLocationByAirport(code string) *time.Location {
	switch GetTimezoneByAirport(code) {
	case "KST":
		return KST
	case "ICT":
		return ICT
	default:
		return time.UTC
	}
}

func GetLocationByName(name string) *time.Location {
	switch strings.ToUpper(name) {
	case "KST", "UTC+9":
		return KST
	case "ICT", "UTC+7":
		return ICT
	default:
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
		return time.UTC
	}
}

// ParseLegTime combines a dd/mm/yyyy date and an HH:MM clock into a time in
// the airport's zone.
func ParseLegTime(date, clock, airport string) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("leg time needs both date and clock, got %q %q", date, clock)
	}

	t, err := time.ParseInLocation(LegDateLayout+" "+LegClockLayout, date+" "+clock, GetLocationByAirport(airport))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse leg time %q %q: %w", date, clock, err)
	}
	return t, nil
}

// FormatDayMonth renders a dd/mm/yyyy leg date as dd/mm. Other inputs are
// returned unchanged.
func FormatDayMonth(date string) string {
	t, err := time.Parse(LegDateLayout, strings.TrimSpace(date))
	if err != nil {
		return date
	}
	return t.Format("02/01")
}

// FormatDayMonthCode renders a dd/mm/yyyy leg date as reservation-system
// date text, e.g. "17/04/2026" -> "17APR".
func FormatDayMonthCode(date string) (string, error) {
	t, err := time.Parse(LegDateLayout, strings.TrimSpace(date))
	if err != nil {
		return "", fmt.Errorf("parse leg date %q: %w", date, err)
	}
	return strings.ToUpper(t.Format("02Jan")), nil
}

// NormalizeDuration turns a bare minute count such as "135" into "02:15".
// Values already containing a colon are returned as is.
func NormalizeDuration(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, ":") {
		return s
	}
	minutes, err := strconv.Atoi(s)
	if err != nil || minutes < 0 {
		return s
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func ConvertToTimezone(t time.Time, airportCode string) time.Time {
	return t.In(GetLocationByAirport(airportCode))
}

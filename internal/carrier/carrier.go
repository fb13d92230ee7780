package carrier

import "strings"

// Group selects which fee and discount tables apply to a quote.
type Group string

const (
	FlagCarrier   Group = "flag"
	BudgetCarrier Group = "budget"
	Other         Group = "other"
)

// Groups lists every group in display order.
var Groups = []Group{BudgetCarrier, FlagCarrier, Other}

const (
	CodeBudget = "VJ"
	CodeFlag   = "VNA"
)

// Info is the fixed display and baggage description of a carrier.
type Info struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	CarryOn   string `json:"carry_on"`
	// Checked is empty when the allowance depends on the fare bundle.
	Checked string `json:"checked,omitempty"`
	Group   Group  `json:"group"`
	Known   bool   `json:"known"`
}

var table = map[string]Info{
	CodeBudget: {Code: CodeBudget, Name: "Vietjet", ShortName: "Vietjet", CarryOn: "7kg", Checked: "20kg", Group: BudgetCarrier, Known: true},
	CodeFlag:   {Code: CodeFlag, Name: "VNairlines", ShortName: "Vietnam Airlines", CarryOn: "10kg", Checked: "23kg", Group: FlagCarrier, Known: true},
	"7C":       {Code: "7C", Name: "Jeju Air", ShortName: "Jeju", CarryOn: "10kg", Checked: "15kg", Group: Other, Known: true},
	"YP":       {Code: "YP", Name: "Premia Air", ShortName: "Premia", CarryOn: "10kg", Checked: "23kg", Group: Other, Known: true},
	"LJ":       {Code: "LJ", Name: "Jin Air", ShortName: "Jin Air", CarryOn: "10kg", Checked: "15kg", Group: Other, Known: true},
	"TW":       {Code: "TW", Name: "Tway Air", ShortName: "Tway", CarryOn: "10kg", Group: Other, Known: true},
	"KE":       {Code: "KE", Name: "Korean Air", ShortName: "Korean Air", CarryOn: "10kg", Checked: "23kg", Group: Other, Known: true},
	"OZ":       {Code: "OZ", Name: "Asiana Airlines", ShortName: "Asiana", CarryOn: "10kg", Checked: "23kg", Group: Other, Known: true},
	"RS":       {Code: "RS", Name: "Air Seoul", ShortName: "Air Seoul", CarryOn: "10kg", Checked: "15kg", Group: Other, Known: true},
	"BX":       {Code: "BX", Name: "Air Busan", ShortName: "Air Busan", CarryOn: "10kg", Checked: "15kg", Group: Other, Known: true},
}

// GroupOf classifies a carrier code. Codes outside the table are Other.
func GroupOf(code string) Group {
	switch normalize(code) {
	case CodeBudget:
		return BudgetCarrier
	case CodeFlag:
		return FlagCarrier
	default:
		return Other
	}
}

// Lookup returns the table entry for code.
func Lookup(code string) (Info, bool) {
	info, ok := table[normalize(code)]
	return info, ok
}

// Describe never fails: unknown codes get an unbranded entry named after the
// code itself with the generic 10kg carry-on allowance.
func Describe(code string) Info {
	if info, ok := Lookup(code); ok {
		return info
	}
	code = normalize(code)
	return Info{
		Code:      code,
		Name:      code,
		ShortName: code,
		CarryOn:   "10kg",
		Group:     Other,
	}
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

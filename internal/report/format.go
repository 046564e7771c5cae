// Package report renders a waterfall run for people: CSV, XLSX and markdown.
// Values are rounded to six decimals here and nowhere else.
package report

import (
	"strconv"
	"time"

	"feeder-fund-calc/internal/analysis"
	"feeder-fund-calc/internal/model"
	"feeder-fund-calc/internal/waterfall"

	"github.com/shopspring/decimal"
)

// Places is the number of decimals shown for monetary and NAV values.
const Places = 6

// LedgerColumns is the header of the Results table, in output order.
var LedgerColumns = []string{
	"Period",
	"Date",
	"Month",
	"Input Return %",
	"Opening NAV",
	"P&L",
	"Add Back Uncryst PF",
	"Adjusted GAV",
	"Mgmt Fee",
	"Mgmt Charged?",
	"NAV Before Perf Fee",
	"Perf Fee Accrued",
	"Incremental Perf Fee",
	"Uncrystallized PF",
	"Crystallized?",
	"Perf Fee Paid",
	"Closing NAV",
	"Net Return %",
	"HWM",
}

// Pair is one line of the Summary section.
type Pair struct {
	Name  string
	Value string
}

var policyLabels = map[model.PolicyKind]string{
	model.AccrueAndCrystallize: "Accrue and crystallize (add-back)",
	model.ImmediateDeduction:   "Immediate deduction",
}

// Parameters lists every configuration value used for a run, for audit.
func Parameters(cfg model.EngineConfig) []Pair {
	return []Pair{
		{"Method", policyLabels[cfg.Policy]},
		{"Management Fee", Percent(cfg.ManagementFeePct)},
		{"Mgmt Frequency", string(cfg.ManagementFeeFrequency)},
		{"Performance Fee", Percent(cfg.CarryPct)},
		{"Perf Calc Frequency", string(cfg.PerformanceFeeFrequency)},
		{"Crystallization Frequency", string(cfg.CrystallizationFrequency)},
		{"Hurdle Rate", Percent(cfg.HurdleRatePct)},
		{"High Water Mark", yesNo(cfg.UseHighWaterMark)},
		{"HWM Reference", string(cfg.HWMReference)},
		{"Base Row", yesNo(cfg.BaseRow)},
		{"Skip Undated", yesNo(cfg.SkipUndated)},
		{"Starting NAV", Fixed(cfg.StartingNAV)},
	}
}

// Aggregates lists the run-level figures shown below the parameters.
func Aggregates(s analysis.Summary) []Pair {
	return []Pair{
		{"Periods", strconv.Itoa(s.Periods)},
		{"Skipped Rows", strconv.Itoa(s.Skipped)},
		{"Avg Net Return %", decimal.NewFromFloat(s.AvgReturnPct).StringFixed(2) + "%"},
		{"Total Net Return %", decimal.NewFromFloat(s.TotalReturnPct).StringFixed(2) + "%"},
		{"Return Std Dev %", decimal.NewFromFloat(s.StdDevReturnPct).StringFixed(2) + "%"},
		{"Max Drawdown %", decimal.NewFromFloat(s.MaxDrawdownPct).StringFixed(2) + "%"},
		{"Total Mgmt Fees", Fixed(s.TotalManagementFees)},
		{"Mgmt Charges", strconv.Itoa(s.ManagementCharges)},
		{"Total Perf Fees", Fixed(s.TotalPerformanceFees)},
		{"Perf Payouts", strconv.Itoa(s.PerformancePayouts)},
		{"Uncrystallized PF", Fixed(s.FinalUncrystallized)},
		{"Final NAV", Fixed(s.FinalNAV)},
	}
}

// SummaryPairs is the full Summary section: parameters, a blank separator,
// then aggregates.
func SummaryPairs(res *waterfall.Result) []Pair {
	out := Parameters(res.Config)
	out = append(out, Pair{})
	return append(out, Aggregates(analysis.Summarize(res))...)
}

// LedgerCells renders one ledger row as text in LedgerColumns order.
func LedgerCells(r waterfall.LedgerRow) []string {
	return []string{
		r.Label,
		fmtDate(r.Date),
		strconv.Itoa(r.Month),
		Fixed(r.Return * 100),
		Fixed(r.OpeningNAV),
		Fixed(r.PnL),
		Fixed(r.AddBack),
		Fixed(r.AdjustedGAV),
		Fixed(r.ManagementFee),
		yesNo(r.ManagementCharged),
		Fixed(r.NAVBeforePerfFee),
		Fixed(r.PerfFeeAccrued),
		Fixed(r.IncrementalAccrual),
		Fixed(r.Uncrystallized),
		yesNo(r.Crystallized),
		Fixed(r.PerfFeePaid),
		Fixed(r.ClosingNAV),
		Fixed(r.ReturnPct),
		Fixed(r.HWM),
	}
}

// Fixed formats x with Places decimals.
func Fixed(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(Places)
}

// Round returns x rounded half away from zero to Places decimals.
func Round(x float64) float64 {
	return decimal.NewFromFloat(x).Round(Places).InexactFloat64()
}

// Percent renders a percentage parameter without trailing zeros ("1.5%").
func Percent(x float64) string {
	return decimal.NewFromFloat(x).String() + "%"
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

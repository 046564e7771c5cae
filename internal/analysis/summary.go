package analysis

import (
	"math"

	"feeder-fund-calc/internal/waterfall"

	"gonum.org/v1/gonum/stat"
)

// Summary is the run-level view of a ledger: the aggregates shown under the
// per-period table and written to the Summary sheet.
type Summary struct {
	Periods int
	Skipped int

	// AvgReturnPct averages ReturnPct over every emitted row, the base row
	// included.
	AvgReturnPct    float64
	TotalReturnPct  float64
	StdDevReturnPct float64
	MaxDrawdownPct  float64

	TotalManagementFees  float64
	ManagementCharges    int
	TotalPerformanceFees float64
	PerformancePayouts   int

	FinalUncrystallized float64
	FinalNAV            float64
	FinalHWM            float64
}

func Summarize(res *waterfall.Result) Summary {
	s := Summary{}
	if res == nil {
		return s
	}
	s.Periods = len(res.Ledger)
	s.Skipped = len(res.Skipped)
	s.TotalManagementFees = res.TotalManagementFees
	s.TotalPerformanceFees = res.TotalPerformanceFees
	s.FinalUncrystallized = res.Final.Accrued
	s.FinalNAV = res.Final.NAV
	s.FinalHWM = res.Final.HWM
	if start := res.Config.StartingNAV; start > 0 {
		s.TotalReturnPct = (res.Final.NAV/start - 1) * 100
	}
	if len(res.Ledger) == 0 {
		return s
	}

	all := make([]float64, 0, len(res.Ledger))
	live := make([]float64, 0, len(res.Ledger))
	closes := make([]float64, 0, len(res.Ledger))
	for _, row := range res.Ledger {
		all = append(all, row.ReturnPct)
		closes = append(closes, row.ClosingNAV)
		if row.Base {
			continue
		}
		live = append(live, row.ReturnPct)
		if row.ManagementCharged && row.ManagementFee != 0 {
			s.ManagementCharges++
		}
		if row.PerfFeePaid > 0 {
			s.PerformancePayouts++
		}
	}
	s.AvgReturnPct = stat.Mean(all, nil)
	if len(live) > 1 {
		s.StdDevReturnPct = stat.StdDev(live, nil)
	}
	s.MaxDrawdownPct = maxDrawdownPct(res.Config.StartingNAV, closes)
	return s
}

// maxDrawdownPct is the deepest peak-to-trough fall of the closing NAV, as a
// non-positive percentage.
func maxDrawdownPct(start float64, closes []float64) float64 {
	peak := start
	worst := 0.0
	for _, v := range closes {
		peak = math.Max(peak, v)
		if peak <= 0 {
			continue
		}
		if dd := (v/peak - 1) * 100; dd < worst {
			worst = dd
		}
	}
	return worst
}

package models

import (
	"time"

	"feeder-fund-calc/internal/analysis"
	"feeder-fund-calc/internal/model"
	"feeder-fund-calc/internal/waterfall"
)

// CalculateResponse is returned by the calculate endpoints.
type CalculateResponse struct {
	ID      string       `json:"id"`
	Status  string       `json:"status"`
	Config  ConfigInfo   `json:"config"`
	Summary Summary      `json:"summary"`
	Skipped []SkippedRow `json:"skipped,omitempty"`
	Ledger  []LedgerRow  `json:"ledger,omitempty"`
}

// ConfigInfo echoes the resolved configuration used for a run.
type ConfigInfo struct {
	ManagementFeePct         float64 `json:"management_fee_pct"`
	ManagementFeeFrequency   string  `json:"management_fee_frequency"`
	CarryPct                 float64 `json:"carry_pct"`
	PerformanceFeeFrequency  string  `json:"performance_fee_frequency"`
	CrystallizationFrequency string  `json:"crystallization_frequency"`
	HurdleRatePct            float64 `json:"hurdle_rate_pct"`
	UseHighWaterMark         bool    `json:"use_high_water_mark"`
	BaseRow                  bool    `json:"base_row"`
	SkipUndated              bool    `json:"skip_undated"`
	Policy                   string  `json:"policy"`
	HWMReference             string  `json:"hwm_reference"`
	StartingNAV              float64 `json:"starting_nav"`
}

type Summary struct {
	Periods              int     `json:"periods"`
	Skipped              int     `json:"skipped"`
	AvgReturnPct         float64 `json:"avg_return_pct"`
	TotalReturnPct       float64 `json:"total_return_pct"`
	StdDevReturnPct      float64 `json:"stddev_return_pct"`
	MaxDrawdownPct       float64 `json:"max_drawdown_pct"`
	TotalManagementFees  float64 `json:"total_management_fees"`
	ManagementCharges    int     `json:"management_charges"`
	TotalPerformanceFees float64 `json:"total_performance_fees"`
	PerformancePayouts   int     `json:"performance_payouts"`
	FinalUncrystallized  float64 `json:"final_uncrystallized"`
	FinalNAV             float64 `json:"final_nav"`
	FinalHWM             float64 `json:"final_hwm"`
}

// LedgerRow represents one period of the fee ledger.
type LedgerRow struct {
	Index              int        `json:"index"`
	Period             string     `json:"period"`
	Date               *time.Time `json:"date,omitempty"`
	Month              int        `json:"month"`
	MonthInferred      bool       `json:"month_inferred,omitempty"`
	Base               bool       `json:"base,omitempty"`
	OpeningNAV         float64    `json:"opening_nav"`
	Return             float64    `json:"return"`
	PnL                float64    `json:"pnl"`
	AddBack            float64    `json:"add_back"`
	AdjustedGAV        float64    `json:"adjusted_gav"`
	ManagementFee      float64    `json:"management_fee"`
	ManagementCharged  bool       `json:"management_charged"`
	NAVBeforePerfFee   float64    `json:"nav_before_perf_fee"`
	PerfFeeAccrued     float64    `json:"perf_fee_accrued"`
	IncrementalAccrual float64    `json:"incremental_accrual"`
	Uncrystallized     float64    `json:"uncrystallized"`
	Crystallized       bool       `json:"crystallized"`
	PerfFeePaid        float64    `json:"perf_fee_paid"`
	ClosingNAV         float64    `json:"closing_nav"`
	ReturnPct          float64    `json:"return_pct"`
	HWM                float64    `json:"hwm"`
}

type SkippedRow struct {
	Index  int    `json:"index"`
	Period string `json:"period"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

// LedgerResponse is returned by GET /api/v1/runs/:id/ledger.
type LedgerResponse struct {
	ID      string       `json:"id"`
	Summary Summary      `json:"summary"`
	Skipped []SkippedRow `json:"skipped,omitempty"`
	Ledger  []LedgerRow  `json:"ledger"`
}

// CompareResponse lists scenarios ranked by final NAV.
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

type ComparisonResult struct {
	Rank    int        `json:"rank"`
	Name    string     `json:"name"`
	RunID   string     `json:"run_id"`
	Config  ConfigInfo `json:"config"`
	Summary Summary    `json:"summary"`
}

type PolicyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default,omitempty"`
}

type FrequencyInfo struct {
	Name           string  `json:"name"`
	PeriodsPerYear float64 `json:"periods_per_year"`
	Months         []int   `json:"months"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func NewConfigInfo(c model.EngineConfig) ConfigInfo {
	return ConfigInfo{
		ManagementFeePct:         c.ManagementFeePct,
		ManagementFeeFrequency:   string(c.ManagementFeeFrequency),
		CarryPct:                 c.CarryPct,
		PerformanceFeeFrequency:  string(c.PerformanceFeeFrequency),
		CrystallizationFrequency: string(c.CrystallizationFrequency),
		HurdleRatePct:            c.HurdleRatePct,
		UseHighWaterMark:         c.UseHighWaterMark,
		BaseRow:                  c.BaseRow,
		SkipUndated:              c.SkipUndated,
		Policy:                   string(c.Policy),
		HWMReference:             string(c.HWMReference),
		StartingNAV:              c.StartingNAV,
	}
}

func NewSummary(s analysis.Summary) Summary {
	return Summary{
		Periods:              s.Periods,
		Skipped:              s.Skipped,
		AvgReturnPct:         s.AvgReturnPct,
		TotalReturnPct:       s.TotalReturnPct,
		StdDevReturnPct:      s.StdDevReturnPct,
		MaxDrawdownPct:       s.MaxDrawdownPct,
		TotalManagementFees:  s.TotalManagementFees,
		ManagementCharges:    s.ManagementCharges,
		TotalPerformanceFees: s.TotalPerformanceFees,
		PerformancePayouts:   s.PerformancePayouts,
		FinalUncrystallized:  s.FinalUncrystallized,
		FinalNAV:             s.FinalNAV,
		FinalHWM:             s.FinalHWM,
	}
}

func NewLedger(rows []waterfall.LedgerRow) []LedgerRow {
	out := make([]LedgerRow, len(rows))
	for i, r := range rows {
		out[i] = LedgerRow{
			Index:              r.Index,
			Period:             r.Label,
			Month:              r.Month,
			MonthInferred:      r.MonthInferred,
			Base:               r.Base,
			OpeningNAV:         r.OpeningNAV,
			Return:             r.Return,
			PnL:                r.PnL,
			AddBack:            r.AddBack,
			AdjustedGAV:        r.AdjustedGAV,
			ManagementFee:      r.ManagementFee,
			ManagementCharged:  r.ManagementCharged,
			NAVBeforePerfFee:   r.NAVBeforePerfFee,
			PerfFeeAccrued:     r.PerfFeeAccrued,
			IncrementalAccrual: r.IncrementalAccrual,
			Uncrystallized:     r.Uncrystallized,
			Crystallized:       r.Crystallized,
			PerfFeePaid:        r.PerfFeePaid,
			ClosingNAV:         r.ClosingNAV,
			ReturnPct:          r.ReturnPct,
			HWM:                r.HWM,
		}
		if !r.Date.IsZero() {
			d := r.Date
			out[i].Date = &d
		}
	}
	return out
}

func NewSkipped(rows []waterfall.SkippedPeriod) []SkippedRow {
	if len(rows) == 0 {
		return nil
	}
	out := make([]SkippedRow, len(rows))
	for i, s := range rows {
		out[i] = SkippedRow{Index: s.Index, Period: s.Label, Raw: s.Raw, Reason: s.Reason}
	}
	return out
}

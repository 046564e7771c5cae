package waterfall

import (
	"time"

	"feeder-fund-calc/internal/model"
)

// LedgerRow is one row of per-period output. Rows are never modified after
// the engine emits them.
type LedgerRow struct {
	Index int
	Label string
	Date  time.Time

	// Month is the calendar month used for frequency decisions;
	// MonthInferred is set when it came from the row position.
	Month         int
	MonthInferred bool
	Base          bool

	OpeningNAV  float64
	Return      float64
	PnL         float64
	AddBack     float64
	AdjustedGAV float64

	ManagementFee     float64
	ManagementCharged bool
	NAVBeforePerfFee  float64

	PerfFeeAccrued     float64
	IncrementalAccrual float64
	Uncrystallized     float64
	Crystallized       bool
	PerfFeePaid        float64

	ClosingNAV float64
	ReturnPct  float64
	HWM        float64
}

// SkippedPeriod records an input row the engine dropped.
type SkippedPeriod struct {
	Index  int
	Label  string
	Raw    string
	Reason string
}

// State is the mutable cross-period state of one run, as of the end of the
// last processed period.
type State struct {
	NAV     float64
	HWM     float64
	Accrued float64
}

type Result struct {
	Config  model.EngineConfig
	Ledger  []LedgerRow
	Skipped []SkippedPeriod

	Final State

	TotalManagementFees  float64
	TotalPerformanceFees float64
}

package waterfall

import (
	"context"
	"fmt"
	"testing"
	"time"

	"feeder-fund-calc/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func undated(returns ...float64) []model.Period {
	out := make([]model.Period, len(returns))
	for i, r := range returns {
		out[i] = model.Period{
			Index:     i,
			Label:     fmt.Sprintf("P%d", i),
			Raw:       fmt.Sprint(r),
			Return:    r,
			HasReturn: true,
		}
	}
	return out
}

func monthly(start time.Time, returns ...float64) []model.Period {
	out := undated(returns...)
	for i := range out {
		out[i].Date = time.Date(start.Year(), start.Month()+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		out[i].HasDate = true
		out[i].Label = out[i].Date.Format("2006-01")
	}
	return out
}

func scenarioConfig() model.EngineConfig {
	c := model.DefaultEngineConfig()
	c.BaseRow = true
	return c
}

func TestRun_Scenario(t *testing.T) {
	res, err := New().Run(undated(0, 0.0786, -0.0498), scenarioConfig())
	require.NoError(t, err)
	require.Len(t, res.Ledger, 3)

	base := res.Ledger[0]
	assert.True(t, base.Base)
	assert.Equal(t, 1.0, base.ClosingNAV)
	assert.Equal(t, 0.0, base.ManagementFee)
	assert.Equal(t, 0.0, base.PerfFeeAccrued)

	r1 := res.Ledger[1]
	assert.Equal(t, 1, r1.Month)
	assert.True(t, r1.MonthInferred)
	assert.InDelta(t, 1.0, r1.OpeningNAV, eps)
	assert.InDelta(t, 0.0786, r1.PnL, eps)
	assert.InDelta(t, 1.0786, r1.AdjustedGAV, eps)
	assert.InDelta(t, 0.00134825, r1.ManagementFee, eps)
	assert.InDelta(t, 1.07725175, r1.NAVBeforePerfFee, eps)
	assert.InDelta(t, 0.007725175, r1.PerfFeeAccrued, eps)
	assert.InDelta(t, 0.007725175, r1.IncrementalAccrual, eps)
	assert.InDelta(t, 0.007725175, r1.Uncrystallized, eps)
	assert.False(t, r1.Crystallized)
	assert.Equal(t, 0.0, r1.PerfFeePaid)
	assert.InDelta(t, 1.07725175, r1.ClosingNAV, eps)
	assert.InDelta(t, 7.725175, r1.ReturnPct, 1e-7)
	assert.Equal(t, 1.0, r1.HWM)

	r2 := res.Ledger[2]
	assert.Equal(t, 2, r2.Month)
	assert.InDelta(t, 1.07725175, r2.OpeningNAV, eps)
	assert.InDelta(t, -0.05364713715, r2.PnL, eps)
	assert.InDelta(t, 0.007725175, r2.AddBack, eps)
	assert.InDelta(t, 1.03132978785, r2.AdjustedGAV, eps)
	assert.InDelta(t, 1.03132978785*0.00125, r2.ManagementFee, eps)
	navBefore := 1.03132978785 * (1 - 0.00125)
	assert.InDelta(t, navBefore, r2.NAVBeforePerfFee, eps)
	assert.InDelta(t, (navBefore-1)*0.1, r2.PerfFeeAccrued, eps)
	assert.InDelta(t, (navBefore-1)*0.1-0.007725175, r2.IncrementalAccrual, eps)
	assert.Less(t, r2.IncrementalAccrual, 0.0)
	assert.InDelta(t, navBefore, r2.ClosingNAV, eps)
	assert.InDelta(t, (navBefore/1.07725175-1)*100, r2.ReturnPct, 1e-7)

	assert.InDelta(t, r2.ClosingNAV, res.Final.NAV, eps)
	assert.InDelta(t, r2.Uncrystallized, res.Final.Accrued, eps)
	assert.Empty(t, res.Skipped)
}

func TestRun_RowIdentities(t *testing.T) {
	cfg := scenarioConfig()
	cfg.CrystallizationFrequency = model.Quarterly
	returns := []float64{0, 0.02, 0.03, -0.01, 0.05, -0.04, 0.01, 0.02, 0.06, -0.03, 0.01, 0.02, 0.04}
	res, err := New().Run(monthly(time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC), returns...), cfg)
	require.NoError(t, err)

	prevClosing := cfg.StartingNAV
	prevAccrued := 0.0
	prevHWM := cfg.StartingNAV
	for _, row := range res.Ledger[1:] {
		assert.InDelta(t, prevClosing, row.OpeningNAV, eps, row.Label)
		assert.InDelta(t, row.OpeningNAV*row.Return, row.PnL, eps, row.Label)
		assert.InDelta(t, prevAccrued, row.AddBack, eps, row.Label)
		assert.InDelta(t, row.OpeningNAV+row.PnL+row.AddBack, row.AdjustedGAV, eps, row.Label)
		assert.InDelta(t, row.AdjustedGAV-row.ManagementFee, row.NAVBeforePerfFee, eps, row.Label)
		assert.InDelta(t, row.NAVBeforePerfFee-row.PerfFeePaid, row.ClosingNAV, eps, row.Label)
		assert.InDelta(t, row.PerfFeeAccrued-row.AddBack, row.IncrementalAccrual, eps, row.Label)
		assert.GreaterOrEqual(t, row.HWM, prevHWM, row.Label)
		assert.GreaterOrEqual(t, row.PerfFeePaid, 0.0, row.Label)
		if row.PerfFeePaid > 0 {
			assert.True(t, row.Crystallized, row.Label)
			assert.Equal(t, 0.0, row.Uncrystallized, row.Label)
		}
		prevClosing, prevAccrued, prevHWM = row.ClosingNAV, row.Uncrystallized, row.HWM
	}
}

func TestRun_Idempotent(t *testing.T) {
	periods := undated(0, 0.05, -0.02, 0.03, 0.1)
	e := New()
	a, err := e.Run(periods, scenarioConfig())
	require.NoError(t, err)
	b, err := e.Run(periods, scenarioConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_ZeroFees(t *testing.T) {
	cfg := scenarioConfig()
	cfg.ManagementFeePct = 0
	cfg.CarryPct = 0
	res, err := New().Run(undated(0, 0.1, -0.05, 0.2), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 1.1*0.95*1.2, res.Final.NAV, eps)
	assert.Equal(t, 0.0, res.TotalManagementFees)
	assert.Equal(t, 0.0, res.TotalPerformanceFees)
	for _, row := range res.Ledger {
		assert.Equal(t, 0.0, row.PerfFeeAccrued)
	}
}

func TestRun_WithoutBaseRow(t *testing.T) {
	cfg := scenarioConfig()
	cfg.BaseRow = false
	cfg.ManagementFeePct = 0
	cfg.CarryPct = 0
	res, err := New().Run(undated(0.1, 0.1), cfg)
	require.NoError(t, err)
	require.Len(t, res.Ledger, 2)
	assert.False(t, res.Ledger[0].Base)
	assert.Equal(t, 1, res.Ledger[0].Month)
	assert.Equal(t, 2, res.Ledger[1].Month)
	assert.InDelta(t, 1.21, res.Final.NAV, eps)
}

func TestRun_SkipsUnparseableReturns(t *testing.T) {
	periods := undated(0, 0.05, 0, 0.05)
	periods[2].HasReturn = false
	periods[2].Raw = "n/a"

	res, err := New().Run(periods, scenarioConfig())
	require.NoError(t, err)
	require.Len(t, res.Ledger, 3)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 2, res.Skipped[0].Index)
	assert.Equal(t, "n/a", res.Skipped[0].Raw)
	// The skipped row leaves state untouched.
	assert.InDelta(t, res.Ledger[1].ClosingNAV, res.Ledger[2].OpeningNAV, eps)
	assert.InDelta(t, res.Ledger[1].Uncrystallized, res.Ledger[2].AddBack, eps)
	// Positional months still key off the input position.
	assert.Equal(t, 3, res.Ledger[2].Month)
}

func TestRun_SkipUndated(t *testing.T) {
	periods := monthly(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 0, 0.01, 0.02)
	periods[1].HasDate = false

	cfg := scenarioConfig()
	res, err := New().Run(periods, cfg)
	require.NoError(t, err)
	assert.Len(t, res.Ledger, 3)
	assert.True(t, res.Ledger[1].MonthInferred)

	cfg.SkipUndated = true
	res, err = New().Run(periods, cfg)
	require.NoError(t, err)
	assert.Len(t, res.Ledger, 2)
	assert.Len(t, res.Skipped, 1)
}

func TestRun_CrystallizesInDecember(t *testing.T) {
	cfg := scenarioConfig()
	cfg.ManagementFeePct = 0
	periods := monthly(time.Date(2022, 10, 1, 0, 0, 0, 0, time.UTC), 0, 0.1, 0.1, 0.1)

	res, err := New().Run(periods, cfg)
	require.NoError(t, err)
	nov, dec, jan := res.Ledger[1], res.Ledger[2], res.Ledger[3]

	assert.False(t, nov.Crystallized)
	assert.InDelta(t, 0.01, nov.Uncrystallized, eps)

	assert.True(t, dec.Crystallized)
	// adjusted GAV includes the add-back: 1.1*1.1 + 0.01.
	assert.InDelta(t, 1.22, dec.NAVBeforePerfFee, eps)
	assert.InDelta(t, 0.022, dec.PerfFeePaid, eps)
	assert.Equal(t, 0.0, dec.Uncrystallized)
	assert.InDelta(t, 1.22, dec.HWM, eps)
	assert.InDelta(t, 1.198, dec.ClosingNAV, eps)

	assert.False(t, jan.Crystallized)
	assert.InDelta(t, 0.0, jan.AddBack, eps)
	assert.InDelta(t, 1.22, jan.HWM, eps)
	assert.InDelta(t, 0.022, res.TotalPerformanceFees, eps)
}

func TestRun_HurdleWithYearlyPerformanceFrequency(t *testing.T) {
	cfg := scenarioConfig()
	cfg.ManagementFeePct = 0
	cfg.HurdleRatePct = 12
	cfg.CarryPct = 20
	cfg.UseHighWaterMark = false
	cfg.PerformanceFeeFrequency = model.Yearly

	res, err := New().Run(undated(0, 0.05), cfg)
	require.NoError(t, err)
	r := res.Ledger[1]
	// Monthly accrual against a 1% monthly hurdle, carried until December.
	assert.InDelta(t, 1*(0.05-0.01)*0.2, r.PerfFeeAccrued, eps)
	assert.InDelta(t, r.PerfFeeAccrued, r.Uncrystallized, eps)
	assert.Equal(t, 0.0, r.PerfFeePaid)
	assert.InDelta(t, 1.05, r.ClosingNAV, eps)
}

func TestRun_QuarterlyManagementFee(t *testing.T) {
	cfg := scenarioConfig()
	cfg.ManagementFeePct = 2
	cfg.ManagementFeeFrequency = model.Quarterly
	cfg.CarryPct = 0
	periods := monthly(time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC), 0, 0, 0, 0)

	res, err := New().Run(periods, cfg)
	require.NoError(t, err)
	assert.False(t, res.Ledger[1].ManagementCharged)
	assert.False(t, res.Ledger[2].ManagementCharged)
	assert.True(t, res.Ledger[3].ManagementCharged)
	assert.InDelta(t, 0.005, res.Ledger[3].ManagementFee, eps)
	assert.InDelta(t, 0.995, res.Final.NAV, eps)
}

func TestRun_ImmediateDeduction(t *testing.T) {
	cfg := scenarioConfig()
	cfg.Policy = model.ImmediateDeduction
	cfg.ManagementFeePct = 0
	cfg.PerformanceFeeFrequency = model.Monthly

	res, err := New().Run(undated(0, 0.1, 0.1), cfg)
	require.NoError(t, err)
	r1 := res.Ledger[1]
	assert.InDelta(t, 0.01, r1.PerfFeePaid, eps)
	assert.InDelta(t, 1.09, r1.ClosingNAV, eps)
	assert.Equal(t, 0.0, r1.Uncrystallized)
	assert.InDelta(t, 1.1, r1.HWM, eps)

	r2 := res.Ledger[2]
	assert.Equal(t, 0.0, r2.AddBack)
	assert.InDelta(t, 1.199, r2.NAVBeforePerfFee, eps)
	assert.InDelta(t, 0.0099, r2.PerfFeePaid, eps)
}

func TestRun_NegativeOpeningNAV(t *testing.T) {
	cfg := scenarioConfig()
	cfg.ManagementFeePct = 0
	cfg.CarryPct = 0
	res, err := New().Run(undated(0, -1.5, 0.1), cfg)
	require.NoError(t, err)
	assert.InDelta(t, -0.5, res.Ledger[1].ClosingNAV, eps)
	assert.Equal(t, 0.0, res.Ledger[2].ReturnPct)
}

func TestRun_Errors(t *testing.T) {
	_, err := New().Run(nil, scenarioConfig())
	assert.ErrorIs(t, err, ErrNoPeriods)

	cfg := scenarioConfig()
	cfg.CarryPct = 60
	_, err = New().Run(undated(0), cfg)
	assert.ErrorIs(t, err, model.ErrOutOfRange)
}

func TestRunMany_MatchesRun(t *testing.T) {
	periods := undated(0, 0.04, -0.02, 0.07, 0.01)
	cfgs := []model.EngineConfig{scenarioConfig(), scenarioConfig(), scenarioConfig()}
	cfgs[1].CarryPct = 20
	cfgs[2].Policy = model.ImmediateDeduction

	e := New()
	results, err := e.RunMany(context.Background(), periods, cfgs)
	require.NoError(t, err)
	require.Len(t, results, len(cfgs))
	for i, cfg := range cfgs {
		want, err := e.Run(periods, cfg)
		require.NoError(t, err)
		assert.Equal(t, want, results[i])
	}

	cfgs[1].HurdleRatePct = 99
	_, err = e.RunMany(context.Background(), periods, cfgs)
	assert.ErrorIs(t, err, model.ErrOutOfRange)
}

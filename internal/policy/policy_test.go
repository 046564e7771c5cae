package policy

import (
	"testing"

	"feeder-fund-calc/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hwmConfig() model.EngineConfig {
	c := model.DefaultEngineConfig()
	c.CarryPct = 10
	c.UseHighWaterMark = true
	c.CrystallizationFrequency = model.Yearly
	return c
}

func TestNew(t *testing.T) {
	p, err := New(model.AccrueAndCrystallize)
	require.NoError(t, err)
	assert.Equal(t, model.AccrueAndCrystallize, p.Kind())

	p, err = New(model.ImmediateDeduction)
	require.NoError(t, err)
	assert.Equal(t, model.ImmediateDeduction, p.Kind())

	_, err = New("other")
	assert.ErrorIs(t, err, model.ErrUnknownPolicy)
}

func TestAccrue_CarriesOutsideCrystallization(t *testing.T) {
	s := AccrueAndCrystallize{}.Settle(Context{
		Config:           hwmConfig(),
		Month:            1,
		OpeningNAV:       1,
		NAVBeforePerfFee: 1.08,
		HWM:              1,
	})
	assert.InDelta(t, 0.008, s.Accrual, 1e-12)
	assert.False(t, s.Crystallized)
	assert.Equal(t, 0.0, s.Payout)
	assert.InDelta(t, 0.008, s.CarryForward, 1e-12)
	assert.Equal(t, 1.0, s.HWM)
}

func TestAccrue_PaysAtCrystallization(t *testing.T) {
	s := AccrueAndCrystallize{}.Settle(Context{
		Config:           hwmConfig(),
		Month:            12,
		OpeningNAV:       1.05,
		NAVBeforePerfFee: 1.2,
		PrevAccrued:      0.01,
		HWM:              1,
	})
	assert.True(t, s.Crystallized)
	assert.InDelta(t, 0.02, s.Payout, 1e-12)
	assert.Equal(t, 0.0, s.CarryForward)
	assert.InDelta(t, 1.2, s.HWM, 1e-12)
}

func TestAccrue_PostPayoutReference(t *testing.T) {
	c := hwmConfig()
	c.HWMReference = model.HWMPostPayout
	s := AccrueAndCrystallize{}.Settle(Context{
		Config:           c,
		Month:            12,
		OpeningNAV:       1,
		NAVBeforePerfFee: 1.2,
		HWM:              1,
	})
	assert.InDelta(t, 1.18, s.HWM, 1e-12)
}

func TestAccrue_NoPayoutWithoutAccrual(t *testing.T) {
	s := AccrueAndCrystallize{}.Settle(Context{
		Config:           hwmConfig(),
		Month:            12,
		OpeningNAV:       1,
		NAVBeforePerfFee: 0.95,
		HWM:              1,
	})
	assert.True(t, s.Crystallized)
	assert.Equal(t, 0.0, s.Accrual)
	assert.Equal(t, 0.0, s.Payout)
	assert.Equal(t, 1.0, s.HWM)
}

func TestAccrue_Hurdle(t *testing.T) {
	c := hwmConfig()
	c.UseHighWaterMark = false
	c.HurdleRatePct = 12
	c.PerformanceFeeFrequency = model.Monthly
	c.CarryPct = 20
	s := AccrueAndCrystallize{}.Settle(Context{
		Config:           c,
		Month:            3,
		OpeningNAV:       2,
		NAVBeforePerfFee: 2.1,
		HWM:              1,
	})
	// 5% period return less a 1% monthly hurdle, on an opening NAV of 2.
	assert.InDelta(t, 2*0.04*0.2, s.Accrual, 1e-12)
	assert.Equal(t, 1.0, s.HWM)
}

func TestAccrue_HurdleIgnoresPerformanceFrequency(t *testing.T) {
	c := hwmConfig()
	c.UseHighWaterMark = false
	c.HurdleRatePct = 12
	c.PerformanceFeeFrequency = model.Yearly
	c.CarryPct = 20
	s := AccrueAndCrystallize{}.Settle(Context{
		Config:           c,
		Month:            1,
		OpeningNAV:       1,
		NAVBeforePerfFee: 1.05,
		HWM:              1,
	})
	assert.InDelta(t, 0.04*0.2, s.Accrual, 1e-12)
	assert.InDelta(t, 0.04*0.2, s.CarryForward, 1e-12)
}

func TestImmediate_HurdleScaledToPerformanceFrequency(t *testing.T) {
	c := hwmConfig()
	c.UseHighWaterMark = false
	c.HurdleRatePct = 8
	c.PerformanceFeeFrequency = model.Quarterly
	c.CarryPct = 20
	s := ImmediateDeduction{}.Settle(Context{
		Config:           c,
		Month:            3,
		OpeningNAV:       1,
		NAVBeforePerfFee: 1.05,
		HWM:              1,
	})
	// 5% less a 2% quarterly hurdle.
	assert.InDelta(t, 0.03*0.2, s.Payout, 1e-12)
}

func TestImmediate_OnlyInPerformancePeriods(t *testing.T) {
	c := hwmConfig()
	c.Policy = model.ImmediateDeduction
	c.PerformanceFeeFrequency = model.Yearly

	ctx := Context{Config: c, Month: 6, OpeningNAV: 1, NAVBeforePerfFee: 1.3, HWM: 1}
	s := ImmediateDeduction{}.Settle(ctx)
	assert.Equal(t, Settlement{HWM: 1}, s)

	ctx.Month = 12
	s = ImmediateDeduction{}.Settle(ctx)
	assert.True(t, s.Crystallized)
	assert.InDelta(t, 0.03, s.Payout, 1e-12)
	assert.Equal(t, 0.0, s.CarryForward)
	assert.InDelta(t, 1.3, s.HWM, 1e-12)
}

package policy

import "feeder-fund-calc/internal/model"

// AccrueAndCrystallize marks a liability every period and pays it out only
// in crystallization periods with a positive accrual. Periods are monthly, so
// the hurdle is a monthly one whatever the performance-fee frequency.
type AccrueAndCrystallize struct{}

func (AccrueAndCrystallize) Kind() model.PolicyKind { return model.AccrueAndCrystallize }

func (AccrueAndCrystallize) Settle(ctx Context) Settlement {
	accrual := performanceAccrual(ctx, model.Monthly)
	s := Settlement{
		Accrual:      accrual,
		Crystallized: ctx.Config.CrystallizationFrequency.Fires(ctx.Month),
		HWM:          ctx.HWM,
	}
	if s.Crystallized && accrual > 0 {
		s.Payout = accrual
		s.HWM = raisedHWM(ctx, accrual)
		return s
	}
	s.CarryForward = accrual
	return s
}

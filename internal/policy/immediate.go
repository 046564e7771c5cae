package policy

import "feeder-fund-calc/internal/model"

// ImmediateDeduction computes the performance fee only in performance-fee
// periods and deducts it straight away. Nothing is carried forward.
type ImmediateDeduction struct{}

func (ImmediateDeduction) Kind() model.PolicyKind { return model.ImmediateDeduction }

func (ImmediateDeduction) Settle(ctx Context) Settlement {
	s := Settlement{HWM: ctx.HWM}
	if !ctx.Config.PerformanceFeeFrequency.Fires(ctx.Month) {
		return s
	}
	s.Crystallized = true
	s.Accrual = performanceAccrual(ctx, ctx.Config.PerformanceFeeFrequency)
	if s.Accrual > 0 {
		s.Payout = s.Accrual
		s.HWM = raisedHWM(ctx, s.Accrual)
	}
	return s
}

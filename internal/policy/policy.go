package policy

import (
	"fmt"
	"math"

	"feeder-fund-calc/internal/model"
)

// Context is what a policy sees for one period, after the management fee.
type Context struct {
	Config model.EngineConfig
	Month  int

	OpeningNAV       float64
	NAVBeforePerfFee float64
	// PrevAccrued is the uncrystallized liability carried from the previous
	// period (already added back into NAVBeforePerfFee).
	PrevAccrued float64
	HWM         float64
}

// Settlement is a policy's decision for one period.
type Settlement struct {
	// Accrual is the performance fee marked this period.
	Accrual float64
	// Crystallized reports whether the payout frequency fired.
	Crystallized bool
	Payout       float64
	// CarryForward is the liability added back next period.
	CarryForward float64
	// HWM is the high-water mark as of period end.
	HWM float64
}

// Policy decides how performance fees accrue and get paid.
type Policy interface {
	Kind() model.PolicyKind
	Settle(ctx Context) Settlement
}

// New returns the policy for kind.
func New(kind model.PolicyKind) (Policy, error) {
	switch kind {
	case model.AccrueAndCrystallize, "":
		return AccrueAndCrystallize{}, nil
	case model.ImmediateDeduction:
		return ImmediateDeduction{}, nil
	}
	return nil, fmt.Errorf("%w: %q", model.ErrUnknownPolicy, kind)
}

// performanceAccrual is the fee owed on this period's gross performance,
// against the high-water mark or the hurdle for one period of hurdleFreq.
func performanceAccrual(ctx Context, hurdleFreq model.Frequency) float64 {
	carry := ctx.Config.CarryRate()
	if ctx.Config.UseHighWaterMark {
		return math.Max(0, ctx.NAVBeforePerfFee-ctx.HWM) * carry
	}
	if ctx.OpeningNAV <= 0 {
		return 0
	}
	periodReturn := ctx.NAVBeforePerfFee/ctx.OpeningNAV - 1
	excess := math.Max(0, periodReturn-ctx.Config.HurdlePerPeriod(hurdleFreq))
	return ctx.OpeningNAV * excess * carry
}

// raisedHWM is the mark after a payout under the configured reference.
func raisedHWM(ctx Context, payout float64) float64 {
	if !ctx.Config.UseHighWaterMark {
		return ctx.HWM
	}
	mark := ctx.NAVBeforePerfFee
	if ctx.Config.HWMReference == model.HWMPostPayout {
		mark = ctx.NAVBeforePerfFee - payout
	}
	return math.Max(ctx.HWM, mark)
}

// Describe lists the policies with a one-line explanation each.
func Describe() map[model.PolicyKind]string {
	return map[model.PolicyKind]string{
		model.AccrueAndCrystallize: "Accrue the performance fee every period as a liability, add it back the next period and pay it when the crystallization frequency fires.",
		model.ImmediateDeduction:   "Evaluate the performance fee only when the performance-fee frequency fires and deduct it from NAV in that period.",
	}
}

package waterfall

import (
	"context"
	"errors"
	"fmt"

	"feeder-fund-calc/internal/model"
	"feeder-fund-calc/internal/policy"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrNoPeriods = errors.New("no periods")

// Engine runs the fee waterfall. It holds no state between runs and is safe
// for concurrent use.
type Engine struct{}

func New() *Engine { return &Engine{} }

// Run turns an ordered sequence of periods into a fee ledger under cfg.
//
// Rows without a parseable return are skipped: no ledger row is emitted and
// the state is left unchanged.
func (e *Engine) Run(periods []model.Period, cfg model.EngineConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if len(periods) == 0 {
		return nil, ErrNoPeriods
	}
	pol, err := policy.New(cfg.Policy)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Config: cfg,
		Ledger: make([]LedgerRow, 0, len(periods)),
	}
	st := State{
		NAV: cfg.StartingNAV,
		HWM: cfg.StartingNAV,
	}

	rest := periods
	origin := 0
	if cfg.BaseRow {
		res.Ledger = append(res.Ledger, baseRow(periods[0], st))
		rest = periods[1:]
		origin = 1
	}

	for _, p := range rest {
		if !p.HasReturn {
			res.skip(p, "unparseable return")
			continue
		}
		if !p.HasDate && cfg.SkipUndated {
			res.skip(p, "unparseable date")
			continue
		}
		month, inferred := p.CalendarMonth(origin)
		if inferred {
			log.Debug().Int("index", p.Index).Str("period", p.Label).Int("month", month).
				Msg("period date unparseable, using positional month")
		}

		opening := st.NAV
		pnl := opening * p.Return
		addBack := st.Accrued
		adjGAV := opening + pnl + addBack

		charged := cfg.ManagementFeeFrequency.Fires(month)
		mgmtFee := 0.0
		if charged {
			mgmtFee = adjGAV * cfg.ManagementRatePerCharge()
		}
		navBeforePerf := adjGAV - mgmtFee

		s := pol.Settle(policy.Context{
			Config:           cfg,
			Month:            month,
			OpeningNAV:       opening,
			NAVBeforePerfFee: navBeforePerf,
			PrevAccrued:      addBack,
			HWM:              st.HWM,
		})

		closing := navBeforePerf - s.Payout
		retPct := 0.0
		if opening > 0 {
			retPct = (closing/opening - 1) * 100
		}

		res.Ledger = append(res.Ledger, LedgerRow{
			Index:         p.Index,
			Label:         p.Label,
			Date:          p.Date,
			Month:         month,
			MonthInferred: inferred,

			OpeningNAV:  opening,
			Return:      p.Return,
			PnL:         pnl,
			AddBack:     addBack,
			AdjustedGAV: adjGAV,

			ManagementFee:     mgmtFee,
			ManagementCharged: charged,
			NAVBeforePerfFee:  navBeforePerf,

			PerfFeeAccrued:     s.Accrual,
			IncrementalAccrual: s.Accrual - addBack,
			Uncrystallized:     s.CarryForward,
			Crystallized:       s.Crystallized,
			PerfFeePaid:        s.Payout,

			ClosingNAV: closing,
			ReturnPct:  retPct,
			HWM:        s.HWM,
		})
		res.TotalManagementFees += mgmtFee
		res.TotalPerformanceFees += s.Payout

		st = State{NAV: closing, HWM: s.HWM, Accrued: s.CarryForward}
	}

	res.Final = st
	return res, nil
}

func baseRow(p model.Period, st State) LedgerRow {
	month, inferred := p.CalendarMonth(0)
	return LedgerRow{
		Index:            p.Index,
		Label:            p.Label,
		Date:             p.Date,
		Month:            month,
		MonthInferred:    inferred,
		Base:             true,
		OpeningNAV:       st.NAV,
		AdjustedGAV:      st.NAV,
		NAVBeforePerfFee: st.NAV,
		ClosingNAV:       st.NAV,
		HWM:              st.HWM,
	}
}

func (r *Result) skip(p model.Period, reason string) {
	r.Skipped = append(r.Skipped, SkippedPeriod{
		Index:  p.Index,
		Label:  p.Label,
		Raw:    p.Raw,
		Reason: reason,
	})
	log.Debug().Int("index", p.Index).Str("period", p.Label).Str("reason", reason).Msg("period skipped")
}

// RunMany runs every configuration over the same periods concurrently.
// Results are returned in configuration order; the first error aborts.
func (e *Engine) RunMany(ctx context.Context, periods []model.Period, cfgs []model.EngineConfig) ([]*Result, error) {
	out := make([]*Result, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	for i, cfg := range cfgs {
		i, cfg := i, cfg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.Run(periods, cfg)
			if err != nil {
				return fmt.Errorf("config %d: %w", i, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

package model

import (
	"errors"
	"fmt"
)

// Parameter bounds, in percent, as accepted from callers.
const (
	MaxManagementFeePct = 10.0
	MaxCarryPct         = 50.0
	MaxHurdlePct        = 20.0
)

// DefaultStartingNAV is the normalized unit every run starts from.
const DefaultStartingNAV = 1.0

var ErrOutOfRange = errors.New("configuration out of range")

// RangeError reports a caller-supplied parameter outside its declared bound.
type RangeError struct {
	Param string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s=%g must be within [%g, %g]", e.Param, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// EngineConfig is the immutable fee configuration for one waterfall run.
// Rates are annual percentages (1.5 means 1.5% a year).
type EngineConfig struct {
	ManagementFeePct       float64
	ManagementFeeFrequency Frequency

	CarryPct                 float64
	PerformanceFeeFrequency  Frequency
	CrystallizationFrequency Frequency
	HurdleRatePct            float64
	UseHighWaterMark         bool

	// BaseRow marks the first input row as the base row: it establishes the
	// starting NAV and contributes no return.
	BaseRow bool

	// SkipUndated drops rows whose date cannot be parsed instead of
	// falling back to a positional month.
	SkipUndated bool

	Policy       PolicyKind
	HWMReference HWMReference
	StartingNAV  float64
}

// DefaultEngineConfig mirrors the calculator's default controls.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ManagementFeePct:         1.5,
		ManagementFeeFrequency:   Monthly,
		CarryPct:                 10,
		PerformanceFeeFrequency:  Monthly,
		CrystallizationFrequency: Yearly,
		HurdleRatePct:            0,
		UseHighWaterMark:         true,
		Policy:                   AccrueAndCrystallize,
		HWMReference:             HWMPrePayout,
		StartingNAV:              DefaultStartingNAV,
	}
}

// NewEngineConfig fills unset enumerations and the starting NAV with their
// defaults and validates the result.
func NewEngineConfig(c EngineConfig) (EngineConfig, error) {
	if c.Policy == "" {
		c.Policy = AccrueAndCrystallize
	}
	if c.HWMReference == "" {
		c.HWMReference = HWMPrePayout
	}
	if c.StartingNAV == 0 {
		c.StartingNAV = DefaultStartingNAV
	}
	if err := c.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return c, nil
}

func (c EngineConfig) Validate() error {
	if err := checkRange("management_fee_pct", c.ManagementFeePct, 0, MaxManagementFeePct); err != nil {
		return err
	}
	if err := checkRange("carry_pct", c.CarryPct, 0, MaxCarryPct); err != nil {
		return err
	}
	if err := checkRange("hurdle_rate_pct", c.HurdleRatePct, 0, MaxHurdlePct); err != nil {
		return err
	}
	for name, f := range map[string]Frequency{
		"management_fee_frequency":  c.ManagementFeeFrequency,
		"performance_fee_frequency": c.PerformanceFeeFrequency,
		"crystallization_frequency": c.CrystallizationFrequency,
	} {
		if !f.Valid() {
			return fmt.Errorf("%s: %w: %q", name, ErrUnknownFrequency, f)
		}
	}
	switch c.Policy {
	case AccrueAndCrystallize, ImmediateDeduction:
	default:
		return fmt.Errorf("policy: %w: %q", ErrUnknownPolicy, c.Policy)
	}
	switch c.HWMReference {
	case HWMPrePayout, HWMPostPayout:
	default:
		return fmt.Errorf("unknown hwm reference: %q", c.HWMReference)
	}
	if !(c.StartingNAV > 0) {
		return errors.New("starting_nav must be > 0")
	}
	return nil
}

func checkRange(param string, v, min, max float64) error {
	// NaN fails both comparisons, so test for the inside of the range.
	if v >= min && v <= max {
		return nil
	}
	return &RangeError{Param: param, Value: v, Min: min, Max: max}
}

// ManagementRatePerCharge is the fraction of adjusted GAV charged each time
// the management fee fires.
func (c EngineConfig) ManagementRatePerCharge() float64 {
	ppy := c.ManagementFeeFrequency.PeriodsPerYear()
	if ppy == 0 {
		return 0
	}
	return c.ManagementFeePct / 100 / ppy
}

// CarryRate is the performance fee as a fraction.
func (c EngineConfig) CarryRate() float64 {
	return c.CarryPct / 100
}

// HurdlePerPeriod is the annual hurdle scaled to one period of f: the
// accrual period for accrue-and-crystallize, the performance-fee period for
// immediate deduction.
func (c EngineConfig) HurdlePerPeriod(f Frequency) float64 {
	ppy := f.PeriodsPerYear()
	if ppy == 0 {
		return 0
	}
	return c.HurdleRatePct / 100 / ppy
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"feeder-fund-calc/internal/data"
	"feeder-fund-calc/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Fees   FeeConfig    `yaml:"fees"`
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`

	// Variations are named fee overrides run alongside the base fees by
	// the compare command.
	Variations []Variation `yaml:"variations"`
}

// FeeConfig holds fee parameters as supplied by a caller. Unset fields keep
// the calculator defaults, so a zero carry can be told apart from a missing one.
type FeeConfig struct {
	ManagementFeePct         *float64 `yaml:"management_fee_pct" json:"management_fee_pct,omitempty"`
	ManagementFeeFrequency   string   `yaml:"management_fee_frequency" json:"management_fee_frequency,omitempty"`
	CarryPct                 *float64 `yaml:"carry_pct" json:"carry_pct,omitempty"`
	PerformanceFeeFrequency  string   `yaml:"performance_fee_frequency" json:"performance_fee_frequency,omitempty"`
	CrystallizationFrequency string   `yaml:"crystallization_frequency" json:"crystallization_frequency,omitempty"`
	HurdleRatePct            *float64 `yaml:"hurdle_rate_pct" json:"hurdle_rate_pct,omitempty"`
	UseHighWaterMark         *bool    `yaml:"use_high_water_mark" json:"use_high_water_mark,omitempty"`
	Policy                   string   `yaml:"policy" json:"policy,omitempty"`
	HWMReference             string   `yaml:"hwm_reference" json:"hwm_reference,omitempty"`
	StartingNAV              *float64 `yaml:"starting_nav" json:"starting_nav,omitempty"`
}

type InputConfig struct {
	Path        string      `yaml:"path"`
	BaseRow     BaseRowMode `yaml:"base_row"`
	SkipUndated bool        `yaml:"skip_undated"`
}

type OutputConfig struct {
	// Path of the exported ledger; .xlsx writes a workbook, anything else CSV.
	Path     string `yaml:"path"`
	Markdown bool   `yaml:"markdown"`
}

type Variation struct {
	Name string    `yaml:"name" json:"name"`
	Fees FeeConfig `yaml:"fees" json:"config"`
}

// BaseScenario names the unmodified fee configuration among scenarios.
const BaseScenario = "base"

// Scenario is a resolved, named engine configuration.
type Scenario struct {
	Name   string
	Config model.EngineConfig
}

// BaseRowMode controls whether the first input row is treated as the base row.
type BaseRowMode string

const (
	BaseRowAuto BaseRowMode = "auto"
	BaseRowOn   BaseRowMode = "true"
	BaseRowOff  BaseRowMode = "false"
)

func ParseBaseRowMode(s string) (BaseRowMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return BaseRowAuto, nil
	case "true", "yes", "on":
		return BaseRowOn, nil
	case "false", "no", "off":
		return BaseRowOff, nil
	}
	return "", fmt.Errorf("base_row must be auto, true or false, got %q", s)
}

// UnmarshalYAML accepts both the bare booleans and the quoted strings.
func (m *BaseRowMode) UnmarshalYAML(n *yaml.Node) error {
	parsed, err := ParseBaseRowMode(n.Value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Resolve decides the base row for periods; auto defers to data.DetectBaseRow.
func (m BaseRowMode) Resolve(periods []model.Period) bool {
	switch m {
	case BaseRowOn:
		return true
	case BaseRowOff:
		return false
	}
	return data.DetectBaseRow(periods)
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(c, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked reads the YAML file without validating it. An empty path
// yields an empty config that resolves to the defaults.
func LoadUnchecked(path string) (*Config, error) {
	var c Config
	if path == "" {
		return &c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

// ApplyEnv overlays FUNDFEE_* environment variables onto the fee section.
func ApplyEnv(c *Config, lookup func(string) (string, bool)) error {
	floats := []struct {
		key string
		dst **float64
	}{
		{"FUNDFEE_MGMT_FEE_PCT", &c.Fees.ManagementFeePct},
		{"FUNDFEE_CARRY_PCT", &c.Fees.CarryPct},
		{"FUNDFEE_HURDLE_PCT", &c.Fees.HurdleRatePct},
	}
	for _, f := range floats {
		v, ok := lookup(f.key)
		if !ok || v == "" {
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = &x
	}
	if v, ok := lookup("FUNDFEE_POLICY"); ok && v != "" {
		c.Fees.Policy = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := ParseBaseRowMode(string(c.Input.BaseRow)); err != nil {
		return err
	}
	if _, err := c.EngineConfig(false); err != nil {
		return fmt.Errorf("fees: %w", err)
	}
	seen := make(map[string]bool, len(c.Variations))
	for i, v := range c.Variations {
		if v.Name == "" {
			return fmt.Errorf("variations[%d]: name is required", i)
		}
		if v.Name == BaseScenario {
			return fmt.Errorf("variations[%d]: name %q is reserved", i, v.Name)
		}
		if seen[v.Name] {
			return fmt.Errorf("variations[%d]: duplicate name %q", i, v.Name)
		}
		seen[v.Name] = true
		if _, err := MergeFees(c.Fees, v.Fees).EngineConfig(model.DefaultEngineConfig()); err != nil {
			return fmt.Errorf("variation %q: %w", v.Name, err)
		}
	}
	return nil
}

// EngineConfig resolves the base fees plus input options into a validated
// engine configuration.
func (c *Config) EngineConfig(baseRow bool) (model.EngineConfig, error) {
	cfg, err := c.Fees.EngineConfig(model.DefaultEngineConfig())
	if err != nil {
		return model.EngineConfig{}, err
	}
	cfg.BaseRow = baseRow
	cfg.SkipUndated = c.Input.SkipUndated
	return cfg, nil
}

// Scenarios returns the base configuration named "base" followed by every
// variation merged over the base fees.
func (c *Config) Scenarios(baseRow bool) ([]Scenario, error) {
	base, err := c.EngineConfig(baseRow)
	if err != nil {
		return nil, err
	}
	out := []Scenario{{Name: BaseScenario, Config: base}}
	for _, v := range c.Variations {
		cfg, err := MergeFees(c.Fees, v.Fees).EngineConfig(model.DefaultEngineConfig())
		if err != nil {
			return nil, fmt.Errorf("variation %q: %w", v.Name, err)
		}
		cfg.BaseRow = base.BaseRow
		cfg.SkipUndated = base.SkipUndated
		out = append(out, Scenario{Name: v.Name, Config: cfg})
	}
	return out, nil
}

// EngineConfig overlays the set fields of f onto base and validates.
func (f FeeConfig) EngineConfig(base model.EngineConfig) (model.EngineConfig, error) {
	out := base
	if f.ManagementFeePct != nil {
		out.ManagementFeePct = *f.ManagementFeePct
	}
	if f.CarryPct != nil {
		out.CarryPct = *f.CarryPct
	}
	if f.HurdleRatePct != nil {
		out.HurdleRatePct = *f.HurdleRatePct
	}
	if f.UseHighWaterMark != nil {
		out.UseHighWaterMark = *f.UseHighWaterMark
	}
	if f.StartingNAV != nil {
		// NewEngineConfig treats zero as unset, so check explicit values here.
		if !(*f.StartingNAV > 0) {
			return model.EngineConfig{}, fmt.Errorf("starting_nav must be > 0, got %g", *f.StartingNAV)
		}
		out.StartingNAV = *f.StartingNAV
	}

	var err error
	if f.ManagementFeeFrequency != "" {
		if out.ManagementFeeFrequency, err = model.ParseFrequency(f.ManagementFeeFrequency); err != nil {
			return model.EngineConfig{}, fmt.Errorf("management_fee_frequency: %w", err)
		}
	}
	if f.PerformanceFeeFrequency != "" {
		if out.PerformanceFeeFrequency, err = model.ParseFrequency(f.PerformanceFeeFrequency); err != nil {
			return model.EngineConfig{}, fmt.Errorf("performance_fee_frequency: %w", err)
		}
	}
	if f.CrystallizationFrequency != "" {
		if out.CrystallizationFrequency, err = model.ParseFrequency(f.CrystallizationFrequency); err != nil {
			return model.EngineConfig{}, fmt.Errorf("crystallization_frequency: %w", err)
		}
	}
	if f.Policy != "" {
		if out.Policy, err = model.ParsePolicyKind(f.Policy); err != nil {
			return model.EngineConfig{}, err
		}
	}
	if f.HWMReference != "" {
		if out.HWMReference, err = model.ParseHWMReference(f.HWMReference); err != nil {
			return model.EngineConfig{}, err
		}
	}
	return model.NewEngineConfig(out)
}

// MergeFees overlays the set fields of override onto base.
func MergeFees(base, override FeeConfig) FeeConfig {
	out := base
	if override.ManagementFeePct != nil {
		out.ManagementFeePct = override.ManagementFeePct
	}
	if override.ManagementFeeFrequency != "" {
		out.ManagementFeeFrequency = override.ManagementFeeFrequency
	}
	if override.CarryPct != nil {
		out.CarryPct = override.CarryPct
	}
	if override.PerformanceFeeFrequency != "" {
		out.PerformanceFeeFrequency = override.PerformanceFeeFrequency
	}
	if override.CrystallizationFrequency != "" {
		out.CrystallizationFrequency = override.CrystallizationFrequency
	}
	if override.HurdleRatePct != nil {
		out.HurdleRatePct = override.HurdleRatePct
	}
	if override.UseHighWaterMark != nil {
		out.UseHighWaterMark = override.UseHighWaterMark
	}
	if override.Policy != "" {
		out.Policy = override.Policy
	}
	if override.HWMReference != "" {
		out.HWMReference = override.HWMReference
	}
	if override.StartingNAV != nil {
		out.StartingNAV = override.StartingNAV
	}
	return out
}

// Float and Bool build the pointer fields of FeeConfig.
func Float(v float64) *float64 { return &v }

func Bool(v bool) *bool { return &v }

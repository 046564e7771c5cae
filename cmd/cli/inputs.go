package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"feeder-fund-calc/internal/config"
	"feeder-fund-calc/internal/data"
	"feeder-fund-calc/internal/model"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// feeFlags are the fee overrides shared by calc and compare.
type feeFlags struct {
	configPath string
	dataPath   string

	mgmtFee     float64
	mgmtFreq    string
	carry       float64
	perfFreq    string
	crystalFreq string
	hurdle      float64
	hwm         bool
	hwmRef      string
	policy      string
	startingNAV float64
	baseRow     string
	skipUndated bool
}

func (f *feeFlags) register(cmd *cobra.Command) {
	def := model.DefaultEngineConfig()
	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "Path to YAML config (optional)")
	fs.StringVar(&f.dataPath, "data", "", "Path to returns table (.csv, .xlsx or .json); overrides input.path")
	fs.Float64Var(&f.mgmtFee, "mgmt-fee", def.ManagementFeePct, "Annual management fee %")
	fs.StringVar(&f.mgmtFreq, "mgmt-freq", string(def.ManagementFeeFrequency), "Management fee frequency (Monthly|Quarterly|Yearly)")
	fs.Float64Var(&f.carry, "carry", def.CarryPct, "Performance fee (carry) %")
	fs.StringVar(&f.perfFreq, "perf-freq", string(def.PerformanceFeeFrequency), "Performance fee calculation frequency")
	fs.StringVar(&f.crystalFreq, "crystal-freq", string(def.CrystallizationFrequency), "Crystallization frequency")
	fs.Float64Var(&f.hurdle, "hurdle", def.HurdleRatePct, "Annual hurdle rate %")
	fs.BoolVar(&f.hwm, "hwm", def.UseHighWaterMark, "Use a high-water mark")
	fs.StringVar(&f.hwmRef, "hwm-ref", string(def.HWMReference), "HWM reference after a payout (pre_payout|post_payout)")
	fs.StringVar(&f.policy, "policy", string(def.Policy), "Fee policy (accrue_and_crystallize|immediate_deduction)")
	fs.Float64Var(&f.startingNAV, "starting-nav", def.StartingNAV, "NAV the first period opens at")
	fs.StringVar(&f.baseRow, "base-row", string(config.BaseRowAuto), "Treat the first row as the base row (auto|true|false)")
	fs.BoolVar(&f.skipUndated, "skip-undated", false, "Drop rows whose period date cannot be parsed")
}

// load reads the config file and applies only the flags the user set, so
// file values survive unless explicitly overridden.
func (f *feeFlags) load(cmd *cobra.Command) (*config.Config, []model.Period, error) {
	c, err := config.LoadUnchecked(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := config.ApplyEnv(c, os.LookupEnv); err != nil {
		return nil, nil, err
	}

	fs := cmd.Flags()
	if fs.Changed("mgmt-fee") {
		c.Fees.ManagementFeePct = config.Float(f.mgmtFee)
	}
	if fs.Changed("mgmt-freq") {
		c.Fees.ManagementFeeFrequency = f.mgmtFreq
	}
	if fs.Changed("carry") {
		c.Fees.CarryPct = config.Float(f.carry)
	}
	if fs.Changed("perf-freq") {
		c.Fees.PerformanceFeeFrequency = f.perfFreq
	}
	if fs.Changed("crystal-freq") {
		c.Fees.CrystallizationFrequency = f.crystalFreq
	}
	if fs.Changed("hurdle") {
		c.Fees.HurdleRatePct = config.Float(f.hurdle)
	}
	if fs.Changed("hwm") {
		c.Fees.UseHighWaterMark = config.Bool(f.hwm)
	}
	if fs.Changed("hwm-ref") {
		c.Fees.HWMReference = f.hwmRef
	}
	if fs.Changed("policy") {
		c.Fees.Policy = f.policy
	}
	if fs.Changed("starting-nav") {
		c.Fees.StartingNAV = config.Float(f.startingNAV)
	}
	if fs.Changed("base-row") {
		mode, err := config.ParseBaseRowMode(f.baseRow)
		if err != nil {
			return nil, nil, err
		}
		c.Input.BaseRow = mode
	}
	if fs.Changed("skip-undated") {
		c.Input.SkipUndated = f.skipUndated
	}
	if f.dataPath != "" {
		c.Input.Path = f.dataPath
	}
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	if c.Input.Path == "" {
		return nil, nil, errors.New("no input: pass --data or set input.path in --config")
	}
	path := c.Input.Path
	if !filepath.IsAbs(path) && f.configPath != "" && f.dataPath == "" {
		// Relative input paths in a config file resolve against the file.
		cand := filepath.Join(filepath.Dir(f.configPath), path)
		if _, err := os.Stat(cand); err == nil {
			path = cand
		}
	}
	table, err := data.LoadTable(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	periods, err := data.BuildPeriods(table)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, periods, nil
}

// render prints markdown, styled for the terminal unless plain is set.
func render(cmd *cobra.Command, md string, plain bool) error {
	out := cmd.OutOrStdout()
	if plain {
		_, err := fmt.Fprint(out, md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		return err
	}
	styled, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, styled)
	return err
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

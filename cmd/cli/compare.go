package main

import (
	"context"
	"fmt"
	"strings"

	"feeder-fund-calc/internal/analysis"
	"feeder-fund-calc/internal/config"
	"feeder-fund-calc/internal/model"
	"feeder-fund-calc/internal/report"
	"feeder-fund-calc/internal/waterfall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCompareCmd() *cobra.Command {
	var (
		fees  feeFlags
		vary  []string
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run fee variations side by side and rank them by final NAV",
		Long: `Runs the base fee configuration and every variation over the same returns.
Variations come from the config file and from repeated --vary flags.`,
		Example: `  fundfee compare --data returns.csv --vary "high_carry:carry_pct=20" \
      --vary "immediate:policy=immediate_deduction,performance_fee_frequency=Quarterly"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, periods, err := fees.load(cmd)
			if err != nil {
				return err
			}
			for _, v := range vary {
				parsed, err := parseVariation(v)
				if err != nil {
					return err
				}
				c.Variations = append(c.Variations, parsed)
			}
			if err := c.Validate(); err != nil {
				return err
			}

			scenarios, err := c.Scenarios(c.Input.BaseRow.Resolve(periods))
			if err != nil {
				return err
			}
			cfgs := make([]model.EngineConfig, len(scenarios))
			for i, sc := range scenarios {
				cfgs[i] = sc.Config
			}
			results, err := waterfall.New().RunMany(context.Background(), periods, cfgs)
			if err != nil {
				return err
			}

			named := make([]analysis.Scenario, len(results))
			for i, res := range results {
				named[i] = analysis.Scenario{Name: scenarios[i].Name, Result: res}
			}
			ranked := analysis.RankByFinalNAV(named)
			log.Info().Int("scenarios", len(ranked)).Str("best", ranked[0].Name).
				Float64("final_nav", ranked[0].FinalNAV).Msg("comparison complete")

			return render(cmd, report.ComparisonMarkdown(ranked), plain)
		},
	}
	fees.register(cmd)
	cmd.Flags().StringArrayVar(&vary, "vary", nil, `Variation as "name:key=value,key=value" using config fee keys (repeatable)`)
	cmd.Flags().BoolVar(&plain, "plain", false, "Print raw markdown instead of terminal-styled output")
	return cmd
}

// parseVariation reads "name:key=value,..." by rewriting the pairs as a YAML
// mapping, so values are typed exactly as in a config file.
func parseVariation(s string) (config.Variation, error) {
	name, body, ok := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return config.Variation{}, fmt.Errorf("variation %q: want name:key=value,...", s)
	}
	var doc strings.Builder
	for _, kv := range strings.Split(body, ",") {
		if strings.TrimSpace(kv) == "" {
			continue
		}
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return config.Variation{}, fmt.Errorf("variation %q: %q is not key=value", name, kv)
		}
		fmt.Fprintf(&doc, "%s: %s\n", strings.TrimSpace(k), strings.TrimSpace(v))
	}
	var fees config.FeeConfig
	dec := yaml.NewDecoder(strings.NewReader(doc.String()))
	dec.KnownFields(true)
	if err := dec.Decode(&fees); err != nil && doc.Len() > 0 {
		return config.Variation{}, fmt.Errorf("variation %q: %w", name, err)
	}
	return config.Variation{Name: name, Fees: fees}, nil
}

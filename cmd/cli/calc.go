package main

import (
	"fmt"
	"path/filepath"

	"feeder-fund-calc/internal/analysis"
	"feeder-fund-calc/internal/report"
	"feeder-fund-calc/internal/waterfall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newCalcCmd() *cobra.Command {
	var (
		fees  feeFlags
		out   string
		show  bool
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Run the fee waterfall over a returns table",
		Example: `  fundfee calc --data returns.csv --out ledger.xlsx
  fundfee calc --config fees.yaml --carry 20 --policy immediate --print`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, periods, err := fees.load(cmd)
			if err != nil {
				return err
			}
			baseRow := c.Input.BaseRow.Resolve(periods)
			cfg, err := c.EngineConfig(baseRow)
			if err != nil {
				return err
			}

			res, err := waterfall.New().Run(periods, cfg)
			if err != nil {
				return err
			}
			s := analysis.Summarize(res)
			log.Info().
				Int("periods", s.Periods).
				Int("skipped", s.Skipped).
				Bool("base_row", baseRow).
				Str("policy", string(cfg.Policy)).
				Float64("final_nav", s.FinalNAV).
				Float64("mgmt_fees", s.TotalManagementFees).
				Float64("perf_fees", s.TotalPerformanceFees).
				Msg("waterfall complete")

			if out == "" {
				out = c.Output.Path
			}
			if out != "" {
				save := report.SaveCSV
				if isXLSX(out) {
					save = report.SaveXLSX
				}
				if err := save(out, res); err != nil {
					return fmt.Errorf("export: %w", err)
				}
				log.Info().Str("path", out).Msg("ledger written")
			}

			if show || c.Output.Markdown || out == "" {
				title := "Fee Waterfall"
				if c.Input.Path != "" {
					title += ": " + filepath.Base(c.Input.Path)
				}
				return render(cmd, report.Markdown(title, res), plain)
			}
			return nil
		},
	}
	fees.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "Export path (.xlsx for a workbook, otherwise CSV plus a _summary CSV)")
	cmd.Flags().BoolVar(&show, "print", false, "Print the ledger and summary to stdout even when exporting")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print raw markdown instead of terminal-styled output")
	return cmd
}

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"feeder-fund-calc/internal/analysis"
	"feeder-fund-calc/internal/data"
	"feeder-fund-calc/internal/model"
	"feeder-fund-calc/internal/report"
	"feeder-fund-calc/internal/waterfall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Demo:
// - Build three monthly periods (base row, +7.86%, -4.98%)
// - Run both fee policies with the default controls
// - Print each ledger and the ranking, optionally exporting the first run
func main() {
	out := flag.String("out", "", "Optional path to export the accrue-and-crystallize ledger (.xlsx or .csv)")
	verbose := flag.Bool("v", false, "Log skipped periods and month inference")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	periods, err := data.BuildPeriodsFromJSON([]data.JSONRow{
		{Period: "2024-12-31", Return: "0%"},
		{Period: "2025-01-31", Return: "7.86%"},
		{Period: "2025-02-28", Return: "-4.98%"},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build periods")
	}

	cfg := model.DefaultEngineConfig()
	cfg.BaseRow = data.DetectBaseRow(periods)

	immediate := cfg
	immediate.Policy = model.ImmediateDeduction

	engine := waterfall.New()
	var scenarios []analysis.Scenario
	for _, sc := range []struct {
		name string
		cfg  model.EngineConfig
	}{
		{"accrue_and_crystallize", cfg},
		{"immediate_deduction", immediate},
	} {
		res, err := engine.Run(periods, sc.cfg)
		if err != nil {
			log.Fatal().Err(err).Str("scenario", sc.name).Msg("run")
		}
		fmt.Println(report.Markdown(sc.name, res))
		scenarios = append(scenarios, analysis.Scenario{Name: sc.name, Result: res})
	}

	fmt.Println(report.ComparisonMarkdown(analysis.RankByFinalNAV(scenarios)))

	if *out != "" {
		save := report.SaveCSV
		if strings.EqualFold(filepath.Ext(*out), ".xlsx") {
			save = report.SaveXLSX
		}
		if err := save(*out, scenarios[0].Result); err != nil {
			log.Fatal().Err(err).Msg("export")
		}
		log.Info().Str("path", *out).Msg("ledger written")
	}
}

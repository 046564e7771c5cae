package analysis

import (
	"sort"

	"feeder-fund-calc/internal/waterfall"
)

// Scenario is one named configuration run over a shared input.
type Scenario struct {
	Name   string
	Result *waterfall.Result
}

type RankedScenario struct {
	Rank int
	Name string
	Summary
}

// RankByFinalNAV summarizes each scenario and sorts descending by final NAV.
// Ties keep input order.
func RankByFinalNAV(scenarios []Scenario) []RankedScenario {
	out := make([]RankedScenario, 0, len(scenarios))
	for _, sc := range scenarios {
		out = append(out, RankedScenario{Name: sc.Name, Summary: Summarize(sc.Result)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinalNAV > out[j].FinalNAV
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

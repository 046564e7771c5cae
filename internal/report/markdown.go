package report

import (
	"bytes"
	"fmt"

	"feeder-fund-calc/internal/analysis"
	"feeder-fund-calc/internal/waterfall"

	md "github.com/nao1215/markdown"
)

// Markdown renders the ledger, skipped rows and summary of one run.
func Markdown(title string, res *waterfall.Result) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)

	doc.H2("Results")
	table := md.TableSet{
		Header: LedgerColumns,
		Rows:   make([][]string, 0, len(res.Ledger)),
	}
	table.Alignment = make([]md.TableAlignment, len(LedgerColumns))
	for i := range table.Alignment {
		table.Alignment[i] = md.AlignRight
	}
	table.Alignment[0] = md.AlignLeft
	for _, r := range res.Ledger {
		table.Rows = append(table.Rows, LedgerCells(r))
	}
	doc.Table(table)

	if len(res.Skipped) > 0 {
		doc.H2("Skipped rows")
		items := make([]string, 0, len(res.Skipped))
		for _, s := range res.Skipped {
			items = append(items, fmt.Sprintf("row %d (%s): %s %q", s.Index, s.Label, s.Reason, s.Raw))
		}
		doc.BulletList(items...)
	}

	doc.H2("Summary")
	doc.Table(pairTable(SummaryPairs(res)))

	return doc.String()
}

// ComparisonMarkdown renders ranked scenarios as one table.
func ComparisonMarkdown(ranked []analysis.RankedScenario) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Scenario comparison")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Rank", "Scenario", "Final NAV", "Total Return %", "Mgmt Fees", "Perf Fees", "Uncrystallized PF"},
		Rows:   [][]string{},
	}
	for _, r := range ranked {
		table.Rows = append(table.Rows, []string{
			fmt.Sprint(r.Rank),
			r.Name,
			Fixed(r.FinalNAV),
			Fixed(r.TotalReturnPct),
			Fixed(r.TotalManagementFees),
			Fixed(r.TotalPerformanceFees),
			Fixed(r.FinalUncrystallized),
		})
	}
	doc.Table(table)
	return doc.String()
}

func pairTable(pairs []Pair) md.TableSet {
	t := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Parameter", "Value"},
		Rows:      make([][]string, 0, len(pairs)),
	}
	for _, p := range pairs {
		t.Rows = append(t.Rows, []string{p.Name, p.Value})
	}
	return t
}

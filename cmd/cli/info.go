package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"feeder-fund-calc/internal/model"
	"feeder-fund-calc/internal/policy"

	md "github.com/nao1215/markdown"
	"github.com/spf13/cobra"
)

func newFrequenciesCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "frequencies",
		Short: "List fee frequencies and the months they fire in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, 3)
			for _, f := range model.Frequencies() {
				var months []string
				for m := 1; m <= 12; m++ {
					if f.Fires(m) {
						months = append(months, time.Month(m).String()[:3])
					}
				}
				rows = append(rows, []string{
					string(f),
					strconv.FormatFloat(f.PeriodsPerYear(), 'f', -1, 64),
					strings.Join(months, ", "),
				})
			}
			doc := md.NewMarkdown(io.Discard).
				H2("Frequencies").
				Table(md.TableSet{Header: []string{"Frequency", "Periods / Year", "Fires In"}, Rows: rows})
			return render(cmd, doc.String(), plain)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print raw markdown")
	return cmd
}

func newPoliciesCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "List performance fee policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			desc := policy.Describe()
			items := make([]string, 0, len(desc))
			for _, k := range model.PolicyKinds() {
				items = append(items, fmt.Sprintf("%s: %s", md.Code(string(k)), desc[k]))
			}
			doc := md.NewMarkdown(io.Discard).H2("Policies").BulletList(items...)
			return render(cmd, doc.String(), plain)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print raw markdown")
	return cmd
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cropwatch/analysis"
	"cropwatch/dataset"
)

var trendFlags struct {
	states []string
	crops  []string
	top    int
}

var trendCmd = &cobra.Command{
	Use:   "trend <csv-file>",
	Short: "Per-year area/production totals and mean yield, plus top districts",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func init() {
	f := trendCmd.Flags()
	f.StringSliceVar(&trendFlags.states, "states", nil, "Restrict to these states")
	f.StringSliceVar(&trendFlags.crops, "crops", nil, "Restrict to these crops")
	f.IntVar(&trendFlags.top, "top", 10, "How many districts to list")
}

func runTrend(cmd *cobra.Command, args []string) error {
	records, err := loadTable(args[0])
	if err != nil {
		return err
	}
	records = dataset.Filter{
		States: trendFlags.states,
		Crops:  trendFlags.crops,
	}.Apply(records)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tAREA\tPRODUCTION\tMEAN YIELD")
	for _, p := range analysis.YearSeries(records) {
		yield := "-"
		if p.Yield != nil {
			yield = fmt.Sprintf("%.3f", *p.Yield)
		}
		fmt.Fprintf(tw, "%d\t%.0f\t%.0f\t%s\n", p.Year, p.Area, p.Production, yield)
	}
	tw.Flush()

	fmt.Printf("\nTop %d districts by production:\n", trendFlags.top)
	tw = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DISTRICT\tPRODUCTION\tAREA\tMEAN YIELD")
	for _, d := range analysis.TopDistricts(records, trendFlags.top) {
		yield := "-"
		if d.Yield != nil {
			yield = fmt.Sprintf("%.3f", *d.Yield)
		}
		fmt.Fprintf(tw, "%s\t%.0f\t%.0f\t%s\n", d.District, d.Production, d.Area, yield)
	}
	tw.Flush()
	return nil
}

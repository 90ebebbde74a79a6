package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cropwatch/analysis"
	"cropwatch/dataset"
	"cropwatch/models"
)

var declineFlags struct {
	window  int
	states  []string
	crops   []string
	seasons []string
}

var declinesCmd = &cobra.Command{
	Use:   "declines <csv-file>",
	Short: "Rank (crop, state) pairs by yield decline over a trailing window",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeclines,
}

func init() {
	f := declinesCmd.Flags()
	f.IntVar(&declineFlags.window, "window", 5, "Trailing window in years")
	f.StringSliceVar(&declineFlags.states, "states", nil, "Restrict to these states")
	f.StringSliceVar(&declineFlags.crops, "crops", nil, "Restrict to these crops")
	f.StringSliceVar(&declineFlags.seasons, "seasons", nil, "Restrict to these seasons")
}

func runDeclines(cmd *cobra.Command, args []string) error {
	records, err := loadTable(args[0])
	if err != nil {
		return err
	}
	records = dataset.Filter{
		States:  declineFlags.states,
		Crops:   declineFlags.crops,
		Seasons: declineFlags.seasons,
	}.Apply(records)

	alerts, err := analysis.DetectDeclines(records, declineFlags.window)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		fmt.Println("no declines above 10% in the window")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CROP\tSTATE\tDECLINE %\tEARLY\tRECENT\tSEVERITY")
	for _, d := range alerts {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\t%s\n",
			d.Crop, d.Region, d.DeclinePct, d.EarlyYield, d.RecentYield, d.Severity)
	}
	tw.Flush()

	s := analysis.Summarize(alerts)
	fmt.Printf("\n%d alerts, %d critical, avg decline %.1f%%\n",
		s.TotalAlerts, s.CriticalCount, s.AvgDecline)
	return nil
}

// loadTable reads and normalizes a local CSV file.
func loadTable(path string) ([]models.ProductionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := dataset.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	records := dataset.Normalize(rows)
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no usable rows", path)
	}
	return records, nil
}

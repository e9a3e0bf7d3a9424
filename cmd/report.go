package cmd

import (
	"fmt"
	"runtime"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsphweid/mellowchord/sequence"
	"github.com/jsphweid/mellowchord/util"
)

var reportLimit int

func init() {
	reportCmd.Flags().IntVar(&reportLimit, "limit", runtime.NumCPU(), "enumerations to run at once")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report KEY NUM",
	Short: "Counts the sequences of NUM chords from every start chord",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := keyedGraph(args[0])
		if err != nil {
			return err
		}
		num, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("NUM must be a number, got %q", args[1])
		}

		counts, err := sequence.CountAll(cmd.Context(), g, num, reportLimit)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		var totals []int
		for _, start := range util.SortedKeys(counts) {
			fmt.Fprintf(tw, "%s\t%d\n", start, counts[start])
			totals = append(totals, counts[start])
		}
		fmt.Fprintf(tw, "total\t%d\n", util.Sum(totals))
		return tw.Flush()
	},
}

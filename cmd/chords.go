package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsphweid/mellowchord/chord"
	"github.com/jsphweid/mellowchord/graph"
	"github.com/jsphweid/mellowchord/sequence"
)

var allVariants bool

func init() {
	nextCmd.Flags().BoolVar(&allVariants, "all", false, "list every variant of each successor")
	rootCmd.AddCommand(chordsCmd)
	rootCmd.AddCommand(nextCmd)
}

var chordsCmd = &cobra.Command{
	Use:   "chords KEY",
	Short: "Lists the chords a sequence may start on",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := keyedGraph(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(g.ChordNames(), " "))
		return nil
	},
}

var nextCmd = &cobra.Command{
	Use:     "next KEY CHORD",
	Short:   "Lists the chords that may follow CHORD",
	Example: "  mellowchord next C Cmaj\n  mellowchord next Amin Bdim --all",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := keyedGraph(args[0])
		if err != nil {
			return err
		}
		next, err := g.KeyedSuccessors(chord.Notation(args[1]), allVariants)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(sequence.Progression(next).Names(), " "))
		return nil
	},
}

func keyedGraph(text string) (*graph.Graph, error) {
	key, err := chord.ParseKey(text)
	if err != nil {
		return nil, fmt.Errorf("invalid key %q: %w", text, err)
	}
	return graph.ForKey(key), nil
}

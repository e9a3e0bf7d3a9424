package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/spf13/cobra"

	"github.com/jsphweid/mellowchord/chord"
	"github.com/jsphweid/mellowchord/graph"
	"github.com/jsphweid/mellowchord/midi"
	"github.com/jsphweid/mellowchord/sequence"
)

// settle is how long the held notes must stay unchanged before they are
// named, so a rolled chord is read once.
const settle = 150 * time.Millisecond

var inPort int

func init() {
	listenCmd.Flags().IntVar(&inPort, "in", 0, "MIDI input port")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen KEY",
	Short: "Names chords played on a MIDI keyboard and what can follow them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := chord.ParseKey(args[0])
		if err != nil {
			return fmt.Errorf("invalid key %q: %w", args[0], err)
		}
		g := graph.ForKey(key)
		defer midi.CloseDriver()

		held := midi.NewHeld()
		debounced := debounce.New(settle)
		stop, err := midi.Listen(inPort, held, func() {
			debounced(func() { describeHeld(cmd.OutOrStdout(), g, held.Keys()) })
		})
		if err != nil {
			return err
		}
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Listening on port %d in %s\n", inPort, key)
		<-cmd.Context().Done()
		return nil
	},
}

func describeHeld(w io.Writer, g *graph.Graph, keys []uint8) {
	if len(keys) == 0 {
		return
	}
	kc, err := g.Identify(keys)
	if err != nil {
		fmt.Fprintf(w, "%v: not a chord in this key\n", keys)
		return
	}
	next, err := g.KeyedSuccessors(kc, false)
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", kc, err)
		return
	}
	fmt.Fprintf(w, "%s -> %s\n", kc, strings.Join(sequence.Progression(next).Names(), " "))
}

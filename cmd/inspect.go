package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsphweid/mellowchord/constants"
	"github.com/jsphweid/mellowchord/file"
	"github.com/jsphweid/mellowchord/midi"
)

var inspectLimit int

func init() {
	inspectCmd.Flags().IntVar(&inspectLimit, "limit", 0, "stop after this many MIDI files (0 for all)")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect PATH",
	Short: "Prints the chords in saved MIDI or JSON files",
	Long: `Prints the chords in a saved file. PATH may be a .mid or .json file,
or a directory that is searched for .mid files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(cmd.OutOrStdout(), args[0])
	},
}

func inspect(w io.Writer, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return inspectFile(w, path)
	}

	paths, err := file.GatherMidiPaths(path, inspectLimit)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := inspectFile(w, p); err != nil {
			// one bad file shouldn't hide the rest
			logger.Warn("Skipping file", "path", p, "error", err)
		}
	}
	return nil
}

func inspectFile(w io.Writer, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case constants.JSONExt:
		seq, err := file.ReadJSON(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s (%d chords)\n", path, len(seq))
		for _, kc := range seq {
			fmt.Fprintf(w, "  %s: %s\n", kc, kc.ScientificNotation())
		}
		return nil
	case constants.MidiExt:
		s, err := midi.ReadFile(path)
		if err != nil {
			return err
		}
		summary, err := midi.Summarize(s)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprintf(w, "%s (%v)\n", path, summary.Duration)
		for _, tr := range summary.Tracks {
			keys := make([]string, len(tr.Notes))
			for i, n := range tr.Notes {
				keys[i] = fmt.Sprint(n.Key)
			}
			fmt.Fprintf(w, "  %-8s %s\n", tr.Name, strings.Join(keys, " "))
		}
		return nil
	}
	return fmt.Errorf("don't know how to inspect %s", path)
}

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver

	"github.com/jsphweid/mellowchord/chord"
	"github.com/jsphweid/mellowchord/constants"
	"github.com/jsphweid/mellowchord/file"
	"github.com/jsphweid/mellowchord/graph"
	"github.com/jsphweid/mellowchord/midi"
	"github.com/jsphweid/mellowchord/sequence"
	"github.com/jsphweid/mellowchord/util"
)

func init() {
	rootCmd.AddCommand(chordgenCmd)
}

var chordgenCmd = &cobra.Command{
	Use:     "chordgen KEY START NUM",
	Aliases: []string{"c"},
	Short:   "Generate a series of chord sequences",
	Long: `Generate every chord sequence of NUM chords that starts on START in KEY,
one at a time. Each sequence can be played, inspected, re-voiced and saved.`,
	Example: `  mellowchord chordgen C Cmaj 4
  mellowchord c Amin Amin 3 --autoplay`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		num, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("NUM must be a number, got %q", args[2])
		}
		e, err := openEnumerator(args[0], args[1], num)
		if err != nil {
			return err
		}
		defer midi.CloseDriver()

		r := newRepl(cmd.InOrStdin(), cmd.OutOrStdout(), portPlayer(cfg.MidiPort, midiOptions()))
		return r.run(cmd.Context(), e)
	},
}

func midiOptions() midi.Options {
	return midi.Options{
		Program:    uint8(cfg.Program),
		Velocity:   uint8(cfg.Velocity),
		ChordTicks: constants.ChordTicks,
	}
}

// openEnumerator validates key and start. Unknown starts list the chords
// that would have worked.
func openEnumerator(keyText, start string, num int) (*sequence.Enumerator, error) {
	g, err := keyedGraph(keyText)
	if err != nil {
		return nil, err
	}
	e, err := sequence.New(g, start, num)
	if errors.Is(err, graph.ErrChordNotInGraph) || errors.Is(err, chord.ErrParse) {
		key, _ := g.Key()
		return nil, fmt.Errorf("%w\nvalid chords in %s: %s", err, key, strings.Join(g.ChordNames(), " "))
	}
	return e, err
}

type player func(ctx context.Context, p sequence.Progression) error

// portPlayer opens the MIDI port on first use.
func portPlayer(port int, opts midi.Options) player {
	var send midi.Sender
	return func(ctx context.Context, p sequence.Progression) error {
		if send == nil {
			s, err := midi.OpenPort(port)
			if err != nil {
				return err
			}
			send = s
		}
		s, err := midi.Build(p, opts)
		if err != nil {
			return err
		}
		return midi.Play(ctx, send, s)
	}
}

var replCommands = []string{"n", "p", "i", "t", "o", "s", "j", "h"}

const replHelp = "(n)ext (p)lay (i)nfo (t)ranspose (o)ctave (s)ave (j)son (h)elp (q)uit"

type repl struct {
	in       *bufio.Scanner
	out      io.Writer
	dir      string
	opts     midi.Options
	autoplay bool
	play     player
}

func newRepl(in io.Reader, out io.Writer, play player) *repl {
	return &repl{
		in:       bufio.NewScanner(in),
		out:      out,
		dir:      cfg.WorkingDir,
		opts:     midiOptions(),
		autoplay: cfg.Autoplay,
		play:     play,
	}
}

func (r *repl) run(ctx context.Context, e *sequence.Enumerator) error {
	for e.Next() {
		seq := e.Progression()
		fmt.Fprintln(r.out, seq.Slug())
		if r.autoplay {
			r.playSeq(ctx, seq)
		}
		next, err := r.edit(ctx, seq)
		if err != nil || !next {
			return err
		}
	}
	if err := e.Err(); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "No more sequences")
	return nil
}

// prompt reads lines until one is in valid. ok is false on (q)uit or end
// of input.
func (r *repl) prompt(prompt string, valid []string) (cmd string, ok bool) {
	for {
		fmt.Fprint(r.out, prompt)
		if !r.in.Scan() {
			fmt.Fprintln(r.out)
			return "", false
		}
		cmd = strings.TrimSpace(r.in.Text())
		if cmd == "q" {
			return "", false
		}
		if util.Contains(valid, cmd) {
			return cmd, true
		}
		fmt.Fprintf(r.out, "Valid responses are [%s q]\n", strings.Join(valid, " "))
	}
}

func (r *repl) promptIndex(seq sequence.Progression) (int, bool) {
	valid := make([]string, len(seq))
	for i := range seq {
		valid[i] = strconv.Itoa(i)
	}
	cmd, ok := r.prompt("chord_in_sequence?>", valid)
	if !ok {
		return 0, false
	}
	i, _ := strconv.Atoi(cmd)
	return i, true
}

// edit handles commands for one sequence. next is false when the user quit.
func (r *repl) edit(ctx context.Context, seq sequence.Progression) (next bool, err error) {
	for {
		cmd, ok := r.prompt(">", replCommands)
		if !ok {
			return false, nil
		}
		switch cmd {
		case "n":
			return true, nil
		case "p":
			fmt.Fprintf(r.out, "Playing %s\n", seq.Slug())
			r.playSeq(ctx, seq)
		case "i":
			for _, kc := range seq {
				fmt.Fprintf(r.out, "%s: %s\n", kc, kc.ScientificNotation())
			}
		case "t":
			i, ok := r.promptIndex(seq)
			if !ok {
				return false, nil
			}
			inv, ok := r.prompt("inversion?>", []string{"0", "1", "2"})
			if !ok {
				return false, nil
			}
			n, _ := strconv.Atoi(inv)
			changed, err := seq[i].WithInversion(chord.Inversion(n))
			if err != nil {
				return false, err
			}
			fmt.Fprintf(r.out, "converted %s to %s\n", seq[i], changed)
			seq[i] = changed
		case "o":
			i, ok := r.promptIndex(seq)
			if !ok {
				return false, nil
			}
			dir, ok := r.prompt("+_or_-?>", []string{"+", "-"})
			if !ok {
				return false, nil
			}
			verb := "raised"
			if dir == "+" {
				seq[i] = seq[i].ShiftOctave(1)
			} else {
				seq[i] = seq[i].ShiftOctave(-1)
				verb = "lowered"
			}
			fmt.Fprintf(r.out, "%s %s by one octave\n", verb, seq[i])
		case "s":
			path, err := file.WriteMidi(r.dir, seq, r.opts)
			if err != nil {
				return false, err
			}
			fmt.Fprintf(r.out, "Saved %s to disk\n", filepath.Base(path))
		case "j":
			path, err := file.WriteJSON(r.dir, seq)
			if err != nil {
				return false, err
			}
			fmt.Fprintf(r.out, "Saved %s to disk\n", filepath.Base(path))
		case "h":
			fmt.Fprintln(r.out, replHelp)
		}
	}
}

// playSeq reports playback trouble without ending the session.
func (r *repl) playSeq(ctx context.Context, seq sequence.Progression) {
	if err := r.play(ctx, seq); err != nil {
		logger.Warn("Playback failed", slog.String("sequence", seq.Slug()), slog.String("error", err.Error()))
		fmt.Fprintf(r.out, "Can't play %s: %v\n", seq.Slug(), err)
	}
}

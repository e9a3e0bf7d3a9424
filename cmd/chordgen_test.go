package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/mellowchord/midi"
	"github.com/jsphweid/mellowchord/sequence"
)

type fakePlayer struct {
	played []string
	err    error
}

func (f *fakePlayer) play(ctx context.Context, p sequence.Progression) error {
	f.played = append(f.played, p.Slug())
	return f.err
}

func newTestRepl(t *testing.T, input string, fp *fakePlayer) (*repl, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &repl{
		in:   bufio.NewScanner(strings.NewReader(input)),
		out:  &out,
		dir:  t.TempDir(),
		opts: midi.DefaultOptions(),
		play: fp.play,
	}, &out
}

func runRepl(t *testing.T, r *repl, key, start string, num int) {
	t.Helper()
	e, err := openEnumerator(key, start, num)
	require.NoError(t, err)
	require.NoError(t, r.run(context.Background(), e))
}

func TestReplWalksEverySequence(t *testing.T) {
	r, out := newTestRepl(t, "n\nn\nn\n", &fakePlayer{})
	runRepl(t, r, "C", "Cmaj", 2)

	lines := strings.Split(out.String(), "\n")
	assert.Contains(t, lines, "Cmaj_Fmaj-C")
	assert.Contains(t, lines, "Cmaj_Gmaj-D")
	assert.Contains(t, lines, "Cmaj_Fmaj")
	assert.Contains(t, out.String(), "No more sequences")
}

func TestReplQuits(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"quit", "q\n"},
		{"end of input", ""},
		{"quit mid prompt", "t\nq\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out := newTestRepl(t, tt.input, &fakePlayer{})
			runRepl(t, r, "C", "Cmaj", 2)
			assert.Contains(t, out.String(), "Cmaj_Fmaj-C")
			assert.NotContains(t, out.String(), "Cmaj_Gmaj-D")
			assert.NotContains(t, out.String(), "No more sequences")
		})
	}
}

func TestReplHelpAndBadInput(t *testing.T) {
	r, out := newTestRepl(t, "x\nh\nq\n", &fakePlayer{})
	runRepl(t, r, "C", "Cmaj", 2)

	assert.Contains(t, out.String(), "Valid responses are [n p i t o s j h q]")
	assert.Contains(t, out.String(), replHelp)
}

func TestReplPlays(t *testing.T) {
	fp := &fakePlayer{}
	r, out := newTestRepl(t, "p\nn\nq\n", fp)
	r.autoplay = true
	runRepl(t, r, "C", "Cmaj", 2)

	assert.Equal(t, []string{"Cmaj_Fmaj-C", "Cmaj_Fmaj-C", "Cmaj_Gmaj-D"}, fp.played)
	assert.Contains(t, out.String(), "Playing Cmaj_Fmaj-C")
}

func TestReplPlaybackFailureIsNotFatal(t *testing.T) {
	fp := &fakePlayer{err: errors.New("no port")}
	r, out := newTestRepl(t, "p\nn\nq\n", fp)
	runRepl(t, r, "C", "Cmaj", 2)

	assert.Contains(t, out.String(), "Can't play Cmaj_Fmaj-C: no port")
	assert.Contains(t, out.String(), "Cmaj_Gmaj-D")
}

func TestReplInfo(t *testing.T) {
	r, out := newTestRepl(t, "i\nq\n", &fakePlayer{})
	runRepl(t, r, "C", "Cmaj", 2)

	assert.Contains(t, out.String(), "Cmaj: C4 E4 G4")
	assert.Contains(t, out.String(), "Fmaj/C: ")
}

func TestReplTransposeAndSave(t *testing.T) {
	r, out := newTestRepl(t, "t\n1\n1\ns\nj\nq\n", &fakePlayer{})
	runRepl(t, r, "C", "Cmaj", 2)

	assert.Contains(t, out.String(), "converted Fmaj/C to Fmaj/A")
	assert.Contains(t, out.String(), "Saved Cmaj_Fmaj-A.mid to disk")
	assert.Contains(t, out.String(), "Saved Cmaj_Fmaj-A.json to disk")
	assert.FileExists(t, filepath.Join(r.dir, "Cmaj_Fmaj-A.mid"))
	assert.FileExists(t, filepath.Join(r.dir, "Cmaj_Fmaj-A.json"))
}

func TestReplOctave(t *testing.T) {
	r, out := newTestRepl(t, "o\n0\n+\no\n1\n-\ni\nq\n", &fakePlayer{})
	runRepl(t, r, "C", "Cmaj", 2)

	assert.Contains(t, out.String(), "raised Cmaj by one octave")
	assert.Contains(t, out.String(), "lowered Fmaj/C by one octave")
	assert.Contains(t, out.String(), "Cmaj: C5 E5 G5")
}

func TestReplSavesNothingUnasked(t *testing.T) {
	r, _ := newTestRepl(t, "n\nn\nn\n", &fakePlayer{})
	runRepl(t, r, "C", "Cmaj", 2)

	entries, err := os.ReadDir(r.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenEnumerator(t *testing.T) {
	_, err := openEnumerator("H", "Cmaj", 2)
	assert.ErrorContains(t, err, `invalid key "H"`)

	_, err = openEnumerator("C", "Cmin", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid chords in C:")
	assert.Contains(t, err.Error(), "Fmaj/C")

	_, err = openEnumerator("C", "Cmaj", 0)
	assert.Error(t, err)

	e, err := openEnumerator("Amin", "Amin", 3)
	require.NoError(t, err)
	assert.Equal(t, "Amin", e.Start())
}

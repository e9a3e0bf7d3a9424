package sequence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/mellowchord/chord"
	"github.com/jsphweid/mellowchord/graph"
	"github.com/jsphweid/mellowchord/model"
)

func graphFor(t *testing.T, key string) *graph.Graph {
	t.Helper()
	k, err := chord.ParseKey(key)
	require.NoError(t, err)
	return graph.ForKey(k)
}

func allNames(progs []Progression) [][]string {
	res := make([][]string, len(progs))
	for i, p := range progs {
		res[i] = p.Names()
	}
	return res
}

func TestEnumerateFromTonic(t *testing.T) {
	progs, err := Collect(graphFor(t, "C"), "Cmaj", 3)
	require.NoError(t, err)
	require.Len(t, progs, 10)

	seconds := []string{"Fmaj/C", "Gmaj/D", "Fmaj"}
	thirds := []string{"Gmaj", "Dmin", "Cmaj/G", "Cmaj/E", "Cmaj", "Cmaj7"}
	seen := make(map[string]bool)
	for _, p := range progs {
		require.Len(t, p, 3)
		names := p.Names()
		assert.Equal(t, "Cmaj", names[0])
		assert.Contains(t, seconds, names[1])
		assert.Contains(t, thirds, names[2])
		assert.False(t, seen[p.String()], "duplicate %s", p)
		seen[p.String()] = true
		for _, kc := range p {
			assert.Equal(t, "C", kc.Key().String())
		}
	}
}

func TestEnumerationOrder(t *testing.T) {
	progs, err := Collect(graphFor(t, "C"), "Cmaj", 2)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Cmaj", "Fmaj/C"},
		{"Cmaj", "Gmaj/D"},
		{"Cmaj", "Fmaj"},
	}, allNames(progs))
}

func TestEnumerateCounts(t *testing.T) {
	cases := []struct {
		key    string
		start  string
		length int
		want   int
	}{
		{"C", "Cmaj", 1, 1},
		{"C", "Cmaj", 2, 3},
		{"C", "Cmaj", 3, 10},
		{"C", "Cmaj7", 3, 10},
		{"C", "Cmaj/G", 1, 1},
		{"C", "Cmaj/G", 2, 0},
		{"C", "Gmaj", 2, 4},
		{"C", "Emaj", 2, 1},
		{"Amin", "Amin", 2, 2},
		{"Amin", "Amin", 3, 4},
		{"Amin", "Bmin", 2, 3},
	}
	for _, tc := range cases {
		t.Run(tc.key+" "+tc.start, func(t *testing.T) {
			progs, err := Collect(graphFor(t, tc.key), tc.start, tc.length)
			require.NoError(t, err)
			assert.Len(t, progs, tc.want)
		})
	}
}

func TestStartIsNormalized(t *testing.T) {
	g := graphFor(t, "C")
	for _, start := range []string{"CM", "Cmajor", "Imaj", "IM"} {
		e, err := New(g, start, 2)
		require.NoError(t, err, start)
		assert.Equal(t, "Cmaj", e.Start())
		require.True(t, e.Next())
		assert.Equal(t, "Cmaj", e.Progression()[0].Name())
	}
}

func TestEnumeratorsAreIndependent(t *testing.T) {
	g := graphFor(t, "C")
	a, err := New(g, "Cmaj", 3)
	require.NoError(t, err)
	b, err := New(g, "Cmaj", 3)
	require.NoError(t, err)

	var fromA, fromB []string
	for {
		okA, okB := a.Next(), b.Next()
		require.Equal(t, okA, okB)
		if !okA {
			break
		}
		fromA = append(fromA, a.Progression().String())
		fromB = append(fromB, b.Progression().String())
	}
	assert.Len(t, fromA, 10)
	assert.Equal(t, fromA, fromB)

	again, err := Collect(g, "Cmaj", 3)
	require.NoError(t, err)
	assert.Len(t, again, 10)
}

func TestStopPullingEarly(t *testing.T) {
	e, err := New(graphFor(t, "C"), "Cmaj", 4)
	require.NoError(t, err)

	first := e.Take(2)
	assert.Len(t, first, 2)
	assert.False(t, e.Done())

	rest := e.Take(1000)
	assert.NotEmpty(t, rest)
	assert.True(t, e.Done())
	assert.False(t, e.Next())
	assert.Nil(t, e.Progression())
	assert.NoError(t, e.Err())
}

func TestProgressionIsCallerOwned(t *testing.T) {
	e, err := New(graphFor(t, "C"), "Cmaj", 2)
	require.NoError(t, err)
	require.True(t, e.Next())
	p := e.Progression()
	p[1] = p[1].ShiftOctave(1)

	require.True(t, e.Next())
	assert.Equal(t, 1, p[1].OctaveAdjustment())
	assert.Equal(t, 0, e.Progression()[1].OctaveAdjustment())
}

func TestNewRejectsBadRequests(t *testing.T) {
	g := graphFor(t, "C")

	_, err := New(g, "Cmaj", 0)
	assert.True(t, errors.Is(err, chord.ErrInvalidArgument))

	_, err = New(g, "Hmaj", 3)
	assert.True(t, errors.Is(err, chord.ErrParse))

	_, err = New(g, "Dmaj7", 3)
	assert.True(t, errors.Is(err, graph.ErrChordNotInGraph))

	_, err = New(graph.New(chord.MajorMode), "Imaj", 3)
	assert.True(t, errors.Is(err, ErrKeylessGraph))
	assert.True(t, errors.Is(err, chord.ErrInvalidArgument))
}

func TestSlug(t *testing.T) {
	key := chord.MustParseKey("C")
	p := Progression{
		chord.NewKeyedChord(key, chord.MustChord(1, chord.Major, chord.RootPosition)),
		chord.NewKeyedChord(key, chord.MustChord(4, chord.Major, chord.SecondInversion)),
		chord.NewKeyedChord(key, chord.MustChord(1, chord.Major, chord.RootPosition)),
	}
	assert.Equal(t, "Cmaj_Fmaj-C_Cmaj", p.Slug())
	assert.Equal(t, "Cmaj Fmaj/C Cmaj", p.String())
}

func TestEncodeDecode(t *testing.T) {
	progs, err := Collect(graphFor(t, "Ebmin"), "Ebmin", 3)
	require.NoError(t, err)
	require.NotEmpty(t, progs)

	for _, p := range progs {
		p = p.Clone()
		p[1] = p[1].ShiftOctave(-1)
		r := Encode(p[0].Key(), p)
		assert.Equal(t, "Ebmin", r.Key)

		decoded, err := Decode(r)
		require.NoError(t, err)
		assert.Equal(t, p, decoded)
	}
}

func TestEncodeEmpty(t *testing.T) {
	r := Encode(chord.MustParseKey("Amin"), nil)
	assert.Equal(t, "Amin", r.Key)
	assert.Empty(t, r.Seq)

	p, err := Decode(r)
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestDecodeRejectsMixedKeys(t *testing.T) {
	r := model.ProgressionRecord{
		Key: "C",
		Seq: []model.ChordRecord{
			{Degree: 1, Quality: "maj", Key: "C"},
			{Degree: 5, Quality: "maj", Key: "G"},
		},
	}
	_, err := Decode(r)
	assert.True(t, errors.Is(err, chord.ErrInvalidArgument))

	r.Key = "nope"
	_, err = Decode(r)
	assert.True(t, errors.Is(err, chord.ErrParse))
}

func TestCountAll(t *testing.T) {
	counts, err := CountAll(context.Background(), graphFor(t, "C"), 2, 4)
	require.NoError(t, err)

	assert.Equal(t, 3, counts["Cmaj"])
	assert.Equal(t, 3, counts["Cmaj7"])
	assert.Equal(t, 0, counts["Cmaj/G"])
	assert.Equal(t, 4, counts["Gmaj"])
	assert.Len(t, counts, len(graphFor(t, "C").Chords()))
}

func TestCountAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CountAll(ctx, graphFor(t, "C"), 3, 2)
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = CountAll(context.Background(), graph.New(chord.MajorMode), 3, 2)
	assert.True(t, errors.Is(err, ErrKeylessGraph))
}

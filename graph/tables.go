package graph

import (
	"github.com/jsphweid/mellowchord/chord"
)

// NodeID names a node by its primary chord's function, e.g. "IV/1".
type NodeID string

const (
	Tonic             NodeID = "I"
	TonicFirst        NodeID = "I/3"
	TonicSecond       NodeID = "I/5"
	Supertonic        NodeID = "ii"
	Mediant           NodeID = "iii"
	Subdominant       NodeID = "IV"
	SubdominantSecond NodeID = "IV/1"
	Dominant          NodeID = "V"
	DominantSecond    NodeID = "V/2"
	Submediant        NodeID = "vi"

	SecondaryII  NodeID = "II"
	SecondaryIII NodeID = "III"
	SecondaryVI  NodeID = "VI"
	SecondaryVII NodeID = "VII"
)

// diatonic holds each mode's default triad quality per degree.
var diatonic = map[chord.Mode][7]chord.Quality{
	chord.MajorMode: {
		chord.Major, chord.Minor, chord.Minor, chord.Major,
		chord.Major, chord.Minor, chord.Minor,
	},
	chord.NaturalMinorMode: {
		chord.Minor, chord.Minor, chord.Major, chord.Minor,
		chord.Minor, chord.Major, chord.Major,
	},
}

// tonicSeventh is the seventh bundled with the root-position tonic.
var tonicSeventh = map[chord.Mode]chord.Quality{
	chord.MajorMode:        chord.MajorSeventh,
	chord.NaturalMinorMode: chord.MinorSeventh,
}

type nodeSpec struct {
	id        NodeID
	degree    int
	inversion chord.Inversion
	// quality overrides the mode's diatonic quality when set.
	quality chord.Quality
	// seventh bundles the tonic seventh as a second variant.
	seventh bool
}

func (s nodeSpec) node(mode chord.Mode) Node {
	q := s.quality
	if q == "" {
		q = diatonic[mode][s.degree-1]
	}
	n := Node{ID: s.id, Chords: []chord.Chord{chord.MustChord(s.degree, q, s.inversion)}}
	if s.seventh {
		n.Chords = append(n.Chords, chord.MustChord(s.degree, tonicSeventh[mode], s.inversion))
	}
	return n
}

type edge struct {
	from, to NodeID
}

var coreNodes = []nodeSpec{
	{id: Tonic, degree: 1, seventh: true},
	{id: TonicFirst, degree: 1, inversion: chord.FirstInversion},
	{id: TonicSecond, degree: 1, inversion: chord.SecondInversion},
	{id: Supertonic, degree: 2},
	{id: Mediant, degree: 3},
	{id: Subdominant, degree: 4},
	{id: SubdominantSecond, degree: 4, inversion: chord.SecondInversion},
	{id: Dominant, degree: 5},
	{id: DominantSecond, degree: 5, inversion: chord.SecondInversion},
	{id: Submediant, degree: 6},
}

// Edge order is the order successors are reported and enumerated in.
var coreEdges = []edge{
	{Tonic, SubdominantSecond},
	{Tonic, DominantSecond},
	{TonicFirst, Supertonic},
	{Supertonic, TonicSecond},
	{Supertonic, Mediant},
	{Supertonic, Dominant},
	{Mediant, Tonic},
	{Mediant, Subdominant},
	{Mediant, Submediant},
	{Subdominant, Tonic},
	{Subdominant, TonicFirst},
	{Subdominant, TonicSecond},
	{Subdominant, Supertonic},
	{Subdominant, Dominant},
	{SubdominantSecond, Tonic},
	{Dominant, Tonic},
	{Dominant, Mediant},
	{Dominant, Submediant},
	{DominantSecond, Tonic},
	{Submediant, Subdominant},
	{Submediant, Supertonic},
}

// Major mode adds major triads on II, III, VI and VII that resolve down a
// fifth, plus a plain I to IV step.
var majorOverlayNodes = []nodeSpec{
	{id: SecondaryII, degree: 2, quality: chord.Major},
	{id: SecondaryIII, degree: 3, quality: chord.Major},
	{id: SecondaryVI, degree: 6, quality: chord.Major},
	{id: SecondaryVII, degree: 7, quality: chord.Major},
}

var majorOverlayEdges = []edge{
	{SecondaryII, Dominant},
	{SecondaryIII, Submediant},
	{SecondaryVI, Supertonic},
	{SecondaryVII, Mediant},
	{Tonic, Subdominant},
}

func tablesFor(mode chord.Mode) ([]nodeSpec, []edge) {
	specs := append([]nodeSpec(nil), coreNodes...)
	edges := append([]edge(nil), coreEdges...)
	if mode == chord.MajorMode {
		specs = append(specs, majorOverlayNodes...)
		edges = append(edges, majorOverlayEdges...)
	}
	return specs, edges
}

// Package graph holds the harmonic transition graph: nodes bundle chord
// variants sharing a scale degree and function, edges are the resolutions
// a progression may take.
package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jsphweid/mellowchord/chord"
)

// ErrChordNotInGraph is returned when a lookup names a chord no node holds.
var ErrChordNotInGraph = fmt.Errorf("%w: chord not in graph", chord.ErrInvalidArgument)

// ErrKeyless is returned by operations that need a key on a keyless graph.
var ErrKeyless = fmt.Errorf("%w: graph has no key", chord.ErrInvalidArgument)

// Node is one harmonic function. Chords is never empty; the first entry is
// the primary variant.
type Node struct {
	ID     NodeID
	Chords []chord.Chord
}

func (n Node) Primary() chord.Chord {
	return n.Chords[0]
}

func (n Node) String() string {
	names := make([]string, len(n.Chords))
	for i, c := range n.Chords {
		names[i] = c.Name()
	}
	return "(" + strings.Join(names, ", ") + ")"
}

// Graph is immutable once built and safe for concurrent readers.
type Graph struct {
	key   *chord.Key
	mode  chord.Mode
	nodes []Node
	succ  [][]int
	index map[chord.Chord]int
}

// New builds the keyless graph for a mode. Lookups take roman-numeral text
// or Chord values.
func New(mode chord.Mode) *Graph {
	return build(nil, mode)
}

// ForKey builds the graph for a key; the mode comes from the key.
func ForKey(key chord.Key) *Graph {
	return build(&key, key.Mode)
}

func build(key *chord.Key, mode chord.Mode) *Graph {
	specs, edges := tablesFor(mode)
	g := &Graph{
		key:   key,
		mode:  mode,
		index: make(map[chord.Chord]int),
	}
	position := make(map[NodeID]int, len(specs))
	for _, spec := range specs {
		n := spec.node(mode)
		position[n.ID] = len(g.nodes)
		for _, c := range n.Chords {
			if _, dup := g.index[c]; dup {
				panic(fmt.Sprintf("graph: chord %s in two nodes", c))
			}
			g.index[c] = len(g.nodes)
		}
		g.nodes = append(g.nodes, n)
	}
	g.succ = make([][]int, len(g.nodes))
	for _, e := range edges {
		from, to := position[e.from], position[e.to]
		g.succ[from] = append(g.succ[from], to)
	}
	return g
}

// Key returns the graph's key, if it has one.
func (g *Graph) Key() (chord.Key, bool) {
	if g.key == nil {
		return chord.Key{}, false
	}
	return *g.key, true
}

func (g *Graph) Mode() chord.Mode {
	return g.mode
}

// Nodes returns a copy of the nodes in table order.
func (g *Graph) Nodes() []Node {
	res := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		res[i] = Node{ID: n.ID, Chords: append([]chord.Chord(nil), n.Chords...)}
	}
	return res
}

// Node finds the node holding ref's chord.
func (g *Graph) Node(ref chord.Ref) (Node, error) {
	i, err := g.lookup(ref)
	if err != nil {
		return Node{}, err
	}
	return g.Nodes()[i], nil
}

// Contains reports whether ref resolves to a member chord.
func (g *Graph) Contains(ref chord.Ref) bool {
	_, err := g.lookup(ref)
	return err == nil
}

func (g *Graph) lookup(ref chord.Ref) (int, error) {
	c, err := chord.Resolve(ref, g.key)
	if err != nil {
		return 0, err
	}
	i, ok := g.index[c]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrChordNotInGraph, c)
	}
	return i, nil
}

// Successors lists the chords reachable in one step from ref. With
// allVariants false only each successor node's primary chord is returned.
func (g *Graph) Successors(ref chord.Ref, allVariants bool) ([]chord.Chord, error) {
	i, err := g.lookup(ref)
	if err != nil {
		return nil, err
	}
	var res []chord.Chord
	for _, j := range g.succ[i] {
		if allVariants {
			res = append(res, g.nodes[j].Chords...)
		} else {
			res = append(res, g.nodes[j].Primary())
		}
	}
	return res, nil
}

// KeyedSuccessors is Successors bound to the graph's key.
func (g *Graph) KeyedSuccessors(ref chord.Ref, allVariants bool) ([]chord.KeyedChord, error) {
	if g.key == nil {
		return nil, ErrKeyless
	}
	chords, err := g.Successors(ref, allVariants)
	if err != nil {
		return nil, err
	}
	res := make([]chord.KeyedChord, len(chords))
	for i, c := range chords {
		res[i] = chord.NewKeyedChord(*g.key, c)
	}
	return res, nil
}

// Chords lists every member chord in node order.
func (g *Graph) Chords() []chord.Chord {
	var res []chord.Chord
	for _, n := range g.nodes {
		res = append(res, n.Chords...)
	}
	return res
}

// ChordNames lists every valid chord string: letter names for a keyed
// graph, roman numerals otherwise.
func (g *Graph) ChordNames() []string {
	var res []string
	for _, c := range g.Chords() {
		if g.key != nil {
			res = append(res, chord.NewKeyedChord(*g.key, c).Name())
		} else {
			res = append(res, c.Name())
		}
	}
	return res
}

// IsNotInGraph is a convenience for errors.Is(err, ErrChordNotInGraph).
func IsNotInGraph(err error) bool {
	return errors.Is(err, ErrChordNotInGraph)
}

// Package sequence walks a keyed harmonic graph and produces every chord
// progression of a fixed length from a start chord.
package sequence

import (
	"fmt"
	"strings"

	"github.com/jsphweid/mellowchord/chord"
	"github.com/jsphweid/mellowchord/graph"
)

var ErrKeylessGraph = fmt.Errorf("%w: enumeration needs a keyed graph", chord.ErrInvalidArgument)

// Progression is an ordered run of chords in one key.
type Progression []chord.KeyedChord

// Names returns the letter names of each chord.
func (p Progression) Names() []string {
	res := make([]string, len(p))
	for i, kc := range p {
		res[i] = kc.Name()
	}
	return res
}

func (p Progression) String() string {
	return strings.Join(p.Names(), " ")
}

// Slug is a filesystem-safe name: chords joined by "_", slashes as "-".
func (p Progression) Slug() string {
	return strings.ReplaceAll(strings.Join(p.Names(), "_"), "/", "-")
}

// Clone copies p so edits don't reach the enumerator's results.
func (p Progression) Clone() Progression {
	return append(Progression(nil), p...)
}

type frame struct {
	names []string
	next  int
}

// Enumerator yields progressions one at a time:
//
//	e, err := sequence.New(g, "Cmaj", 4)
//	for e.Next() {
//		use(e.Progression())
//	}
//	if err := e.Err(); err != nil { ... }
//
// Two walks that print the same chord names are reported once. An
// Enumerator is not safe for concurrent use.
type Enumerator struct {
	g      *graph.Graph
	key    chord.Key
	length int
	start  string

	path    []string
	frames  []frame
	emitted map[string]struct{}
	succ    map[string][]string

	started bool
	done    bool
	current Progression
	err     error
}

// New validates the request and returns an Enumerator positioned before the
// first progression.
func New(g *graph.Graph, start string, length int) (*Enumerator, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: length must be at least 1, got %d", chord.ErrInvalidArgument, length)
	}
	key, ok := g.Key()
	if !ok {
		return nil, ErrKeylessGraph
	}
	kc, err := chord.ParseKeyedChord(start, key)
	if err != nil {
		return nil, err
	}
	if _, err := g.Node(kc); err != nil {
		return nil, err
	}
	return &Enumerator{
		g:       g,
		key:     key,
		length:  length,
		start:   kc.Name(),
		emitted: make(map[string]struct{}),
		succ:    make(map[string][]string),
	}, nil
}

// Next advances to the next progression. It returns false when the walk is
// finished or an error stopped it.
func (e *Enumerator) Next() bool {
	if e.done || e.err != nil {
		return false
	}
	if !e.started {
		e.started = true
		if ok, stop := e.enter(e.start); ok || stop {
			return ok
		}
	}
	for len(e.frames) > 0 {
		top := &e.frames[len(e.frames)-1]
		if top.next == len(top.names) {
			e.frames = e.frames[:len(e.frames)-1]
			e.path = e.path[:len(e.path)-1]
			continue
		}
		name := top.names[top.next]
		top.next++
		if ok, stop := e.enter(name); ok || stop {
			return ok
		}
	}
	e.done = true
	e.current = nil
	return false
}

// enter appends name to the path. A full path is checked and popped right
// away; a shorter one gets a frame of successors. ok reports an emitted
// progression, stop an error.
func (e *Enumerator) enter(name string) (ok, stop bool) {
	e.path = append(e.path, name)
	if len(e.path) < e.length {
		names, err := e.successors(name)
		if err != nil {
			e.fail(err)
			return false, true
		}
		e.frames = append(e.frames, frame{names: names})
		return false, false
	}

	defer func() { e.path = e.path[:len(e.path)-1] }()
	id := strings.Join(e.path, "\x00")
	if _, seen := e.emitted[id]; seen {
		return false, false
	}
	prog := make(Progression, len(e.path))
	for i, n := range e.path {
		kc, err := chord.ParseKeyedChord(n, e.key)
		if err != nil {
			e.fail(err)
			return false, true
		}
		prog[i] = kc
	}
	e.emitted[id] = struct{}{}
	e.current = prog
	return true, false
}

func (e *Enumerator) successors(name string) ([]string, error) {
	if names, ok := e.succ[name]; ok {
		return names, nil
	}
	chords, err := e.g.KeyedSuccessors(chord.Notation(name), true)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(chords))
	for i, kc := range chords {
		names[i] = kc.Name()
	}
	e.succ[name] = names
	return names, nil
}

func (e *Enumerator) fail(err error) {
	e.err = err
	e.current = nil
	e.frames = nil
}

// Progression returns the progression Next moved to. Callers own it.
func (e *Enumerator) Progression() Progression {
	return e.current
}

func (e *Enumerator) Err() error {
	return e.err
}

// Done reports whether Next has run out of progressions or failed.
func (e *Enumerator) Done() bool {
	return e.done || e.err != nil
}

// Key is the key every produced chord is bound to.
func (e *Enumerator) Key() chord.Key {
	return e.key
}

// Start is the printed start chord.
func (e *Enumerator) Start() string {
	return e.start
}

func (e *Enumerator) Length() int {
	return e.length
}

// Take pulls up to n more progressions.
func (e *Enumerator) Take(n int) []Progression {
	var res []Progression
	for len(res) < n && e.Next() {
		res = append(res, e.Progression())
	}
	return res
}

// Collect runs a fresh enumeration to completion.
func Collect(g *graph.Graph, start string, length int) ([]Progression, error) {
	e, err := New(g, start, length)
	if err != nil {
		return nil, err
	}
	var res []Progression
	for e.Next() {
		res = append(res, e.Progression())
	}
	return res, e.Err()
}

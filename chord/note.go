package chord

import (
	"fmt"
	"strings"
)

// Letter is a natural note name, C through B.
type Letter int

const (
	C Letter = iota
	D
	E
	F
	G
	A
	B
)

var letterNames = [7]byte{'C', 'D', 'E', 'F', 'G', 'A', 'B'}

// semitones above C for each natural letter
var letterSemitones = [7]int{0, 2, 4, 5, 7, 9, 11}

func (l Letter) String() string {
	return string(letterNames[l])
}

func letterFromByte(b byte) (Letter, bool) {
	for i, n := range letterNames {
		if n == b {
			return Letter(i), true
		}
	}
	return 0, false
}

// Note is a spelled pitch class: a letter plus any number of sharps
// (positive Accidental) or flats (negative Accidental).
type Note struct {
	Letter     Letter
	Accidental int
}

func (n Note) String() string {
	var sb strings.Builder
	sb.WriteString(n.Letter.String())
	if n.Accidental > 0 {
		sb.WriteString(strings.Repeat("#", n.Accidental))
	} else if n.Accidental < 0 {
		sb.WriteString(strings.Repeat("b", -n.Accidental))
	}
	return sb.String()
}

// PitchClass is in 0..11 with C == 0.
func (n Note) PitchClass() int {
	return mod(letterSemitones[n.Letter]+n.Accidental, 12)
}

// ParseNote parses strings like "C", "F#", "Bb" or "Ebb".
func ParseNote(s string) (Note, error) {
	n, rest, ok := splitNote(s)
	if !ok || rest != "" {
		return Note{}, &ParseError{Input: s, Reason: "not a note name"}
	}
	return n, nil
}

// splitNote consumes a note name from the front of s and returns the
// unconsumed remainder.
func splitNote(s string) (Note, string, bool) {
	if s == "" {
		return Note{}, s, false
	}
	letter, ok := letterFromByte(s[0])
	if !ok {
		return Note{}, s, false
	}
	n := Note{Letter: letter}
	i := 1
	switch {
	case i < len(s) && s[i] == '#':
		for i < len(s) && s[i] == '#' {
			n.Accidental++
			i++
		}
	case i < len(s) && s[i] == 'b':
		for i < len(s) && s[i] == 'b' {
			n.Accidental--
			i++
		}
	}
	return n, s[i:], true
}

// Pitch is a note in a specific octave, in scientific pitch notation
// (C4 is middle C, MIDI 60).
type Pitch struct {
	Note
	Octave int
}

func (p Pitch) String() string {
	return fmt.Sprintf("%s%d", p.Note, p.Octave)
}

// MIDI returns the MIDI note number.
func (p Pitch) MIDI() int {
	return (p.Octave+1)*12 + letterSemitones[p.Letter] + p.Accidental
}

// Transpose moves the pitch up by iv, keeping the spelling implied by the
// interval's letter distance.
func (p Pitch) Transpose(iv Interval) Pitch {
	idx := int(p.Letter) + iv.Steps
	octave := p.Octave + floorDiv(idx, 7)
	letter := Letter(mod(idx, 7))
	target := p.MIDI() + iv.Semitones
	natural := (octave+1)*12 + letterSemitones[letter]
	return Pitch{Note: Note{Letter: letter, Accidental: target - natural}, Octave: octave}
}

// ShiftOctaves moves the pitch by whole octaves.
func (p Pitch) ShiftOctaves(n int) Pitch {
	p.Octave += n
	return p
}

// Interval is a letter distance (Steps) with a size in semitones.
type Interval struct {
	Steps     int
	Semitones int
}

var (
	unison            = Interval{0, 0}
	majorSecond       = Interval{1, 2}
	minorThird        = Interval{2, 3}
	majorThird        = Interval{2, 4}
	perfectFourth     = Interval{3, 5}
	diminishedFifth   = Interval{4, 6}
	perfectFifth      = Interval{4, 7}
	augmentedFifth    = Interval{4, 8}
	diminishedSeventh = Interval{6, 9}
	minorSeventh      = Interval{6, 10}
	majorSeventh      = Interval{6, 11}
)

func mod(a, m int) int {
	return ((a % m) + m) % m
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

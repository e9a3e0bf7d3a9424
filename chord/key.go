package chord

import "strings"

// Mode selects the diatonic scale of a key.
type Mode int

const (
	MajorMode Mode = iota
	NaturalMinorMode
)

var modeSteps = map[Mode][7]int{
	MajorMode:        {2, 2, 1, 2, 2, 2, 1},
	NaturalMinorMode: {2, 1, 2, 2, 1, 2, 2},
}

func (m Mode) String() string {
	if m == NaturalMinorMode {
		return "natural_minor"
	}
	return "major"
}

var modeSuffixes = []struct {
	suffix string
	mode   Mode
}{
	{" major", MajorMode},
	{" minor", NaturalMinorMode},
	{"major", MajorMode},
	{"minor", NaturalMinorMode},
	{"maj", MajorMode},
	{"min", NaturalMinorMode},
	{"M", MajorMode},
	{"m", NaturalMinorMode},
}

// Key is a tonic plus a mode.
type Key struct {
	Tonic Note
	Mode  Mode
}

// ParseKey accepts "C", "Bb", "F#", "Amin", "Am" or "A minor".
func ParseKey(s string) (Key, error) {
	text := strings.TrimSpace(s)
	tonic, rest, ok := splitNote(text)
	if !ok {
		return Key{}, &ParseError{Input: s, Reason: "invalid key"}
	}
	k := Key{Tonic: tonic, Mode: MajorMode}
	if rest == "" {
		return k, nil
	}
	for _, ms := range modeSuffixes {
		if rest == ms.suffix {
			k.Mode = ms.mode
			return k, nil
		}
	}
	return Key{}, &ParseError{Input: s, Reason: "invalid key"}
}

// MustParseKey is ParseKey for literals; it panics on error.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

func (k Key) String() string {
	if k.Mode == NaturalMinorMode {
		return k.Tonic.String() + "min"
	}
	return k.Tonic.String()
}

// Scale returns the seven diatonic notes starting at the tonic.
func (k Key) Scale() [7]Note {
	var res [7]Note
	target := k.Tonic.PitchClass()
	steps := modeSteps[k.Mode]
	for i := 0; i < 7; i++ {
		letter := Letter(mod(int(k.Tonic.Letter)+i, 7))
		diff := mod(target-letterSemitones[letter], 12)
		if diff > 6 {
			diff -= 12
		}
		res[i] = Note{Letter: letter, Accidental: diff}
		target += steps[i]
	}
	return res
}

// Note returns the scale note at a 1-based degree; degrees wrap modulo 7.
func (k Key) Note(degree int) Note {
	return k.Scale()[mod(degree-1, 7)]
}

// DegreeOf finds n in the scale by exact spelling.
func (k Key) DegreeOf(n Note) (int, bool) {
	for i, sn := range k.Scale() {
		if sn == n {
			return i + 1, true
		}
	}
	return 0, false
}

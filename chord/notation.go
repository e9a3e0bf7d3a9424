package chord

import (
	"strconv"
	"strings"
)

// longest numerals first so "VII" is not read as "V" + "II"
var numeralsByLength = []struct {
	text   string
	degree int
}{
	{"VII", 7}, {"III", 3}, {"VI", 6}, {"IV", 4}, {"II", 2}, {"V", 5}, {"I", 1},
}

// ParseChord parses keyless roman-numeral notation such as "IVmaj/1".
func ParseChord(text string) (Chord, error) {
	return parse(text, nil)
}

// ParseChordInKey also accepts letter notation such as "Fmaj/C", resolved
// against the key's scale.
func ParseChordInKey(text string, key Key) (Chord, error) {
	return parse(text, &key)
}

// ParseKeyedChord parses either notation and binds the result to key.
func ParseKeyedChord(text string, key Key) (KeyedChord, error) {
	c, err := parse(text, &key)
	if err != nil {
		return KeyedChord{}, err
	}
	return NewKeyedChord(key, c), nil
}

func parse(text string, key *Key) (Chord, error) {
	head, bass, hasBass := strings.Cut(text, "/")
	if strings.TrimSpace(text) == "" {
		return Chord{}, &ParseError{Input: text, Reason: "empty chord"}
	}

	degree, qualityText, err := parseHead(text, head, key)
	if err != nil {
		return Chord{}, err
	}
	quality, err := ParseQuality(qualityText)
	if err != nil {
		return Chord{}, &ParseError{Input: text, Reason: "unknown chord quality " + strconv.Quote(qualityText)}
	}

	inversion := RootPosition
	if hasBass {
		bassDegree, err := parseBass(text, bass, key)
		if err != nil {
			return Chord{}, err
		}
		switch bassDegree {
		case mod(degree-1+FirstInversion.bassOffset(), 7) + 1:
			inversion = FirstInversion
		case mod(degree-1+SecondInversion.bassOffset(), 7) + 1:
			inversion = SecondInversion
		default:
			return Chord{}, &ParseError{Input: text, Reason: "unsupported slash chord"}
		}
	}
	return Chord{degree: degree, quality: quality, inversion: inversion}, nil
}

func parseHead(text, head string, key *Key) (int, string, error) {
	if note, rest, ok := splitNote(head); ok {
		if key == nil {
			return 0, "", &ParseError{Input: text, Reason: "letter notation needs a key"}
		}
		degree, ok := key.DegreeOf(note)
		if !ok {
			return 0, "", &ParseError{Input: text, Reason: note.String() + " is not in the key of " + key.String()}
		}
		return degree, rest, nil
	}
	for _, n := range numeralsByLength {
		if strings.HasPrefix(head, n.text) {
			return n.degree, head[len(n.text):], nil
		}
		if lower := strings.ToLower(n.text); strings.HasPrefix(head, lower) {
			return n.degree, head[len(lower):], nil
		}
	}
	return 0, "", &ParseError{Input: text, Reason: "missing roman numeral"}
}

func parseBass(text, bass string, key *Key) (int, error) {
	if bass != "" && strings.ContainsRune("+-0123456789", rune(bass[0])) {
		if len(bass) != 1 || bass[0] < '1' || bass[0] > '7' {
			return 0, &ParseError{Input: text, Reason: "bass degree outside 1-7"}
		}
		return int(bass[0] - '0'), nil
	}
	note, err := ParseNote(bass)
	if err != nil {
		return 0, &ParseError{Input: text, Reason: "unresolvable bass " + strconv.Quote(bass)}
	}
	if key == nil {
		return 0, &ParseError{Input: text, Reason: "letter bass needs a key"}
	}
	degree, ok := key.DegreeOf(note)
	if !ok {
		return 0, &ParseError{Input: text, Reason: "bass " + note.String() + " is not in the key of " + key.String()}
	}
	return degree, nil
}

// Ref is anything a successor lookup can start from: a Chord, a KeyedChord
// or Notation text. The set is closed.
type Ref interface {
	resolve(key *Key) (Chord, error)
}

// Notation is chord text to be parsed on lookup.
type Notation string

func (n Notation) resolve(key *Key) (Chord, error) {
	return parse(string(n), key)
}

func (c Chord) resolve(*Key) (Chord, error) {
	if c.IsZero() {
		return Chord{}, invalidArgument("zero chord")
	}
	return c, nil
}

func (kc KeyedChord) resolve(key *Key) (Chord, error) {
	if key == nil {
		return Chord{}, invalidArgument("keyed chord %s given to a keyless lookup", kc)
	}
	if kc.key != *key {
		return Chord{}, invalidArgument("chord %s is in %s, not %s", kc, kc.key, *key)
	}
	return kc.chord, nil
}

// Resolve normalizes ref to a keyless Chord. key may be nil.
func Resolve(ref Ref, key *Key) (Chord, error) {
	if ref == nil {
		return Chord{}, invalidArgument("nil chord reference")
	}
	return ref.resolve(key)
}

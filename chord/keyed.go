package chord

import "strings"

// DefaultOctave is where the root of a root-position chord sits.
const DefaultOctave = 4

// Role names a chord tone by its place in the stack of thirds.
type Role int

const (
	RootTone Role = iota
	ThirdTone
	FifthTone
	SeventhTone
)

func (r Role) String() string {
	return [...]string{"root", "third", "fifth", "seventh"}[r]
}

// Tone is a voiced chord tone.
type Tone struct {
	Role  Role
	Pitch Pitch
}

// KeyedChord is a Chord realized in a key, with an optional octave shift.
type KeyedChord struct {
	key    Key
	chord  Chord
	octave int
}

func NewKeyedChord(key Key, c Chord) KeyedChord {
	return KeyedChord{key: key, chord: c}
}

// BindKey resolves key text before binding c to it.
func BindKey(key string, c Chord) (KeyedChord, error) {
	k, err := ParseKey(key)
	if err != nil {
		return KeyedChord{}, err
	}
	return NewKeyedChord(k, c), nil
}

func (kc KeyedChord) Key() Key              { return kc.key }
func (kc KeyedChord) Chord() Chord          { return kc.chord }
func (kc KeyedChord) Degree() int           { return kc.chord.degree }
func (kc KeyedChord) Quality() Quality      { return kc.chord.quality }
func (kc KeyedChord) Inversion() Inversion  { return kc.chord.inversion }
func (kc KeyedChord) OctaveAdjustment() int { return kc.octave }

// Root is the scale note at the chord's degree.
func (kc KeyedChord) Root() Note {
	return kc.key.Note(kc.chord.degree)
}

// Notes is the pitch set in stacking order (root, third, fifth[, seventh]).
func (kc KeyedChord) Notes() []Note {
	tones := kc.rootPosition()
	res := make([]Note, len(tones))
	for i, t := range tones {
		res[i] = t.Pitch.Note
	}
	return res
}

func (kc KeyedChord) rootPosition() []Tone {
	root := Pitch{Note: kc.Root(), Octave: DefaultOctave}
	recipe := recipes[kc.chord.quality]
	res := make([]Tone, len(recipe))
	for i, iv := range recipe {
		res[i] = Tone{Role: Role(i), Pitch: root.Transpose(iv)}
	}
	return res
}

// Voicing returns the tones lowest first. First inversion lifts the root an
// octave; second inversion drops the fifth (and seventh) an octave.
func (kc KeyedChord) Voicing() []Tone {
	tones := kc.rootPosition()
	var res []Tone
	switch kc.chord.inversion {
	case FirstInversion:
		res = append(res, tones[1:]...)
		res = append(res, Tone{Role: RootTone, Pitch: tones[0].Pitch.ShiftOctaves(1)})
	case SecondInversion:
		for _, t := range tones[2:] {
			res = append(res, Tone{Role: t.Role, Pitch: t.Pitch.ShiftOctaves(-1)})
		}
		res = append(res, tones[:2]...)
	default:
		res = tones
	}
	for i := range res {
		res[i].Pitch = res[i].Pitch.ShiftOctaves(kc.octave)
	}
	return res
}

// Tones returns the voiced tones in role order, the shape a one-track-per-
// voice MIDI writer wants.
func (kc KeyedChord) Tones() []Tone {
	voiced := kc.Voicing()
	res := make([]Tone, len(voiced))
	for _, t := range voiced {
		res[t.Role] = t
	}
	return res
}

// Bass is the lowest voiced pitch.
func (kc KeyedChord) Bass() Pitch {
	return kc.Voicing()[0].Pitch
}

// BassNote is the scale note at the chord's bass degree.
func (kc KeyedChord) BassNote() Note {
	return kc.key.Note(kc.chord.BassDegree())
}

// Name prints letter notation, e.g. "Cmaj" or "Fmaj/C".
func (kc KeyedChord) Name() string {
	name := kc.Root().String() + string(kc.chord.quality)
	if kc.chord.inversion != RootPosition {
		name += "/" + kc.BassNote().String()
	}
	return name
}

func (kc KeyedChord) String() string {
	return kc.Name()
}

// ScientificNotation lists the voiced pitches, e.g. "G3 C4 E4".
func (kc KeyedChord) ScientificNotation() string {
	voiced := kc.Voicing()
	parts := make([]string, len(voiced))
	for i, t := range voiced {
		parts[i] = t.Pitch.String()
	}
	return strings.Join(parts, " ")
}

// WithInversion returns a copy voiced in a different inversion.
func (kc KeyedChord) WithInversion(inv Inversion) (KeyedChord, error) {
	c, err := kc.chord.WithInversion(inv)
	if err != nil {
		return KeyedChord{}, err
	}
	kc.chord = c
	return kc, nil
}

// ShiftOctave returns a copy moved by n octaves.
func (kc KeyedChord) ShiftOctave(n int) KeyedChord {
	kc.octave += n
	return kc
}

package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/mellowchord/chord"
	"github.com/jsphweid/mellowchord/constants"
)

var ErrOutOfRange = errors.New("value outside MIDI range")

// Voice is one track of the written file.
type Voice int

const (
	BassVoice Voice = iota
	RootVoice
	ThirdVoice
	FifthVoice
	SeventhVoice
)

// Voices lists every voice in track order.
var Voices = []Voice{BassVoice, RootVoice, ThirdVoice, FifthVoice, SeventhVoice}

func (v Voice) String() string {
	return [...]string{"bass", "root", "third", "fifth", "seventh"}[v]
}

func voiceOf(r chord.Role) Voice {
	return Voice(r) + RootVoice
}

type Options struct {
	Program  uint8
	Velocity uint8
	// ChordTicks is how long each chord sounds.
	ChordTicks uint32
}

func DefaultOptions() Options {
	return Options{
		Velocity:   constants.DefaultVelocity,
		ChordTicks: constants.ChordTicks,
	}
}

func (o Options) validate() error {
	if o.Program > 127 {
		return fmt.Errorf("program %d: %w", o.Program, ErrOutOfRange)
	}
	if o.Velocity > 127 {
		return fmt.Errorf("velocity %d: %w", o.Velocity, ErrOutOfRange)
	}
	return nil
}

// Build lays chords out on five tracks (bass, root, third, fifth, seventh).
// The bass track doubles the chord's bass note in a low octave; triads
// leave a rest on the seventh track so every track stays in step.
func Build(chords []chord.KeyedChord, opts Options) (*smf.SMF, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.ChordTicks == 0 {
		opts.ChordTicks = constants.ChordTicks
	}

	tracks := make([]smf.Track, len(Voices))
	for _, v := range Voices {
		tracks[v].Add(0, smf.MetaTrackSequenceName(v.String()))
		tracks[v].Add(0, midi.ProgramChange(constants.Channel, opts.Program))
		tracks[v].Add(constants.BufferTicks, allSoundsOff())
	}

	for _, kc := range chords {
		bass := chord.Pitch{Note: kc.BassNote(), Octave: constants.BassOctave}
		if err := addNote(&tracks[BassVoice], bass, opts); err != nil {
			return nil, fmt.Errorf("%s: %w", kc, err)
		}
		tones := kc.Tones()
		for _, tone := range tones {
			if err := addNote(&tracks[voiceOf(tone.Role)], tone.Pitch, opts); err != nil {
				return nil, fmt.Errorf("%s: %w", kc, err)
			}
		}
		if len(tones) < len(Voices)-1 {
			tracks[SeventhVoice].Add(opts.ChordTicks+constants.NoteDelay, midi.NoteOff(constants.Channel, 0))
		}
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)
	for _, tr := range tracks {
		tr.Add(constants.BufferTicks, allSoundsOff())
		tr.Close(0)
		if err := s.Add(tr); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func addNote(tr *smf.Track, p chord.Pitch, opts Options) error {
	key := p.MIDI()
	if key < 0 || key > 127 {
		return fmt.Errorf("note %s: %w", p, ErrOutOfRange)
	}
	tr.Add(constants.NoteDelay, midi.NoteOn(constants.Channel, uint8(key), opts.Velocity))
	tr.Add(opts.ChordTicks, midi.NoteOff(constants.Channel, uint8(key)))
	return nil
}

func allSoundsOff() midi.Message {
	return midi.ControlChange(constants.Channel, constants.AllSoundsOff, 0)
}

// Write encodes chords as a Standard MIDI File.
func Write(w io.Writer, chords []chord.KeyedChord, opts Options) error {
	s, err := Build(chords, opts)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return err
}

// Bytes is Write into memory.
func Bytes(chords []chord.KeyedChord, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, chords, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package chord

import (
	"encoding/json"

	"github.com/jsphweid/mellowchord/model"
)

// Record flattens kc into its persisted form.
func (kc KeyedChord) Record() model.ChordRecord {
	r := model.ChordRecord{
		Degree:           kc.chord.degree,
		Quality:          string(kc.chord.quality),
		OctaveAdjustment: kc.octave,
		Key:              kc.key.String(),
	}
	if kc.chord.inversion != RootPosition {
		inv := int(kc.chord.inversion)
		r.Inversion = &inv
	}
	return r
}

// FromRecord is the inverse of KeyedChord.Record.
func FromRecord(r model.ChordRecord) (KeyedChord, error) {
	key, err := ParseKey(r.Key)
	if err != nil {
		return KeyedChord{}, err
	}
	inv := RootPosition
	if r.Inversion != nil {
		inv = Inversion(*r.Inversion)
	}
	c, err := NewChord(r.Degree, Quality(r.Quality), inv)
	if err != nil {
		return KeyedChord{}, err
	}
	return NewKeyedChord(key, c).ShiftOctave(r.OctaveAdjustment), nil
}

func (kc KeyedChord) MarshalJSON() ([]byte, error) {
	return json.Marshal(kc.Record())
}

func (kc *KeyedChord) UnmarshalJSON(data []byte) error {
	var r model.ChordRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	decoded, err := FromRecord(r)
	if err != nil {
		return err
	}
	*kc = decoded
	return nil
}

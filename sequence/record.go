package sequence

import (
	"fmt"

	"github.com/jsphweid/mellowchord/chord"
	"github.com/jsphweid/mellowchord/model"
)

// Encode flattens p into its persisted form. key is only consulted when p
// is empty.
func Encode(key chord.Key, p Progression) model.ProgressionRecord {
	if len(p) > 0 {
		key = p[0].Key()
	}
	r := model.ProgressionRecord{Key: key.String(), Seq: make([]model.ChordRecord, len(p))}
	for i, kc := range p {
		r.Seq[i] = kc.Record()
	}
	return r
}

// Decode is the inverse of Encode. Every chord must be in the record's key.
func Decode(r model.ProgressionRecord) (Progression, error) {
	key, err := chord.ParseKey(r.Key)
	if err != nil {
		return nil, err
	}
	p := make(Progression, len(r.Seq))
	for i, cr := range r.Seq {
		kc, err := chord.FromRecord(cr)
		if err != nil {
			return nil, fmt.Errorf("chord %d: %w", i, err)
		}
		if kc.Key() != key {
			return nil, fmt.Errorf("%w: chord %d is in %s, progression is in %s",
				chord.ErrInvalidArgument, i, kc.Key(), key)
		}
		p[i] = kc
	}
	return p, nil
}

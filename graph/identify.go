package graph

import (
	"fmt"

	"github.com/jsphweid/mellowchord/chord"
)

// Identify finds the member chord sounded by a set of MIDI keys. Octaves
// and doublings are ignored but the lowest key must be the chord's bass,
// so C-E-G and E-G-C name different chords.
func (g *Graph) Identify(keys []uint8) (chord.KeyedChord, error) {
	if g.key == nil {
		return chord.KeyedChord{}, ErrKeyless
	}
	if len(keys) == 0 {
		return chord.KeyedChord{}, fmt.Errorf("%w: no notes held", chord.ErrInvalidArgument)
	}

	bass := keys[0]
	held := make(map[int]bool)
	for _, k := range keys {
		if k < bass {
			bass = k
		}
		held[int(k)%12] = true
	}

	for _, c := range g.Chords() {
		kc := chord.NewKeyedChord(*g.key, c)
		if kc.BassNote().PitchClass() != int(bass)%12 {
			continue
		}
		if samePitchClasses(kc.Notes(), held) {
			return kc, nil
		}
	}
	return chord.KeyedChord{}, fmt.Errorf("%w: keys %v", ErrChordNotInGraph, keys)
}

func samePitchClasses(notes []chord.Note, held map[int]bool) bool {
	seen := make(map[int]bool, len(notes))
	for _, n := range notes {
		if !held[n.PitchClass()] {
			return false
		}
		seen[n.PitchClass()] = true
	}
	return len(seen) == len(held)
}

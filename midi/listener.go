package midi

import (
	"fmt"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Held tracks which keys are currently down. Safe for concurrent use.
type Held struct {
	mu   sync.Mutex
	keys map[uint8]bool
}

func NewHeld() *Held {
	return &Held{keys: make(map[uint8]bool)}
}

// Handle applies one message and reports whether the held set changed.
func (h *Held) Handle(msg midi.Message) bool {
	var ch, key, vel uint8
	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		if h.keys[key] {
			return false
		}
		h.keys[key] = true
		return true
	case msg.GetNoteEnd(&ch, &key):
		if !h.keys[key] {
			return false
		}
		delete(h.keys, key)
		return true
	}
	return false
}

// Keys is the sorted held set.
func (h *Held) Keys() []uint8 {
	h.mu.Lock()
	defer h.mu.Unlock()
	keys := maps.Keys(h.keys)
	slices.Sort(keys)
	return keys
}

// Listen feeds input port n into held, calling onChange whenever the held
// set changes. The returned stop func closes the listener.
func Listen(n int, held *Held, onChange func()) (stop func(), err error) {
	in, err := midi.InPort(n)
	if err != nil {
		return nil, fmt.Errorf("opening midi input %d: %w", n, err)
	}
	stop, err = midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		if held.Handle(msg) {
			onChange()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("listening to midi input %d: %w", n, err)
	}
	return stop, nil
}

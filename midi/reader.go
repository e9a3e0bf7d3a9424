package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadFile(path string) (*smf.SMF, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}
	return Read(bytes.NewReader(dat))
}

func Read(r io.Reader) (s *smf.SMF, e error) {
	// smf panics on some malformed input
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			s = nil
			e = fmt.Errorf("parsing midi file: %v", rec)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("parsing midi file: %w", err)
	}
	return res, nil
}

// Note is a sounded note recovered from a file.
type Note struct {
	Key      uint8
	Velocity uint8
	Start    time.Duration
	Length   time.Duration
}

type TrackSummary struct {
	Name  string
	Notes []Note
}

type Summary struct {
	Tracks   []TrackSummary
	Duration time.Duration
}

var ErrUnterminatedNote = errors.New("note-on without note-off")

// Summarize pairs note-ons with note-offs per track. Zero-velocity
// note-ons count as note-offs.
func Summarize(s *smf.SMF) (Summary, error) {
	var res Summary
	for i, track := range s.Tracks {
		ts := TrackSummary{Name: fmt.Sprintf("track %d", i)}
		open := make(map[uint8]Note)
		var absTicks int64
		for _, evt := range track {
			absTicks += int64(evt.Delta)
			at := time.Duration(s.TimeAt(absTicks)) * time.Microsecond
			if at > res.Duration {
				res.Duration = at
			}

			if name, ok := trackName(evt.Message); ok {
				ts.Name = name
				continue
			}
			msg := midi.Message(evt.Message)
			var channel, key, velocity uint8
			switch {
			case msg.GetNoteStart(&channel, &key, &velocity):
				open[key] = Note{Key: key, Velocity: velocity, Start: at}
			case msg.GetNoteEnd(&channel, &key):
				n, ok := open[key]
				if !ok {
					// rests are bare note-offs
					continue
				}
				n.Length = at - n.Start
				ts.Notes = append(ts.Notes, n)
				delete(open, key)
			}
		}
		if len(open) > 0 {
			return Summary{}, fmt.Errorf("%s: %w", ts.Name, ErrUnterminatedNote)
		}
		res.Tracks = append(res.Tracks, ts)
	}
	return res, nil
}

// trackName reads a sequence/track name meta event with a one-byte length.
func trackName(msg []byte) (string, bool) {
	if len(msg) < 3 || msg[0] != 0xFF || msg[1] != 0x03 || msg[2] > 0x7F {
		return "", false
	}
	n := int(msg[2])
	if len(msg) < 3+n {
		return "", false
	}
	return string(msg[3 : 3+n]), true
}

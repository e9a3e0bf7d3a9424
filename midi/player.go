package midi

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/mellowchord/constants"
)

// Sender delivers one message to an output.
type Sender func(msg midi.Message) error

// OpenPort opens an output port on the registered driver. The caller must
// blank-import a driver (e.g. rtmididrv) and call CloseDriver when done.
func OpenPort(n int) (Sender, error) {
	out, err := midi.OutPort(n)
	if err != nil {
		return nil, fmt.Errorf("opening midi port %d: %w", n, err)
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("opening midi port %d: %w", n, err)
	}
	return send, nil
}

func CloseDriver() {
	midi.CloseDriver()
}

type scheduled struct {
	at  time.Duration
	msg midi.Message
}

// schedule merges every track into one time-ordered list of channel
// messages. Meta events are dropped.
func schedule(s *smf.SMF) []scheduled {
	var res []scheduled
	for _, track := range s.Tracks {
		var absTicks int64
		for _, evt := range track {
			absTicks += int64(evt.Delta)
			if len(evt.Message) == 0 || evt.Message[0] == 0xFF {
				continue
			}
			res = append(res, scheduled{
				at:  time.Duration(s.TimeAt(absTicks)) * time.Microsecond,
				msg: midi.Message(evt.Message),
			})
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].at < res[j].at
	})
	return res
}

// Play sends s in real time. Cancelling ctx stops playback and silences
// the output.
func Play(ctx context.Context, send Sender, s *smf.SMF) error {
	defer send(midi.ControlChange(constants.Channel, constants.AllSoundsOff, 0))

	start := time.Now()
	for _, ev := range schedule(s) {
		if wait := ev.at - time.Since(start); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if err := send(ev.msg); err != nil {
			return err
		}
	}
	return nil
}

package constants

import (
	"os"
	"path/filepath"
)

func GetConfigPath() string {
	path := os.Getenv("MELLOWCHORD_CONFIG")
	if path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ConfigFileName
	}
	return filepath.Join(home, ConfigFileName)
}

func GetWorkingDir() string {
	path := os.Getenv("MELLOWCHORD_WORKING_DIR")
	if path != "" {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

const ConfigFileName = ".mellowchord.yaml"

const EnvPrefix = "MELLOWCHORD_"

// MIDI file layout. One track per voice, all on one channel.
const (
	TicksPerQuarter = 480
	// BufferTicks pads each track's start and end with an all-sounds-off.
	BufferTicks = 500
	// NoteDelay separates a chord's note-on from the previous note-off.
	NoteDelay       = 5
	ChordTicks      = 1000
	BassOctave      = 2
	DefaultVelocity = 64
	Channel         = 0
	AllSoundsOff    = 120
)

const MidiExt = ".mid"

const JSONExt = ".json"

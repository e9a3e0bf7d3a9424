package file

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/mellowchord/constants"
	"github.com/jsphweid/mellowchord/midi"
	"github.com/jsphweid/mellowchord/model"
	"github.com/jsphweid/mellowchord/sequence"
)

func MidiPath(dir string, p sequence.Progression) string {
	return filepath.Join(dir, p.Slug()+constants.MidiExt)
}

func JSONPath(dir string, p sequence.Progression) string {
	return filepath.Join(dir, p.Slug()+constants.JSONExt)
}

// WriteMidi writes p into dir and returns the file's path.
func WriteMidi(dir string, p sequence.Progression, opts midi.Options) (string, error) {
	data, err := midi.Bytes(p, opts)
	if err != nil {
		return "", err
	}
	path := MidiPath(dir, p)
	return path, write(path, data)
}

// WriteJSON saves p in its persisted record form.
func WriteJSON(dir string, p sequence.Progression) (string, error) {
	if len(p) == 0 {
		return "", fmt.Errorf("can't save an empty progression")
	}
	data, err := json.MarshalIndent(sequence.Encode(p[0].Key(), p), "", "  ")
	if err != nil {
		return "", err
	}
	path := JSONPath(dir, p)
	return path, write(path, data)
}

func ReadJSON(path string) (sequence.Progression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r model.ProgressionRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return sequence.Decode(r)
}

func write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GatherMidiPaths lists .mid/.midi files under root, stopping at limit when
// limit > 0.
func GatherMidiPaths(root string, limit int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(s, ".mid") || strings.HasSuffix(s, ".midi") {
			if limit == 0 || len(res) < limit {
				res = append(res, s)
			}
		}
		return nil
	}
	if err := filepath.WalkDir(root, walk); err != nil {
		return nil, err
	}
	return res, nil
}

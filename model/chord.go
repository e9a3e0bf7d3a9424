package model

// ChordRecord is the flat persisted form of a key-bound chord.
// Inversion is nil for root position.
type ChordRecord struct {
	Degree           int    `json:"degree" dynamodbav:"degree"`
	Quality          string `json:"quality" dynamodbav:"quality"`
	Inversion        *int   `json:"inversion" dynamodbav:"inversion"`
	OctaveAdjustment int    `json:"octave_adjustment" dynamodbav:"octave_adjustment"`
	Key              string `json:"key" dynamodbav:"key"`
}

type ProgressionRecord struct {
	Key string        `json:"key" dynamodbav:"key"`
	Seq []ChordRecord `json:"seq" dynamodbav:"seq"`
}

// SavedProgression is a ProgressionRecord as kept by a store.
type SavedProgression struct {
	ID        string `json:"id" dynamodbav:"PK"`
	CreatedAt int64  `json:"created_at" dynamodbav:"CreatedAt"`
	ProgressionRecord
}

package model

type ChordListResponse struct {
	Key    string   `json:"key"`
	Chords []string `json:"chords"`
}

type SuccessorsResponse struct {
	Key        string   `json:"key"`
	Chord      string   `json:"chord"`
	Successors []string `json:"successors"`
}

type CreateSessionRequest struct {
	Key    string `json:"key"`
	Start  string `json:"start"`
	Length int    `json:"length"`
}

type CreateSessionResponse struct {
	ID string `json:"id"`
}

type ProgressionPage struct {
	Progressions []ProgressionRecord `json:"progressions"`
	Done         bool                `json:"done"`
}

type SaveProgressionResponse struct {
	ID string `json:"id"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

// Package server exposes the chord graph, paged progression enumeration
// and saved progressions over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/jsphweid/mellowchord/chord"
	"github.com/jsphweid/mellowchord/db"
	"github.com/jsphweid/mellowchord/graph"
	"github.com/jsphweid/mellowchord/midi"
	"github.com/jsphweid/mellowchord/model"
	"github.com/jsphweid/mellowchord/sequence"
	"github.com/jsphweid/mellowchord/util"
)

var (
	errBadRequest = errors.New("bad request")
	errNoSession  = errors.New("session not found")
)

type Options struct {
	// PageSize is the default and maximum count for /sessions/{id}/next
	PageSize int
	// MaxLength is the longest progression a session may enumerate
	MaxLength      int
	IdleTimeout    time.Duration
	AllowedOrigins []string
	Midi           midi.Options
}

type Server struct {
	store   db.Store
	opts    Options
	logger  *slog.Logger
	handler http.Handler

	mu       sync.Mutex
	sessions map[string]*session
}

func New(store db.Store, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		store:    store,
		opts:     opts,
		logger:   logger,
		sessions: make(map[string]*session),
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/keys/{key}/chords", s.handleChords).Methods("GET")
	router.HandleFunc("/keys/{key}/successors", s.handleSuccessors).Methods("GET")
	router.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	router.HandleFunc("/sessions/{id}/next", s.handleNext).Methods("GET")
	router.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")
	router.HandleFunc("/progressions", s.handleSaveProgression).Methods("POST")
	router.HandleFunc("/progressions/{id}", s.handleGetProgression).Methods("GET")
	router.HandleFunc("/progressions/{id}", s.handleDeleteProgression).Methods("DELETE")
	router.HandleFunc("/progressions/{id}/midi", s.handleProgressionMidi).Methods("GET")

	s.handler = cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	}).Handler(router)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func keyedGraph(r *http.Request) (*graph.Graph, chord.Key, error) {
	text := mux.Vars(r)["key"]
	key, err := chord.ParseKey(text)
	if err != nil {
		return nil, chord.Key{}, fmt.Errorf("invalid key %q: %w", text, err)
	}
	return graph.ForKey(key), key, nil
}

func (s *Server) handleChords(w http.ResponseWriter, r *http.Request) {
	g, key, err := keyedGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ChordListResponse{Key: key.String(), Chords: g.ChordNames()})
}

// handleSuccessors takes the chord as a query parameter since names like
// Fmaj/C contain a slash.
func (s *Server) handleSuccessors(w http.ResponseWriter, r *http.Request) {
	g, key, err := keyedGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	name := q.Get("chord")
	if name == "" {
		s.writeError(w, r, fmt.Errorf("%w: chord is required", errBadRequest))
		return
	}
	all := q.Get("all") == "true"

	next, err := g.KeyedSuccessors(chord.Notation(name), all)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SuccessorsResponse{
		Key:        key.String(),
		Chord:      name,
		Successors: sequence.Progression(next).Names(),
	})
}

func (s *Server) handleSaveProgression(w http.ResponseWriter, r *http.Request) {
	var input model.ProgressionRecord
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: could not decode request body: %v", errBadRequest, err))
		return
	}
	p, err := sequence.Decode(input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(p) == 0 {
		s.writeError(w, r, fmt.Errorf("%w: empty progression", errBadRequest))
		return
	}

	saved, err := s.store.Put(r.Context(), sequence.Encode(p[0].Key(), p))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Saved progression", "id", saved.ID, "progression", p.String())
	writeJSON(w, http.StatusCreated, model.SaveProgressionResponse{ID: saved.ID})
}

func (s *Server) handleGetProgression(w http.ResponseWriter, r *http.Request) {
	saved, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteProgression(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProgressionMidi(w http.ResponseWriter, r *http.Request) {
	saved, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := sequence.Decode(saved.ProgressionRecord)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := midi.Bytes(p, s.opts.Midi)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Slug()+".mid"))
	w.Write(data)
}

// pageSize reads ?count, clamped to 1..PageSize.
func (s *Server) pageSize(r *http.Request) (int, error) {
	text := r.URL.Query().Get("count")
	if text == "" {
		return s.opts.PageSize, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: count must be a number", errBadRequest)
	}
	return util.Clamp(n, 1, s.opts.PageSize), nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, chord.ErrParse),
		errors.Is(err, chord.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrNotFound), errors.Is(err, errNoSession):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("Rejected request", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

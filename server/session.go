package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/jsphweid/mellowchord/chord"
	"github.com/jsphweid/mellowchord/graph"
	"github.com/jsphweid/mellowchord/model"
	"github.com/jsphweid/mellowchord/sequence"
)

// session is one paged enumeration. Each access pushes its expiry back by
// the idle timeout.
type session struct {
	mu    sync.Mutex
	enum  *sequence.Enumerator
	touch func(f func())
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var input model.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: could not decode request body: %v", errBadRequest, err))
		return
	}
	if input.Length > s.opts.MaxLength {
		s.writeError(w, r, fmt.Errorf("%w: length must be at most %d, got %d", errBadRequest, s.opts.MaxLength, input.Length))
		return
	}
	key, err := chord.ParseKey(input.Key)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("invalid key %q: %w", input.Key, err))
		return
	}
	e, err := sequence.New(graph.ForKey(key), input.Start, input.Length)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := uuid.NewString()
	sess := &session{enum: e, touch: debounce.New(s.opts.IdleTimeout)}
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	sess.touch(func() { s.expire(id) })

	s.logger.Debug("Opened session", "id", id, "key", key.String(), "start", e.Start(), "length", e.Length())
	writeJSON(w, http.StatusCreated, model.CreateSessionResponse{ID: id})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, ok := s.session(id)
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: %s", errNoSession, id))
		return
	}
	n, err := s.pageSize(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.touch(func() { s.expire(id) })

	sess.mu.Lock()
	page := sess.enum.Take(n)
	done, err := sess.enum.Done(), sess.enum.Err()
	sess.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res := model.ProgressionPage{Progressions: make([]model.ProgressionRecord, len(page)), Done: done}
	for i, p := range page {
		res.Progressions[i] = sequence.Encode(sess.enum.Key(), p)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.drop(id) {
		s.writeError(w, r, fmt.Errorf("%w: %s", errNoSession, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Server) drop(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *Server) expire(id string) {
	if s.drop(id) {
		s.logger.Debug("Expired idle session", "id", id)
	}
}

// Sessions is the number of open enumeration sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close drops every session.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.touch(func() {})
		delete(s.sessions, id)
	}
}

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/mellowchord/chord"
	"github.com/jsphweid/mellowchord/db"
	"github.com/jsphweid/mellowchord/midi"
	"github.com/jsphweid/mellowchord/model"
	"github.com/jsphweid/mellowchord/sequence"
)

func newTestServer(t *testing.T, idle time.Duration) *Server {
	t.Helper()
	s := New(db.NewMemoryStore(), Options{
		PageSize:       5,
		MaxLength:      8,
		IdleTimeout:    idle,
		AllowedOrigins: []string{"http://localhost:3000"},
		Midi:           midi.DefaultOptions(),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func record(t *testing.T, key string, names ...string) model.ProgressionRecord {
	t.Helper()
	k := chord.MustParseKey(key)
	var p sequence.Progression
	for _, n := range names {
		kc, err := chord.ParseKeyedChord(n, k)
		require.NoError(t, err)
		p = append(p, kc)
	}
	return sequence.Encode(k, p)
}

func TestChords(t *testing.T) {
	s := newTestServer(t, time.Minute)

	rec := do(t, s, "GET", "/keys/C/chords", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	res := decode[model.ChordListResponse](t, rec)
	assert.Equal(t, "C", res.Key)
	assert.Contains(t, res.Chords, "Cmaj")
	assert.Contains(t, res.Chords, "Fmaj/C")

	rec = do(t, s, "GET", "/keys/H/chords", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode[model.ErrorResponse](t, rec).Error)
}

func TestSuccessors(t *testing.T) {
	s := newTestServer(t, time.Minute)

	tests := []struct {
		name   string
		target string
		status int
		want   []string
	}{
		{"tonic", "/keys/C/successors?chord=Cmaj", http.StatusOK, []string{"Fmaj/C", "Gmaj/D", "Fmaj"}},
		{"slash chord", "/keys/C/successors?chord=Fmaj%2FC", http.StatusOK, []string{"Cmaj"}},
		{"missing chord", "/keys/C/successors", http.StatusBadRequest, nil},
		{"unparseable chord", "/keys/C/successors?chord=Xmaj", http.StatusBadRequest, nil},
		{"bad key", "/keys/Q/successors?chord=Cmaj", http.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, "GET", tt.target, nil)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.want != nil {
				assert.Equal(t, tt.want, decode[model.SuccessorsResponse](t, rec).Successors)
			}
		})
	}
}

func TestSessionPaging(t *testing.T) {
	s := newTestServer(t, time.Minute)

	rec := do(t, s, "POST", "/sessions", model.CreateSessionRequest{Key: "C", Start: "Cmaj", Length: 3})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[model.CreateSessionResponse](t, rec).ID
	require.NotEmpty(t, id)

	var all []string
	for i := 0; i < 5; i++ {
		rec = do(t, s, "GET", "/sessions/"+id+"/next?count=4", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		page := decode[model.ProgressionPage](t, rec)
		for _, r := range page.Progressions {
			p, err := sequence.Decode(r)
			require.NoError(t, err)
			require.Len(t, p, 3)
			assert.Equal(t, "Cmaj", p[0].Name())
			all = append(all, p.String())
		}
		if page.Done {
			break
		}
	}
	assert.Len(t, all, 10)
	assert.Len(t, uniq(all), 10)

	rec = do(t, s, "DELETE", "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, "GET", "/sessions/"+id+"/next", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, s, "DELETE", "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func uniq(items []string) map[string]bool {
	res := make(map[string]bool)
	for _, i := range items {
		res[i] = true
	}
	return res
}

func TestSessionCount(t *testing.T) {
	s := newTestServer(t, time.Minute)
	rec := do(t, s, "POST", "/sessions", model.CreateSessionRequest{Key: "C", Start: "Cmaj", Length: 3})
	id := decode[model.CreateSessionResponse](t, rec).ID

	tests := []struct {
		query  string
		status int
		n      int
	}{
		{"?count=0", http.StatusOK, 1},
		{"?count=99", http.StatusOK, 5},
		{"", http.StatusOK, 4},
		{"?count=many", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, s, "GET", "/sessions/"+id+"/next"+tt.query, nil)
			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Len(t, decode[model.ProgressionPage](t, rec).Progressions, tt.n)
			}
		})
	}
}

func TestCreateSessionErrors(t *testing.T) {
	s := newTestServer(t, time.Minute)

	tests := []struct {
		name string
		body any
	}{
		{"bad key", model.CreateSessionRequest{Key: "Z", Start: "Cmaj", Length: 3}},
		{"start not in graph", model.CreateSessionRequest{Key: "C", Start: "Cmin", Length: 3}},
		{"zero length", model.CreateSessionRequest{Key: "C", Start: "Cmaj", Length: 0}},
		{"too long", model.CreateSessionRequest{Key: "C", Start: "Cmaj", Length: 3_000_000}},
		{"one past max", model.CreateSessionRequest{Key: "C", Start: "Cmaj", Length: 9}},
		{"not json", "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, "POST", "/sessions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
	assert.Zero(t, s.Sessions())
}

func TestSessionExpires(t *testing.T) {
	s := newTestServer(t, 20*time.Millisecond)
	rec := do(t, s, "POST", "/sessions", model.CreateSessionRequest{Key: "C", Start: "Cmaj", Length: 2})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, s.Sessions())
	assert.Eventually(t, func() bool { return s.Sessions() == 0 }, time.Second, 5*time.Millisecond)
}

func TestProgressions(t *testing.T) {
	s := newTestServer(t, time.Minute)

	rec := do(t, s, "POST", "/progressions", record(t, "C", "Cmaj", "Fmaj/C", "Cmaj"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[model.SaveProgressionResponse](t, rec).ID

	rec = do(t, s, "GET", "/progressions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	saved := decode[model.SavedProgression](t, rec)
	assert.Equal(t, id, saved.ID)
	assert.Equal(t, "C", saved.Key)
	assert.Len(t, saved.Seq, 3)

	rec = do(t, s, "GET", "/progressions/"+id+"/midi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/midi", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Cmaj_Fmaj-C_Cmaj.mid")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "MThd"))

	rec = do(t, s, "DELETE", "/progressions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	for _, target := range []string{"/progressions/" + id, "/progressions/missing/midi"} {
		rec = do(t, s, "GET", target, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
	rec = do(t, s, "DELETE", "/progressions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveProgressionErrors(t *testing.T) {
	s := newTestServer(t, time.Minute)

	mixed := record(t, "C", "Cmaj", "Gmaj")
	mixed.Seq[1].Key = "G"

	tests := []struct {
		name string
		body any
	}{
		{"empty", model.ProgressionRecord{Key: "C"}},
		{"mixed keys", mixed},
		{"bad key", model.ProgressionRecord{Key: "X"}},
		{"not json", 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, "POST", "/progressions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, time.Minute)

	req := httptest.NewRequest("GET", "/keys/C/chords", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/keys/C/chords", nil)
	req.Header.Set("Origin", "http://elsewhere.example")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// Package synthtest provides an in-process stand-in for the generation
// service. Tests use it through httptest; `datasynth --dev` serves it on a
// local port.
package synthtest

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/spektr-org/datasynth/schema"
)

// MaxColumns caps suggested fields, matching max_columns on the real service.
const MaxColumns = 6

// Shape selects how POST /generate wraps its rows.
type Shape int

const (
	ShapeArray   Shape = iota // [ {...}, ... ]
	ShapeWrapped              // {"rows": [ {...}, ... ]}
)

// RecordedRequest is one request received by the Service.
type RecordedRequest struct {
	Method      string
	Path        string
	Query       string
	Body        []byte
	ContentType string
}

// Service is a fake remote service. The zero value is not usable; call New.
type Service struct {
	router chi.Router

	mu       sync.Mutex
	requests []*RecordedRequest
	failures map[string]int // path → status to return instead of success
	shape    Shape
	rawBody  map[string][]byte
	gate     chan struct{}
}

// New creates a Service with all routes mounted.
func New() *Service {
	s := &Service{
		failures: make(map[string]int),
		rawBody:  make(map[string][]byte),
	}

	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.record)
	r.Use(s.intercept)

	r.Post("/suggest-schema", s.handleSuggest)
	r.Post("/suggest-schema-web", s.handleSuggest)
	r.Post("/generate", s.handleGenerate)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Service) Handler() http.Handler { return s.router }

// TestingT matches *testing.T and *testing.B.
type TestingT interface {
	Cleanup(func())
	Helper()
}

// NewServer starts a Service on an httptest server that is closed when
// the test ends.
func NewServer(t TestingT) (*Service, *httptest.Server) {
	t.Helper()
	s := New()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Release()
		srv.Close()
	})
	return s, srv
}

// ============================================================================
// SCENARIO SWITCHES
// ============================================================================

// FailWith makes requests to path answer with status.
func (s *Service) FailWith(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// RespondRaw makes requests to path answer 200 with body verbatim.
func (s *Service) RespondRaw(path string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawBody[path] = body
}

// SetShape selects the /generate response shape.
func (s *Service) SetShape(shape Shape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shape = shape
}

// Hold makes every subsequent request block until Release is called.
func (s *Service) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate == nil {
		s.gate = make(chan struct{})
	}
}

// Release unblocks held requests. Safe to call when nothing is held.
func (s *Service) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate != nil {
		close(s.gate)
		s.gate = nil
	}
}

// Reset clears recorded requests and all scenario switches.
func (s *Service) Reset() {
	s.Release()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.failures = make(map[string]int)
	s.rawBody = make(map[string][]byte)
	s.shape = ShapeArray
}

// ============================================================================
// RECORDED REQUESTS
// ============================================================================

// Requests returns all recorded requests.
func (s *Service) Requests() []*RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*RecordedRequest{}, s.requests...)
}

// RequestCount returns the number of recorded requests.
func (s *Service) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// LastRequest returns the most recent request, or nil if none.
func (s *Service) LastRequest() *RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

// ============================================================================
// MIDDLEWARE
// ============================================================================

func (s *Service) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, &RecordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			Body:        body,
			ContentType: r.Header.Get("Content-Type"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// intercept applies Hold, FailWith and RespondRaw before routing.
func (s *Service) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		gate := s.gate
		status, fail := s.failures[r.URL.Path]
		raw, hasRaw := s.rawBody[r.URL.Path]
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		if fail {
			writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
			return
		}
		if hasRaw {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(raw)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// requestLogger logs every request with method, path, status and latency.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		log.Debug().
			Str("component", "synthtest").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Dur("latency", time.Since(start)).
			Msg("request")
	})
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Service) handleSuggest(w http.ResponseWriter, r *http.Request) {
	description := r.URL.Query().Get("description")
	fields, reasoning := suggestFields(description, MaxColumns)

	type field struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	out := make([]field, len(fields))
	for i, f := range fields {
		out[i] = field{Name: f.Name, Description: f.Description}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fields":           out,
		"global_reasoning": reasoning,
	})
}

type generateBody struct {
	Description string         `json:"description"`
	Country     string         `json:"country"`
	Rows        int            `json:"rows"`
	Fields      []schema.Field `json:"fields"`
}

func (s *Service) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	if req.Rows <= 0 {
		req.Rows = 20
	}

	rows := Rows(req.Description, req.Country, req.Fields, req.Rows)

	s.mu.Lock()
	shape := s.shape
	s.mu.Unlock()

	if shape == ShapeWrapped {
		writeRaw(w, http.StatusOK, []byte(`{"rows":`+string(rows)+`}`))
		return
	}
	writeRaw(w, http.StatusOK, rows)
}

// Rows renders n synthetic rows as a JSON array. Keys appear in field
// order; fields with an empty name are skipped.
func Rows(description, region string, fields []schema.Field, n int) []byte {
	rng := rand.New(rand.NewSource(seedFor(description, region)))

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		first := true
		for _, f := range fields {
			if f.Name == "" {
				continue
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			k, _ := json.Marshal(f.Name)
			v, _ := json.Marshal(synthValue(rng, f.Name, region, i))
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/theirongolddev/cashflow/internal/dataset"
	"github.com/theirongolddev/cashflow/internal/model"
	"github.com/theirongolddev/cashflow/internal/pipeline"
)

// Handler returns the HTTP routes with request logging.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/scenarios", s.handleScenarios)
	mux.HandleFunc("GET /v1/view", s.handleView)
	mux.HandleFunc("POST /v1/view", s.handleView)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return s.logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

// ScenariosResponse is served at /v1/scenarios.
type ScenariosResponse struct {
	Title     string                `json:"title"`
	Source    string                `json:"source,omitempty"`
	Currency  string                `json:"currency,omitempty"`
	Timeline  []string              `json:"timeline"`
	Scenarios []model.ScenarioTotal `json:"scenarios"`
}

func (s *Service) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	ds := s.Dataset()
	meta := ds.Meta()
	writeJSON(w, http.StatusOK, ScenariosResponse{
		Title:     meta.Title,
		Source:    meta.Source,
		Currency:  meta.Currency,
		Timeline:  ds.Timeline(),
		Scenarios: pipeline.Totals(ds.Scenarios()),
	})
}

// ViewRequest is the POST /v1/view body. A null or absent scenarios list
// means the default selection; an empty list means no selection.
type ViewRequest struct {
	Scenarios *[]string `json:"scenarios"`
	Mode      string    `json:"mode"`
}

func (s *Service) handleView(w http.ResponseWriter, r *http.Request) {
	ds := s.Dataset()

	var (
		names   []string
		given   bool
		rawMode string
	)
	if r.Method == http.MethodPost {
		var req ViewRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding request: %v", err))
			return
		}
		if req.Scenarios != nil {
			names, given = *req.Scenarios, true
		}
		rawMode = req.Mode
	} else {
		q := r.URL.Query()
		names, given = q["scenario"]
		rawMode = q.Get("mode")
	}

	mode := s.cfg.DefaultMode
	if rawMode != "" {
		m, err := model.ParseViewMode(rawMode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}

	sel := s.defaultSelection(ds)
	if given {
		sel = model.NewSelection(names...)
	}

	writeJSON(w, http.StatusOK, pipeline.BuildView(ds, sel, mode))
}

func (s *Service) defaultSelection(ds *dataset.Dataset) model.Selection {
	if s.cfg.PinDefaults || len(s.cfg.DefaultScenarios) > 0 {
		return model.NewSelection(s.cfg.DefaultScenarios...)
	}
	return model.NewSelection(ds.Names()...)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send the current dataset immediately.
	writeSSE(w, Event{
		Type:      EventLoaded,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Dataset,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

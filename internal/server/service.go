// Package server exposes the scenario views over HTTP and keeps the dataset
// fresh when it comes from a file or a SQLite store.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/cashflow/internal/dataset"
	"github.com/theirongolddev/cashflow/internal/model"
	"github.com/theirongolddev/cashflow/internal/pipeline"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Config controls the service runtime behavior.
type Config struct {
	Source           pipeline.Source
	DefaultMode      model.ViewMode
	DefaultScenarios []string // empty means every scenario unless PinDefaults
	PinDefaults      bool     // DefaultScenarios was chosen explicitly, even if empty
	Interval         time.Duration
	Addr             string
	EventsBuffer     int
	Logger           zerolog.Logger
}

// Snapshot is a compact dataset summary for status and event payloads.
type Snapshot struct {
	At          time.Time             `json:"at"`
	Origin      string                `json:"origin"`
	Fingerprint string                `json:"fingerprint"`
	Title       string                `json:"title"`
	Periods     int                   `json:"periods"`
	Totals      []model.ScenarioTotal `json:"totals"`
}

// Delta captures what changed between two dataset loads.
type Delta struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Changed []string `json:"changed,omitempty"`
}

func (d Delta) isZero() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Event types.
const (
	EventLoaded       = "dataset_loaded"
	EventChanged      = "dataset_changed"
	EventReloadFailed = "reload_failed"
)

// Event is emitted when the served dataset is loaded, replaced, or fails
// to reload.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
	Error     string    `json:"error,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt         time.Time `json:"started_at"`
	LastReloadAt      time.Time `json:"last_reload_at"`
	ReloadIntervalSec int       `json:"reload_interval_sec"`
	ReloadCount       int64     `json:"reload_count"`
	Origin            string    `json:"origin"`
	Dataset           Snapshot  `json:"dataset"`
	LastError         string    `json:"last_error,omitempty"`
	EventCount        int       `json:"event_count"`
	SubscriberCount   int       `json:"subscriber_count"`
}

// Service provides the HTTP API over one shared, swappable dataset.
type Service struct {
	cfg Config
	log zerolog.Logger

	mu           sync.RWMutex
	ds           *dataset.Dataset
	modTime      time.Time
	snapshot     Snapshot
	startedAt    time.Time
	lastReloadAt time.Time
	reloadCount  int64
	lastError    string
	nextEventID  int64
	events       []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service serving the already-validated initial load.
func New(cfg Config, initial *pipeline.LoadResult) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Interval > 0 && cfg.Interval < time.Second {
		cfg.Interval = time.Second
	}

	now := time.Now()
	s := &Service{
		cfg:          cfg,
		log:          cfg.Logger.With().Str("component", "server").Logger(),
		ds:           initial.Dataset,
		modTime:      initial.ModTime,
		startedAt:    now,
		lastReloadAt: initial.LoadedAt,
		subs:         make(map[int]chan Event),
	}
	s.snapshot = snapshotOf(initial.Dataset, cfg.Source.Origin(), initial.LoadedAt)
	s.nextEventID++
	s.events = append(s.events, Event{
		ID:        s.nextEventID,
		Type:      EventLoaded,
		Timestamp: now,
		Snapshot:  s.snapshot,
	})
	return s
}

// Dataset returns the dataset currently being served.
func (s *Service) Dataset() *dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

// Run serves HTTP and watches the dataset source until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		s.log.Info().Str("addr", s.cfg.Addr).Str("origin", s.cfg.Source.Origin()).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if s.cfg.Interval > 0 && s.cfg.Source.Watchable() {
		g.Go(func() error {
			s.watch(gctx)
			return nil
		})
	}

	return g.Wait()
}

func (s *Service) watch(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reloadOnce()
		}
	}
}

// reloadOnce reloads the source if it may have changed. A failed reload
// keeps serving the previous dataset.
func (s *Service) reloadOnce() {
	s.mu.RLock()
	since := s.modTime
	s.mu.RUnlock()

	if !s.cfg.Source.Changed(since) {
		return
	}

	res, err := pipeline.Load(s.cfg.Source)
	now := time.Now()
	if err != nil {
		s.mu.Lock()
		repeated := s.lastError == err.Error()
		s.lastError = err.Error()
		s.lastReloadAt = now
		s.reloadCount++
		snap := s.snapshot
		var ev Event
		if !repeated {
			s.nextEventID++
			ev = Event{ID: s.nextEventID, Type: EventReloadFailed, Timestamp: now, Snapshot: snap, Error: err.Error()}
		}
		s.mu.Unlock()

		s.log.Error().Err(err).Msg("dataset reload failed, keeping previous dataset")
		if !repeated {
			s.publishEvent(ev)
		}
		return
	}

	snap := snapshotOf(res.Dataset, res.Origin, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	s.modTime = res.ModTime
	s.lastReloadAt = now
	s.reloadCount++
	s.lastError = ""
	if snap.Fingerprint != prev.Fingerprint {
		s.ds = res.Dataset
		s.snapshot = snap
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventChanged,
			Timestamp: now,
			Snapshot:  snap,
			Delta:     diffSnapshots(prev, snap),
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.log.Info().
			Str("fingerprint", snap.Fingerprint).
			Strs("changed", ev.Delta.Changed).
			Msg("dataset reloaded")
		s.publishEvent(ev)
	}
}

func snapshotOf(ds *dataset.Dataset, origin string, at time.Time) Snapshot {
	return Snapshot{
		At:          at,
		Origin:      origin,
		Fingerprint: ds.Fingerprint(),
		Title:       ds.Meta().Title,
		Periods:     len(ds.Timeline()),
		Totals:      pipeline.Totals(ds.Scenarios()),
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	var d Delta
	before := make(map[string]model.ScenarioTotal, len(prev.Totals))
	for _, t := range prev.Totals {
		before[t.Name] = t
	}
	seen := make(map[string]bool, len(curr.Totals))
	for _, t := range curr.Totals {
		seen[t.Name] = true
		old, ok := before[t.Name]
		switch {
		case !ok:
			d.Added = append(d.Added, t.Name)
		case old != t:
			d.Changed = append(d.Changed, t.Name)
		}
	}
	for _, t := range prev.Totals {
		if !seen[t.Name] {
			d.Removed = append(d.Removed, t.Name)
		}
	}
	if d.isZero() && prev.Fingerprint != curr.Fingerprint && len(curr.Totals) > 0 {
		// Same totals, different periods or metadata.
		d.Changed = append(d.Changed, curr.Totals[0].Name)
	}
	return d
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:         s.startedAt,
		LastReloadAt:      s.lastReloadAt,
		ReloadIntervalSec: int(s.cfg.Interval.Seconds()),
		ReloadCount:       s.reloadCount,
		Origin:            s.cfg.Source.Origin(),
		Dataset:           s.snapshot,
		LastError:         s.lastError,
		EventCount:        len(s.events),
		SubscriberCount:   len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/events"
	"github.com/aussiebroadwan/checkin/internal/checkin/metrics"
	"github.com/aussiebroadwan/checkin/internal/checkin/scan"
	"github.com/aussiebroadwan/checkin/internal/checkin/store"
	"github.com/aussiebroadwan/checkin/pkg/idx"
	"github.com/aussiebroadwan/checkin/pkg/slogx"
)

var ErrSessionNotFound = errors.New("scan session not found")

// SessionView is what callers see of a scan session.
type SessionView struct {
	ID         string
	CreatedAt  time.Time
	LastActive time.Time
	Scanned    int
	Snapshot   scan.Snapshot
}

type scanSession struct {
	id         idx.ID
	createdAt  time.Time
	controller *scan.Controller
	guard      *ReplayGuard

	mu         sync.Mutex
	lastActive time.Time
}

func (s *scanSession) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now.UTC()
	s.mu.Unlock()
}

func (s *scanSession) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *scanSession) view() SessionView {
	return SessionView{
		ID:         s.id.String(),
		CreatedAt:  s.createdAt,
		LastActive: s.idleSince(),
		Scanned:    s.guard.Len(),
		Snapshot:   s.controller.Snapshot(),
	}
}

func (s *scanSession) close() {
	_ = s.controller.Close()
	s.guard.Reset()
}

// SessionService hosts scan sessions for stations that push decoded text or
// uploaded images over HTTP. Every session owns its replay guard and
// controller; both are disposed when the session ends or goes idle.
type SessionService struct {
	Store    store.Store
	Logger   *slog.Logger
	Events   events.Publisher  // optional
	Metrics  *metrics.Metrics  // optional
	Images   scan.ImageDecoder // optional
	Cooldown time.Duration

	// IdleTimeout is how long a session may go untouched before it is reaped.
	IdleTimeout time.Duration
	// Interval is how often idle sessions are looked for.
	Interval time.Duration

	mu       sync.Mutex
	sessions map[idx.ID]*scanSession

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSessionService creates a session service with default timings. If
// idleTimeout is 0 or negative, defaults to 30 minutes.
func NewSessionService(st store.Store, logger *slog.Logger, idleTimeout time.Duration) *SessionService {
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Minute
	}

	return &SessionService{
		Store:       st,
		Logger:      logger,
		Cooldown:    scan.DefaultCooldown,
		IdleTimeout: idleTimeout,
		Interval:    time.Minute,
		sessions:    make(map[idx.ID]*scanSession),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Create opens a new scan session already in the Scanning state.
func (s *SessionService) Create(ctx context.Context) (SessionView, error) {
	log := slogx.FromContext(ctx)

	id := idx.New()
	now := time.Now().UTC()
	guard := NewReplayGuard()

	verifier := &AttendanceVerifier{
		Store:     s.Store,
		Guard:     guard,
		Events:    s.Events,
		Metrics:   s.Metrics,
		SessionID: id.String(),
	}

	controller := scan.NewController(scan.Config{
		Verifier: verifier,
		Images:   s.Images,
		Cooldown: s.Cooldown,
		Logger:   s.Logger.With(slog.String("session_id", id.String())),
	})
	if err := controller.Start(ctx); err != nil {
		_ = controller.Close()
		log.Error("failed to start scan session", slog.Any("error", err))
		return SessionView{}, err
	}

	sess := &scanSession{
		id:         id,
		createdAt:  now,
		controller: controller,
		guard:      guard,
		lastActive: now,
	}

	s.mu.Lock()
	s.sessions[id] = sess
	n := len(s.sessions)
	s.mu.Unlock()
	s.Metrics.SetActiveSessions(n)

	log.Info("scan session opened", slog.String("session_id", id.String()))
	return sess.view(), nil
}

// Get returns the current state of a session. Polling keeps a session alive.
func (s *SessionService) Get(_ context.Context, id string) (SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	sess.touch(time.Now())
	return sess.view(), nil
}

// Scan verifies text pushed by a station.
func (s *SessionService) Scan(ctx context.Context, id, text string) (scan.Result, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return scan.Result{}, err
	}
	sess.touch(time.Now())

	ctx = slogx.WithContext(ctx, slogx.FromContext(ctx).With(slog.String("session_id", id)))
	return sess.controller.Scan(ctx, text)
}

// SubmitImage decodes and verifies an uploaded image.
func (s *SessionService) SubmitImage(ctx context.Context, id string, data []byte) (scan.Result, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return scan.Result{}, err
	}
	sess.touch(time.Now())

	ctx = slogx.WithContext(ctx, slogx.FromContext(ctx).With(slog.String("session_id", id)))
	return sess.controller.SubmitImage(ctx, data)
}

// Next skips the cooldown and resumes scanning.
func (s *SessionService) Next(_ context.Context, id string) (SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	sess.touch(time.Now())

	if err := sess.controller.ScanNext(); err != nil {
		return SessionView{}, err
	}
	return sess.view(), nil
}

// Restart clears the displayed result and any alert, then resumes scanning.
// The replay guard is kept: it lives as long as the session.
func (s *SessionService) Restart(ctx context.Context, id string) (SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	sess.touch(time.Now())

	if err := sess.controller.Restart(ctx); err != nil {
		return SessionView{}, err
	}
	return sess.view(), nil
}

// Delete ends a session and disposes of its replay guard.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	parsed, err := idx.Parse(id)
	if err != nil {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	sess, ok := s.sessions[parsed]
	delete(s.sessions, parsed)
	n := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.close()
	s.Metrics.SetActiveSessions(n)

	slogx.FromContext(ctx).Info("scan session closed", slog.String("session_id", id))
	return nil
}

// Len reports the number of open sessions.
func (s *SessionService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ReapIdle closes sessions untouched since before now-IdleTimeout and returns
// how many were closed.
func (s *SessionService) ReapIdle(now time.Time) int {
	cutoff := now.Add(-s.IdleTimeout)

	var idle []*scanSession
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			idle = append(idle, sess)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range idle {
		sess.close()
		s.Logger.Info("reaped idle scan session", slog.String("session_id", sess.id.String()))
	}
	if len(idle) > 0 {
		s.Metrics.SetActiveSessions(n)
	}
	return len(idle)
}

// Start begins the background worker that reaps idle sessions.
// Call Stop() to shut it down.
func (s *SessionService) Start() {
	go s.run()
	s.Logger.Info("scan session reaper started",
		slog.Duration("interval", s.Interval),
		slog.Duration("idle_timeout", s.IdleTimeout),
	)
}

// Stop shuts down the reaper and closes every open session.
// Blocks until the worker has exited.
func (s *SessionService) Stop() {
	close(s.stopCh)
	<-s.doneCh

	s.mu.Lock()
	open := s.sessions
	s.sessions = make(map[idx.ID]*scanSession)
	s.mu.Unlock()

	for _, sess := range open {
		sess.close()
	}
	s.Metrics.SetActiveSessions(0)
	s.Logger.Info("scan session reaper stopped", slog.Int("closed_sessions", len(open)))
}

func (s *SessionService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.ReapIdle(now)
		case <-s.stopCh:
			return
		}
	}
}

func (s *SessionService) lookup(id string) (*scanSession, error) {
	parsed, err := idx.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[parsed]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

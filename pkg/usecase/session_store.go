package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"github.com/secmon-lab/resilio/pkg/utils/metrics"
)

// SessionStoreConfig holds configuration for SessionStore
type SessionStoreConfig struct {
	idleTimeout time.Duration
	clock       func() time.Time
}

// SessionStoreOption is a functional option for configuring SessionStore
type SessionStoreOption func(*SessionStoreConfig)

// WithIdleTimeout sets how long an unobserved session is kept
func WithIdleTimeout(d time.Duration) SessionStoreOption {
	return func(c *SessionStoreConfig) {
		c.idleTimeout = d
	}
}

// WithClock replaces the clock used for the year window and idle expiry
func WithClock(clock func() time.Time) SessionStoreOption {
	return func(c *SessionStoreConfig) {
		c.clock = clock
	}
}

type sessionEntry struct {
	session *Session
	cancel  context.CancelFunc
}

// SessionStore keeps the live statistics page sessions of the web UI
type SessionStore struct {
	loader *Loader
	config SessionStoreConfig

	mu       sync.Mutex
	sessions map[types.SessionID]*sessionEntry
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(loader *Loader, opts ...SessionStoreOption) *SessionStore {
	config := SessionStoreConfig{
		idleTimeout: 10 * time.Minute, // Default value
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &SessionStore{
		loader:   loader,
		config:   config,
		sessions: make(map[types.SessionID]*sessionEntry),
	}
}

// Create starts a session for the statistics page of a workflow. The
// session keeps running after ctx is done, until it is closed or expires.
func (st *SessionStore) Create(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*Session, error) {
	if err := projectID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid project ID", goerr.T(model.ErrTagValidation))
	}
	if err := workflowID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid workflow ID", goerr.T(model.ErrTagValidation))
	}

	now := st.config.clock()
	session := NewSession(types.NewSessionID(), func(navigator *Session) *Page {
		agg := NewAggregator(st.loader, projectID, workflowID)
		return NewPage(agg, navigator, now)
	})
	session.clock = st.config.clock
	session.lastActive = now

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	st.mu.Lock()
	st.sessions[session.ID()] = &sessionEntry{session: session, cancel: cancel}
	st.mu.Unlock()
	metrics.ActiveSessions.Inc()

	go func() {
		if err := session.Run(runCtx); err != nil {
			ctxlog.From(runCtx).Error("session stopped with error",
				"sessionID", session.ID().String(),
				"error", err)
		}
	}()

	ctxlog.From(ctx).Debug("session created",
		"sessionID", session.ID().String(),
		"projectID", projectID,
		"workflowID", workflowID)

	return session, nil
}

// Get returns a live session
func (st *SessionStore) Get(id types.SessionID) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	entry, ok := st.sessions[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrSessionNotFound, "failed to get session", goerr.V("sessionID", id))
	}
	entry.session.touch()
	return entry.session, nil
}

// Close stops and removes a session. Closing an unknown session is a no-op.
func (st *SessionStore) Close(id types.SessionID) {
	st.mu.Lock()
	entry, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		entry.cancel()
		metrics.ActiveSessions.Dec()
	}
}

// Len returns the number of live sessions
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep closes sessions that nobody observes and that have been idle longer
// than the idle timeout. It returns the number of closed sessions.
func (st *SessionStore) Sweep() int {
	deadline := st.config.clock().Add(-st.config.idleTimeout)

	var expired []types.SessionID
	st.mu.Lock()
	for id, entry := range st.sessions {
		lastActive, observed := entry.session.idleSince()
		if !observed && lastActive.Before(deadline) {
			expired = append(expired, id)
		}
	}
	st.mu.Unlock()

	for _, id := range expired {
		st.Close(id)
	}
	return len(expired)
}

// RunJanitor sweeps idle sessions every interval until ctx is cancelled
func (st *SessionStore) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				ctxlog.From(ctx).Debug("expired idle sessions", "count", n)
			}
		}
	}
}

// Shutdown stops every session
func (st *SessionStore) Shutdown() {
	st.mu.Lock()
	entries := st.sessions
	st.sessions = make(map[types.SessionID]*sessionEntry)
	st.mu.Unlock()

	for _, entry := range entries {
		entry.cancel()
		metrics.ActiveSessions.Dec()
	}
}

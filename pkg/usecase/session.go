package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"github.com/secmon-lab/resilio/pkg/utils/async"
)

// sessionQueueSize is the capacity of the event queue of a session
const sessionQueueSize = 64

// Session runs one statistics page. Events are handled one at a time by
// Run; commands execute in the background and post their results back.
// Subscribers are pinged after every handled event and should re-read View.
type Session struct {
	id     types.SessionID
	page   *Page
	events chan Event
	done   chan struct{}

	mu         sync.RWMutex
	view       model.PageView
	clock      func() time.Time
	lastActive time.Time
	listeners  map[chan struct{}]struct{}

	dismissOnce sync.Once
	dismissed   chan struct{}
}

// NewSession creates a session running a page built by newPage. The
// session itself is passed to newPage as the page's navigator: going back
// closes the channel returned by Dismissed.
func NewSession(id types.SessionID, newPage func(navigator *Session) *Page) *Session {
	s := &Session{
		id:         id,
		events:     make(chan Event, sessionQueueSize),
		done:       make(chan struct{}),
		listeners:  make(map[chan struct{}]struct{}),
		dismissed:  make(chan struct{}),
		clock:      time.Now,
		lastActive: time.Now(),
	}
	s.page = newPage(s)
	s.view = s.page.View()
	return s
}

// ID returns the session ID
func (s *Session) ID() types.SessionID {
	return s.id
}

// Run processes events until ctx is cancelled
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)

	logger := ctxlog.From(ctx).With("sessionID", s.id.String())
	ctx = ctxlog.With(ctx, logger)

	s.dispatch(ctx, s.page.Start(ctx))
	s.publish()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-s.events:
			cmds := s.page.Handle(ctx, ev)
			s.publish()
			s.dispatch(ctx, cmds)
		}
	}
}

func (s *Session) dispatch(ctx context.Context, cmds []Command) {
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		async.Go[Event](ctx, "page_command", cmd, func(ev Event) {
			if ev != nil {
				s.Send(ev)
			}
		})
	}
}

// Send enqueues an event. It reports false if the session has stopped.
func (s *Session) Send(ev Event) bool {
	s.touch()
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

// View returns the latest page snapshot
func (s *Session) View() model.PageView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Session) publish() {
	view := s.page.View()

	s.mu.Lock()
	s.view = view
	s.mu.Unlock()

	s.broadcast()
}

// Subscribe returns a channel that receives a ping after every handled event.
// The caller must call Unsubscribe when done.
func (s *Session) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.listeners[ch] = struct{}{}
	s.mu.Unlock()
	s.touch()
	return ch
}

// Unsubscribe removes a listener channel and closes it
func (s *Session) Unsubscribe(ch chan struct{}) {
	s.mu.Lock()
	delete(s.listeners, ch)
	s.mu.Unlock()
	close(ch)
	s.touch()
}

func (s *Session) broadcast() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.listeners {
		select {
		case ch <- struct{}{}:
		default:
			// Channel full, the listener re-reads the latest view anyway
		}
	}
}

// Back implements interfaces.Navigator
func (s *Session) Back(ctx context.Context) error {
	s.dismissOnce.Do(func() {
		ctxlog.From(ctx).Info("statistics page dismissed", "sessionID", s.id.String())
		close(s.dismissed)
	})
	s.broadcast()
	return nil
}

// Dismissed is closed once the page navigated back
func (s *Session) Dismissed() <-chan struct{} {
	return s.dismissed
}

// Done is closed once Run has returned
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.clock()
	s.mu.Unlock()
}

// idleSince reports when the session was last used, and whether anyone
// is still listening to it
func (s *Session) idleSince() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive, len(s.listeners) > 0
}

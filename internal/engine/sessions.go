package engine

import (
	"context"
	"sync"
	"time"

	"github.com/mkhalikov/cryptolocker/internal/crypto"
	"github.com/mkhalikov/cryptolocker/models"
)

// DefaultSessionTTL is how long an in-flight flow survives without input
// before it is discarded together with any partial plaintext.
const DefaultSessionTTL = 5 * time.Minute

// pending holds the data a multi-step flow has collected so far. The
// username collected mid-add is the only secret that has to survive between
// messages; it is held as a byte slice so reset can zero it.
type pending struct {
	name     string
	username []byte
	credID   int64
	credName string
	field    models.CredentialField
}

// session is one user's conversation. The mutex serializes event handling
// for the user, so overlapping updates for the same user are applied in
// arrival order.
type session struct {
	mu        sync.Mutex
	state     State
	pending   pending
	expiresAt time.Time
}

// reset discards the in-flight flow and zeroes any collected secret bytes
// before releasing them.
func (s *session) reset() {
	crypto.Wipe(s.pending.username)
	s.pending = pending{}
	s.state = StateIdle
}

// sessionManager owns all live sessions keyed by user id. Sessions expire
// after ttl without input; expiry resets the flow rather than deleting the
// entry so a locked session is never ripped out from under its holder.
type sessionManager struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[int64]*session
}

func newSessionManager(ttl time.Duration) *sessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessionManager{
		ttl:      ttl,
		sessions: make(map[int64]*session),
	}
}

// acquire returns the user's session with its mutex held, creating it on
// first contact. An expired flow is reset before the session is handed out.
// The caller must call release when done.
func (m *sessionManager) acquire(userID int64) *session {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	if !ok {
		s = &session{state: StateIdle}
		m.sessions[userID] = s
	}
	m.mu.Unlock()

	s.mu.Lock()
	if s.state != StateIdle && time.Now().After(s.expiresAt) {
		s.reset()
	}
	return s
}

// touch extends the session's deadline after handling an event.
func (m *sessionManager) touch(s *session) {
	s.expiresAt = time.Now().Add(m.ttl)
}

func (m *sessionManager) release(s *session) {
	s.mu.Unlock()
}

// sweep resets every expired session so partial secrets do not linger in
// memory until the user happens to come back.
func (m *sessionManager) sweep() {
	m.mu.Lock()
	stale := make([]*session, 0)
	for _, s := range m.sessions {
		stale = append(stale, s)
	}
	m.mu.Unlock()

	now := time.Now()
	for _, s := range stale {
		s.mu.Lock()
		if s.state != StateIdle && now.After(s.expiresAt) {
			s.reset()
		}
		s.mu.Unlock()
	}
}

// run sweeps periodically until ctx is cancelled.
func (m *sessionManager) run(ctx context.Context) {
	interval := m.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

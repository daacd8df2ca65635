package usecase

import (
	"sync"

	"github.com/growwatch/stock-notifier/internal/biz/domain"
)

// SessionRegistry tracks per-user edit sessions in memory. Sessions are
// transient; a restart drops all in-progress flows, which is acceptable
// since every flow restarts cleanly from the main menu.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[int64]*domain.EditSession
}

// NewSessionRegistry creates a new session registry
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[int64]*domain.EditSession)}
}

// Get returns the session for a user, creating an idle one on first use.
func (r *SessionRegistry) Get(userID int64) *domain.EditSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[userID]
	if !ok {
		session = &domain.EditSession{}
		r.sessions[userID] = session
	}
	return session
}

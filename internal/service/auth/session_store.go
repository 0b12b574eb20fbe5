package auth

import (
	"sync"
	"time"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
)

// SessionStore keeps live sessions in memory.
type SessionStore struct {
	sessions map[string]models.Session
	mu       sync.RWMutex
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]models.Session),
	}
}

// Get retrieves a session by id.
func (st *SessionStore) Get(id string) (models.Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

// Put stores or replaces a session.
func (st *SessionStore) Put(sess models.Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[sess.ID] = sess
}

// Touch records activity on a stored session. It never re-adds a session that was
// deleted concurrently.
func (st *SessionStore) Touch(id string, now time.Time) (models.Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if !ok {
		return models.Session{}, false
	}
	sess = sess.Touch(now)
	st.sessions[id] = sess
	return sess, true
}

// Delete removes a session.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// DeleteExpired drops every session expired at now and returns how many were removed.
func (st *SessionStore) DeleteExpired(now time.Time, idle time.Duration) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, sess := range st.sessions {
		if sess.Expired(now, idle) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

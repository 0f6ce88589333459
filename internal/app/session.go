package app

import (
	"maps"
	"slices"
	"sync"

	"github.com/agalitsyn/dailyflow/internal/model"
)

type sessionKey struct {
	chatID int64
	userID int64
}

// session is the per chat and user view state.
type session struct {
	Filters   model.FilterState
	FocusMode bool
	// LastList holds task ids in the order they were last shown, so that
	// "/done 2" refers to what the user sees.
	LastList []string
}

func newSession() *session {
	return &session{Filters: model.NewFilterState()}
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[sessionKey]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[sessionKey]*session)}
}

// Update runs fn with exclusive access to the session, creating it on first use.
func (s *sessionStore) Update(key sessionKey, fn func(sess *session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		sess = newSession()
		s.sessions[key] = sess
	}
	fn(sess)
}

// Snapshot returns a copy of the session that is safe to read without the lock.
func (s *sessionStore) Snapshot(key sessionKey) session {
	var snap session
	s.Update(key, func(sess *session) {
		snap = *sess
		snap.Filters.ActiveCategories = maps.Clone(sess.Filters.ActiveCategories)
		snap.Filters.DifficultyFilter = maps.Clone(sess.Filters.DifficultyFilter)
		snap.LastList = slices.Clone(sess.LastList)
	})
	return snap
}


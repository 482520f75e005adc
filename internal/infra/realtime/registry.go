package realtime

import (
	"sync"

	"emotional-analysis/internal/infra/logger"

	"github.com/sirupsen/logrus"
)

// Registry tracks the set of currently connected observer sessions. It is the
// only structure mutated concurrently by the connection lifecycle and the
// per-broadcast iteration, so all access goes through its lock.
type Registry struct {
	Logger *logger.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(logger *logger.Logger) *Registry {
	return &Registry{
		Logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Register creates a session for the connection and adds it to the live set.
func (r *Registry) Register(conn Conn) *Session {
	s := newSession(conn)

	r.mu.Lock()
	r.sessions[s.id] = s
	count := len(r.sessions)
	r.mu.Unlock()

	r.Logger.Info("observer connected", logrus.Fields{"session_id": s.id, "sessions": count})
	return s
}

// Unregister removes the session and closes its connection. Unknown ids are
// ignored, so a session dropped mid-broadcast and again on disconnect is fine.
func (r *Registry) Unregister(sessionID string) {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	if ok {
		delete(r.sessions, sessionID)
	}
	count := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return
	}
	s.close()
	r.Logger.Info("observer disconnected", logrus.Fields{"session_id": sessionID, "sessions": count})
}

// IsLive reports whether the session is registered and able to receive.
func (r *Registry) IsLive(sessionID string) bool {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	return ok && s.Live()
}

// ForEachLive calls fn for every live session. It iterates a shallow snapshot
// of the live set, so sessions may come and go concurrently; a session that
// dies mid-iteration is skipped at dispatch time and never aborts the walk.
func (r *Registry) ForEachLive(fn func(*Session)) {
	r.mu.RLock()
	snapshot := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		snapshot = append(snapshot, s)
	}
	r.mu.RUnlock()

	for _, s := range snapshot {
		if !s.Live() {
			continue
		}
		fn(s)
	}
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

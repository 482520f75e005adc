package realtime

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ErrSessionClosed is returned by Send once a session has been closed.
var ErrSessionClosed = errors.New("session closed")

// Conn is the transport half of a session. *websocket.Conn satisfies it; tests
// substitute fakes.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Session is one connected observer. The registry owns every session: it is
// created on Register, and closing it anywhere else than Unregister would
// leave the registry holding a dead handle.
type Session struct {
	id   string
	conn Conn

	// writeMu serializes writes; gorilla/websocket allows one concurrent writer.
	writeMu sync.Mutex
	live    atomic.Bool
}

func newSession(conn Conn) *Session {
	s := &Session{id: uuid.NewString(), conn: conn}
	s.live.Store(true)
	return s
}

// ID returns the registry-assigned session identifier.
func (s *Session) ID() string { return s.id }

// Live reports whether the session can still receive messages.
func (s *Session) Live() bool { return s.live.Load() }

// Send writes one JSON message to the observer. Sending on a closed session
// returns ErrSessionClosed without touching the connection.
func (s *Session) Send(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.live.Load() {
		return ErrSessionClosed
	}
	return s.conn.WriteJSON(v)
}

// close marks the session dead and closes the underlying connection exactly once.
func (s *Session) close() {
	if s.live.CompareAndSwap(true, false) {
		s.conn.Close()
	}
}

package session

import (
	"sync/atomic"
	"time"
)

// State is the lifecycle state of a Session. Transitions are performed only
// by the FailoverController; everyone else reads.
type State string

const (
	StateConnecting  State = "connecting"
	StateActive      State = "active"
	StateInterrupted State = "interrupted"
	StateError       State = "error"
	StateClosed      State = "closed"
)

const eventQueueDepth = 256

// Session is one client connection's worth of state: three input channels,
// one output event queue, and the lifecycle state. It is owned by the
// connection handler and destroyed when the client disconnects or a fatal
// error has been fully handled.
type Session struct {
	ID        string
	StartedAt time.Time

	channels *InputChannels
	queue    chan ClientEvent

	state atomic.Value // State
}

// New creates a Session in the connecting state.
func New(id string) *Session {
	s := &Session{
		ID:        id,
		StartedAt: time.Now(),
		channels:  NewInputChannels(),
		queue:     make(chan ClientEvent, eventQueueDepth),
	}
	s.state.Store(StateConnecting)
	return s
}

// Channels returns the session's input channels.
func (s *Session) Channels() *InputChannels { return s.channels }

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state.Load().(State)
}

// setState transitions the lifecycle state. Closed is terminal: once there,
// no further transition happens and setState reports false. Only the
// FailoverController calls this.
func (s *Session) setState(next State) bool {
	if s.State() == StateClosed {
		return false
	}
	s.state.Store(next)
	return true
}

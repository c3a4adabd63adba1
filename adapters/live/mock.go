package live

import (
	"context"
	"io"
	"sync"

	"github.com/lenslive/lens/domain/repositories"
)

// MockDialer is a scripted implementation of LiveDialer for tests and local
// development without upstream credentials.
type MockDialer struct {
	// DialErr, when set, fails every Connect.
	DialErr error

	// Script is handed out to each connected session, one event per Receive.
	Script []repositories.LiveEvent

	// FinalErr ends the script. Nil means a normal io.EOF close.
	FinalErr error

	// HoldOpen keeps Receive blocked after the script instead of closing,
	// like a real connection idling between server messages.
	HoldOpen bool

	mu       sync.Mutex
	sessions []*MockSession
}

// NewMockDialer creates a dialer that replays the given script.
func NewMockDialer(script ...repositories.LiveEvent) *MockDialer {
	return &MockDialer{Script: script}
}

// Connect implements repositories.LiveDialer
func (d *MockDialer) Connect(ctx context.Context, config repositories.LiveConfig) (repositories.LiveSession, error) {
	if d.DialErr != nil {
		return nil, d.DialErr
	}
	s := &MockSession{
		Config:   config,
		script:   d.Script,
		finalErr: d.FinalErr,
		holdOpen: d.HoldOpen,
		closed:   make(chan struct{}),
	}
	d.mu.Lock()
	d.sessions = append(d.sessions, s)
	d.mu.Unlock()
	return s, nil
}

// Sessions returns every session this dialer has handed out.
func (d *MockDialer) Sessions() []*MockSession {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*MockSession(nil), d.sessions...)
}

// MockSession replays a script of events and records everything sent to it.
type MockSession struct {
	Config repositories.LiveConfig

	mu        sync.Mutex
	script    []repositories.LiveEvent
	finalErr  error
	holdOpen  bool
	next      int
	closed    chan struct{}
	closeOnce sync.Once

	SentAudio [][]byte
	SentVideo [][]byte
	SentText  []string
}

// SendAudio implements repositories.LiveSession
func (s *MockSession) SendAudio(pcm []byte, sampleRateHz int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SentAudio = append(s.SentAudio, pcm)
	return nil
}

// SendVideo implements repositories.LiveSession
func (s *MockSession) SendVideo(jpeg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SentVideo = append(s.SentVideo, jpeg)
	return nil
}

// SendText implements repositories.LiveSession
func (s *MockSession) SendText(text string, endOfTurn bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SentText = append(s.SentText, text)
	return nil
}

// Receive replays the script, then delivers the final error or io.EOF. With
// holdOpen it blocks until Close first.
func (s *MockSession) Receive() (repositories.LiveEvent, error) {
	s.mu.Lock()
	if s.next < len(s.script) {
		ev := s.script[s.next]
		s.next++
		s.mu.Unlock()
		return ev, nil
	}
	finalErr := s.finalErr
	holdOpen := s.holdOpen
	s.mu.Unlock()

	if finalErr != nil {
		return nil, finalErr
	}
	if holdOpen {
		<-s.closed
	}
	return nil, io.EOF
}

// Sent returns a snapshot of everything recorded so far.
func (s *MockSession) Sent() (audio [][]byte, video [][]byte, text []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	audio = append(audio, s.SentAudio...)
	video = append(video, s.SentVideo...)
	text = append(text, s.SentText...)
	return audio, video, text
}

// Close implements repositories.LiveSession
func (s *MockSession) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

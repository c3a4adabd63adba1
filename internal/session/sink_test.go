package session

import (
	"encoding/json"
	"sync"
	"testing"
)

// captureSink records everything the session core delivers to the client.
type captureSink struct {
	mu       sync.Mutex
	events   [][]byte
	audio    [][]byte
	bargeIns int
	writeErr error
}

func (s *captureSink) WriteEvent(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.events = append(s.events, payload)
	return nil
}

func (s *captureSink) WriteAudio(pcm []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audio = append(s.audio, pcm)
	return nil
}

func (s *captureSink) BargeIn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bargeIns++
}

func (s *captureSink) eventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func (s *captureSink) decodedEvents(t *testing.T) []map[string]interface{} {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	decoded := make([]map[string]interface{}, 0, len(s.events))
	for _, payload := range s.events {
		var m map[string]interface{}
		if err := json.Unmarshal(payload, &m); err != nil {
			t.Fatalf("Failed to decode event %s: %v", payload, err)
		}
		decoded = append(decoded, m)
	}
	return decoded
}

func eventTypes(events []map[string]interface{}) []string {
	types := make([]string, 0, len(events))
	for _, ev := range events {
		if s, ok := ev["type"].(string); ok {
			types = append(types, s)
		}
	}
	return types
}

package websocket

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lenslive/lens/adapters/live"
	"github.com/lenslive/lens/adapters/memory"
	"github.com/lenslive/lens/domain/repositories"
	"github.com/lenslive/lens/internal/session"
)

func setupTestServer(t *testing.T, dialer *live.MockDialer) (*Hub, *httptest.Server) {
	t.Helper()
	logger := zap.NewNop()
	controller := session.NewFailoverController(dialer, repositories.LiveConfig{Model: "test-model"}, memory.NewSessionArchive(), logger)
	hub := NewHub(controller, 16000, logger)
	go hub.Run()

	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		return HandleWebSocket(hub, c, logger)
	})

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	return hub, server
}

func dialTestServer(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("WebSocket connection failed: %v", err)
	}
	return ws
}

func TestHub_NewHub(t *testing.T) {
	hub, _ := setupTestServer(t, live.NewMockDialer())

	if hub.clients == nil {
		t.Error("Hub clients map not initialized")
	}
	if hub.register == nil {
		t.Error("Hub register channel not initialized")
	}
	if hub.unregister == nil {
		t.Error("Hub unregister channel not initialized")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	dialer := live.NewMockDialer(
		repositories.AgentAudioEvent{PCM: []byte{0x10, 0x20, 0x30}},
		repositories.UserTranscriptEvent{Text: "the stove is on fire"},
		repositories.TurnCompleteEvent{},
	)
	dialer.HoldOpen = true

	hub, server := setupTestServer(t, dialer)
	ws := dialTestServer(t, server)
	defer ws.Close()

	// Agent audio arrives first, as a binary frame.
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, payload, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	if msgType != websocket.BinaryMessage {
		t.Errorf("Expected binary frame first, got type %d", msgType)
	}
	if !bytes.Equal(payload, []byte{0x10, 0x20, 0x30}) {
		t.Error("Agent audio bytes altered in transit")
	}

	// Then the structured events, in upstream order.
	for _, wantType := range []string{"user_transcript", "turn_complete"} {
		ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		msgType, payload, err = ws.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage failed: %v", err)
		}
		if msgType != websocket.TextMessage {
			t.Errorf("Expected text frame, got type %d", msgType)
		}
		var env map[string]interface{}
		if err := json.Unmarshal(payload, &env); err != nil {
			t.Fatalf("Failed to decode event %s: %v", payload, err)
		}
		if env["type"] != wantType {
			t.Errorf("Expected event %s, got %v", wantType, env["type"])
		}
	}

	// Client input flows through to the upstream session.
	pcm := bytes.Repeat([]byte{0x42}, 3200)
	if err := ws.WriteMessage(websocket.BinaryMessage, pcm); err != nil {
		t.Fatalf("WriteMessage failed: %v", err)
	}
	if err := ws.WriteMessage(websocket.TextMessage, []byte("he cut his hand")); err != nil {
		t.Fatalf("WriteMessage failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		sessions := dialer.Sessions()
		if len(sessions) == 1 {
			audio, _, text := sessions[0].Sent()
			if len(audio) == 1 && len(text) == 1 {
				if !bytes.Equal(audio[0], pcm) {
					t.Error("Client audio bytes altered in transit")
				}
				if text[0] != "he cut his hand" {
					t.Errorf("Expected verbatim text, got %q", text[0])
				}
				break
			}
		}
		select {
		case <-deadline:
			t.Fatal("Client input did not reach the upstream session")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if len(hub.ActiveSessions()) != 1 {
		t.Errorf("Expected 1 active session, got %d", len(hub.ActiveSessions()))
	}

	ws.Close()

	deadline = time.After(2 * time.Second)
	for len(hub.ActiveSessions()) != 0 {
		select {
		case <-deadline:
			t.Fatal("Session was not cleaned up after disconnect")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestFallbackDeliveredOnDialFailure(t *testing.T) {
	dialer := live.NewMockDialer()
	dialer.DialErr = errors.New("upstream unavailable")

	_, server := setupTestServer(t, dialer)
	ws := dialTestServer(t, server)
	defer ws.Close()

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, payload, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	if msgType != websocket.TextMessage {
		t.Fatalf("Expected text frame, got type %d", msgType)
	}

	var env struct {
		Type         string   `json:"type"`
		Instructions []string `json:"instructions"`
		Disclaimer   string   `json:"disclaimer"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		t.Fatalf("Failed to decode fallback payload: %v", err)
	}
	if env.Type != "fallback" {
		t.Errorf("Expected fallback event, got %s", env.Type)
	}
	if len(env.Instructions) != 8 {
		t.Errorf("Expected 8 instructions, got %d", len(env.Instructions))
	}
	if env.Disclaimer == "" {
		t.Error("Fallback must carry a disclaimer")
	}

	// Nothing follows the fallback; the server closes the connection.
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := ws.ReadMessage(); err == nil {
		t.Error("Expected connection close after fallback delivery")
	}
}

func TestBargeInDropsQueuedAudio(t *testing.T) {
	logger := zap.NewNop()
	client := &Client{
		send:   make(chan WriteData, 4),
		done:   make(chan struct{}),
		logger: logger,
	}

	if err := client.WriteAudio([]byte{0x01}); err != nil {
		t.Fatalf("WriteAudio failed: %v", err)
	}
	client.BargeIn()
	if err := client.WriteAudio([]byte{0x02}); err != nil {
		t.Fatalf("WriteAudio failed: %v", err)
	}

	stale := <-client.send
	fresh := <-client.send
	if stale.generation >= client.muteGen.Load() {
		t.Error("Pre-barge-in audio should carry a stale generation")
	}
	if fresh.generation != client.muteGen.Load() {
		t.Error("Post-barge-in audio should carry the current generation")
	}
}

func TestWriteAfterClose(t *testing.T) {
	client := &Client{
		send:   make(chan WriteData), // unbuffered so enqueue must block
		done:   make(chan struct{}),
		logger: zap.NewNop(),
	}
	close(client.done)

	if err := client.WriteEvent([]byte(`{"type":"turn_complete"}`)); err == nil {
		t.Error("WriteEvent should fail once the write pump is gone")
	}
	if err := client.WriteAudio([]byte{0x00}); err == nil {
		t.Error("WriteAudio should fail once the write pump is gone")
	}
}

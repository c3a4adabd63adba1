package session

import (
	"encoding/json"
	"testing"
)

func TestEncodeClientEvent(t *testing.T) {
	tests := []struct {
		name  string
		event ClientEvent
		want  string
	}{
		{"user transcript", UserTranscript{Text: "help me"}, `{"type":"user_transcript","text":"help me"}`},
		{"agent transcript", AgentTranscript{Text: "stay calm"}, `{"type":"gemini_transcript","text":"stay calm"}`},
		{"turn complete", TurnComplete{}, `{"type":"turn_complete"}`},
		{"interrupted", Interrupted{}, `{"type":"interrupted"}`},
		{"upstream error", UpstreamError{Message: "quota exceeded"}, `{"type":"error","error":"quota exceeded"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeClientEvent(tt.event)
			if err != nil {
				t.Fatalf("EncodeClientEvent failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestEncodeFallbackEvent(t *testing.T) {
	payload, err := EncodeClientEvent(Fallback{
		Instructions: []string{"step one", "step two"},
		Disclaimer:   "general guidelines only",
	})
	if err != nil {
		t.Fatalf("EncodeClientEvent failed: %v", err)
	}

	var decoded struct {
		Type         string   `json:"type"`
		Instructions []string `json:"instructions"`
		Disclaimer   string   `json:"disclaimer"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Failed to decode fallback payload: %v", err)
	}

	if decoded.Type != "fallback" {
		t.Errorf("Expected type fallback, got %s", decoded.Type)
	}
	if len(decoded.Instructions) != 2 {
		t.Errorf("Expected 2 instructions, got %d", len(decoded.Instructions))
	}
	if decoded.Disclaimer != "general guidelines only" {
		t.Errorf("Unexpected disclaimer: %s", decoded.Disclaimer)
	}
}

package session

import (
	"encoding/json"
	"fmt"
)

// ClientEvent is a closed set of structured events crossing the output
// boundary. Agent audio is not a ClientEvent; it bypasses the event queue and
// goes straight to the client as a binary frame.
type ClientEvent interface {
	clientEvent()
}

// UserTranscript is a transcription fragment of the user's speech.
type UserTranscript struct {
	Text string
}

// AgentTranscript is a transcription fragment of the agent's speech.
type AgentTranscript struct {
	Text string
}

// TurnComplete marks the end of one agent response cycle.
type TurnComplete struct{}

// Interrupted tells the client the agent was cut off by barge-in.
type Interrupted struct{}

// UpstreamError is the terminal sentinel for an upstream stream failure.
type UpstreamError struct {
	Message string
}

// Fallback is the fixed guidance package delivered when the upstream cannot
// serve the session. After a Fallback nothing else is delivered.
type Fallback struct {
	Instructions []string
	Disclaimer   string
}

func (UserTranscript) clientEvent() {}
func (AgentTranscript) clientEvent() {}
func (TurnComplete) clientEvent() {}
func (Interrupted) clientEvent() {}
func (UpstreamError) clientEvent() {}
func (Fallback) clientEvent() {}

type transcriptEnvelope struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type typeOnlyEnvelope struct {
	Type string `json:"type"`
}

type errorEnvelope struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type fallbackEnvelope struct {
	Type         string   `json:"type"`
	Instructions []string `json:"instructions"`
	Disclaimer   string   `json:"disclaimer"`
}

// EncodeClientEvent renders an event as the text frame sent to the client.
func EncodeClientEvent(ev ClientEvent) ([]byte, error) {
	switch e := ev.(type) {
	case UserTranscript:
		return json.Marshal(transcriptEnvelope{Type: "user_transcript", Text: e.Text})
	case AgentTranscript:
		return json.Marshal(transcriptEnvelope{Type: "gemini_transcript", Text: e.Text})
	case TurnComplete:
		return json.Marshal(typeOnlyEnvelope{Type: "turn_complete"})
	case Interrupted:
		return json.Marshal(typeOnlyEnvelope{Type: "interrupted"})
	case UpstreamError:
		return json.Marshal(errorEnvelope{Type: "error", Error: e.Message})
	case Fallback:
		return json.Marshal(fallbackEnvelope{Type: "fallback", Instructions: e.Instructions, Disclaimer: e.Disclaimer})
	default:
		return nil, fmt.Errorf("unknown client event %T", ev)
	}
}

package entities

import "time"

// SessionOutcome records how a guidance session ended.
type SessionOutcome string

const (
	// OutcomeCompleted means the client disconnected while the upstream was healthy.
	OutcomeCompleted SessionOutcome = "completed"
	// OutcomeFallback means the upstream failed and the fallback package was delivered.
	OutcomeFallback SessionOutcome = "fallback"
)

// TranscriptRole identifies the speaker of a transcript entry.
type TranscriptRole string

const (
	TranscriptRoleUser  TranscriptRole = "user"
	TranscriptRoleAgent TranscriptRole = "agent"
)

// TranscriptEntry is one transcription fragment, in the order it was relayed.
type TranscriptEntry struct {
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
	Role      TranscriptRole `json:"role" bson:"role"`
	Text      string         `json:"text" bson:"text"`
}

// GuidanceSession is the archived record of one emergency session.
type GuidanceSession struct {
	ID         string            `json:"id" bson:"_id"`
	StartedAt  time.Time         `json:"started_at" bson:"started_at"`
	EndedAt    time.Time         `json:"ended_at" bson:"ended_at"`
	Outcome    SessionOutcome    `json:"outcome" bson:"outcome"`
	Transcript []TranscriptEntry `json:"transcript" bson:"transcript"`
	Turns      int               `json:"turns" bson:"turns"`
	BargeIns   int               `json:"barge_ins" bson:"barge_ins"`
}

// AddTranscript appends a transcript fragment.
func (g *GuidanceSession) AddTranscript(role TranscriptRole, text string) {
	g.Transcript = append(g.Transcript, TranscriptEntry{
		Timestamp: time.Now(),
		Role:      role,
		Text:      text,
	})
}

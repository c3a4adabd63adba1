package repositories

import "context"

// LiveConfig describes the fixed configuration of one upstream live session.
// It is built once per session and never changes afterwards.
type LiveConfig struct {
	Model             string
	VoiceName         string
	SystemInstruction string
	InputSampleRateHz int
	ProactiveAudio    bool
}

// LiveDialer abstracts the upstream real-time AI streaming service.
type LiveDialer interface {
	// Connect establishes a live session. A failure here is fatal for the
	// guidance session; no partial traffic is attempted.
	Connect(ctx context.Context, config LiveConfig) (LiveSession, error)
}

// LiveSession is one established upstream connection. At most one exists per
// guidance session. Sends are synchronous: a call that returns has fully
// handed its payload to the transport.
type LiveSession interface {
	SendAudio(pcm []byte, sampleRateHz int) error
	SendVideo(jpeg []byte) error
	SendText(text string, endOfTurn bool) error

	// Receive blocks until the next upstream event. It returns io.EOF when the
	// upstream closes the session normally; any other error is terminal.
	Receive() (LiveEvent, error)

	Close() error
}

// LiveEvent is a closed set of upstream event variants. Adding a case here is
// a compile-visible change for every switch over the set.
type LiveEvent interface {
	liveEvent()
}

// AgentAudioEvent carries a chunk of synthesized agent speech (PCM s16le).
type AgentAudioEvent struct {
	PCM []byte
}

// UserTranscriptEvent is a transcription fragment of the user's speech.
type UserTranscriptEvent struct {
	Text string
}

// AgentTranscriptEvent is a transcription fragment of the agent's speech.
type AgentTranscriptEvent struct {
	Text string
}

// TurnCompleteEvent marks the end of one agent response cycle.
type TurnCompleteEvent struct{}

// InterruptedEvent signals barge-in: the user spoke over the agent.
type InterruptedEvent struct{}

// ToolCallEvent carries a tool invocation this system does not use.
type ToolCallEvent struct {
	Name string
}

func (AgentAudioEvent) liveEvent() {}
func (UserTranscriptEvent) liveEvent() {}
func (AgentTranscriptEvent) liveEvent() {}
func (TurnCompleteEvent) liveEvent() {}
func (InterruptedEvent) liveEvent() {}
func (ToolCallEvent) liveEvent() {}

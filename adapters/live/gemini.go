package live

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/lenslive/lens/domain/repositories"
)

// GeminiDialer implements the LiveDialer interface using the Gemini Live API.
type GeminiDialer struct {
	client *genai.Client
	logger *zap.Logger
}

// Options selects the Gemini backend. APIKey wins when both are set.
type Options struct {
	APIKey    string
	ProjectID string
	Location  string
}

// NewGeminiDialer creates a dialer backed by either the direct Gemini API or
// Vertex AI, depending on the options.
func NewGeminiDialer(ctx context.Context, opts Options, logger *zap.Logger) (*GeminiDialer, error) {
	cc := &genai.ClientConfig{}
	switch {
	case opts.APIKey != "":
		cc.APIKey = opts.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case opts.ProjectID != "":
		cc.Project = opts.ProjectID
		cc.Location = opts.Location
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("either an API key or a project ID is required")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiDialer{client: client, logger: logger}, nil
}

// Connect establishes a live session with audio responses, transcription in
// both directions, and proactive audio when requested.
func (d *GeminiDialer) Connect(ctx context.Context, config repositories.LiveConfig) (repositories.LiveSession, error) {
	lc := &genai.LiveConnectConfig{
		ResponseModalities: []genai.Modality{genai.ModalityAudio},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: config.VoiceName,
				},
			},
		},
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: config.SystemInstruction}},
		},
		InputAudioTranscription:  &genai.AudioTranscriptionConfig{},
		OutputAudioTranscription: &genai.AudioTranscriptionConfig{},
	}
	if config.ProactiveAudio {
		lc.Proactivity = &genai.ProactivityConfig{ProactiveAudio: genai.Ptr(true)}
	}

	sess, err := d.client.Live.Connect(ctx, config.Model, lc)
	if err != nil {
		return nil, fmt.Errorf("live connect failed: %w", err)
	}

	d.logger.Info("Connected to Gemini Live", zap.String("model", config.Model))
	return &geminiLiveSession{session: sess}, nil
}

// geminiLiveSession adapts one Gemini live connection to the LiveSession
// contract. One upstream server message can carry several logical events, so
// Receive keeps the surplus in a pending queue and hands them out one by one.
type geminiLiveSession struct {
	session *genai.Session
	pending []repositories.LiveEvent
}

func (s *geminiLiveSession) SendAudio(pcm []byte, sampleRateHz int) error {
	return s.session.SendRealtimeInput(genai.LiveRealtimeInput{
		Audio: &genai.Blob{
			Data:     pcm,
			MIMEType: fmt.Sprintf("audio/pcm;rate=%d", sampleRateHz),
		},
	})
}

func (s *geminiLiveSession) SendVideo(jpeg []byte) error {
	return s.session.SendRealtimeInput(genai.LiveRealtimeInput{
		Video: &genai.Blob{
			Data:     jpeg,
			MIMEType: "image/jpeg",
		},
	})
}

func (s *geminiLiveSession) SendText(text string, endOfTurn bool) error {
	return s.session.SendClientContent(genai.LiveClientContentInput{
		Turns:        []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		TurnComplete: genai.Ptr(endOfTurn),
	})
}

func (s *geminiLiveSession) Receive() (repositories.LiveEvent, error) {
	for len(s.pending) == 0 {
		msg, err := s.session.Receive()
		if err != nil {
			return nil, err
		}
		s.pending = translate(msg)
	}

	ev := s.pending[0]
	s.pending = s.pending[1:]
	return ev, nil
}

func (s *geminiLiveSession) Close() error {
	return s.session.Close()
}

// translate flattens one server message into ordered logical events. The
// ordering mirrors the upstream contract: audio first, transcripts next, then
// the turn markers.
func translate(msg *genai.LiveServerMessage) []repositories.LiveEvent {
	var events []repositories.LiveEvent

	if sc := msg.ServerContent; sc != nil {
		if sc.ModelTurn != nil {
			for _, part := range sc.ModelTurn.Parts {
				if part.InlineData != nil && strings.HasPrefix(part.InlineData.MIMEType, "audio/") {
					events = append(events, repositories.AgentAudioEvent{PCM: part.InlineData.Data})
				}
			}
		}
		if sc.InputTranscription != nil && sc.InputTranscription.Text != "" {
			events = append(events, repositories.UserTranscriptEvent{Text: sc.InputTranscription.Text})
		}
		if sc.OutputTranscription != nil && sc.OutputTranscription.Text != "" {
			events = append(events, repositories.AgentTranscriptEvent{Text: sc.OutputTranscription.Text})
		}
		if sc.TurnComplete {
			events = append(events, repositories.TurnCompleteEvent{})
		}
		if sc.Interrupted {
			events = append(events, repositories.InterruptedEvent{})
		}
	}

	if msg.ToolCall != nil {
		for _, fc := range msg.ToolCall.FunctionCalls {
			events = append(events, repositories.ToolCallEvent{Name: fc.Name})
		}
	}

	return events
}

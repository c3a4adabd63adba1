package session

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/lenslive/lens/domain/repositories"
	"github.com/lenslive/lens/internal/metrics"
)

// AudioSink receives agent audio for immediate playback.
type AudioSink interface {
	WriteAudio(pcm []byte) error
}

// UpstreamEventReceiver is the only reader of the upstream connection. It
// pushes agent audio straight to the audio sink and everything else onto the
// session's event queue, preserving upstream order within the queue. As sole
// producer it closes the queue on exit.
type UpstreamEventReceiver struct {
	conn      repositories.LiveSession
	queue     chan<- ClientEvent
	audio     AudioSink
	onBargeIn func()
	logger    *zap.Logger
}

func NewUpstreamEventReceiver(
	conn repositories.LiveSession,
	queue chan<- ClientEvent,
	audio AudioSink,
	onBargeIn func(),
	logger *zap.Logger,
) *UpstreamEventReceiver {
	return &UpstreamEventReceiver{
		conn:      conn,
		queue:     queue,
		audio:     audio,
		onBargeIn: onBargeIn,
		logger:    logger,
	}
}

// Run reads upstream events until the stream ends. A normal end (io.EOF or
// cancellation) closes the queue quietly; any other receive error enqueues a
// terminal UpstreamError first. Errors here are always fatal: there is no
// recovery on a dead live stream.
func (r *UpstreamEventReceiver) Run(ctx context.Context) {
	defer close(r.queue)
	for {
		ev, err := r.conn.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return
			}
			metrics.UpstreamErrors.Inc()
			r.logger.Error("upstream receive failed", zap.Error(err))
			r.enqueue(ctx, UpstreamError{Message: err.Error()})
			return
		}

		switch e := ev.(type) {
		case repositories.AgentAudioEvent:
			// Latency path: playback must not wait behind queued transcripts.
			if err := r.audio.WriteAudio(e.PCM); err != nil {
				r.logger.Warn("dropping agent audio", zap.Error(err))
			}
		case repositories.UserTranscriptEvent:
			r.enqueue(ctx, UserTranscript{Text: e.Text})
		case repositories.AgentTranscriptEvent:
			r.enqueue(ctx, AgentTranscript{Text: e.Text})
		case repositories.TurnCompleteEvent:
			r.enqueue(ctx, TurnComplete{})
		case repositories.InterruptedEvent:
			// Mute playback before the client can even see the event.
			if r.onBargeIn != nil {
				r.onBargeIn()
			}
			r.enqueue(ctx, Interrupted{})
		case repositories.ToolCallEvent:
			r.logger.Warn("ignoring unexpected tool call", zap.String("tool", e.Name))
		default:
			r.logger.Warn("ignoring unknown upstream event")
		}
	}
}

func (r *UpstreamEventReceiver) enqueue(ctx context.Context, ev ClientEvent) {
	select {
	case r.queue <- ev:
	case <-ctx.Done():
	}
}

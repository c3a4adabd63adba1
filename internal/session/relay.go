package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/lenslive/lens/internal/metrics"
)

// EventSink receives encoded structured events for delivery to the client.
type EventSink interface {
	WriteEvent(payload []byte) error
}

// OutputRelay drains the session's event queue in strict FIFO order and
// forwards each event to the client. It is the only consumer of the queue.
type OutputRelay struct {
	queue     <-chan ClientEvent
	sink      EventSink
	onForward func(ClientEvent)
	logger    *zap.Logger
}

func NewOutputRelay(queue <-chan ClientEvent, sink EventSink, onForward func(ClientEvent), logger *zap.Logger) *OutputRelay {
	return &OutputRelay{queue: queue, sink: sink, onForward: onForward, logger: logger}
}

// Run forwards events until the queue closes, ctx is cancelled, or a terminal
// UpstreamError arrives. The error event is forwarded to the client first and
// then returned so the controller can fail over.
func (o *OutputRelay) Run(ctx context.Context) *UpstreamError {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-o.queue:
			if !ok {
				return nil
			}
			if !o.forward(ev) {
				return nil
			}
			if fatal, ok := ev.(UpstreamError); ok {
				return &fatal
			}
		}
	}
}

func (o *OutputRelay) forward(ev ClientEvent) bool {
	payload, err := EncodeClientEvent(ev)
	if err != nil {
		o.logger.Error("unencodable event", zap.Error(err))
		return true
	}
	if err := o.sink.WriteEvent(payload); err != nil {
		// Client is gone; nothing left to relay to.
		o.logger.Warn("client write failed", zap.Error(err))
		return false
	}
	metrics.EventsRelayed.WithLabelValues(eventLabel(ev)).Inc()
	if o.onForward != nil {
		o.onForward(ev)
	}
	return true
}

func eventLabel(ev ClientEvent) string {
	switch ev.(type) {
	case UserTranscript:
		return "user_transcript"
	case AgentTranscript:
		return "gemini_transcript"
	case TurnComplete:
		return "turn_complete"
	case Interrupted:
		return "interrupted"
	case UpstreamError:
		return "error"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lenslive/lens/domain/entities"
	"github.com/lenslive/lens/domain/repositories"
	"github.com/lenslive/lens/internal/guidance"
	"github.com/lenslive/lens/internal/metrics"
)

// ClientSink is everything the session core needs from the client transport:
// structured event delivery, low-latency audio playback, and a playback mute
// for barge-in.
type ClientSink interface {
	EventSink
	AudioSink
	// BargeIn discards agent audio still queued for playback. Called from the
	// receiver goroutine before the interrupted event is forwarded.
	BargeIn()
}

// FailoverController owns a session's lifecycle: it dials upstream, wires the
// multiplexer, receiver and relay together, and guarantees that when the
// upstream cannot serve, the client gets exactly one fallback package before
// the session closes. The controller is the sole writer of session state; it
// is safe to share one controller across sessions because all per-session
// state lives in Session and in Run's frame.
type FailoverController struct {
	dialer   repositories.LiveDialer
	live     repositories.LiveConfig
	fallback guidance.FallbackPackage
	archive  repositories.SessionArchive
	logger   *zap.Logger
}

func NewFailoverController(
	dialer repositories.LiveDialer,
	live repositories.LiveConfig,
	archive repositories.SessionArchive,
	logger *zap.Logger,
) *FailoverController {
	return &FailoverController{
		dialer:   dialer,
		live:     live,
		fallback: guidance.Fallback(),
		archive:  archive,
		logger:   logger,
	}
}

// Run drives one session from connect to close. It blocks until the session
// is over: upstream ended, upstream failed (after fallback delivery), or the
// client disconnected (ctx cancelled).
func (c *FailoverController) Run(ctx context.Context, sess *Session, sink ClientSink) error {
	logger := c.logger.With(zap.String("session_id", sess.ID))
	record := &entities.GuidanceSession{
		ID:        sess.ID,
		StartedAt: sess.StartedAt,
		Outcome:   entities.OutcomeCompleted,
	}
	defer c.saveRecord(record, logger)

	conn, err := c.dialer.Connect(ctx, c.live)
	if err != nil {
		logger.Error("upstream handshake failed", zap.Error(err))
		if ctx.Err() == nil {
			c.deliverFallback(sess, sink, record, logger)
		}
		sess.setState(StateClosed)
		return err
	}
	defer conn.Close()

	sess.setState(StateActive)
	logger.Info("session active", zap.String("model", c.live.Model))

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	mux := NewSessionMultiplexer(sess.channels, logger)
	senders := mux.Start(sessCtx, conn)

	receiver := NewUpstreamEventReceiver(conn, sess.queue, sink, sink.BargeIn, logger)
	recvDone := make(chan struct{})
	go func() {
		defer close(recvDone)
		receiver.Run(sessCtx)
	}()

	relay := NewOutputRelay(sess.queue, sink, func(ev ClientEvent) {
		c.observe(sess, record, ev)
	}, logger)
	fatal := relay.Run(sessCtx)

	if fatal != nil && ctx.Err() == nil {
		logger.Error("upstream stream lost", zap.String("cause", fatal.Message))
		c.deliverFallback(sess, sink, record, logger)
	}

	// Unblock the receiver's pending Receive, then wait for everything.
	cancel()
	conn.Close()
	senders.Wait()
	<-recvDone

	sess.setState(StateClosed)
	logger.Info("session closed",
		zap.String("outcome", string(record.Outcome)),
		zap.Int("turns", record.Turns),
		zap.Int("barge_ins", record.BargeIns))
	return nil
}

// deliverFallback moves the session to the error state, sends the static
// package once, and closes. setState returning false means the session is
// already closed and the delivery window has passed.
func (c *FailoverController) deliverFallback(sess *Session, sink EventSink, record *entities.GuidanceSession, logger *zap.Logger) {
	if !sess.setState(StateError) {
		return
	}
	record.Outcome = entities.OutcomeFallback
	payload, err := EncodeClientEvent(Fallback{
		Instructions: c.fallback.Instructions,
		Disclaimer:   c.fallback.Disclaimer,
	})
	if err != nil {
		logger.Error("fallback encode failed", zap.Error(err))
		sess.setState(StateClosed)
		return
	}
	if err := sink.WriteEvent(payload); err != nil {
		logger.Warn("fallback delivery failed", zap.Error(err))
	} else {
		metrics.FallbacksDelivered.Inc()
		logger.Info("fallback delivered")
	}
	sess.setState(StateClosed)
}

// observe runs in the relay's goroutine after each successful forward, so
// state transitions stay single-writer with respect to Run.
func (c *FailoverController) observe(sess *Session, record *entities.GuidanceSession, ev ClientEvent) {
	switch e := ev.(type) {
	case UserTranscript:
		record.AddTranscript(entities.TranscriptRoleUser, e.Text)
	case AgentTranscript:
		record.AddTranscript(entities.TranscriptRoleAgent, e.Text)
		if sess.State() == StateInterrupted {
			sess.setState(StateActive)
		}
	case TurnComplete:
		record.Turns++
		if sess.State() == StateInterrupted {
			sess.setState(StateActive)
		}
	case Interrupted:
		record.BargeIns++
		metrics.BargeIns.Inc()
		sess.setState(StateInterrupted)
	}
}

func (c *FailoverController) saveRecord(record *entities.GuidanceSession, logger *zap.Logger) {
	if c.archive == nil {
		return
	}
	record.EndedAt = time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.archive.Save(ctx, record); err != nil {
		logger.Warn("session archive save failed", zap.Error(err))
	}
}

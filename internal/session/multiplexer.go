package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/lenslive/lens/domain/repositories"
)

// SessionMultiplexer fans the three input channels into one upstream live
// connection. Each modality gets its own sender goroutine so a stall on one
// never blocks the others; the upstream session serializes writes internally.
type SessionMultiplexer struct {
	channels *InputChannels
	logger   *zap.Logger
}

func NewSessionMultiplexer(channels *InputChannels, logger *zap.Logger) *SessionMultiplexer {
	return &SessionMultiplexer{channels: channels, logger: logger}
}

// Start launches the three senders. They run until ctx is cancelled or their
// first send error; the returned WaitGroup is done when all have stopped.
func (m *SessionMultiplexer) Start(ctx context.Context, conn repositories.LiveSession) *sync.WaitGroup {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		m.sendAudio(ctx, conn)
	}()
	go func() {
		defer wg.Done()
		m.sendVideo(ctx, conn)
	}()
	go func() {
		defer wg.Done()
		m.sendText(ctx, conn)
	}()
	return &wg
}

func (m *SessionMultiplexer) sendAudio(ctx context.Context, conn repositories.LiveSession) {
	for {
		select {
		case <-ctx.Done():
			return
		case chunk := <-m.channels.Audio():
			if err := conn.SendAudio(chunk.Data, chunk.SampleRateHz); err != nil {
				m.logger.Warn("audio sender stopping", zap.Error(err))
				return
			}
		}
	}
}

func (m *SessionMultiplexer) sendVideo(ctx context.Context, conn repositories.LiveSession) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-m.channels.Video():
			if err := conn.SendVideo(frame.JPEG); err != nil {
				m.logger.Warn("video sender stopping", zap.Error(err))
				return
			}
		}
	}
}

func (m *SessionMultiplexer) sendText(ctx context.Context, conn repositories.LiveSession) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-m.channels.Text():
			if err := conn.SendText(msg.Text, true); err != nil {
				m.logger.Warn("text sender stopping", zap.Error(err))
				return
			}
		}
	}
}

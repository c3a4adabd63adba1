package session

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/lenslive/lens/internal/metrics"
)

// ClientBridge classifies raw transport frames into typed media frames and
// feeds them to the input channels. Binary frames are audio; text frames are
// either a JSON image envelope or a plain text message. Anything that parses
// as JSON but is not a well-formed image envelope is still treated as text,
// so the transport stays a dumb pipe for future message kinds.
type ClientBridge struct {
	channels     *InputChannels
	sampleRateHz int
	logger       *zap.Logger
}

type imageEnvelope struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

func NewClientBridge(channels *InputChannels, sampleRateHz int, logger *zap.Logger) *ClientBridge {
	return &ClientBridge{
		channels:     channels,
		sampleRateHz: sampleRateHz,
		logger:       logger,
	}
}

// HandleBinary enqueues a raw PCM chunk. Blocks under backpressure so the
// transport's own flow control slows the client down.
func (b *ClientBridge) HandleBinary(ctx context.Context, data []byte) error {
	metrics.FramesReceived.WithLabelValues("audio").Inc()
	return b.channels.PushAudio(ctx, AudioChunk{Data: data, SampleRateHz: b.sampleRateHz})
}

// HandleText routes a text frame. Malformed image envelopes are dropped with
// a log line; the session keeps running.
func (b *ClientBridge) HandleText(ctx context.Context, data []byte) error {
	var env imageEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Type == "image" {
		metrics.FramesReceived.WithLabelValues("video").Inc()
		if env.Data == "" {
			b.logger.Warn("dropping image frame with empty payload")
			return nil
		}
		jpeg, err := base64.StdEncoding.DecodeString(env.Data)
		if err != nil {
			b.logger.Warn("dropping image frame with invalid base64", zap.Error(err))
			return nil
		}
		if b.channels.PushVideo(VideoFrame{JPEG: jpeg}) {
			metrics.VideoFramesCoalesced.Inc()
		}
		return nil
	}

	metrics.FramesReceived.WithLabelValues("text").Inc()
	return b.channels.PushText(ctx, TextMessage{Text: string(data)})
}

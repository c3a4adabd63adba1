package session

import "context"

const (
	// Audio and text are lossless: the channels are bounded but enqueue blocks,
	// so a slow upstream propagates as transport backpressure instead of
	// dropped speech. 512 chunks of 100ms audio is close to a minute of lag,
	// far beyond the point where the session is useful anyway.
	audioQueueDepth = 512
	textQueueDepth  = 64
)

// InputChannels carries the three client input streams to the upstream
// senders. Per-channel FIFO is strict; there is no ordering between channels.
type InputChannels struct {
	audio chan AudioChunk
	video chan VideoFrame
	text  chan TextMessage
}

// NewInputChannels creates the per-session input channels. The video channel
// holds a single frame: a stale camera frame has no value once a newer one
// exists.
func NewInputChannels() *InputChannels {
	return &InputChannels{
		audio: make(chan AudioChunk, audioQueueDepth),
		video: make(chan VideoFrame, 1),
		text:  make(chan TextMessage, textQueueDepth),
	}
}

// PushAudio enqueues an audio chunk, blocking until there is room or the
// session is cancelled. Audio is never dropped here.
func (c *InputChannels) PushAudio(ctx context.Context, chunk AudioChunk) error {
	select {
	case c.audio <- chunk:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PushText enqueues a text message, blocking like PushAudio. Text is never
// dropped here.
func (c *InputChannels) PushText(ctx context.Context, msg TextMessage) error {
	select {
	case c.text <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PushVideo enqueues a camera frame, replacing any frame still waiting.
// Returns true when a stale frame was discarded. Only one goroutine (the
// client bridge) may call PushVideo.
func (c *InputChannels) PushVideo(frame VideoFrame) bool {
	replaced := false
	for {
		select {
		case c.video <- frame:
			return replaced
		default:
		}
		select {
		case <-c.video:
			replaced = true
		default:
		}
	}
}

// Audio returns the receive side of the audio channel.
func (c *InputChannels) Audio() <-chan AudioChunk { return c.audio }

// Video returns the receive side of the video channel.
func (c *InputChannels) Video() <-chan VideoFrame { return c.video }

// Text returns the receive side of the text channel.
func (c *InputChannels) Text() <-chan TextMessage { return c.text }

package session

import (
	"bytes"
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lenslive/lens/adapters/live"
)

func TestMultiplexerForwardsAllModalities(t *testing.T) {
	dialer := live.NewMockDialer()
	dialer.HoldOpen = true
	conn := connectMock(t, dialer)
	mockConn := dialer.Sessions()[0]

	channels := NewInputChannels()
	mux := NewSessionMultiplexer(channels, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	senders := mux.Start(ctx, conn)

	pcm := bytes.Repeat([]byte{0x7f}, 3200)
	if err := channels.PushAudio(ctx, AudioChunk{Data: pcm, SampleRateHz: 16000}); err != nil {
		t.Fatalf("PushAudio failed: %v", err)
	}
	channels.PushVideo(VideoFrame{JPEG: []byte("jpeg-bytes")})
	if err := channels.PushText(ctx, TextMessage{Text: "which way out"}); err != nil {
		t.Fatalf("PushText failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	var audio, video [][]byte
	var text []string
	for {
		audio, video, text = mockConn.Sent()
		if len(audio) == 1 && len(video) == 1 && len(text) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Senders did not forward all modalities in time")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if !bytes.Equal(audio[0], pcm) {
		t.Error("Audio bytes were altered in transit")
	}
	if string(video[0]) != "jpeg-bytes" {
		t.Error("Video bytes were altered in transit")
	}
	if text[0] != "which way out" {
		t.Error("Text was altered in transit")
	}

	cancel()
	waitDone(t, senders.Wait)
}

func TestMultiplexerStopsOnCancel(t *testing.T) {
	dialer := live.NewMockDialer()
	dialer.HoldOpen = true
	conn := connectMock(t, dialer)

	ctx, cancel := context.WithCancel(context.Background())
	mux := NewSessionMultiplexer(NewInputChannels(), zap.NewNop())
	senders := mux.Start(ctx, conn)

	cancel()
	waitDone(t, senders.Wait)
}

func waitDone(t *testing.T, wait func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Senders did not stop in time")
	}
}

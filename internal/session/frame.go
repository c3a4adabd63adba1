package session

// MediaFrame is a closed set of client input variants. Each frame is immutable
// once constructed and consumed exactly once by the matching upstream sender.
type MediaFrame interface {
	mediaFrame()
}

// AudioChunk is raw PCM from the client microphone (s16le, mono).
type AudioChunk struct {
	Data         []byte
	SampleRateHz int
}

// VideoFrame is one JPEG camera frame.
type VideoFrame struct {
	JPEG []byte
}

// TextMessage is a verbatim text message typed by the user.
type TextMessage struct {
	Text string
}

func (AudioChunk) mediaFrame() {}
func (VideoFrame) mediaFrame() {}
func (TextMessage) mediaFrame() {}

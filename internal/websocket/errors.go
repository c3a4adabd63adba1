package websocket

import "errors"

// errClientClosed reports a write attempted after the write pump shut down.
var errClientClosed = errors.New("websocket client closed")

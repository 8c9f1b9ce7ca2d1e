// Package transport carries encoded readings packets across the sensor →
// gateway hop. The link contract is fire-and-forget, at-most-once: frames may
// be lost, duplicated or reordered, and every layer above treats each frame
// independently.
package transport

import "context"

// FrameHandler consumes one received frame. It is invoked on the receive
// path, so it must only decode and stage a result; blocking I/O belongs in
// the caller's main loop. The frame slice is reused after the handler
// returns and must not be retained.
type FrameHandler func(frame []byte, from string)

// Listener is the gateway side of the link.
type Listener interface {
	// Listen blocks, delivering frames to h until ctx is cancelled.
	Listen(ctx context.Context, h FrameHandler) error
}

// Sender is the sensor side of the link. Send makes exactly one attempt;
// there are no acknowledgements or retries.
type Sender interface {
	Send(frame []byte) error
	Close() error
}

package protocol

import "errors"

// Build-time rejections. The encoder writes nothing when it fails.
var (
	ErrNameTooLong    = errors.New("name exceeds wire limit")
	ErrTooManyItems   = errors.New("item count exceeds wire limit")
	ErrPacketTooLarge = errors.New("packet exceeds 16-bit wire length")
	ErrBufferTooSmall = errors.New("destination buffer too small")
)

// Decode rejections, in validation order. A rejected packet is never
// partially processed.
var (
	ErrTooShort               = errors.New("buffer shorter than header")
	ErrBadMagic               = errors.New("bad magic")
	ErrUnsupportedVersion     = errors.New("unsupported protocol version")
	ErrUnsupportedMessageType = errors.New("unsupported message type")
	ErrLengthMismatch         = errors.New("length mismatch")
)

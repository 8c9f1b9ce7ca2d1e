package transport

import "encoding/binary"

// Byte-stream framing for serial-attached radio bridges. A frame is
//
//	u16 length | u16 crc | payload (length bytes)
//
// little-endian, CRC-CCITT over the payload. The stream may contain garbage
// between frames (modem chatter, partial frames after a reset); the scanner
// resynchronizes by sliding one byte at a time until a frame checks out.

const (
	frameOverhead = 4
	maxFrameLen   = 2048
)

const crcPolynomial = 0x1021

// crc16 is the CCITT checksum used on the serial hop.
func crc16(data []byte) uint16 {
	var crc uint32 = 0xFFFF
	for _, b := range data {
		crc ^= uint32(b) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ crcPolynomial
			} else {
				crc <<= 1
			}
		}
	}
	return uint16(crc & 0xFFFF)
}

// appendFrame appends the framed payload to dst and returns the result.
func appendFrame(dst, payload []byte) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, uint16(len(payload)))
	dst = binary.LittleEndian.AppendUint16(dst, crc16(payload))
	return append(dst, payload...)
}

// frameScanner extracts frames from an unreliable byte stream. Feed bytes in
// any chunking; Next returns complete, checksum-valid payloads one at a time.
type frameScanner struct {
	buf []byte
}

func (s *frameScanner) feed(p []byte) {
	s.buf = append(s.buf, p...)
}

// next returns the next valid payload, or nil if no complete frame is
// buffered yet. Corrupt or implausible frames cost one byte of buffer and
// another scan, which eventually realigns the stream.
func (s *frameScanner) next() []byte {
	for len(s.buf) >= frameOverhead {
		length := int(binary.LittleEndian.Uint16(s.buf[0:2]))
		if length == 0 || length > maxFrameLen {
			s.buf = s.buf[1:]
			continue
		}
		if len(s.buf) < frameOverhead+length {
			return nil
		}
		want := binary.LittleEndian.Uint16(s.buf[2:4])
		payload := s.buf[frameOverhead : frameOverhead+length]
		if crc16(payload) != want {
			s.buf = s.buf[1:]
			continue
		}
		out := make([]byte, length)
		copy(out, payload)
		s.buf = s.buf[frameOverhead+length:]
		return out
	}
	return nil
}

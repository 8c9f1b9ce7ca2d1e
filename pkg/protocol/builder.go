package protocol

import "encoding/binary"

// Header mirrors the 12-byte packet header. It is always written and read
// field-by-field at fixed offsets, never via in-memory struct layout, so the
// wire bytes are identical on every target.
type Header struct {
	Magic     uint16
	Version   byte
	MsgType   byte
	DeviceID  uint32
	IntervalS uint16
	NameLen   byte
	ItemCount byte
}

// PacketSize returns the total encoded size for a readings packet, or 0 when
// the inputs cannot form a valid packet (oversized name, item count or total).
func PacketSize(nameLen, itemCount int) uint16 {
	if nameLen < 0 || nameLen > MaxNameLen {
		return 0
	}
	if itemCount < 0 || itemCount > MaxItemCount {
		return 0
	}
	total := HeaderSize + nameLen + ItemSize*itemCount
	if total > MaxPacketSize {
		return 0
	}
	return uint16(total)
}

// EncodeReadings assembles a readings packet into dst and returns the exact
// number of bytes written. On any rejection it returns 0 and writes nothing;
// the caller skips transmission for this cycle.
//
// Item order is preserved as given. It carries no semantic meaning on the
// wire, only log readability.
func EncodeReadings(dst []byte, deviceID uint32, intervalSeconds uint16, name []byte, items []ValueItem) (int, error) {
	if len(name) > MaxNameLen {
		return 0, ErrNameTooLong
	}
	if len(items) > MaxItemCount {
		return 0, ErrTooManyItems
	}
	size := PacketSize(len(name), len(items))
	if size == 0 {
		return 0, ErrPacketTooLarge
	}
	if int(size) > len(dst) {
		return 0, ErrBufferTooSmall
	}

	binary.LittleEndian.PutUint16(dst[offMagic:], Magic)
	dst[offVersion] = Version
	dst[offMsgType] = MsgTypeReadings
	binary.LittleEndian.PutUint32(dst[offDeviceID:], deviceID)
	binary.LittleEndian.PutUint16(dst[offInterval:], intervalSeconds)
	dst[offNameLen] = byte(len(name))
	dst[offItemCount] = byte(len(items))

	copy(dst[HeaderSize:], name)

	p := HeaderSize + len(name)
	for _, it := range items {
		it.encode(dst[p : p+ItemSize])
		p += ItemSize
	}

	return int(size), nil
}

// TruncateName trims a device name to the wire limit. Senders call this once
// before encoding so the builder never rejects a configured name.
func TruncateName(name string) []byte {
	b := []byte(name)
	if len(b) > MaxNameLen {
		b = b[:MaxNameLen]
	}
	return b
}

package protocol

import "encoding/binary"

// View is a read-only projection of a validated readings packet. Name and the
// item region alias the decoded buffer; the view must not outlive the buffer
// it was built from (receive buffers are reused between frames).
type View struct {
	Header Header
	Name   []byte
	items  []byte
}

// DecodeReadings validates buf against the protocol invariants and returns a
// zero-copy view into it. Validation fails fast in a fixed order so each
// rejection is distinguishable; no field is trusted before the whole buffer
// has been validated. Runs in time linear in the item count and allocates
// nothing.
func DecodeReadings(buf []byte) (View, error) {
	if len(buf) < HeaderSize {
		return View{}, ErrTooShort
	}
	if binary.LittleEndian.Uint16(buf[offMagic:]) != Magic {
		return View{}, ErrBadMagic
	}
	if buf[offVersion] != Version {
		return View{}, ErrUnsupportedVersion
	}
	if buf[offMsgType] != MsgTypeReadings {
		return View{}, ErrUnsupportedMessageType
	}
	nameLen := int(buf[offNameLen])
	if nameLen > MaxNameLen {
		return View{}, ErrNameTooLong
	}
	itemCount := int(buf[offItemCount])
	if HeaderSize+nameLen+ItemSize*itemCount != len(buf) {
		return View{}, ErrLengthMismatch
	}

	return View{
		Header: Header{
			Magic:     Magic,
			Version:   buf[offVersion],
			MsgType:   buf[offMsgType],
			DeviceID:  binary.LittleEndian.Uint32(buf[offDeviceID:]),
			IntervalS: binary.LittleEndian.Uint16(buf[offInterval:]),
			NameLen:   byte(nameLen),
			ItemCount: byte(itemCount),
		},
		Name:  buf[HeaderSize : HeaderSize+nameLen],
		items: buf[HeaderSize+nameLen:],
	}, nil
}

// Len returns the number of value items in the packet.
func (v View) Len() int {
	return len(v.items) / ItemSize
}

// Item decodes the i-th value item. Panics on out-of-range i, like a slice.
func (v View) Item(i int) ValueItem {
	return decodeItem(v.items[i*ItemSize : (i+1)*ItemSize])
}

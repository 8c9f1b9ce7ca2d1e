package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestPacketSize(t *testing.T) {
	if got := PacketSize(0, 0); got != HeaderSize {
		t.Fatalf("PacketSize(0,0) = %d, want %d", got, HeaderSize)
	}
	if got := PacketSize(13, 4); got != HeaderSize+13+4*ItemSize {
		t.Fatalf("PacketSize(13,4) = %d, want %d", got, HeaderSize+13+4*ItemSize)
	}
	if got := PacketSize(MaxNameLen+1, 0); got != 0 {
		t.Fatalf("PacketSize with oversized name = %d, want 0", got)
	}
	if got := PacketSize(0, MaxItemCount+1); got != 0 {
		t.Fatalf("PacketSize with oversized item count = %d, want 0", got)
	}
	if got := PacketSize(-1, 1); got != 0 {
		t.Fatalf("PacketSize with negative name length = %d, want 0", got)
	}
}

func TestEncodeReadingsLayout(t *testing.T) {
	name := []byte("tilt-0a0b0c0d")
	items := []ValueItem{TiltDeg(23.4), BatteryMv(3301)}

	buf := make([]byte, 256)
	n, err := EncodeReadings(buf, 0x0A0B0C0D, 980, name, items)
	if err != nil {
		t.Fatalf("EncodeReadings failed: %v", err)
	}
	want := HeaderSize + len(name) + len(items)*ItemSize
	if n != want {
		t.Fatalf("encoded %d bytes, want %d", n, want)
	}

	pkt := buf[:n]
	if binary.LittleEndian.Uint16(pkt[offMagic:]) != Magic {
		t.Fatalf("magic bytes = % X", pkt[offMagic:offMagic+2])
	}
	if pkt[offVersion] != Version || pkt[offMsgType] != MsgTypeReadings {
		t.Fatalf("version/msgType = %d/%d", pkt[offVersion], pkt[offMsgType])
	}
	if binary.LittleEndian.Uint32(pkt[offDeviceID:]) != 0x0A0B0C0D {
		t.Fatalf("deviceId bytes = % X", pkt[offDeviceID:offDeviceID+4])
	}
	if binary.LittleEndian.Uint16(pkt[offInterval:]) != 980 {
		t.Fatalf("interval bytes = % X", pkt[offInterval:offInterval+2])
	}
	if int(pkt[offNameLen]) != len(name) || int(pkt[offItemCount]) != len(items) {
		t.Fatalf("nameLen/itemCount = %d/%d", pkt[offNameLen], pkt[offItemCount])
	}
	if !bytes.Equal(pkt[HeaderSize:HeaderSize+len(name)], name) {
		t.Fatalf("name bytes = %q", pkt[HeaderSize:HeaderSize+len(name)])
	}
}

func TestEncodeReadingsRejections(t *testing.T) {
	buf := make([]byte, 256)

	longName := make([]byte, MaxNameLen+1)
	if _, err := EncodeReadings(buf, 1, 60, longName, nil); !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("oversized name: err = %v, want ErrNameTooLong", err)
	}

	manyItems := make([]ValueItem, MaxItemCount+1)
	if _, err := EncodeReadings(buf, 1, 60, []byte("x"), manyItems); !errors.Is(err, ErrTooManyItems) {
		t.Fatalf("oversized item count: err = %v, want ErrTooManyItems", err)
	}

	small := make([]byte, HeaderSize+1)
	if _, err := EncodeReadings(small, 1, 60, []byte("ab"), nil); !errors.Is(err, ErrBufferTooSmall) {
		t.Fatalf("small buffer: err = %v, want ErrBufferTooSmall", err)
	}

	// A rejected encode must not touch the destination.
	marker := bytes.Repeat([]byte{0xA5}, HeaderSize+1)
	copy(small, marker)
	_, _ = EncodeReadings(small, 1, 60, []byte("ab"), nil)
	if !bytes.Equal(small, marker) {
		t.Fatalf("rejected encode wrote into destination: % X", small)
	}
}

func TestTruncateName(t *testing.T) {
	if got := TruncateName("tilt-0a0b0c0d"); string(got) != "tilt-0a0b0c0d" {
		t.Fatalf("short name changed: %q", got)
	}
	long := "tilt-0123456789abcdef0123456789"
	got := TruncateName(long)
	if len(got) != MaxNameLen {
		t.Fatalf("truncated length = %d, want %d", len(got), MaxNameLen)
	}
	if string(got) != long[:MaxNameLen] {
		t.Fatalf("truncated name = %q", got)
	}
}

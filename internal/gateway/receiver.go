package gateway

import (
	"log/slog"

	"github.com/HBDK/Tilted/pkg/protocol"
	"github.com/HBDK/Tilted/pkg/reading"
)

// Receiver owns the decode side of the wireless link. OnFrame runs in the
// transport's receive path and does the minimum: validate, extract, stage.
// Anything slower (HTTP, storage) happens when the main loop drains the
// mailbox.
type Receiver struct {
	calc *reading.Calculator
	box  Mailbox
}

// NewReceiver builds a receiver with an optional calibration polynomial. An
// empty or broken polynomial disables gravity and nothing else; the reading
// pipeline keeps running either way.
func NewReceiver(polynomial string) *Receiver {
	r := &Receiver{}
	if polynomial != "" {
		calc, err := reading.NewCalculator(polynomial)
		if err != nil {
			slog.Warn("calibration polynomial rejected, gravity disabled", "err", err)
		} else {
			r.calc = calc
		}
	}
	return r
}

// OnFrame implements transport.FrameHandler. Malformed frames are dropped
// and logged; the packet view never escapes this call, so the transport is
// free to reuse its buffer immediately after.
func (r *Receiver) OnFrame(frame []byte, from string) {
	v, err := protocol.DecodeReadings(frame)
	if err != nil {
		slog.Debug("ignoring frame", "len", len(frame), "from", from, "reason", err)
		return
	}

	rd := reading.Extract(v, r.calc)
	r.box.Put(rd)

	slog.Debug("reading staged",
		"name", rd.Name,
		"deviceId", v.Header.DeviceID,
		"items", v.Len(),
		"from", from)
}

// HasPending reports whether a decoded reading is waiting.
func (r *Receiver) HasPending() bool { return r.box.Ready() }

// TakePending returns and clears the staged reading.
func (r *Receiver) TakePending() (reading.Reading, bool) { return r.box.Take() }

// ClearPending drops the staged reading, e.g. when reconfiguring.
func (r *Receiver) ClearPending() { r.box.Clear() }

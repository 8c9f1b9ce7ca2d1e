// Package sensor simulates a battery-powered tilt sensor: it samples a tilt
// source, median-filters the window and transmits encoded readings packets to
// a gateway on a fixed interval.
package sensor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/HBDK/Tilted/internal/transport"
	"github.com/HBDK/Tilted/pkg/protocol"
)

const startBatteryMv = 3300

// Sensor is one simulated device.
type Sensor struct {
	DeviceID uint32
	Name     string
	Interval time.Duration
	Samples  int

	sampler Sampler
	sender  transport.Sender

	reports int
	// Encode scratch, sized for the largest packet we build.
	buf [protocol.HeaderSize + protocol.MaxNameLen + 4*protocol.ItemSize]byte
}

func New(deviceID uint32, name string, interval time.Duration, samples int, sampler Sampler, sender transport.Sender) *Sensor {
	if samples <= 0 {
		samples = 5
	}
	return &Sensor{
		DeviceID: deviceID,
		Name:     name,
		Interval: interval,
		Samples:  samples,
		sampler:  sampler,
		sender:   sender,
	}
}

// Run reports immediately, then on every interval tick until the context is
// cancelled. A failed report is logged and skipped, like a lost radio frame.
func (s *Sensor) Run(ctx context.Context) error {
	defer s.sender.Close()

	if err := s.Report(); err != nil {
		slog.Warn("report failed", "sensor", s.Name, "error", err)
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Report(); err != nil {
				slog.Warn("report failed", "sensor", s.Name, "error", err)
			}
		}
	}
}

// Report collects one sample window, encodes a packet and sends it.
func (s *Sensor) Report() error {
	pkt, err := s.buildPacket()
	if err != nil {
		return err
	}
	if err := s.sender.Send(pkt); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	s.reports++
	slog.Debug("reported", "sensor", s.Name, "len", len(pkt))
	return nil
}

func (s *Sensor) buildPacket() ([]byte, error) {
	window := make([]float64, 0, s.Samples)
	var temp float64
	for i := 0; i < s.Samples; i++ {
		tilt, t, err := s.sampler.Sample()
		if err != nil {
			return nil, fmt.Errorf("sample: %w", err)
		}
		window = append(window, tilt)
		temp = t
	}
	tilt := Median(window)

	intervalS := uint16(s.Interval / time.Second)
	items := []protocol.ValueItem{
		protocol.TiltDeg(tilt),
		protocol.TempC(temp),
		protocol.BatteryMv(s.batteryMv()),
		protocol.IntervalS(int32(intervalS)),
	}

	name := protocol.TruncateName(s.Name)
	n, err := protocol.EncodeReadings(s.buf[:], s.DeviceID, intervalS, name, items)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return s.buf[:n], nil
}

// batteryMv models a slow linear discharge so dashboards have a battery
// curve to plot.
func (s *Sensor) batteryMv() int32 {
	mv := startBatteryMv - s.reports/2
	if mv < 2400 {
		mv = 2400
	}
	return int32(mv)
}

package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tarm/serial"
)

// SerialListener receives frames from a radio bridge attached over UART,
// for gateways whose radio is a separate modem rather than an on-chip one.
type SerialListener struct {
	Port string
	Baud int
}

func (l *SerialListener) Listen(ctx context.Context, h FrameHandler) error {
	cfg := &serial.Config{Name: l.Port, Baud: l.Baud, ReadTimeout: 100 * time.Millisecond}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return fmt.Errorf("open serial port %s: %w", l.Port, err)
	}
	defer port.Close()

	slog.Info("serial listener ready", "port", l.Port, "baud", l.Baud)

	var sc frameScanner
	chunk := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := port.Read(chunk)
		if err != nil && err != io.EOF {
			return fmt.Errorf("read serial: %w", err)
		}
		if n == 0 {
			continue
		}
		sc.feed(chunk[:n])
		for frame := sc.next(); frame != nil; frame = sc.next() {
			h(frame, l.Port)
		}
	}
}

// SerialSender frames and writes packets to a radio bridge over UART.
type SerialSender struct {
	port *serial.Port
}

func DialSerial(portName string, baud int) (*SerialSender, error) {
	port, err := serial.OpenPort(&serial.Config{Name: portName, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	return &SerialSender{port: port}, nil
}

func (s *SerialSender) Send(frame []byte) error {
	_, err := s.port.Write(appendFrame(nil, frame))
	return err
}

func (s *SerialSender) Close() error {
	return s.port.Close()
}

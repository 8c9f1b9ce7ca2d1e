package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"
)

// recvBufSize comfortably exceeds the largest packet the wireless hop can
// carry (a few hundred bytes for ESP-NOW class links).
const recvBufSize = 2048

// UDPListener receives readings packets as bare UDP datagrams, one packet
// per datagram. Datagram boundaries stand in for the radio frame boundaries
// of the original link.
type UDPListener struct {
	Addr string

	// Ready, when set, is called once with the bound address. Lets callers
	// (and tests) bind to ":0" and still learn the port.
	Ready func(addr string)
}

func (l *UDPListener) Listen(ctx context.Context, h FrameHandler) error {
	addr, err := net.ResolveUDPAddr("udp", l.Addr)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", l.Addr, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", l.Addr, err)
	}
	defer conn.Close()

	slog.Info("udp listener ready", "addr", conn.LocalAddr().String())
	if l.Ready != nil {
		l.Ready(conn.LocalAddr().String())
	}

	buf := make([]byte, recvBufSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return fmt.Errorf("read udp: %w", err)
		}
		h(buf[:n], from.String())
	}
}

// UDPSender fires datagrams at a gateway. One Send, one datagram, no retry.
type UDPSender struct {
	conn *net.UDPConn
}

func DialUDP(target string) (*UDPSender, error) {
	addr, err := net.ResolveUDPAddr("udp", target)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", target, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return &UDPSender{conn: conn}, nil
}

func (s *UDPSender) Send(frame []byte) error {
	_, err := s.conn.Write(frame)
	return err
}

func (s *UDPSender) Close() error {
	return s.conn.Close()
}

// Package gateway receives readings packets off the wireless link, decodes
// them, and pushes the resulting readings onward over HTTP. It is the Go
// rendition of the ESP32 gateway firmware's receive-and-publish loop.
package gateway

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/HBDK/Tilted/internal/transport"
)

// drainInterval paces the main loop's mailbox polls. The radio callback only
// stages results, so a short poll keeps the forward latency low without
// touching the receive path.
const drainInterval = 100 * time.Millisecond

// Gateway wires listeners, the receiver and the forwarding targets together.
type Gateway struct {
	Receiver  *Receiver
	Listeners []transport.Listener
	Forward   *Forwarder    // nil when no forward URL is configured
	Influx    *InfluxWriter // nil when influx is not configured
}

// Run starts every listener and drains the mailbox until ctx is cancelled.
// Forwarding failures are logged and dropped; the link offers no redelivery,
// so there is nothing useful to retry against.
func (g *Gateway) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, l := range g.Listeners {
		wg.Add(1)
		go func(l transport.Listener) {
			defer wg.Done()
			if err := l.Listen(ctx, g.Receiver.OnFrame); err != nil {
				slog.Error("listener stopped", "err", err)
			}
		}(l)
	}

	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			if g.Influx != nil {
				g.Influx.Close()
			}
			return nil
		case <-ticker.C:
			r, ok := g.Receiver.TakePending()
			if !ok {
				continue
			}
			if g.Forward != nil {
				if err := g.Forward.Forward(ctx, r); err != nil {
					slog.Warn("forward failed", "name", r.Name, "err", err)
				}
			}
			if g.Influx != nil {
				if err := g.Influx.Write(ctx, r); err != nil {
					slog.Warn("influx write failed", "name", r.Name, "err", err)
				}
			}
		}
	}
}

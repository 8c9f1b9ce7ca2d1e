package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/HBDK/Tilted/pkg/reading"
)

// Forwarder posts reading JSON to a Brewfather-compatible HTTP endpoint.
// Intentionally simple: one attempt, short timeout, logged on failure by the
// caller. The gateway identity rides in headers so ingestion servers can tell
// gateways apart without changing the Brewfather payload shape.
type Forwarder struct {
	URL         string
	GatewayID   string
	GatewayName string

	client *http.Client
}

func NewForwarder(url, gatewayID, gatewayName string) *Forwarder {
	return &Forwarder{
		URL:         url,
		GatewayID:   gatewayID,
		GatewayName: gatewayName,
		client:      &http.Client{Timeout: 5 * time.Second},
	}
}

func (f *Forwarder) Forward(ctx context.Context, r reading.Reading) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.URL, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Gateway-ID", f.GatewayID)
	req.Header.Set("X-Gateway-Name", f.GatewayName)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return nil
}

// InfluxWriter optionally mirrors readings into an InfluxDB bucket, one point
// per packet, tagged by sensor name.
type InfluxWriter struct {
	client influxdb2.Client
	write  api.WriteAPIBlocking
}

func NewInfluxWriter(url, token, org, bucket string) *InfluxWriter {
	client := influxdb2.NewClient(url, token)
	return &InfluxWriter{
		client: client,
		write:  client.WriteAPIBlocking(org, bucket),
	}
}

func (w *InfluxWriter) Write(ctx context.Context, r reading.Reading) error {
	fields := map[string]any{}
	if r.Angle != nil {
		fields["angle"] = *r.Angle
	}
	if r.Temp != nil {
		fields["temp"] = *r.Temp
	}
	if r.AuxTemp != nil {
		fields["aux_temp"] = *r.AuxTemp
	}
	if r.Battery != nil {
		fields["battery"] = *r.Battery
	}
	if r.Interval != nil {
		fields["interval"] = *r.Interval
	}
	if r.Rssi != nil {
		fields["rssi"] = *r.Rssi
	}
	if r.Gravity != nil {
		fields["gravity"] = *r.Gravity
	}
	if len(fields) == 0 {
		return nil
	}

	p := influxdb2.NewPoint("tilted", map[string]string{"name": r.Name}, fields, time.Now())
	return w.write.WritePoint(ctx, p)
}

func (w *InfluxWriter) Close() {
	w.client.Close()
}

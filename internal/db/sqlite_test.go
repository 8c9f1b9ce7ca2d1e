package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/HBDK/Tilted/pkg/reading"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func TestSaveAndQueryReadings(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for n := 0; n < 3; n++ {
		r := reading.Reading{
			Name:    "tilt-0a0b0c0d",
			Angle:   f(23.4 + float64(n)),
			Temp:    f(19.8),
			Battery: f(3.301),
			Gravity: f(1.052),
		}
		ts := base.Add(time.Duration(n) * time.Minute)
		if err := d.SaveReading(ctx, r.Name, "gw-1", "cellar", ts, r); err != nil {
			t.Fatalf("SaveReading #%d: %v", n, err)
		}
	}

	sensors, err := d.ListSensors(ctx)
	if err != nil {
		t.Fatalf("ListSensors: %v", err)
	}
	if len(sensors) != 1 || sensors[0] != "tilt-0a0b0c0d" {
		t.Fatalf("sensors = %v", sensors)
	}

	data, err := d.SensorReadings(ctx, "tilt-0a0b0c0d",
		base.UnixMilli(), base.Add(time.Hour).UnixMilli())
	if err != nil {
		t.Fatalf("SensorReadings: %v", err)
	}
	if len(data.DataPoints) != 3 {
		t.Fatalf("got %d points, want 3", len(data.DataPoints))
	}
	if data.GatewayID != "gw-1" || data.GatewayName != "cellar" {
		t.Fatalf("gateway identity = %q/%q", data.GatewayID, data.GatewayName)
	}
	if data.DataPoints[0].Timestamp != base.UnixMilli() {
		t.Fatalf("first point at %d, want %d", data.DataPoints[0].Timestamp, base.UnixMilli())
	}
	// Ascending order.
	if data.DataPoints[2].Timestamp < data.DataPoints[1].Timestamp {
		t.Fatal("points not ordered by time")
	}
	if got := data.DataPoints[2].Tilt; got == nil || *got != 25.4 {
		t.Fatalf("last tilt = %v", got)
	}
}

func TestSensorReadingsWindow(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for n := 0; n < 5; n++ {
		r := reading.Reading{Name: "tilt-1", Angle: f(float64(n))}
		if err := d.SaveReading(ctx, "tilt-1", "gw", "g", base.Add(time.Duration(n)*time.Hour), r); err != nil {
			t.Fatalf("SaveReading: %v", err)
		}
	}

	// Only the middle three fall inside the window.
	data, err := d.SensorReadings(ctx, "tilt-1",
		base.Add(time.Hour).UnixMilli(), base.Add(3*time.Hour).UnixMilli())
	if err != nil {
		t.Fatalf("SensorReadings: %v", err)
	}
	if len(data.DataPoints) != 3 {
		t.Fatalf("got %d points, want 3", len(data.DataPoints))
	}

	// Unknown sensor yields an empty, non-nil series.
	empty, err := d.SensorReadings(ctx, "no-such-sensor", 0, base.Add(24*time.Hour).UnixMilli())
	if err != nil {
		t.Fatalf("SensorReadings: %v", err)
	}
	if empty.DataPoints == nil || len(empty.DataPoints) != 0 {
		t.Fatalf("empty series = %#v", empty.DataPoints)
	}
}

func TestSaveReadingKeepsNulls(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	// Interval-only packet: everything else must stay NULL.
	r := reading.Reading{Name: "tilt-2", Interval: i(900)}
	if err := d.SaveReading(ctx, "tilt-2", "gw", "g", time.Now(), r); err != nil {
		t.Fatalf("SaveReading: %v", err)
	}

	data, err := d.SensorReadings(ctx, "tilt-2", 0, time.Now().Add(time.Hour).UnixMilli())
	if err != nil {
		t.Fatalf("SensorReadings: %v", err)
	}
	if len(data.DataPoints) != 1 {
		t.Fatalf("got %d points", len(data.DataPoints))
	}
	p := data.DataPoints[0]
	if p.Interval == nil || *p.Interval != 900 {
		t.Fatalf("interval = %v", p.Interval)
	}
	if p.Tilt != nil || p.Temp != nil || p.Gravity != nil || p.Volt != nil {
		t.Fatalf("absent fields stored non-null: %+v", p)
	}
}

func TestLatestReadings(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		sensor string
		ts     time.Time
		tilt   float64
	}{
		{"tilt-a", base, 10},
		{"tilt-a", base.Add(time.Minute), 11},
		{"tilt-b", base, 20},
	} {
		r := reading.Reading{Name: tc.sensor, Angle: f(tc.tilt)}
		if err := d.SaveReading(ctx, tc.sensor, "gw", "g", tc.ts, r); err != nil {
			t.Fatalf("SaveReading: %v", err)
		}
	}

	latest, err := d.LatestReadings(ctx)
	if err != nil {
		t.Fatalf("LatestReadings: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("got %d sensors, want 2", len(latest))
	}
	byID := map[string]LatestReading{}
	for _, l := range latest {
		byID[l.SensorID] = l
	}
	if a := byID["tilt-a"]; a.Tilt == nil || *a.Tilt != 11 {
		t.Fatalf("tilt-a latest = %+v", a)
	}
	if b := byID["tilt-b"]; b.Tilt == nil || *b.Tilt != 20 {
		t.Fatalf("tilt-b latest = %+v", b)
	}
}

func TestGatewayIdentityIsPair(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	r := reading.Reading{Name: "tilt-c", Angle: f(1)}
	if err := d.SaveReading(ctx, "tilt-c", "gw-1", "old-name", time.Now(), r); err != nil {
		t.Fatalf("SaveReading: %v", err)
	}
	// Same gateway id under a new name creates a second identity row rather
	// than failing or silently renaming the old one.
	if err := d.SaveReading(ctx, "tilt-c", "gw-1", "new-name", time.Now(), r); err != nil {
		t.Fatalf("SaveReading after rename: %v", err)
	}
}

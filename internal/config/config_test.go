package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
sensor:
  device_id: 0x0a0b0c0d
  target: "127.0.0.1:8787"
  interval: 900s
  samples: 7
gateway:
  name: cellar-gateway
  listen: ":8787"
  polynomial: "0.5 + 0.02*tilt"
  forward_url: "http://localhost:8080/api/publish"
  influx:
    url: "http://localhost:8086"
    token: secret
    org: home
    bucket: brewing
server:
  listen: ":8080"
  database: /var/lib/tilted/tilted.db
log:
  level: DEBUG
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Sensor.DeviceID != 0x0A0B0C0D {
		t.Fatalf("device_id = %#x", cfg.Sensor.DeviceID)
	}
	if cfg.Sensor.Name != "tilt-0a0b0c0d" {
		t.Fatalf("derived sensor name = %q", cfg.Sensor.Name)
	}
	if cfg.Sensor.Interval != 900*time.Second {
		t.Fatalf("interval = %v", cfg.Sensor.Interval)
	}
	if cfg.Sensor.Samples != 7 {
		t.Fatalf("samples = %d", cfg.Sensor.Samples)
	}
	if cfg.Gateway.Polynomial != "0.5 + 0.02*tilt" {
		t.Fatalf("polynomial = %q", cfg.Gateway.Polynomial)
	}
	if cfg.Gateway.Influx.Bucket != "brewing" {
		t.Fatalf("influx bucket = %q", cfg.Gateway.Influx.Bucket)
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Fatalf("log level = %v", cfg.Log.SlogLevel())
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Gateway.Name != "TiltedGateway" {
		t.Fatalf("gateway name = %q", cfg.Gateway.Name)
	}
	if cfg.Gateway.Listen != ":8787" {
		t.Fatalf("gateway listen = %q", cfg.Gateway.Listen)
	}
	if cfg.Sensor.Interval != 900*time.Second || cfg.Sensor.Samples != 5 {
		t.Fatalf("sensor defaults = %v / %d", cfg.Sensor.Interval, cfg.Sensor.Samples)
	}
	if cfg.Server.Listen != ":8080" || cfg.Server.Database != "tilted.db" {
		t.Fatalf("server defaults = %q / %q", cfg.Server.Listen, cfg.Server.Database)
	}
	if cfg.Server.LatestTTL != time.Hour {
		t.Fatalf("latest_ttl = %v", cfg.Server.LatestTTL)
	}
	if cfg.Log.SlogLevel() != slog.LevelInfo {
		t.Fatalf("default log level = %v", cfg.Log.SlogLevel())
	}
}

func TestSerialBaudDefaultOnlyWithPort(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
gateway:
  serial:
    port: /dev/ttyUSB0
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Gateway.Serial.Baud != 115200 {
		t.Fatalf("baud = %d", cfg.Gateway.Serial.Baud)
	}
	// A serial gateway does not get a UDP default bolted on.
	if cfg.Gateway.Listen != "" {
		t.Fatalf("listen defaulted alongside serial: %q", cfg.Gateway.Listen)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "sensor: [")); err == nil {
		t.Fatal("malformed YAML accepted")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

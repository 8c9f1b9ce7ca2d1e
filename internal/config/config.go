// Package config loads the shared YAML configuration consumed by the sensor
// simulator, the gateway and the ingestion server. Strings like the device
// name, the calibration polynomial and the forward URL are passed through
// opaquely; only the components that consume them interpret them.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Sensor  SensorConfig  `yaml:"sensor"`
	Gateway GatewayConfig `yaml:"gateway"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

type SensorConfig struct {
	DeviceID uint32        `yaml:"device_id"`
	Name     string        `yaml:"name"`     // default: tilt-<hex device id>
	Target   string        `yaml:"target"`   // gateway address (host:port)
	Interval time.Duration `yaml:"interval"` // report interval
	Samples  int           `yaml:"samples"`  // median filter window
	CSVFile  string        `yaml:"csv_file"` // optional tilt/temp replay file
}

type GatewayConfig struct {
	Name       string       `yaml:"name"`
	Listen     string       `yaml:"listen"` // UDP listen address
	Serial     SerialConfig `yaml:"serial"` // optional serial radio bridge
	Polynomial string       `yaml:"polynomial"`
	ForwardURL string       `yaml:"forward_url"`
	Influx     InfluxConfig `yaml:"influx"`
}

type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud_rate"`
}

type InfluxConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

type ServerConfig struct {
	Listen     string        `yaml:"listen"`
	Database   string        `yaml:"database"`
	ForwardURL string        `yaml:"forward_url"`
	LatestTTL  time.Duration `yaml:"latest_ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

var logLevels = map[string]slog.Level{
	"DEBUG": slog.LevelDebug,
	"INFO":  slog.LevelInfo,
	"WARN":  slog.LevelWarn,
	"ERROR": slog.LevelError,
}

// SlogLevel maps the configured level name, defaulting to INFO on anything
// unrecognized.
func (l LogConfig) SlogLevel() slog.Level {
	if lvl, ok := logLevels[l.Level]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// Load reads the YAML file and applies defaults. Sections a binary does not
// use may stay empty; each binary validates its own section.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Sensor.Name == "" && c.Sensor.DeviceID != 0 {
		c.Sensor.Name = fmt.Sprintf("tilt-%08x", c.Sensor.DeviceID)
	}
	if c.Sensor.Interval <= 0 {
		c.Sensor.Interval = 900 * time.Second
	}
	if c.Sensor.Samples <= 0 {
		c.Sensor.Samples = 5
	}
	if c.Gateway.Name == "" {
		c.Gateway.Name = "TiltedGateway"
	}
	if c.Gateway.Listen == "" && c.Gateway.Serial.Port == "" {
		c.Gateway.Listen = ":8787"
	}
	if c.Gateway.Serial.Port != "" && c.Gateway.Serial.Baud <= 0 {
		c.Gateway.Serial.Baud = 115200
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Database == "" {
		c.Server.Database = "tilted.db"
	}
	if c.Server.LatestTTL <= 0 {
		c.Server.LatestTTL = time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "INFO"
	}
}
